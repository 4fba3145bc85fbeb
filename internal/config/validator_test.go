package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return Default()
}

func TestValidate_DefaultIsValid(t *testing.T) {
	if errs := validConfig().Validate(); len(errs) != 0 {
		t.Errorf("default config should be valid, got %d errors: %v", len(errs), ValidationErrors(errs))
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "empty server addr",
			mutate:    func(c *Config) { c.Server.Addr = "  " },
			wantField: "server.addr",
		},
		{
			name:      "zero history limit",
			mutate:    func(c *Config) { c.Session.HistoryLimit = 0 },
			wantField: "session.history_limit",
		},
		{
			name:      "negative lookup timeout",
			mutate:    func(c *Config) { c.Session.LookupTimeoutMs = -1 },
			wantField: "session.lookup_timeout_ms",
		},
		{
			name:      "zero maintenance interval",
			mutate:    func(c *Config) { c.Session.MaintenanceIntervalMs = 0 },
			wantField: "session.maintenance_interval_ms",
		},
		{
			name:      "unknown resync policy",
			mutate:    func(c *Config) { c.Session.ResyncPolicy = "retry" },
			wantField: "session.resync_policy",
		},
		{
			name:      "negative idle timeout",
			mutate:    func(c *Config) { c.Turn.IdleTimeoutSeconds = -10 },
			wantField: "turn.idle_timeout_seconds",
		},
		{
			name:      "empty allow pattern",
			mutate:    func(c *Config) { c.Files.Allow = []string{""} },
			wantField: "files.allow",
		},
		{
			name:      "absolute allow pattern",
			mutate:    func(c *Config) { c.Files.Allow = []string{"/etc/**"} },
			wantField: "files.allow",
		},
		{
			name:      "unknown store driver",
			mutate:    func(c *Config) { c.Store.Driver = "sqlite" },
			wantField: "store.driver",
		},
		{
			name:      "postgres without url",
			mutate:    func(c *Config) { c.Store.Driver = "postgres"; c.Store.PostgresURL = "" },
			wantField: "store.postgres_url",
		},
		{
			name:      "zero queue size",
			mutate:    func(c *Config) { c.Store.QueueSize = 0 },
			wantField: "store.queue_size",
		},
		{
			name:      "unknown log level",
			mutate:    func(c *Config) { c.Logging.Level = "trace" },
			wantField: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatalf("expected a validation error on %s", tt.wantField)
			}
			found := false
			for _, err := range errs {
				if err.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("no error on field %s, got: %v", tt.wantField, ValidationErrors(errs))
			}
		})
	}
}

func TestValidate_ValidVariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"snapshot resync policy", func(c *Config) { c.Session.ResyncPolicy = "snapshot" }},
		{"postgres with url", func(c *Config) {
			c.Store.Driver = "postgres"
			c.Store.PostgresURL = "postgres://coedit@localhost/coedit"
		}},
		{"glob patterns", func(c *Config) { c.Files.Allow = []string{"src/**/*.go", "*.md"} }},
		{"empty log level", func(c *Config) { c.Logging.Level = "" }},
		{"idle expiry enabled", func(c *Config) { c.Turn.IdleTimeoutSeconds = 300 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if errs := cfg.Validate(); len(errs) != 0 {
				t.Errorf("unexpected errors: %v", ValidationErrors(errs))
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "server.addr", Value: "", Message: "must not be empty"},
	}
	if !strings.Contains(errs.Error(), "server.addr") {
		t.Errorf("single error message = %q", errs.Error())
	}

	errs = append(errs, ValidationError{Field: "store.driver", Value: "x", Message: "bad"})
	msg := errs.Error()
	if !strings.Contains(msg, "2 validation errors") {
		t.Errorf("multi error message = %q", msg)
	}
	if ValidationErrors(nil).Error() != "" {
		t.Error("empty ValidationErrors should render empty string")
	}
}
