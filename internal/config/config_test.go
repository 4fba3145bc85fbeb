package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Verify default server config
	if cfg.Server.Addr != ":8737" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8737")
	}

	// Verify default session config
	if cfg.Session.HistoryLimit != 128 {
		t.Errorf("Session.HistoryLimit = %d, want 128", cfg.Session.HistoryLimit)
	}
	if cfg.Session.LookupTimeoutMs != 3000 {
		t.Errorf("Session.LookupTimeoutMs = %d, want 3000", cfg.Session.LookupTimeoutMs)
	}
	if cfg.Session.ResyncPolicy != "reject" {
		t.Errorf("Session.ResyncPolicy = %q, want reject", cfg.Session.ResyncPolicy)
	}

	// Verify default turn config
	if cfg.Turn.IdleTimeoutSeconds != 0 {
		t.Errorf("Turn.IdleTimeoutSeconds = %d, want 0 (disabled)", cfg.Turn.IdleTimeoutSeconds)
	}

	// Verify default store config
	if cfg.Store.Driver != "memory" {
		t.Errorf("Store.Driver = %q, want memory", cfg.Store.Driver)
	}
	if cfg.Store.QueueSize != 256 {
		t.Errorf("Store.QueueSize = %d, want 256", cfg.Store.QueueSize)
	}

	// Verify default logging config
	if !cfg.Logging.Enabled {
		t.Error("Logging.Enabled should be true by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("Default() config should validate cleanly, got: %v", ValidationErrors(errs))
	}
}

func TestDurationAccessors(t *testing.T) {
	cfg := Default()

	if got := cfg.Session.LookupTimeout(); got != 3*time.Second {
		t.Errorf("LookupTimeout() = %v, want 3s", got)
	}
	if got := cfg.Session.MaintenanceInterval(); got != 5*time.Second {
		t.Errorf("MaintenanceInterval() = %v, want 5s", got)
	}
	if got := cfg.Turn.IdleTimeout(); got != 0 {
		t.Errorf("IdleTimeout() = %v, want 0", got)
	}

	cfg.Turn.IdleTimeoutSeconds = 90
	if got := cfg.Turn.IdleTimeout(); got != 90*time.Second {
		t.Errorf("IdleTimeout() = %v, want 90s", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  addr: "127.0.0.1:9001"
session:
  history_limit: 32
  resync_policy: snapshot
turn:
  idle_timeout_seconds: 120
files:
  allow:
    - "src/**/*.go"
    - "docs/*.md"
store:
  driver: memory
  queue_size: 64
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	SetDefaults()
	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("read config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9001" {
		t.Errorf("Server.Addr = %q, want 127.0.0.1:9001", cfg.Server.Addr)
	}
	if cfg.Session.HistoryLimit != 32 {
		t.Errorf("Session.HistoryLimit = %d, want 32", cfg.Session.HistoryLimit)
	}
	if cfg.Session.ResyncPolicy != "snapshot" {
		t.Errorf("Session.ResyncPolicy = %q, want snapshot", cfg.Session.ResyncPolicy)
	}
	if cfg.Turn.IdleTimeoutSeconds != 120 {
		t.Errorf("Turn.IdleTimeoutSeconds = %d, want 120", cfg.Turn.IdleTimeoutSeconds)
	}
	if len(cfg.Files.Allow) != 2 {
		t.Errorf("Files.Allow = %v, want 2 patterns", cfg.Files.Allow)
	}
	// Values not in the file keep their defaults
	if cfg.Session.LookupTimeoutMs != 3000 {
		t.Errorf("Session.LookupTimeoutMs = %d, want default 3000", cfg.Session.LookupTimeoutMs)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()
	viper.SetEnvPrefix("COEDIT")
	viper.SetEnvKeyReplacer(envKeyReplacer())
	viper.AutomaticEnv()
	t.Setenv("COEDIT_SERVER_ADDR", ":7000")
	t.Setenv("COEDIT_STORE_DRIVER", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Server.Addr = %q, want :7000 from env", cfg.Server.Addr)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()
	viper.Set("store.driver", "cassandra")

	if _, err := Load(); err == nil {
		t.Fatal("Load should fail for an unknown store driver")
	}
}

func TestGetFallsBackToDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()
	viper.Set("session.history_limit", -5)

	cfg := Get()
	if cfg.Session.HistoryLimit != 128 {
		t.Errorf("Get() should fall back to defaults on invalid config, got history_limit %d",
			cfg.Session.HistoryLimit)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigDir(); got != filepath.Join("/tmp/xdg", "coedit") {
		t.Errorf("ConfigDir() = %q with XDG_CONFIG_HOME set", got)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	if got := ConfigDir(); got != filepath.Join(home, ".config", "coedit") {
		t.Errorf("ConfigDir() = %q, want under ~/.config", got)
	}
}
