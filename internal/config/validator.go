package config

import (
	"fmt"
	"path"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "session.history_limit")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateSession()...)
	errors = append(errors, c.validateTurn()...)
	errors = append(errors, c.validateFiles()...)
	errors = append(errors, c.validateStore()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateServer validates the ServerConfig
func (c *Config) validateServer() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Server.Addr) == "" {
		errors = append(errors, ValidationError{
			Field:   "server.addr",
			Value:   c.Server.Addr,
			Message: "must not be empty",
		})
	}

	return errors
}

// validateSession validates the SessionConfig
func (c *Config) validateSession() []ValidationError {
	var errors []ValidationError

	if c.Session.HistoryLimit < 1 {
		errors = append(errors, ValidationError{
			Field:   "session.history_limit",
			Value:   c.Session.HistoryLimit,
			Message: "must be at least 1",
		})
	}
	if c.Session.LookupTimeoutMs < 1 {
		errors = append(errors, ValidationError{
			Field:   "session.lookup_timeout_ms",
			Value:   c.Session.LookupTimeoutMs,
			Message: "must be positive",
		})
	}
	if c.Session.MaintenanceIntervalMs < 1 {
		errors = append(errors, ValidationError{
			Field:   "session.maintenance_interval_ms",
			Value:   c.Session.MaintenanceIntervalMs,
			Message: "must be positive",
		})
	}
	if !slices.Contains(ValidResyncPolicies(), c.Session.ResyncPolicy) {
		errors = append(errors, ValidationError{
			Field:   "session.resync_policy",
			Value:   c.Session.ResyncPolicy,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidResyncPolicies(), ", ")),
		})
	}

	return errors
}

// validateTurn validates the TurnConfig
func (c *Config) validateTurn() []ValidationError {
	var errors []ValidationError

	if c.Turn.IdleTimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "turn.idle_timeout_seconds",
			Value:   c.Turn.IdleTimeoutSeconds,
			Message: "must be non-negative (0 disables idle expiry)",
		})
	}

	return errors
}

// validateFiles validates the FilesConfig
func (c *Config) validateFiles() []ValidationError {
	var errors []ValidationError

	for _, pattern := range c.Files.Allow {
		if pattern == "" {
			errors = append(errors, ValidationError{
				Field:   "files.allow",
				Value:   pattern,
				Message: "patterns must not be empty",
			})
			continue
		}
		if path.IsAbs(pattern) {
			errors = append(errors, ValidationError{
				Field:   "files.allow",
				Value:   pattern,
				Message: "patterns must be relative",
			})
		}
	}

	return errors
}

// validateStore validates the StoreConfig
func (c *Config) validateStore() []ValidationError {
	var errors []ValidationError

	if !IsValidStoreDriver(c.Store.Driver) {
		errors = append(errors, ValidationError{
			Field:   "store.driver",
			Value:   c.Store.Driver,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidStoreDrivers(), ", ")),
		})
	}
	if c.Store.Driver == "postgres" && strings.TrimSpace(c.Store.PostgresURL) == "" {
		errors = append(errors, ValidationError{
			Field:   "store.postgres_url",
			Value:   c.Store.PostgresURL,
			Message: "required when store.driver is postgres",
		})
	}
	if c.Store.QueueSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "store.queue_size",
			Value:   c.Store.QueueSize,
			Message: "must be at least 1",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
