package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents the complete coedit server configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Session SessionConfig `mapstructure:"session"`
	Turn    TurnConfig    `mapstructure:"turn"`
	Files   FilesConfig   `mapstructure:"files"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls the WebSocket listener
type ServerConfig struct {
	// Addr is the host:port the server listens on
	Addr string `mapstructure:"addr"`
	// AllowedOrigins restricts WebSocket upgrades to the listed Origin
	// hosts. Empty allows any origin.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SessionConfig controls session registry behavior
type SessionConfig struct {
	// HistoryLimit is how many accepted operations are retained per file
	// for rebasing late edits. Clients further behind than this must resync.
	HistoryLimit int `mapstructure:"history_limit"`
	// LookupTimeoutMs bounds the synchronous session-existence check on
	// join (in milliseconds)
	LookupTimeoutMs int `mapstructure:"lookup_timeout_ms"`
	// MaintenanceIntervalMs is how often background session maintenance
	// runs (in milliseconds)
	MaintenanceIntervalMs int `mapstructure:"maintenance_interval_ms"`
	// ResyncPolicy selects stale-edit recovery: "reject" sends a bare
	// rejection, "snapshot" attaches the current version map
	ResyncPolicy string `mapstructure:"resync_policy"`
}

// TurnConfig controls turn-based mutual exclusion
type TurnConfig struct {
	// IdleTimeoutSeconds auto-releases a held turn after this many seconds
	// without edit activity (0 = disabled)
	IdleTimeoutSeconds int `mapstructure:"idle_timeout_seconds"`
}

// FilesConfig controls which file paths participants may open
type FilesConfig struct {
	// Allow is a list of glob patterns (doublestar syntax, e.g. "src/**/*.go").
	// Empty allows any clean relative path.
	Allow []string `mapstructure:"allow"`
}

// StoreConfig controls the persistence collaborator
type StoreConfig struct {
	// Driver selects the backing store: "memory" or "postgres"
	Driver string `mapstructure:"driver"`
	// PostgresURL is the connection string for the postgres driver
	PostgresURL string `mapstructure:"postgres_url"`
	// RedisAddr enables the Redis cursor cache and cross-node cursor
	// fan-out when non-empty (host:port)
	RedisAddr string `mapstructure:"redis_addr"`
	// QueueSize is the async write queue depth; writes beyond it are
	// dropped with a warning rather than stalling the engine
	QueueSize int `mapstructure:"queue_size"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	// Enabled controls whether logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the directory log files are written to. Empty logs to stderr.
	Dir string `mapstructure:"dir"`
}

// LookupTimeout returns the join lookup timeout as a time.Duration
func (c *SessionConfig) LookupTimeout() time.Duration {
	return time.Duration(c.LookupTimeoutMs) * time.Millisecond
}

// MaintenanceInterval returns the maintenance interval as a time.Duration
func (c *SessionConfig) MaintenanceInterval() time.Duration {
	return time.Duration(c.MaintenanceIntervalMs) * time.Millisecond
}

// IdleTimeout returns the turn idle timeout as a time.Duration (0 means disabled)
func (c *TurnConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8737",
			AllowedOrigins: []string{},
		},
		Session: SessionConfig{
			HistoryLimit:          128,
			LookupTimeoutMs:       3000,
			MaintenanceIntervalMs: 5000,
			ResyncPolicy:          "reject",
		},
		Turn: TurnConfig{
			IdleTimeoutSeconds: 0, // Disabled by default; holders keep the turn until they act
		},
		Files: FilesConfig{
			Allow: []string{},
		},
		Store: StoreConfig{
			Driver:      "memory",
			PostgresURL: "",
			RedisAddr:   "",
			QueueSize:   256,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Server defaults
	viper.SetDefault("server.addr", defaults.Server.Addr)
	viper.SetDefault("server.allowed_origins", defaults.Server.AllowedOrigins)

	// Session defaults
	viper.SetDefault("session.history_limit", defaults.Session.HistoryLimit)
	viper.SetDefault("session.lookup_timeout_ms", defaults.Session.LookupTimeoutMs)
	viper.SetDefault("session.maintenance_interval_ms", defaults.Session.MaintenanceIntervalMs)
	viper.SetDefault("session.resync_policy", defaults.Session.ResyncPolicy)

	// Turn defaults
	viper.SetDefault("turn.idle_timeout_seconds", defaults.Turn.IdleTimeoutSeconds)

	// Files defaults
	viper.SetDefault("files.allow", defaults.Files.Allow)

	// Store defaults
	viper.SetDefault("store.driver", defaults.Store.Driver)
	viper.SetDefault("store.postgres_url", defaults.Store.PostgresURL)
	viper.SetDefault("store.redis_addr", defaults.Store.RedisAddr)
	viper.SetDefault("store.queue_size", defaults.Store.QueueSize)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// Watch reloads the config file on change and hands each valid new Config
// to onChange. Invalid edits are skipped so a typo never takes down a
// running server.
func Watch(onChange func(*Config)) {
	viper.OnConfigChange(func(fsnotify.Event) {
		cfg, err := Load()
		if err != nil {
			return
		}
		onChange(cfg)
	})
	viper.WatchConfig()
}

// EnvPrefix is the prefix for environment variable overrides
// (e.g. COEDIT_SERVER_ADDR overrides server.addr)
const EnvPrefix = "COEDIT"

// envKeyReplacer maps dotted config keys to environment variable suffixes
// (session.history_limit -> SESSION_HISTORY_LIMIT)
func envKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// BindEnv wires the COEDIT_ environment variable overrides into viper
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(envKeyReplacer())
	viper.AutomaticEnv()
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "coedit")
	}
	// Fall back to ~/.config/coedit
	home, err := os.UserHomeDir()
	if err != nil {
		return ".coedit"
	}
	return filepath.Join(home, ".config", "coedit")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidStoreDrivers returns the list of valid store driver values
func ValidStoreDrivers() []string {
	return []string{"memory", "postgres"}
}

// ValidResyncPolicies returns the list of valid resync policy values
func ValidResyncPolicies() []string {
	return []string{"reject", "snapshot"}
}

// IsValidStoreDriver checks if the given driver is valid
func IsValidStoreDriver(driver string) bool {
	for _, valid := range ValidStoreDrivers() {
		if driver == valid {
			return true
		}
	}
	return false
}
