// ABOUTME: fitlife configuration management loaded through viper.
// ABOUTME: Reads the JSON config file, applies FITLIFE_ env overrides, and opens storage.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/fitlife/internal/session"
	"github.com/harperreed/fitlife/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides (FITLIFE_DATA_DIR, ...).
const EnvPrefix = "FITLIFE"

// Config stores fitlife tool configuration.
type Config struct {
	// DataDir is the root directory for fitlife.db and the session store.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/fitlife.
	DataDir string `json:"data_dir,omitempty" mapstructure:"data_dir"`

	// LogLevel is one of debug, info, warn, error, off.
	LogLevel string `json:"log_level,omitempty" mapstructure:"log_level"`

	// LogFormat is "console" or "json".
	LogFormat string `json:"log_format,omitempty" mapstructure:"log_format"`

	// MetricsAddr, when set, serves Prometheus metrics from the MCP server.
	MetricsAddr string `json:"metrics_addr,omitempty" mapstructure:"metrics_addr"`
}

var keys = []string{"data_dir", "log_level", "log_format", "metrics_addr"}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "warn"
	}
	return c.LogLevel
}

// DBPath is the SQLite file inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "fitlife.db")
}

// SessionDir is the Badger directory inside the data directory.
func (c *Config) SessionDir() string {
	return filepath.Join(c.GetDataDir(), "session")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite database in the data directory.
func (c *Config) OpenStorage(log zerolog.Logger) (*storage.DB, error) {
	return storage.Open(c.DBPath(), storage.WithLogger(log))
}

// OpenSession opens the Badger session store in the data directory.
func (c *Config) OpenSession() (*session.Session, error) {
	store, err := session.OpenBadgerStore(c.SessionDir())
	if err != nil {
		return nil, err
	}
	return session.New(store), nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "fitlife", "config.json")
}

// Load reads config from disk, then applies environment overrides.
// A missing file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	path := GetConfigPath()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
