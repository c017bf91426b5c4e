// Package config handles the XDG configuration directory and the optional
// config.toml inside it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "anto"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.toml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// DefaultDataFile is the task file used by the file backend.
	DefaultDataFile = "tasks.json"

	// DefaultGoogleList is the Google Tasks list that mirrors the session.
	DefaultGoogleList = "anto"
)

// Backend names accepted in config.toml and ANTO_BACKEND.
const (
	BackendFile   = "file"
	BackendGoogle = "google"
	BackendMySQL  = "mysql"
)

// ErrUnknownBackend is returned for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown backend")

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `toml:"-"`

	// Debug enables debug logging.
	Debug bool `toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `toml:"-"`

	// Backend selects the storage backend.
	Backend string `toml:"backend"`

	// DataFile is the file backend's task file.
	// Relative paths are resolved against Dir.
	DataFile string `toml:"data_file"`

	// LogLevel is the minimum level for log output.
	LogLevel string `toml:"log_level"`

	Google GoogleConfig `toml:"google"`
	MySQL  MySQLConfig  `toml:"mysql"`
}

// GoogleConfig configures the Google Tasks backend.
type GoogleConfig struct {
	List string `toml:"list"`
}

// MySQLConfig configures the MySQL backend.
type MySQLConfig struct {
	DSN string `toml:"dsn"`
}

// New creates a Config with defaults for the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/anto or $HOME/.config/anto.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:      dir,
		Backend:  BackendFile,
		DataFile: DefaultDataFile,
		LogLevel: "warn",
		Google:   GoogleConfig{List: DefaultGoogleList},
	}, nil
}

// Load creates a Config and applies config.toml and environment overrides.
// A missing config.toml is not an error.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(cfg.FilePath()); err == nil {
		if _, err := toml.DecodeFile(cfg.FilePath(), cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", cfg.FilePath(), err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file %s: %w", cfg.FilePath(), err)
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromEnv applies ANTO_* environment overrides.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("ANTO_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("ANTO_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("ANTO_MYSQL_DSN"); v != "" {
		cfg.MySQL.DSN = v
	}
}

// Validate checks settings that would otherwise fail later with a less
// useful message.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendFile, BackendGoogle:
	case BackendMySQL:
		if c.MySQL.DSN == "" {
			return fmt.Errorf("mysql backend requires mysql.dsn")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	if strings.TrimSpace(c.Google.List) == "" {
		c.Google.List = DefaultGoogleList
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.toml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// DataPath returns the resolved path of the file backend's task file.
func (c *Config) DataPath() string {
	if filepath.IsAbs(c.DataFile) {
		return c.DataFile
	}
	return filepath.Join(c.Dir, c.DataFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
