// Package config handles the XDG configuration directory, file paths and the
// settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "tasktalk"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// SettingsFile is the optional settings filename.
	SettingsFile = "config.yaml"

	// SessionFile holds the logged-in identity and conversation context.
	SessionFile = "session.yaml"

	// DatabaseFile is the default task store filename.
	DatabaseFile = "tasks.db"

	// EnvPrefix prefixes environment overrides (TASKTALK_MODEL, ...).
	EnvPrefix = "TASKTALK"

	DefaultModel       = "gemini-1.5-pro-latest"
	DefaultTemperature = 0.05
	DefaultTimeout     = 60 * time.Second
)

// ErrNoModelCredentials is returned when neither an API key nor an OAuth
// token is available for model calls.
var ErrNoModelCredentials = errors.New("no model credentials (set GOOGLE_API_KEY or run: tasktalk auth)")

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings are loaded from config.yaml and the environment.
	Settings Settings
}

// Settings are the tunables read from config.yaml.
type Settings struct {
	// Model is the generative model name, without the "models/" prefix.
	Model string

	// Temperature is passed to the model on every call.
	Temperature float64

	// Database is the task store path.
	Database string

	// APIKey authenticates model calls. When empty, the OAuth token from
	// `tasktalk auth` is used instead.
	APIKey string

	// Timeout bounds a single model call.
	Timeout time.Duration
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tasktalk or $HOME/.config/tasktalk.
// Settings start at their defaults; call LoadSettings to read config.yaml.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	c := &Config{Dir: dir}
	c.Settings = c.defaultSettings()
	return c, nil
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

func (c *Config) defaultSettings() Settings {
	return Settings{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		Database:    filepath.Join(c.Dir, DatabaseFile),
		Timeout:     DefaultTimeout,
	}
}

// LoadSettings reads config.yaml (if present) and environment overrides.
// GOOGLE_API_KEY is honoured as a fallback for api_key.
func (c *Config) LoadSettings() error {
	defaults := c.defaultSettings()

	v := viper.New()
	v.SetDefault("model", defaults.Model)
	v.SetDefault("temperature", defaults.Temperature)
	v.SetDefault("database", defaults.Database)
	v.SetDefault("api_key", "")
	v.SetDefault("timeout", defaults.Timeout)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	if err := v.BindEnv("api_key", EnvPrefix+"_API_KEY", "GOOGLE_API_KEY"); err != nil {
		return fmt.Errorf("bind api_key: %w", err)
	}

	if _, err := os.Stat(c.SettingsPath()); err == nil {
		v.SetConfigFile(c.SettingsPath())
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
	}

	c.Settings = Settings{
		Model:       v.GetString("model"),
		Temperature: v.GetFloat64("temperature"),
		Database:    v.GetString("database"),
		APIKey:      v.GetString("api_key"),
		Timeout:     v.GetDuration("timeout"),
	}
	if c.Settings.Timeout <= 0 {
		c.Settings.Timeout = DefaultTimeout
	}
	return nil
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// SessionPath returns the path to the persisted session.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
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

// HasModelCredentials reports whether model calls can be authenticated.
func (c *Config) HasModelCredentials() bool {
	return c.Settings.APIKey != "" || (c.HasOAuthClient() && c.HasToken())
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
