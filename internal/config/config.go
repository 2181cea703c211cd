package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigDir  = ".rag-chat"
	DefaultConfigFile = "config.yaml"
	DefaultEnvFile    = ".env"
	EnvPrefix         = "RAGCHAT"
)

// Config represents the application configuration
type Config struct {
	Backend BackendConfig `yaml:"backend" mapstructure:"backend"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	UI      UIConfig      `yaml:"ui" mapstructure:"ui"`
}

// BackendConfig locates the RAG backend
type BackendConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// Timeout bounds every backend request. Zero waits forever.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// StorageConfig holds client-local storage locations
type StorageConfig struct {
	DBPath string `yaml:"db_path" mapstructure:"db_path" validate:"required"`
}

// LoggingConfig controls the debug log file and its rotation
type LoggingConfig struct {
	File       string `yaml:"file" mapstructure:"file" validate:"required"`
	Level      string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb" validate:"gt=0"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days" validate:"gte=0"`
}

// UIConfig holds terminal presentation settings
type UIConfig struct {
	// Theme is a bubbletint theme id, e.g. "chalk" or "dracula"
	Theme string `yaml:"theme" mapstructure:"theme"`
}

// DefaultConfig returns the configuration used when no file exists, rooted
// at the given config directory.
func DefaultConfig(configDir string) *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 5 * time.Minute,
		},
		Storage: StorageConfig{
			DBPath: filepath.Join(configDir, "db"),
		},
		Logging: LoggingConfig{
			File:       filepath.Join(configDir, "logs", "rag-chat.log"),
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		UI: UIConfig{
			Theme: "chalk",
		},
	}
}

// GetConfigDir returns ~/.rag-chat
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, DefaultConfigDir), nil
}

// Load reads the config file at path, writing defaults there first if it does
// not exist. RAGCHAT_* environment variables override file values, e.g.
// RAGCHAT_BACKEND_BASE_URL. A .env file next to the config file is loaded
// into the environment first; variables already set win.
func Load(path string) (*Config, error) {
	configDir := filepath.Dir(path)
	defaults := DefaultConfig(configDir)

	envFile := filepath.Join(configDir, DefaultEnvFile)
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		// Write failure is not fatal: the app still runs on defaults
		_ = Save(path, defaults)
	}

	v := viper.New()
	setDefaults(v, defaults)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("backend.base_url", d.Backend.BaseURL)
	v.SetDefault("backend.timeout", d.Backend.Timeout)
	v.SetDefault("storage.db_path", d.Storage.DBPath)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	v.SetDefault("ui.theme", d.UI.Theme)
}

// Save writes the configuration as YAML
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate validates the configuration values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed %q validation (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}

	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("backend.base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.base_url must use http or https, got %q", c.Backend.BaseURL)
	}

	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative, got %s", c.Backend.Timeout)
	}

	return nil
}
