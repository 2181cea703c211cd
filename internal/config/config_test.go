package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected default config file to be written: %v", err)
	}
	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("Expected default base URL, got %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 5*time.Minute {
		t.Errorf("Expected default timeout 5m, got %s", cfg.Backend.Timeout)
	}
	if cfg.UI.Theme != "chalk" {
		t.Errorf("Expected default theme chalk, got %s", cfg.UI.Theme)
	}
	if cfg.Storage.DBPath != filepath.Join(dir, "db") {
		t.Errorf("Unexpected db path %s", cfg.Storage.DBPath)
	}
}

func TestLoadReadsFileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	content := `backend:
  base_url: http://rag.internal:9000
  timeout: 30s
storage:
  db_path: /tmp/ragdb
logging:
  file: /tmp/rag.log
  level: debug
  max_size_mb: 2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Backend.BaseURL != "http://rag.internal:9000" {
		t.Errorf("Unexpected base URL %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 30*time.Second {
		t.Errorf("Unexpected timeout %s", cfg.Backend.Timeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Unexpected level %s", cfg.Logging.Level)
	}
	// Keys missing from the file keep their defaults
	if cfg.Logging.MaxBackups != 5 {
		t.Errorf("Expected default max backups, got %d", cfg.Logging.MaxBackups)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	t.Setenv("RAGCHAT_BACKEND_BASE_URL", "https://override.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend.BaseURL != "https://override.example" {
		t.Errorf("Expected env override, got %s", cfg.Backend.BaseURL)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	env := "RAGCHAT_UI_THEME=dracula\nRAGCHAT_LOGGING_LEVEL=warn\n"
	if err := os.WriteFile(filepath.Join(dir, DefaultEnvFile), []byte(env), 0600); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	// An already exported variable beats the .env value
	t.Setenv("RAGCHAT_LOGGING_LEVEL", "error")
	t.Cleanup(func() { os.Unsetenv("RAGCHAT_UI_THEME") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UI.Theme != "dracula" {
		t.Errorf("Expected theme from .env, got %s", cfg.UI.Theme)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Expected exported level to win, got %s", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	if err := os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid log level")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "Defaults valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "Bad scheme", mutate: func(c *Config) { c.Backend.BaseURL = "ftp://x" }, wantErr: true},
		{name: "Negative timeout", mutate: func(c *Config) { c.Backend.Timeout = -time.Second }, wantErr: true},
		{name: "Zero timeout allowed", mutate: func(c *Config) { c.Backend.Timeout = 0 }, wantErr: false},
		{name: "Empty db path", mutate: func(c *Config) { c.Storage.DBPath = "" }, wantErr: true},
		{name: "Zero log size", mutate: func(c *Config) { c.Logging.MaxSizeMB = 0 }, wantErr: true},
		{name: "Not a URL", mutate: func(c *Config) { c.Backend.BaseURL = "localhost" }, wantErr: true},
		{name: "Empty base URL", mutate: func(c *Config) { c.Backend.BaseURL = "" }, wantErr: true},
		{name: "Unknown level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: true},
		{name: "Negative backups", mutate: func(c *Config) { c.Logging.MaxBackups = -1 }, wantErr: true},
		{name: "Empty log file", mutate: func(c *Config) { c.Logging.File = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(t.TempDir())
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
