package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tasktalk/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TASKTALK_MODEL", "TASKTALK_TEMPERATURE", "TASKTALK_DATABASE", "TASKTALK_API_KEY", "TASKTALK_TIMEOUT", "GOOGLE_API_KEY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestNew_DefaultSettings(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if cfg.Settings.Model != config.DefaultModel {
		t.Errorf("expected model %q, got %q", config.DefaultModel, cfg.Settings.Model)
	}
	if cfg.Settings.Database != filepath.Join(dir, "tasks.db") {
		t.Errorf("unexpected database path %q", cfg.Settings.Database)
	}
	if cfg.SessionPath() != filepath.Join(dir, "session.yaml") {
		t.Errorf("unexpected session path %q", cfg.SessionPath())
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := config.DefaultConfigDir(); got != filepath.Join("/tmp/xdg", "tasktalk") {
		t.Errorf("unexpected dir %q", got)
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, _ := config.New(t.TempDir())

	if err := cfg.LoadSettings(); err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if cfg.Settings.Temperature != config.DefaultTemperature {
		t.Errorf("expected temperature %v, got %v", config.DefaultTemperature, cfg.Settings.Temperature)
	}
	if cfg.Settings.Timeout != config.DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", config.DefaultTimeout, cfg.Settings.Timeout)
	}
	if cfg.Settings.APIKey != "" {
		t.Errorf("expected no api key, got %q", cfg.Settings.APIKey)
	}
	if cfg.HasModelCredentials() {
		t.Error("expected no model credentials")
	}
}

func TestLoadSettings_File(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	data := "model: gemini-2.0-flash\ntemperature: 0.2\ndatabase: /tmp/other.db\napi_key: from-file\ntimeout: 15s\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, _ := config.New(dir)

	if err := cfg.LoadSettings(); err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	want := config.Settings{
		Model:       "gemini-2.0-flash",
		Temperature: 0.2,
		Database:    "/tmp/other.db",
		APIKey:      "from-file",
		Timeout:     15 * time.Second,
	}
	if cfg.Settings != want {
		t.Errorf("got %+v, want %+v", cfg.Settings, want)
	}
	if !cfg.HasModelCredentials() {
		t.Error("expected api key to count as credentials")
	}
}

func TestLoadSettings_EnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("model: from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKTALK_MODEL", "from-env")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	cfg, _ := config.New(dir)

	if err := cfg.LoadSettings(); err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if cfg.Settings.Model != "from-env" {
		t.Errorf("expected env model, got %q", cfg.Settings.Model)
	}
	if cfg.Settings.APIKey != "google-key" {
		t.Errorf("expected GOOGLE_API_KEY fallback, got %q", cfg.Settings.APIKey)
	}
}

func TestLoadSettings_InvalidFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("model: [unclosed\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, _ := config.New(dir)

	err := cfg.LoadSettings()
	if err == nil || !strings.Contains(err.Error(), "invalid config.yaml") {
		t.Errorf("expected invalid config error, got %v", err)
	}
}

func TestHasToken(t *testing.T) {
	dir := t.TempDir()
	cfg, _ := config.New(dir)
	if cfg.HasToken() || cfg.HasOAuthClient() {
		t.Fatal("expected no credential files")
	}

	for _, name := range []string{"token.json", "oauth_client.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if !cfg.HasModelCredentials() {
		t.Error("expected OAuth files to count as credentials")
	}
	if err := cfg.RemoveToken(); err != nil {
		t.Fatalf("RemoveToken failed: %v", err)
	}
	if cfg.HasToken() {
		t.Error("expected token removed")
	}
}
