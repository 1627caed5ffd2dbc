package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.HTTP.Port != 9090 {
		t.Fatalf("HTTP.Port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.Retry.MaxRetries != 3 {
		t.Fatalf("Retry.MaxRetries = %d, want 3", cfg.Retry.MaxRetries)
	}
	if cfg.Breaker.MaxFailures != 3 {
		t.Fatalf("Breaker.MaxFailures = %d, want 3", cfg.Breaker.MaxFailures)
	}
	if !cfg.Menu.ContinueOnErrorPrompt {
		t.Fatal("expected ContinueOnErrorPrompt to default true")
	}
}

func TestLoadFromFile_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[http]
port = 8081

[retry]
max_retries = 5
delay_seconds = 0.25
backoff = 1.5

[breaker]
max_failures = 10
reset_timeout_seconds = 30

[menu]
never_confirm = true
continue_on_error_prompt = false
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.HTTP.Port != 8081 {
		t.Fatalf("HTTP.Port = %d, want 8081", cfg.HTTP.Port)
	}
	if cfg.Retry.MaxRetries != 5 {
		t.Fatalf("Retry.MaxRetries = %d, want 5", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.Delay != 250*time.Millisecond {
		t.Fatalf("Retry.Delay = %v, want 250ms", cfg.Retry.Delay)
	}
	if cfg.Breaker.ResetTimeout != 30*time.Second {
		t.Fatalf("Breaker.ResetTimeout = %v, want 30s", cfg.Breaker.ResetTimeout)
	}
	if !cfg.Menu.NeverConfirm {
		t.Fatal("expected NeverConfirm to be true")
	}
	if cfg.Menu.ContinueOnErrorPrompt {
		t.Fatal("expected ContinueOnErrorPrompt to be false")
	}
}

func TestLoadFromFile_OmittedMenuKeysKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[http]
port = 8081
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Menu.NeverConfirm {
		t.Fatal("expected NeverConfirm to keep its default of false")
	}
	if !cfg.Menu.ContinueOnErrorPrompt {
		t.Fatal("expected ContinueOnErrorPrompt to keep its default of true when omitted from the file")
	}
}

func TestLoadWithFile_EnvOverridesWin(t *testing.T) {
	t.Setenv("ACTIONMENU_CONFIG", "")
	t.Setenv("ACTIONMENU_HTTP_PORT", "7000")
	t.Setenv("ACTIONMENU_NEVER_CONFIRM", "true")

	cfg, err := LoadWithFile()
	if err != nil {
		t.Fatalf("LoadWithFile: %v", err)
	}
	if cfg.HTTP.Port != 7000 {
		t.Fatalf("HTTP.Port = %d, want 7000", cfg.HTTP.Port)
	}
	if !cfg.Menu.NeverConfirm {
		t.Fatal("expected env override to set NeverConfirm")
	}
}

func TestLoadFromFile_MissingFileErrors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected an error loading a nonexistent file")
	}
}
