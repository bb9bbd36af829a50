package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeCredentialFile places a credentials.json under a fake home dir.
func writeCredentialFile(t *testing.T, home, apiKey string) {
	t.Helper()

	dir := filepath.Join(home, ".config", "moltbook")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	body := `{"api_key": "` + apiKey + `", "agent_name": "crabby"}`
	if err := os.WriteFile(filepath.Join(dir, "credentials.json"), []byte(body), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}
}

func TestLoadCredentials_ExplicitWins(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvAPIKey, "env-key")
	writeCredentialFile(t, home, "file-key")

	creds, err := LoadCredentials("explicit-key")
	if err != nil {
		t.Fatalf("LoadCredentials() failed: %v", err)
	}
	if creds.APIKey != "explicit-key" {
		t.Errorf("APIKey = %q, want explicit-key", creds.APIKey)
	}
}

func TestLoadCredentials_EnvBeforeFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvAPIKey, "env-key")
	writeCredentialFile(t, home, "file-key")

	creds, err := LoadCredentials("")
	if err != nil {
		t.Fatalf("LoadCredentials() failed: %v", err)
	}
	if creds.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", creds.APIKey)
	}
}

func TestLoadCredentials_FileFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvAPIKey, "")
	os.Unsetenv(EnvAPIKey)
	writeCredentialFile(t, home, "file-key")

	creds, err := LoadCredentials("")
	if err != nil {
		t.Fatalf("LoadCredentials() failed: %v", err)
	}
	if creds.APIKey != "file-key" {
		t.Errorf("APIKey = %q, want file-key", creds.APIKey)
	}
}

func TestLoadCredentials_NothingConfigured(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvAPIKey, "")
	os.Unsetenv(EnvAPIKey)

	creds, err := LoadCredentials("")
	if err != nil {
		t.Fatalf("LoadCredentials() failed with no sources: %v", err)
	}
	if creds.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", creds.APIKey)
	}
}

func TestLoadCredentials_BrokenFileSurfaces(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvAPIKey, "")
	os.Unsetenv(EnvAPIKey)

	dir := filepath.Join(home, ".config", "moltbook")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "credentials.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}

	if _, err := LoadCredentials(""); err == nil {
		t.Error("expected error for a present but malformed credential file")
	}
}
