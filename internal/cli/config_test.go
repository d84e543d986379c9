package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadConfigMissingFile verifies defaults are used when no file exists.
func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("YEABUDDY_SERVER_URL", "")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != defaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

// TestLoadConfigFile verifies values from client.toml replace the defaults.
func TestLoadConfigFile(t *testing.T) {
	t.Setenv("YEABUDDY_SERVER_URL", "")
	path := writeConfig(t, `
server_url = "http://gym-box:9000"
timeout = "3s"
default_rest_seconds = 120
weight_step = 1.25
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerURL != "http://gym-box:9000" {
		t.Errorf("server_url = %q", cfg.ServerURL)
	}
	if cfg.RequestTimeout() != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", cfg.RequestTimeout())
	}
	if cfg.DefaultRestSeconds != 120 || cfg.WeightStep != 1.25 {
		t.Errorf("cfg = %+v", cfg)
	}
}

// TestLoadConfigEnvOverride verifies YEABUDDY_SERVER_URL wins over the file.
func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("YEABUDDY_SERVER_URL", "http://override:1234")
	cfg, err := LoadConfig(writeConfig(t, `server_url = "http://file:1"`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerURL != "http://override:1234" {
		t.Errorf("server_url = %q, want env override", cfg.ServerURL)
	}
}

// TestLoadConfigInvalid verifies malformed TOML and negative rest are rejected.
func TestLoadConfigInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"syntax":        `server_url = `,
		"negative rest": `default_rest_seconds = -5`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// TestRequestTimeoutFallback verifies an unparsable timeout falls back to 10s.
func TestRequestTimeoutFallback(t *testing.T) {
	if got := (Config{Timeout: "later"}).RequestTimeout(); got != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", got)
	}
}
