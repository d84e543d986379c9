package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/claude/yeabuddy/internal/session"
)

// Config is the client configuration read from client.toml.
type Config struct {
	ServerURL          string  `toml:"server_url"`
	Timeout            string  `toml:"timeout"`
	DefaultRestSeconds int     `toml:"default_rest_seconds"`
	WeightStep         float64 `toml:"weight_step"`
}

// RequestTimeout parses Timeout, falling back to 10s.
func (c Config) RequestTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Timeout); err == nil && d > 0 {
		return d
	}
	return 10 * time.Second
}

func defaultConfig() Config {
	return Config{
		ServerURL:          "http://localhost:8080",
		Timeout:            "10s",
		DefaultRestSeconds: session.DefaultRestSeconds,
		WeightStep:         2.5,
	}
}

// ConfigPath returns ~/.config/yeabuddy/client.toml.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "yeabuddy", "client.toml"), nil
}

// LoadConfig reads path on top of the defaults. A missing file is not an
// error. Variables from a .env file in the working directory are loaded
// first, and YEABUDDY_SERVER_URL overrides the file.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("loading .env: %w", err)
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	if v := os.Getenv("YEABUDDY_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if cfg.DefaultRestSeconds < 0 {
		return cfg, fmt.Errorf("default_rest_seconds must not be negative")
	}
	if cfg.WeightStep <= 0 {
		cfg.WeightStep = 2.5
	}
	return cfg, nil
}
