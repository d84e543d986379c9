package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	MCP       MCPConfig       `yaml:"mcp"`
}

type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	RequestTimeout string `yaml:"request_timeout"`
	CORSOrigin     string `yaml:"cors_origin"`
}

// Timeout parses RequestTimeout. Empty means no timeout.
func (s ServerConfig) Timeout() time.Duration {
	d, _ := time.ParseDuration(s.RequestTimeout)
	return d
}

type StorageConfig struct {
	Driver         string `yaml:"driver"`
	SQLitePath     string `yaml:"sqlite_path"`
	LibSQLURL      string `yaml:"libsql_url"`
	MigrationsPath string `yaml:"migrations_path"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

func defaults() *Config {
	return &Config{
		Server:    ServerConfig{Host: "127.0.0.1", Port: 8080, RequestTimeout: "30s"},
		Storage:   StorageConfig{Driver: "memory", SQLitePath: "data/yeabuddy.db", MigrationsPath: "migrations"},
		Database:  DatabaseConfig{Port: 5432},
		Tailscale: TailscaleConfig{Hostname: "yeabuddy"},
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Fields missing from the file keep their defaults. Env vars use the prefix
// YEABUDDY_ and underscore-separated paths:
//
//	YEABUDDY_SERVER_HOST, YEABUDDY_SERVER_PORT, YEABUDDY_SERVER_CORS_ORIGIN,
//	YEABUDDY_STORAGE_DRIVER, YEABUDDY_STORAGE_SQLITE_PATH, YEABUDDY_STORAGE_LIBSQL_URL,
//	YEABUDDY_DB_HOST, YEABUDDY_DB_PORT, YEABUDDY_DB_NAME,
//	YEABUDDY_DB_USER, YEABUDDY_DB_PASSWORD, YEABUDDY_DB_SSLMODE,
//	YEABUDDY_TAILSCALE_ENABLED, YEABUDDY_MCP_ENABLED
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	envString("YEABUDDY_SERVER_HOST", &cfg.Server.Host)
	envInt("YEABUDDY_SERVER_PORT", &cfg.Server.Port)
	envString("YEABUDDY_SERVER_CORS_ORIGIN", &cfg.Server.CORSOrigin)

	envString("YEABUDDY_STORAGE_DRIVER", &cfg.Storage.Driver)
	envString("YEABUDDY_STORAGE_SQLITE_PATH", &cfg.Storage.SQLitePath)
	envString("YEABUDDY_STORAGE_LIBSQL_URL", &cfg.Storage.LibSQLURL)

	envString("YEABUDDY_DB_HOST", &cfg.Database.Host)
	envInt("YEABUDDY_DB_PORT", &cfg.Database.Port)
	envString("YEABUDDY_DB_NAME", &cfg.Database.Name)
	envString("YEABUDDY_DB_USER", &cfg.Database.User)
	envString("YEABUDDY_DB_PASSWORD", &cfg.Database.Password)
	envString("YEABUDDY_DB_SSLMODE", &cfg.Database.SSLMode)

	envBool("YEABUDDY_TAILSCALE_ENABLED", &cfg.Tailscale.Enabled)
	envBool("YEABUDDY_MCP_ENABLED", &cfg.MCP.Enabled)
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Server.RequestTimeout != "" {
		if _, err := time.ParseDuration(c.Server.RequestTimeout); err != nil {
			return fmt.Errorf("server.request_timeout: %w", err)
		}
	}

	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for sqlite")
		}
	case "libsql":
		if c.Storage.LibSQLURL == "" {
			return fmt.Errorf("storage.libsql_url is required for libsql")
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	default:
		return fmt.Errorf("storage.driver %q is not one of memory, postgres, sqlite, libsql", c.Storage.Driver)
	}

	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
