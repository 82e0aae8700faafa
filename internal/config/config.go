package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all previewd configuration.
type Config struct {
	Server   ServerConfig
	Sandbox  SandboxConfig
	Resolver ResolverConfig
	Logging  LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8800"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// SandboxConfig holds sandbox runtime configuration.
type SandboxConfig struct {
	BaseDir        string `envconfig:"SANDBOX_DIR" default:""`
	InstallCommand string `envconfig:"INSTALL_CMD" default:"npm install --no-audit --no-fund"`
	DevCommand     string `envconfig:"DEV_CMD" default:"npm run dev"`
	ShellCommand   string `envconfig:"SHELL_CMD" default:"/bin/bash"`
}

// ResolverConfig holds CDN dependency-resolution configuration.
type ResolverConfig struct {
	Enabled bool          `envconfig:"RESOLVER_ENABLED" default:"false"`
	BaseURL string        `envconfig:"RESOLVER_URL" default:"https://data.jsdelivr.com/v1"`
	Timeout time.Duration `envconfig:"RESOLVER_TIMEOUT" default:"5s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8800",
			Host: "0.0.0.0",
		},
		Sandbox: SandboxConfig{
			InstallCommand: "npm install --no-audit --no-fund",
			DevCommand:     "npm run dev",
			ShellCommand:   "/bin/bash",
		},
		Resolver: ResolverConfig{
			Enabled: false,
			BaseURL: "https://data.jsdelivr.com/v1",
			Timeout: 5 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
