package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all service configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Fetch   FetchConfig   `toml:"fetch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `toml:"port"`
	AutoOpenBrowser bool `toml:"auto_open_browser"`
}

// StorageConfig holds option store settings.
type StorageConfig struct {
	Path string `toml:"path"`
}

// FetchConfig holds settings for feed and article fetching.
type FetchConfig struct {
	TimeoutSeconds   int `toml:"timeout_seconds"`
	MaxConcurrent    int `toml:"max_concurrent"`
	RateLimitSeconds int `toml:"rate_limit_seconds"`
}

// Timeout returns the fetch timeout as a duration.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// RateLimit returns the per-host request gap. A configured 0 turns rate
// limiting off and is returned as -1.
func (f FetchConfig) RateLimit() time.Duration {
	if f.RateLimitSeconds == 0 {
		return -1
	}
	return time.Duration(f.RateLimitSeconds) * time.Second
}

const (
	defaultPort          = 8080
	defaultDBPath        = "./data/wordcounter.db"
	defaultTimeout       = 30
	defaultMaxConcurrent = 10
	defaultRateLimit     = 1
)

const defaultConfigContent = `[server]
port = 8080
auto_open_browser = false         # open the settings page on start

[storage]
path = "./data/wordcounter.db"    # or set WORDCOUNTER_DB_PATH

[fetch]
timeout_seconds = 30
max_concurrent = 10
rate_limit_seconds = 1            # minimum gap between requests to one host
`

// Load reads the TOML config at path, creating a default file if none
// exists. Environment variables override file values.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		slog.Warn("ignoring unknown config keys", "keys", fmt.Sprint(undecoded))
	}

	// Explicit zeros are errors, not a request for the default.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg, md)
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were written in the file, before
// defaults would hide a zero.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") && (cfg.Server.Port < 1 || cfg.Server.Port > 65535) {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}
	if md.IsDefined("storage", "path") && cfg.Storage.Path == "" {
		return errors.New("invalid storage.path: must not be empty")
	}
	if md.IsDefined("fetch", "timeout_seconds") && cfg.Fetch.TimeoutSeconds < 1 {
		return fmt.Errorf("invalid fetch.timeout_seconds %d: must be >= 1", cfg.Fetch.TimeoutSeconds)
	}
	if md.IsDefined("fetch", "max_concurrent") && cfg.Fetch.MaxConcurrent < 1 {
		return fmt.Errorf("invalid fetch.max_concurrent %d: must be >= 1", cfg.Fetch.MaxConcurrent)
	}
	return nil
}

// applyDefaults fills zero-valued fields. rate_limit_seconds = 0 is a
// valid explicit choice, so it is only defaulted when absent.
func applyDefaults(cfg *Config, md toml.MetaData) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultDBPath
	}
	if cfg.Fetch.TimeoutSeconds == 0 {
		cfg.Fetch.TimeoutSeconds = defaultTimeout
	}
	if cfg.Fetch.MaxConcurrent == 0 {
		cfg.Fetch.MaxConcurrent = defaultMaxConcurrent
	}
	if !md.IsDefined("fetch", "rate_limit_seconds") {
		cfg.Fetch.RateLimitSeconds = defaultRateLimit
	}
}

// applyEnvOverrides lets WORDCOUNTER_PORT and WORDCOUNTER_DB_PATH win over
// the file.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("WORDCOUNTER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid WORDCOUNTER_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("WORDCOUNTER_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}
	if cfg.Fetch.RateLimitSeconds < 0 {
		return fmt.Errorf("invalid fetch.rate_limit_seconds %d: must be >= 0", cfg.Fetch.RateLimitSeconds)
	}
	return nil
}
