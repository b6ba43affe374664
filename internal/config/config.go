// Package config loads server settings from an optional YAML file overlaid
// by environment variables.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// RESTPath is the path WordPress serves its v2 REST API under when the API
// is reached through the site root.
const RESTPath = "/wp-json/wp/v2"

// Config is the root configuration.
//
// Source priority:
//  1. explicit path passed to Load;
//  2. CONFIG_PATH environment variable;
//  3. environment variables only.
//
// Environment variables always override values read from a file.
type Config struct {
	WordPress WordPressConfig `yaml:"wordpress"`
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
}

// WordPressConfig describes the upstream WordPress site.
type WordPressConfig struct {
	// Domain is the site root, e.g. https://blog.example.com.
	Domain string `yaml:"domain" env:"WP_DOMAIN" env-required:"true"`

	// Production selects how the API root is built from Domain. Production
	// deployments sit behind a reverse proxy that serves the REST API at the
	// domain itself; staging reaches it under RESTPath.
	Production bool `yaml:"production" env:"WP_PRODUCTION" env-default:"false"`

	Timeout       time.Duration `yaml:"timeout"        env:"WP_TIMEOUT"        env-default:"30s"`
	UserAgent     string        `yaml:"user_agent"     env:"WP_USER_AGENT"     env-default:"wordpress-mcp-server/1.0"`
	MaxRetries    int           `yaml:"max_retries"    env:"WP_MAX_RETRIES"    env-default:"1"`
	MaxConcurrent int           `yaml:"max_concurrent" env:"WP_MAX_CONCURRENT" env-default:"5"`

	// CacheTTL enables the response cache when positive.
	CacheTTL     time.Duration `yaml:"cache_ttl"     env:"WP_CACHE_TTL"     env-default:"0s"`
	CacheEntries int           `yaml:"cache_entries" env:"WP_CACHE_ENTRIES" env-default:"500"`
}

// HTTPConfig configures the optional streamable HTTP transport.
type HTTPConfig struct {
	Addr      string  `yaml:"addr"       env:"HTTP_ADDR"       env-default:":8080"`
	RateLimit float64 `yaml:"rate_limit" env:"HTTP_RATE_LIMIT" env-default:"20"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// APIRoot returns the base URL every content endpoint is resolved against.
// In production the domain is used as is; otherwise RESTPath is appended.
func (w WordPressConfig) APIRoot() string {
	domain := strings.TrimRight(strings.TrimSpace(w.Domain), "/")
	if w.Production {
		return domain
	}
	return domain + RESTPath
}

// SlogLevel maps Level to a slog level, defaulting to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MustLoad wraps Load and panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the configuration following the priority documented on Config.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH or WP_DOMAIN: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(strings.TrimSpace(c.WordPress.Domain))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("wordpress.domain must be an absolute http(s) URL, got %q", c.WordPress.Domain)
	}
	if c.WordPress.Timeout <= 0 {
		return fmt.Errorf("wordpress.timeout must be > 0")
	}
	if c.WordPress.MaxRetries < 1 {
		return fmt.Errorf("wordpress.max_retries must be >= 1")
	}
	if c.WordPress.MaxConcurrent < 1 {
		return fmt.Errorf("wordpress.max_concurrent must be >= 1")
	}
	if c.WordPress.CacheTTL < 0 {
		return fmt.Errorf("wordpress.cache_ttl must be >= 0")
	}
	if c.HTTP.RateLimit <= 0 {
		return fmt.Errorf("http.rate_limit must be > 0")
	}
	return nil
}
