// Package config loads acrostic settings from a config file, .env files and
// ACROSTIC_* environment variables.
//
// Precedence, lowest to highest: built-in defaults, the config file,
// environment variables (including those loaded from .env), command-line
// flags. Flags are applied by the CLI, not here.
//
// The config file is TOML or YAML, chosen by extension. Without --config the
// file is looked up as config.toml, then config.yaml, in
// $XDG_CONFIG_HOME/acrostic (or ~/.config/acrostic). A missing default file
// is not an error.
//
// Example config.toml:
//
//	[layout]
//	min_line_chars = 8
//	max_line_chars = 28
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	prefix = "prod:"
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
package config

import (
	"time"

	"github.com/matzehuels/acrostic/pkg/acrostic"
	errs "github.com/matzehuels/acrostic/pkg/errors"
	"github.com/matzehuels/acrostic/pkg/pipeline"
)

// appName names the config and cache directories.
const appName = "acrostic"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full application configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout" yaml:"layout"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Server ServerConfig `toml:"server" yaml:"server"`
	Log    LogConfig    `toml:"log" yaml:"log"`

	// Path is the file the configuration was read from, empty when only
	// defaults and environment were used.
	Path string `toml:"-" yaml:"-"`
}

// LayoutConfig holds default layout options. Zero values select the
// solver defaults.
type LayoutConfig struct {
	MinLineChars int   `toml:"min_line_chars" yaml:"min_line_chars"`
	MaxLineChars int   `toml:"max_line_chars" yaml:"max_line_chars"`
	CapSchedule  []int `toml:"cap_schedule" yaml:"cap_schedule"`
	TopK         int   `toml:"top_k" yaml:"top_k"`
	Extensions   int   `toml:"extensions" yaml:"extensions"`
}

// CacheConfig selects and configures the layout cache.
type CacheConfig struct {
	Backend  string `toml:"backend" yaml:"backend"`     // file, redis or none
	Dir      string `toml:"dir" yaml:"dir"`             // file backend directory
	RedisURL string `toml:"redis_url" yaml:"redis_url"` // redis backend URL
	Prefix   string `toml:"prefix" yaml:"prefix"`       // key prefix for shared backends
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `toml:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout" yaml:"write_timeout"`
	MaxBodyBytes int64         `toml:"max_body_bytes" yaml:"max_body_bytes"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"` // debug, info, warn or error
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{Backend: BackendFile},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	l := c.Layout
	if l.MinLineChars < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "layout.min_line_chars must not be negative (got %d)", l.MinLineChars)
	}
	maxChars := l.MaxLineChars
	if maxChars == 0 {
		maxChars = acrostic.DefaultMaxLineChars
	}
	if err := errs.ValidateLineBounds(l.MinLineChars, maxChars, l.CapSchedule); err != nil {
		return err
	}
	if l.TopK < 0 || l.Extensions < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "layout.top_k and layout.extensions must not be negative")
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "cache.backend must be one of file, redis, none (got %q)", c.Cache.Backend)
	}

	if c.Server.Addr == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "server.max_body_bytes must be positive")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}
	return nil
}

// ApplyLayout fills layout options the caller left at zero with the
// configured values.
func (c *Config) ApplyLayout(opts *pipeline.Options) {
	l := c.Layout
	if opts.MinLineChars == 0 {
		opts.MinLineChars = l.MinLineChars
	}
	if opts.MaxLineChars == 0 {
		opts.MaxLineChars = l.MaxLineChars
	}
	if len(opts.CapSchedule) == 0 {
		opts.CapSchedule = l.CapSchedule
	}
	if opts.TopK == 0 {
		opts.TopK = l.TopK
	}
	if opts.Extensions == 0 {
		opts.Extensions = l.Extensions
	}
}
