package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envFiles are loaded from the working directory, first match wins for
// each variable. Variables already set in the process are never replaced.
var envFiles = []string{".env.local", ".env"}

// Load reads the configuration. An empty path looks up the default config
// file and falls back to defaults when there is none; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = findDefaultFile()
	}
	if path != "" {
		if err := decodeFile(path, cfg, explicit); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFiles() error {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// decodeFile reads a TOML or YAML file into cfg. Environment variables in
// the file are expanded before decoding.
func decodeFile(path string, cfg *Config, explicit bool) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	expanded := os.ExpandEnv(string(data))

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.NewDecoder(strings.NewReader(expanded)).Decode(cfg)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}

	cfg.Path = path
	return nil
}

// =============================================================================
// Environment Overrides
// =============================================================================

// applyEnv overrides cfg with ACROSTIC_* variables.
func applyEnv(cfg *Config) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"ACROSTIC_MIN_LINE_CHARS", &cfg.Layout.MinLineChars},
		{"ACROSTIC_MAX_LINE_CHARS", &cfg.Layout.MaxLineChars},
		{"ACROSTIC_TOP_K", &cfg.Layout.TopK},
		{"ACROSTIC_EXTENSIONS", &cfg.Layout.Extensions},
	}
	for _, e := range ints {
		v, ok := os.LookupEnv(e.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", e.key, v)
		}
		*e.dst = n
	}

	if v := os.Getenv("ACROSTIC_CAPS"); v != "" {
		caps, err := ParseCaps(v)
		if err != nil {
			return fmt.Errorf("ACROSTIC_CAPS: %w", err)
		}
		cfg.Layout.CapSchedule = caps
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"ACROSTIC_CACHE_BACKEND", &cfg.Cache.Backend},
		{"ACROSTIC_CACHE_DIR", &cfg.Cache.Dir},
		{"ACROSTIC_REDIS_URL", &cfg.Cache.RedisURL},
		{"ACROSTIC_CACHE_PREFIX", &cfg.Cache.Prefix},
		{"ACROSTIC_ADDR", &cfg.Server.Addr},
		{"ACROSTIC_LOG_LEVEL", &cfg.Log.Level},
	}
	for _, e := range strs {
		if v := os.Getenv(e.key); v != "" {
			*e.dst = v
		}
	}
	return nil
}

// ParseCaps parses a comma-separated cap list such as "24,32,120".
func ParseCaps(s string) ([]int, error) {
	var caps []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid cap %q", part)
		}
		caps = append(caps, n)
	}
	return caps, nil
}

// =============================================================================
// Paths
// =============================================================================

// Dir returns the config directory using XDG standard (~/.config/acrostic/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// CacheDir returns the cache directory: cache.dir when set, otherwise the
// XDG cache directory (~/.cache/acrostic/).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// findDefaultFile returns the first existing default config file, or "".
func findDefaultFile() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
