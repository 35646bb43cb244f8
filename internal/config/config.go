// Package config loads the service configuration from a TOML file.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/scannable/pkg/errors"
	"github.com/matzehuels/scannable/pkg/frame"
	"github.com/matzehuels/scannable/pkg/pipeline"
)

// appName is used for the default cache directory.
const appName = "scannable"

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the top-level service configuration.
type Config struct {
	Listen   string       `toml:"listen"`
	LogLevel string       `toml:"log_level"`
	Cache    CacheConfig  `toml:"cache"`
	Render   RenderConfig `toml:"render"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	Prefix        string   `toml:"prefix"`
	TTL           Duration `toml:"ttl"`
}

// RenderConfig holds service-wide defaults applied to requests before the
// renderer defaults.
type RenderConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Level  string  `toml:"level"`
	Margin *int    `toml:"margin"`
	Size   int     `toml:"size"`
}

// Duration is a time.Duration that decodes from strings such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:   ":8080",
		LogLevel: "info",
		Cache: CacheConfig{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       Duration{24 * time.Hour},
		},
	}
}

// Load reads path on top of Default. An empty path yields the defaults.
// Unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration for values the service cannot use.
func (c Config) Validate() error {
	if c.Listen == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "listen address cannot be empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid log_level: %q (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache.backend: %q (must be one of: none, file, redis)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if _, err := frame.ParseLevel(c.Render.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.level")
	}
	if c.Render.Width < 0 || c.Render.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.width and render.height must not be negative")
	}
	if c.Render.Margin != nil && (*c.Render.Margin < 0 || *c.Render.Margin > pipeline.MaxMargin) {
		return errors.New(errors.ErrCodeInvalidConfig, "render.margin must be between 0 and %d", pipeline.MaxMargin)
	}
	if c.Render.Size < 0 || c.Render.Size > pipeline.MaxRasterSize {
		return errors.New(errors.ErrCodeInvalidConfig, "render.size must be between 0 and %d", pipeline.MaxRasterSize)
	}
	return nil
}

// CacheDir returns the configured cache directory, falling back to the XDG
// cache location (~/.cache/scannable/).
func (c CacheConfig) CacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
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

// Apply fills zero-valued request fields with the service defaults.
func (r RenderConfig) Apply(opts *pipeline.Options) {
	if opts.Width == 0 {
		opts.Width = r.Width
	}
	if opts.Height == 0 {
		opts.Height = r.Height
	}
	if opts.Level == "" {
		opts.Level = r.Level
	}
	if opts.Margin == nil && r.Margin != nil {
		opts.Margin = frame.Int(*r.Margin)
	}
	if opts.Size == 0 {
		opts.Size = r.Size
	}
}
