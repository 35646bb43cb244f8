// Package cli implements the scannable command-line interface.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/scannable/internal/config"
	"github.com/matzehuels/scannable/pkg/buildinfo"
	"github.com/matzehuels/scannable/pkg/cache"
	"github.com/matzehuels/scannable/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

// redisDialTimeout bounds the initial Redis ping at startup.
const redisDialTimeout = 5 * time.Second

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// levelSet records that the level was chosen on the command line, so
	// the config file's log_level must not override it.
	levelSet bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.levelSet = true
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "scannable",
		Short:        "Scannable serves QR codes as SVG, text and PNG",
		Long:         `Scannable renders QR codes as SVG documents, half-block text and PNG images, and serves them over HTTP with an artifact cache.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Cache Factory
// =============================================================================

// loadConfig reads the config file and applies its log level unless one
// was chosen with --verbose.
func (c *CLI) loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if !c.levelSet {
		level, err := parseLogLevel(cfg.LogLevel)
		if err != nil {
			return cfg, err
		}
		c.Logger.SetLevel(level)
	}
	return cfg, nil
}

// newCache builds the artifact cache and keyer for the configured backend.
func (c *CLI) newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, cache.Keyer, error) {
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if cfg.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.Prefix)
	}

	backend := cfg.Backend
	if noCache {
		backend = config.BackendNone
	}

	switch backend {
	case config.BackendNone:
		return cache.NewNullCache(), keyer, nil
	case config.BackendFile:
		dir, err := cfg.CacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), keyer, nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Debug("file cache", "dir", dir)
		return fc, keyer, nil
	case config.BackendRedis:
		dialCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
		defer cancel()
		rc, err := cache.NewRedisCache(dialCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Debug("redis cache", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return rc, keyer, nil
	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", backend)
	}
}
