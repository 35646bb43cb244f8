package cli

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scannable/internal/config"
	"github.com/matzehuels/scannable/pkg/cache"
	"github.com/matzehuels/scannable/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact cache",
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")

	cmd.AddCommand(c.cacheClearCommand(&configPath))
	cmd.AddCommand(c.cachePathCommand(&configPath))
	cmd.AddCommand(c.cachePingCommand(&configPath))

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(*configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.Cache.Backend == config.BackendNone {
				printInfo(out, "Caching is disabled")
				return nil
			}

			ctx := cmd.Context()
			store, _, err := c.newCache(ctx, cfg.Cache, false)
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "the %s backend cannot be cleared", cfg.Cache.Backend)
			}
			count, err := clearer.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo(out, "Cache is empty")
				return nil
			}
			printSuccess(out, "Cleared %d cached artifacts", count)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(*configPath)
			if err != nil {
				return err
			}
			switch cfg.Cache.Backend {
			case config.BackendRedis:
				fmt.Fprintf(cmd.OutOrStdout(), "redis://%s/%d\n", cfg.Cache.RedisAddr, cfg.Cache.RedisDB)
			case config.BackendNone:
				printWarning(cmd.OutOrStdout(), "Caching is disabled")
			default:
				dir, err := cfg.Cache.CacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
			}
			return nil
		},
	}
}

// cachePingCommand creates the "cache ping" subcommand, which checks that
// the configured backend is usable by writing and reading a probe entry.
func (c *CLI) cachePingCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the cache backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.BackendNone {
				printWarning(cmd.OutOrStdout(), "Caching is disabled")
				return nil
			}
			ctx := cmd.Context()
			store, _, err := c.newCache(ctx, cfg.Cache, false)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := probe(ctx, store); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Cache backend %s is reachable", cfg.Cache.Backend)
			return nil
		},
	}
}

const (
	probeKey = "scannable:probe"
	probeTTL = time.Minute
)

func probe(ctx context.Context, store cache.Cache) error {
	want := []byte("ok")
	if err := store.Set(ctx, probeKey, want, probeTTL); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	defer store.Delete(ctx, probeKey)

	got, hit, err := store.Get(ctx, probeKey)
	if err != nil {
		return fmt.Errorf("cache get: %w", err)
	}
	if !hit || !bytes.Equal(got, want) {
		return errors.New(errors.ErrCodeInternal, "cache did not return the probe entry it just stored")
	}
	return nil
}
