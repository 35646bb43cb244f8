package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scannable/pkg/cache"
	"github.com/matzehuels/scannable/pkg/frame"
	"github.com/matzehuels/scannable/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Provider frame.Provider
	Logger   *log.Logger

	// TTL is the artifact lifetime; zero means cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache, keyer and provider.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If provider is nil, frame.Default is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, provider frame.Provider, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if provider == nil {
		provider = frame.Default
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Provider: provider,
		Logger:   logger,
	}
}

// Execute validates opts and renders every requested format.
func (r *Runner) Execute(ctx context.Context, opts Options) (result *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnExecuteStart(ctx, opts.Formats)
	start := time.Now()
	defer func() {
		hooks.OnExecuteComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	result = &Result{
		Artifacts: make(map[string][]byte, len(opts.Formats)),
		CacheInfo: CacheInfo{Hits: make(map[string]bool, len(opts.Formats))},
	}

	allCached := true
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, hit, err := r.RenderWithCacheInfo(ctx, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		result.Artifacts[format] = data
		result.CacheInfo.Hits[format] = hit
		result.Stats.Bytes += len(data)
		allCached = allCached && hit
	}
	result.CacheInfo.RenderHit = allCached
	result.Stats.RenderTime = time.Since(start)

	r.Logger.Debug("rendered",
		"formats", opts.Formats,
		"bytes", result.Stats.Bytes,
		"cached", allCached,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo renders a single format, reading and filling the
// cache. Cache failures are logged and never fail the render. opts must
// already carry defaults.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, format string, opts Options) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(opts.ArtifactKeyOpts(format))
	cacheHooks := observability.Cache()

	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "format", format, "err", err)
	}
	if err == nil && hit {
		cacheHooks.OnCacheHit(ctx, format)
		return data, true, nil
	}
	cacheHooks.OnCacheMiss(ctx, format)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	data, err = Render(r.Provider, format, opts)
	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
		r.Logger.Warn("cache write failed", "format", format, "err", err)
	} else {
		cacheHooks.OnCacheSet(ctx, format, len(data))
	}
	return data, false, nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLArtifact
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
