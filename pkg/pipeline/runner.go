package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/carousel/pkg/cache"
	"github.com/matzehuels/carousel/pkg/config"
	"github.com/matzehuels/carousel/pkg/errors"
	"github.com/matzehuels/carousel/pkg/layout"
	"github.com/matzehuels/carousel/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, keyer, defaults and logger.
// Multiple goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Defaults config.LayoutConfig
	TTL      time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Defaults: config.Default().Layout,
		TTL:      cache.DefaultTTL,
	}
}

// Execute resolves the keylines and places every item at opts.Scroll.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Keylines
	layoutStart := time.Now()
	l, hit, err := r.KeylinesWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.KeylineCount = len(l.Keylines)
	result.CacheInfo.KeylinesHit = hit
	if data, err := layout.Marshal(l); err == nil {
		result.LayoutHash = cache.Hash(data)
	}

	r.Logger.Info("resolved keylines",
		"strategy", opts.Strategy,
		"keylines", len(l.Keylines),
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Place
	placeStart := time.Now()
	placed, placeHit, err := r.PlaceWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = placed
	result.Stats.PlaceTime = time.Since(placeStart)
	result.Stats.ItemCount = len(placed.Placements)
	for _, p := range placed.Placements {
		if p.Visible {
			result.Stats.VisibleCount++
		}
	}
	result.CacheInfo.PlaceHit = placeHit

	r.Logger.Info("placed items",
		"items", result.Stats.ItemCount,
		"visible", result.Stats.VisibleCount,
		"scroll", opts.Scroll,
		"duration", result.Stats.PlaceTime)

	return result, nil
}

// KeylinesWithCacheInfo resolves the keyline layout with caching and returns
// cache hit info.
func (r *Runner) KeylinesWithCacheInfo(ctx context.Context, opts Options) (layout.Layout, bool, error) {
	if err := r.prepare(&opts); err != nil {
		return layout.Layout{}, false, err
	}
	cacheKey := r.Keyer.KeylinesKey(opts.KeylinesKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := layout.Unmarshal(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "keylines")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
			r.Logger.Debug("discarding unreadable cache entry", "key", cacheKey, "err", err)
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", cacheKey, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "keylines")
	}

	start := time.Now()
	observability.Layout().OnKeylinesStart(ctx, opts.Strategy, opts.ItemCount)
	l, err := GenerateLayout(opts)
	observability.Layout().OnKeylinesComplete(ctx, opts.Strategy, time.Since(start), err)
	if err != nil {
		return layout.Layout{}, false, err
	}

	r.store(ctx, cacheKey, "keylines", l)
	return l, false, nil // Cache miss
}

// Keylines is a convenience wrapper that discards the cache hit info.
func (r *Runner) Keylines(ctx context.Context, opts Options) (layout.Layout, error) {
	l, _, err := r.KeylinesWithCacheInfo(ctx, opts)
	return l, err
}

// PlaceWithCacheInfo adds placements at opts.Scroll to a keyline layout and
// returns cache hit info.
func (r *Runner) PlaceWithCacheInfo(ctx context.Context, l layout.Layout, opts Options) (layout.Layout, bool, error) {
	if err := r.prepare(&opts); err != nil {
		return layout.Layout{}, false, err
	}

	base := l
	base.Scroll, base.Placements = nil, nil
	data, err := layout.Marshal(base)
	if err != nil {
		return layout.Layout{}, false, errors.Wrap(errors.ErrCodeInternal, err, "marshal layout")
	}
	cacheKey := r.Keyer.PlacementKey(cache.Hash(data), cache.PlacementKeyOpts{
		ItemCount: base.ItemCount,
		Scroll:    opts.Scroll,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := layout.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "placements")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "placements")
	}

	c, err := layout.Parse(base)
	if err != nil {
		return layout.Layout{}, false, err
	}

	start := time.Now()
	observability.Layout().OnPlaceStart(ctx, c.ItemCount(), opts.Scroll)
	placed := layout.WithPlacements(base, c, opts.Scroll)
	visible := 0
	for _, p := range placed.Placements {
		if p.Visible {
			visible++
		}
	}
	observability.Layout().OnPlaceComplete(ctx, visible, time.Since(start))

	r.store(ctx, cacheKey, "placements", placed)
	return placed, false, nil
}

// Place is a convenience wrapper that discards the cache hit info.
func (r *Runner) Place(ctx context.Context, l layout.Layout, opts Options) (layout.Layout, error) {
	placed, _, err := r.PlaceWithCacheInfo(ctx, l, opts)
	return placed, err
}

// Invalidate drops the cached keylines for opts.
func (r *Runner) Invalidate(ctx context.Context, opts Options) error {
	if err := r.prepare(&opts); err != nil {
		return err
	}
	return r.Cache.Delete(ctx, r.Keyer.KeylinesKey(opts.KeylinesKeyOpts()))
}

func (r *Runner) prepare(opts *Options) error {
	r.applyLogger(opts)
	return opts.ValidateWithDefaults(r.Defaults)
}

// store writes l to the cache. Failures are logged, not returned: a cache
// outage must not fail a layout request.
func (r *Runner) store(ctx context.Context, key, keyType string, l layout.Layout) {
	data, err := layout.Marshal(l)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on opts when opts has none of its own.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
