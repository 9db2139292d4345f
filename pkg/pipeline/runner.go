package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/acrostic/pkg/acrostic"
	"github.com/matzehuels/acrostic/pkg/cache"
	"github.com/matzehuels/acrostic/pkg/clean"
	"github.com/matzehuels/acrostic/pkg/observability"
)

// keyTypeLayout labels layout cache events for the cache hooks.
const keyTypeLayout = "layout"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the normalize → arrange pipeline with caching.
//
// Layout failures (empty input, too many letters, infeasible) are returned
// as *errors.Error values wrapped with the failing stage; use
// errors.IsLayoutFailure to tell them apart from configuration errors.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Stage 1: Normalize
	words, letters := clean.Words(opts.Text), clean.Letters(opts.Token)
	result := &Result{
		TextHash: cache.HashWords(words),
		Stats:    Stats{Words: len(words), Letters: len(letters)},
	}
	result.Key = r.Keyer.LayoutKey(result.TextHash, string(letters), opts.LayoutKeyOpts())

	r.Logger.Debug("normalized input", "words", len(words), "letters", string(letters))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Arrange, from cache when possible
	if !opts.Refresh {
		if layout, ok := r.cachedLayout(ctx, result.Key); ok {
			result.Layout = layout
			result.CacheHit = true
			r.Logger.Info("layout from cache", "cap", layout.Cap, "cost", layout.Cost)
			return result, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnArrangeStart(ctx, len(words), len(letters))

	start := time.Now()
	layout, err := acrostic.ArrangeWords(words, letters, opts.LayoutOptions())
	result.Stats.ArrangeDur = time.Since(start)

	if err != nil {
		hooks.OnArrangeComplete(ctx, 0, result.Stats.ArrangeDur, err)
		return nil, fmt.Errorf("arrange: %w", err)
	}
	for _, a := range layout.Attempts {
		hooks.OnAttempt(ctx, a.Cap, a.Feasible, a.States)
		result.Stats.States += a.States
	}
	hooks.OnArrangeComplete(ctx, layout.Cap, result.Stats.ArrangeDur, nil)

	result.Layout = layout
	r.Logger.Info("arranged lyrics",
		"lines", len(layout.Lines),
		"cap", layout.Cap,
		"cost", layout.Cost,
		"states", result.Stats.States,
		"duration", result.Stats.ArrangeDur)

	r.storeLayout(ctx, result.Key, layout)
	return result, nil
}

// Alternatives returns up to limit layouts, one per start word, best first.
// Alternatives are not cached.
func (r *Runner) Alternatives(ctx context.Context, opts Options, limit int) ([]*acrostic.Layout, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	layouts, err := acrostic.Alternatives(opts.Text, opts.Token, opts.LayoutOptions(), limit)
	if err != nil {
		return nil, fmt.Errorf("alternatives: %w", err)
	}
	r.Logger.Debug("computed alternatives", "count", len(layouts), "duration", time.Since(start))
	return layouts, nil
}

// cachedLayout loads a layout from the cache. Unreadable entries count as
// misses and are recomputed.
func (r *Runner) cachedLayout(ctx context.Context, key string) (*acrostic.Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
		return nil, false
	}

	var layout acrostic.Layout
	if err := json.Unmarshal(data, &layout); err != nil || len(layout.Lines) == 0 {
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeLayout)
	return &layout, true
}

// storeLayout writes a layout to the cache. Failures are logged and
// otherwise ignored.
func (r *Runner) storeLayout(ctx context.Context, key string, layout *acrostic.Layout) {
	data, err := json.Marshal(layout)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
