package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chordwheel/pkg/cache"
	"github.com/matzehuels/chordwheel/pkg/observability"
	"github.com/matzehuels/chordwheel/pkg/relation"
	"github.com/matzehuels/chordwheel/pkg/render/chord/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it to avoid duplicating caching logic.
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

// Execute builds the scene for rels and renders every requested format.
// rels must already be validated; the pipeline itself never rejects data.
func (r *Runner) Execute(ctx context.Context, rels []relation.Relationship, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		DatasetHash: relation.Hash(rels),
		Artifacts:   make(map[string][]byte),
	}
	result.Stats.Relationships = len(rels)

	hooks := observability.Pipeline()

	// Stage 1-3: Canonicalize, matrix and layout. scene.Build runs all three.
	layoutStart := time.Now()
	hooks.OnCanonicalizeStart(ctx, len(rels))
	sc := scene.Build(rels, opts.View())
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnCanonicalizeComplete(ctx, sc.Order.Len(), sc.Overwritten, result.Stats.LayoutTime)
	hooks.OnLayoutComplete(ctx, sc.Order.Len(), result.Stats.LayoutTime, nil)

	result.Scene = sc
	result.Stats.Entities = sc.Order.Len()
	result.Stats.Ribbons = len(sc.Ribbons)
	result.Stats.Overwritten = sc.Overwritten
	if sc.Overwritten > 0 {
		r.Logger.Warn("duplicate source/target pairs, kept last value", "overwritten", sc.Overwritten)
	}

	r.Logger.Info("computed layout",
		"entities", result.Stats.Entities,
		"ribbons", result.Stats.Ribbons,
		"duration", result.Stats.LayoutTime)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, sc, result.DatasetHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SummarizeWithCacheInfo computes the layout summary of rels with caching
// and returns cache hit info.
func (r *Runner) SummarizeWithCacheInfo(ctx context.Context, rels []relation.Relationship, opts Options) (Summary, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Summary{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(relation.Hash(rels), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if s, err := UnmarshalSummary(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return s, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(relation.Labels(rels)))
	s := Summarize(rels, opts.View().LayoutOptions())
	hooks.OnLayoutComplete(ctx, len(s.Entities), time.Since(start), nil)
	if s.Overwritten > 0 {
		opts.Logger.Warn("duplicate source/target pairs, kept last value", "overwritten", s.Overwritten)
	}

	if data, err := MarshalSummary(s); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			opts.Logger.Debug("cache write failed", "key", "layout", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return s, false, nil
}

// Summarize is a convenience wrapper that calls SummarizeWithCacheInfo and discards the cache hit info.
func (r *Runner) Summarize(ctx context.Context, rels []relation.Relationship, opts Options) (Summary, error) {
	s, _, err := r.SummarizeWithCacheInfo(ctx, rels, opts)
	return s, err
}

// RenderWithCacheInfo generates artifacts for sc with caching and returns
// whether every format came from the cache. Only the missing formats are
// rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sc scene.Scene, datasetHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		cacheKey := r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, format)
			artifacts[format] = data
			continue
		} else if err != nil {
			opts.Logger.Debug("cache read failed", "key", format, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, format)
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil // All artifacts from cache
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, missing)
	rendered, err := Render(ctx, sc, missing, opts)
	observability.Pipeline().OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		cacheKey := r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			opts.Logger.Debug("cache write failed", "key", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, format, len(data))
	}

	return artifacts, false, nil
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
