package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/quaverlabs/quaver/pkg/cache"
	"github.com/quaverlabs/quaver/pkg/errors"
	"github.com/quaverlabs/quaver/pkg/observability"
	"github.com/quaverlabs/quaver/pkg/pattern"
	"github.com/quaverlabs/quaver/pkg/render"
	"github.com/quaverlabs/quaver/pkg/seq"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
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

// Execute runs the complete compile → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Compile
	compileStart := time.Now()
	steps, compileHit, err := r.CompileWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	result.Steps = steps
	result.Stats.CompileTime = time.Since(compileStart)
	result.Stats.StepCount = len(steps)
	for _, s := range steps {
		if s.IsRest {
			result.Stats.RestCount++
		} else {
			result.Stats.NoteCount++
		}
	}
	result.CacheInfo.CompileHit = compileHit

	// Compute sequence hash for cache keys and API responses
	if data, err := json.Marshal(steps); err == nil {
		result.PatternHash = cache.Hash(data)
	}

	r.Logger.Info("compiled pattern",
		"steps", result.Stats.StepCount,
		"notes", result.Stats.NoteCount,
		"rests", result.Stats.RestCount,
		"duration", result.Stats.CompileTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// CompileWithCacheInfo compiles a pattern with caching and returns cache hit info.
func (r *Runner) CompileWithCacheInfo(ctx context.Context, opts Options) (seq.Sequence, bool, error) {
	if err := opts.ValidateForCompile(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	observability.Pipeline().OnCompileStart(ctx, opts.Pattern)
	start := time.Now()

	cacheKey := r.Keyer.SequenceKey(opts.Pattern, opts.SequenceKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var steps seq.Sequence
			if err := json.Unmarshal(data, &steps); err == nil {
				observability.Cache().OnCacheHit(ctx, "sequence")
				observability.Pipeline().OnCompileComplete(ctx, opts.Pattern, len(steps), time.Since(start), nil)
				return steps, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompile
		}
	}
	observability.Cache().OnCacheMiss(ctx, "sequence")

	// Compile
	steps := pattern.Compile(opts.Pattern, opts.CompileOptions())

	// Cache the result
	if data, err := json.Marshal(steps); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.DefaultTTL)
		observability.Cache().OnCacheSet(ctx, "sequence", len(data))
	}

	observability.Pipeline().OnCompileComplete(ctx, opts.Pattern, len(steps), time.Since(start), nil)
	return steps, false, nil // Cache miss
}

// Compile is a convenience wrapper that calls CompileWithCacheInfo and discards the cache hit info.
func (r *Runner) Compile(ctx context.Context, opts Options) (seq.Sequence, error) {
	steps, _, err := r.CompileWithCacheInfo(ctx, opts)
	return steps, err
}

// RenderWithCacheInfo renders the pattern tree with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	// The DOT source is the canonical form of the diagram; artifacts are
	// keyed by its hash so anything that changes the tree changes the key.
	nodes := pattern.Parse(opts.Pattern, opts.CompileOptions())
	dot := render.ToDOT(nodes, render.Options{Detailed: opts.Detailed})
	dotHash := cache.Hash([]byte(dot))

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(dotHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}

		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
			return artifacts, true, nil // All artifacts from cache
		}
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	rendered, err := renderFormats(dot, opts)
	if err != nil {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(dotHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.DefaultTTL)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, opts)
	return artifacts, err
}

// renderFormats produces each requested format from the DOT source. SVG is
// rendered at most once and reused for the raster conversions.
func renderFormats(dot string, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	renderSVG := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = render.RenderSVG(dot)
		return svg, err
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatDOT:
			artifacts[format] = []byte(dot)
		case FormatSVG:
			data, err := renderSVG()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeRender, err, "render svg")
			}
			artifacts[format] = data
		case FormatPNG:
			data, err := renderSVG()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeRender, err, "render svg")
			}
			png, err := render.ToPNG(data, opts.Scale)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeRender, err, "render png")
			}
			artifacts[format] = png
		case FormatPDF:
			data, err := renderSVG()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeRender, err, "render svg")
			}
			pdf, err := render.ToPDF(data)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeRender, err, "render pdf")
			}
			artifacts[format] = pdf
		default:
			return nil, ValidateFormat(format)
		}
	}
	return artifacts, nil
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
