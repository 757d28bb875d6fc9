// Package pipeline provides the core compile and render pipeline for Quaver.
//
// This package implements the complete compile → render pipeline that can be
// used by CLI, API, and TUI components. By centralizing this logic, we ensure
// consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Compile: Expand a pattern into a flat step sequence
//  2. Render: Draw the pattern tree in various formats (DOT, SVG, PNG, PDF)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Pattern: "1 2 scale2[3 4] [5 -]*2",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Compile only
//	steps, err := runner.Compile(ctx, opts)
//
//	// Render only
//	artifacts, err := runner.Render(ctx, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/quaverlabs/quaver/pkg/cache"
	"github.com/quaverlabs/quaver/pkg/errors"
	"github.com/quaverlabs/quaver/pkg/pattern"
	"github.com/quaverlabs/quaver/pkg/seq"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and TUI
// =============================================================================

const (
	// DefaultSeed is the default random seed for reproducibility. Scramble
	// and sparse draw from a source seeded with this unless overridden, so
	// two runs of the same pattern produce the same sequence.
	DefaultSeed = uint64(42)

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Compile options
	Pattern    string `json:"pattern"`
	MaxDepth   int    `json:"max_depth,omitempty"`
	RestSymbol string `json:"rest_symbol,omitempty"`
	Normalize  bool   `json:"normalize,omitempty"`
	Verbose    bool   `json:"verbose,omitempty"`
	Seed       uint64 `json:"seed,omitempty"`
	Refresh    bool   `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Steps is the compiled step sequence.
	Steps seq.Sequence

	// PatternHash is the content hash of the compiled sequence.
	PatternHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	StepCount   int
	NoteCount   int
	RestCount   int
	CompileTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	CompileHit bool // Whether the compiled sequence came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid. Failures carry
// [errors.ErrCodeInvalidFormat] so API error payloads can name the cause.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForCompile(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForCompile checks required fields for compilation.
func (o *Options) ValidateForCompile() error {
	if o.Pattern == "" {
		return errors.New(errors.ErrCodeInvalidInput, "pattern is required")
	}
	if o.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "max_depth must not be negative")
	}

	// Compile defaults
	if o.MaxDepth == 0 {
		o.MaxDepth = pattern.DefaultMaxDepth
	}
	if o.RestSymbol == "" {
		o.RestSymbol = seq.DefaultRestSymbol
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForCompile(); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "scale must not be negative")
	}
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// CompileOptions returns the pattern compiler configuration for these options.
// The random source is freshly seeded per call so repeated compilations of
// the same options are reproducible.
func (o *Options) CompileOptions() pattern.Options {
	return pattern.Options{
		MaxDepth:   o.MaxDepth,
		RestSymbol: o.RestSymbol,
		Normalize:  o.Normalize,
		Verbose:    o.Verbose,
		Logger:     o.Logger,
		Rand:       seq.NewRand(o.Seed),
	}
}

// SequenceKeyOpts returns cache key options for the compile stage.
func (o *Options) SequenceKeyOpts() cache.SequenceKeyOpts {
	return cache.SequenceKeyOpts{
		MaxDepth:   o.MaxDepth,
		RestSymbol: o.RestSymbol,
		Normalize:  o.Normalize,
		Seed:       o.Seed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Scale:  o.Scale,
	}
}
