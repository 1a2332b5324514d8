// Package pipeline runs the chord diagram pipeline shared by the CLI and the
// HTTP server.
//
// # Architecture
//
// A run takes a validated relationship set through four stages:
//
//  1. Canonicalize: unique labels in category-bucketed order
//  2. Matrix: N×N flow matrix, last write wins on duplicate pairs
//  3. Layout: arc and ribbon angles around the circle
//  4. Render: SVG, PNG and JSON artifacts from one scene
//
// Layouts and artifacts are cached under keys derived from the dataset hash
// and every option that changes the output.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Formats: []string{"svg", "png"}}
//	result, err := runner.Execute(ctx, rels, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chordwheel/pkg/cache"
	"github.com/matzehuels/chordwheel/pkg/errors"
	"github.com/matzehuels/chordwheel/pkg/render"
	"github.com/matzehuels/chordwheel/pkg/render/chord/scene"
	"github.com/matzehuels/chordwheel/pkg/render/chord/sink"
	"github.com/matzehuels/chordwheel/pkg/render/chord/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default surface width.
	DefaultWidth = float64(scene.DefaultWidth)

	// DefaultHeight is the default surface height.
	DefaultHeight = float64(scene.DefaultHeight)

	// DefaultScale is the default PNG scale factor.
	DefaultScale = sink.DefaultScale

	// MaxScale bounds the PNG scale factor.
	MaxScale = render.MaxScale
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// View options
	Width     float64  `json:"width,omitempty"`
	Height    float64  `json:"height,omitempty"`
	Palette   []string `json:"palette,omitempty"`
	ColorBy   string   `json:"color_by,omitempty"`
	PadAngle  float64  `json:"pad_angle,omitempty"`
	SurfaceID string   `json:"surface_id,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Static  bool     `json:"static,omitempty"` // SVG without hover script
	Paths   bool     `json:"paths,omitempty"`  // JSON with path data
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DatasetHash is the content hash of the relationship set.
	DatasetHash string

	// Scene is the rendered scene.
	Scene scene.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Relationships int
	Entities      int
	Ribbons       int
	Overwritten   int
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json)", format)
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

// ValidateScale checks that a PNG scale factor is a whole number from 1 to
// MaxScale.
func ValidateScale(scale float64) error {
	if !render.ValidScale(scale) {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid scale: %v (must be an integer from %d to %d)", scale, render.MinScale, MaxScale)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.View().Validate(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateScale(o.Scale); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.ColorBy == "" {
		o.ColorBy = string(scene.ColorByTarget)
	}
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

// View returns the render view described by the options.
func (o *Options) View() scene.ViewState {
	return scene.ViewState{
		Width:     o.Width,
		Height:    o.Height,
		Palette:   o.Palette,
		SurfaceID: o.SurfaceID,
		ColorBy:   scene.ColorBy(o.ColorBy),
		PadAngle:  o.PadAngle,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{PadAngle: o.View().LayoutOptions().PadAngle}
}

// ArtifactKeyOpts returns cache key options for artifact rendering. Options
// that do not affect format are left out so they share entries.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:    format,
		Width:     o.Width,
		Height:    o.Height,
		Palette:   o.Palette,
		ColorBy:   o.ColorBy,
		PadAngle:  o.View().LayoutOptions().PadAngle,
		SurfaceID: o.SurfaceID,
	}
	if len(k.Palette) == 0 {
		k.Palette = styles.Category10
	}
	switch format {
	case FormatPNG:
		k.Scale = o.Scale
		k.SurfaceID = ""
	case FormatSVG:
		if o.Static {
			k.Format += ":static"
		}
	case FormatJSON:
		if o.Paths {
			k.Format += ":paths"
		}
	}
	return k
}
