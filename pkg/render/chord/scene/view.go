package scene

import (
	"math"

	"github.com/matzehuels/chordwheel/pkg/errors"
	"github.com/matzehuels/chordwheel/pkg/render/chord/layout"
)

// ColorBy selects which ribbon endpoint determines the ribbon color.
type ColorBy string

const (
	ColorByTarget ColorBy = "target"
	ColorBySource ColorBy = "source"
)

// Default surface size.
const (
	DefaultWidth  = 900
	DefaultHeight = 600
)

// MaxDimension bounds Width and Height. A PNG export allocates
// width·height·scale² pixels, so the bound keeps one request from exhausting
// memory.
const MaxDimension = 10000

// ViewState is everything the renderer needs besides the relationships.
// It is plain data so it can be stored, sent over the wire or bound to flags.
type ViewState struct {
	Width     float64  `json:"width" yaml:"width" mapstructure:"width"`
	Height    float64  `json:"height" yaml:"height" mapstructure:"height"`
	Palette   []string `json:"palette,omitempty" yaml:"palette,omitempty" mapstructure:"palette"`
	SurfaceID string   `json:"surface_id,omitempty" yaml:"surface_id,omitempty" mapstructure:"surface_id"`
	ColorBy   ColorBy  `json:"color_by,omitempty" yaml:"color_by,omitempty" mapstructure:"color_by"`
	// PadAngle is the gap between arcs in radians. Zero selects
	// layout.DefaultPadAngle; a negative value disables padding.
	PadAngle float64 `json:"pad_angle,omitempty" yaml:"pad_angle,omitempty" mapstructure:"pad_angle"`
}

// DefaultViewState returns a 900×600 view colored by target.
func DefaultViewState() ViewState {
	return ViewState{Width: DefaultWidth, Height: DefaultHeight, ColorBy: ColorByTarget}
}

// Normalize fills unset fields with their defaults.
func (v ViewState) Normalize() ViewState {
	if v.Width <= 0 {
		v.Width = DefaultWidth
	}
	if v.Height <= 0 {
		v.Height = DefaultHeight
	}
	if v.ColorBy == "" {
		v.ColorBy = ColorByTarget
	}
	return v
}

// Validate checks the palette colors, dimensions and color mode.
func (v ViewState) Validate() error {
	if v.Width < 0 || v.Height < 0 || math.IsNaN(v.Width) || math.IsNaN(v.Height) ||
		math.IsInf(v.Width, 0) || math.IsInf(v.Height, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid dimensions %vx%v", v.Width, v.Height)
	}
	if v.Width > MaxDimension || v.Height > MaxDimension {
		return errors.New(errors.ErrCodeInvalidConfig, "dimensions %vx%v exceed %d", v.Width, v.Height, MaxDimension)
	}
	switch v.ColorBy {
	case "", ColorByTarget, ColorBySource:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "color_by must be %q or %q, got %q", ColorByTarget, ColorBySource, v.ColorBy)
	}
	for _, c := range v.Palette {
		if err := errors.ValidateColor(c); err != nil {
			return err
		}
	}
	return nil
}

// LayoutOptions maps PadAngle to layout options.
func (v ViewState) LayoutOptions() layout.Options {
	switch {
	case v.PadAngle == 0:
		return layout.DefaultOptions()
	case v.PadAngle < 0:
		return layout.Options{PadAngle: 0}
	default:
		return layout.Options{PadAngle: v.PadAngle}
	}
}
