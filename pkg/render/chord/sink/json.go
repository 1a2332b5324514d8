package sink

import (
	"encoding/json"

	"github.com/matzehuels/chordwheel/pkg/entity"
	"github.com/matzehuels/chordwheel/pkg/render/chord/scene"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	paths bool
}

// WithJSONPaths includes the SVG path data of arcs and ribbons.
func WithJSONPaths() JSONOption { return func(r *jsonRenderer) { r.paths = true } }

type jsonOutput struct {
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	ViewBox     string       `json:"view_box"`
	InnerRadius float64      `json:"inner_radius"`
	OuterRadius float64      `json:"outer_radius"`
	PadAngle    float64      `json:"pad_angle"`
	ColorBy     string       `json:"color_by"`
	Total       float64      `json:"total"`
	Overwritten int          `json:"overwritten,omitempty"`
	Entities    []jsonEntity `json:"entities"`
	Ribbons     []jsonRibbon `json:"ribbons"`
}

type jsonEntity struct {
	Index      int             `json:"index"`
	Label      string          `json:"label"`
	Code       string          `json:"code"`
	Category   entity.Category `json:"category"`
	Value      float64         `json:"value"`
	StartAngle float64         `json:"start_angle"`
	EndAngle   float64         `json:"end_angle"`
	Color      string          `json:"color"`
	Path       string          `json:"path,omitempty"`
}

type jsonRibbon struct {
	Source     string     `json:"source"`
	Target     string     `json:"target"`
	Value      float64    `json:"value"`
	SourceSpan [2]float64 `json:"source_span"`
	TargetSpan [2]float64 `json:"target_span"`
	Color      string     `json:"color"`
	Path       string     `json:"path,omitempty"`
}

// RenderJSON exports the canonical order, arc spans and ribbon spans of sc as
// a pretty-printed JSON document. Angles are radians clockwise from 12
// o'clock.
func RenderJSON(sc scene.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:       sc.View.Width,
		Height:      sc.View.Height,
		ViewBox:     sc.ViewBox(),
		InnerRadius: sc.InnerRadius,
		OuterRadius: sc.OuterRadius,
		PadAngle:    sc.Layout.PadAngle,
		ColorBy:     string(sc.View.ColorBy),
		Total:       sc.Layout.Total,
		Overwritten: sc.Overwritten,
		Entities:    make([]jsonEntity, 0, len(sc.Arcs)),
		Ribbons:     make([]jsonRibbon, 0, len(sc.Ribbons)),
	}

	for i, a := range sc.Layout.Arcs {
		e := sc.Order.At(a.Index)
		je := jsonEntity{
			Index:      a.Index,
			Label:      e.Label,
			Code:       e.Code,
			Category:   e.Category,
			Value:      a.Value,
			StartAngle: a.StartAngle,
			EndAngle:   a.EndAngle,
			Color:      sc.Arcs[i].Fill,
		}
		if r.paths {
			je.Path = sc.Arcs[i].Path
		}
		out.Entities = append(out.Entities, je)
	}

	for i, rb := range sc.Layout.Ribbons {
		shape := sc.Ribbons[i]
		jr := jsonRibbon{
			Source:     shape.SourceLabel,
			Target:     shape.TargetLabel,
			Value:      rb.Value,
			SourceSpan: [2]float64{rb.Source.StartAngle, rb.Source.EndAngle},
			TargetSpan: [2]float64{rb.Target.StartAngle, rb.Target.EndAngle},
			Color:      shape.Fill,
		}
		if r.paths {
			jr.Path = shape.Path
		}
		out.Ribbons = append(out.Ribbons, jr)
	}

	return json.MarshalIndent(out, "", "  ")
}
