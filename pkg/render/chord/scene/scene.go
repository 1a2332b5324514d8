// Package scene turns relationships into drawable chord diagram shapes.
//
// [Build] runs the whole core pipeline: canonicalize entities, build the flow
// matrix, compute the layout and map it to positioned shapes with colors and
// label transforms. The result is a pure function of the relationships and the
// [ViewState]; sinks in the sibling sink package serialize it.
//
// Shapes use absolute surface coordinates. Label transforms are relative to
// the circle center ([Scene.CX], [Scene.CY]) so they can be applied inside a
// translated group.
package scene

import (
	"fmt"
	"math"

	"github.com/matzehuels/chordwheel/pkg/entity"
	"github.com/matzehuels/chordwheel/pkg/matrix"
	"github.com/matzehuels/chordwheel/pkg/relation"
	"github.com/matzehuels/chordwheel/pkg/render/chord/interaction"
	"github.com/matzehuels/chordwheel/pkg/render/chord/layout"
	"github.com/matzehuels/chordwheel/pkg/render/chord/styles"
)

// Geometry constants in surface units.
const (
	RadiusMargin   = 80.0
	MinInnerRadius = 10.0
	ArcThickness   = 10.0
	LabelOffset    = 10.0
	RibbonOpacity  = 0.8
)

// ArcShape is the drawable arc of one entity.
type ArcShape struct {
	Index    int             `json:"index"`
	Label    string          `json:"label"`
	Category entity.Category `json:"category"`
	Path     string          `json:"path"`
	Fill     string          `json:"fill"`
	Stroke   string          `json:"stroke"`
}

// RibbonShape is the drawable ribbon of one nonzero flow.
type RibbonShape struct {
	Source      int     `json:"source"`
	Target      int     `json:"target"`
	SourceLabel string  `json:"source_label"`
	TargetLabel string  `json:"target_label"`
	Value       float64 `json:"value"`
	Path        string  `json:"path"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	Opacity     float64 `json:"opacity"`
}

// Hover returns the interaction handle of the ribbon.
func (r RibbonShape) Hover() interaction.Ribbon {
	return interaction.Ribbon{Source: r.SourceLabel, Target: r.TargetLabel, Value: r.Value}
}

// LabelShape is the code label drawn outside an arc.
type LabelShape struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	// Angle is the arc midpoint in radians.
	Angle float64 `json:"angle"`
	// Transform positions the label relative to the circle center.
	Transform string `json:"transform"`
	Anchor    string `json:"anchor"`
	Weight    string `json:"weight"`
	Fill      string `json:"fill"`
	// X and Y are the absolute anchor point; Rotation is the text direction
	// in degrees clockwise from the positive x axis.
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

// Flipped reports whether the label sits on the left half and reads
// right-to-left from its anchor.
func (l LabelShape) Flipped() bool { return l.Anchor == "end" }

// Scene is a fully resolved diagram.
type Scene struct {
	View        ViewState      `json:"view"`
	Order       entity.Order   `json:"entities"`
	Layout      layout.Layout  `json:"layout"`
	Overwritten int            `json:"overwritten,omitempty"`
	CX          float64        `json:"cx"`
	CY          float64        `json:"cy"`
	InnerRadius float64        `json:"inner_radius"`
	OuterRadius float64        `json:"outer_radius"`
	Palette     styles.Palette `json:"palette"`
	Arcs        []ArcShape     `json:"arcs"`
	Ribbons     []RibbonShape  `json:"ribbons"`
	Labels      []LabelShape   `json:"labels"`
}

// Empty reports whether the scene has nothing to draw.
func (s Scene) Empty() bool { return len(s.Arcs) == 0 }

// ViewBox returns the SVG view box of the surface.
func (s Scene) ViewBox() string {
	return fmt.Sprintf("0 0 %s %s", num(s.View.Width), num(s.View.Height))
}

// Radii returns the inner and outer arc radii for a w×h surface.
func Radii(w, h float64) (inner, outer float64) {
	inner = math.Max(math.Min(w, h)/2-RadiusMargin, MinInnerRadius)
	return inner, inner + ArcThickness
}

// Build computes the scene for rels. The view is normalized first; callers
// should validate it beforehand if it comes from user input.
func Build(rels []relation.Relationship, view ViewState) Scene {
	view = view.Normalize()
	order := entity.Canonicalize(rels)
	m := matrix.Build(order, rels)
	l := layout.Compute(m, view.LayoutOptions())

	s := Scene{
		View:        view,
		Order:       order,
		Layout:      l,
		Overwritten: m.Overwritten(),
		CX:          view.Width / 2,
		CY:          view.Height / 2,
		Palette:     styles.Resolve(view.Palette, order.Len()),
		Arcs:        []ArcShape{},
		Ribbons:     []RibbonShape{},
		Labels:      []LabelShape{},
	}
	s.InnerRadius, s.OuterRadius = Radii(view.Width, view.Height)

	for _, a := range l.Arcs {
		e := order.At(a.Index)
		fill := s.Palette.Color(a.Index)
		s.Arcs = append(s.Arcs, ArcShape{
			Index:    a.Index,
			Label:    e.Label,
			Category: e.Category,
			Path:     ArcPath(s.CX, s.CY, s.InnerRadius, s.OuterRadius, a.StartAngle, a.EndAngle),
			Fill:     fill,
			Stroke:   styles.Darker(fill),
		})
		s.Labels = append(s.Labels, s.label(e, a.Mid()))
	}

	for _, r := range l.Ribbons {
		key := r.Target.Index
		if view.ColorBy == ColorBySource {
			key = r.Source.Index
		}
		fill := s.Palette.Color(key)
		s.Ribbons = append(s.Ribbons, RibbonShape{
			Source:      r.Source.Index,
			Target:      r.Target.Index,
			SourceLabel: order.At(r.Source.Index).Label,
			TargetLabel: order.At(r.Target.Index).Label,
			Value:       r.Value,
			Path:        RibbonPath(s.CX, s.CY, s.InnerRadius, r.Source, r.Target),
			Fill:        fill,
			Stroke:      styles.Darker(fill),
			Opacity:     RibbonOpacity,
		})
	}
	return s
}

func (s Scene) label(e entity.Entity, angle float64) LabelShape {
	deg := angle*180/math.Pi - 90
	dist := s.OuterRadius + LabelOffset
	st := styles.ForCategory(e.Category)

	l := LabelShape{
		Index:     e.Index,
		Text:      e.Code,
		Angle:     angle,
		Transform: fmt.Sprintf("rotate(%s) translate(%s)", num(deg), num(dist)),
		Anchor:    "start",
		Weight:    st.Weight,
		Fill:      st.Fill,
		Rotation:  deg,
	}
	l.X, l.Y = polar(s.CX, s.CY, dist, angle)
	if angle > math.Pi {
		l.Transform += " rotate(180)"
		l.Anchor = "end"
		l.Rotation = deg + 180
	}
	return l
}
