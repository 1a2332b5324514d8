package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/chordwheel/pkg/entity"
	"github.com/matzehuels/chordwheel/pkg/matrix"
	"github.com/matzehuels/chordwheel/pkg/relation"
	"github.com/matzehuels/chordwheel/pkg/render/chord/layout"
)

// =============================================================================
// Layout Summary
// =============================================================================

// Summary is the view-independent part of a diagram: canonical order,
// categories and arc spans. It is what the layout command prints and what the
// runner caches per dataset.
type Summary struct {
	PadAngle    float64      `json:"pad_angle"`
	Total       float64      `json:"total"`
	Overwritten int          `json:"overwritten,omitempty"`
	Ribbons     int          `json:"ribbons"`
	Entities    []EntitySpan `json:"entities"`
}

// EntitySpan is one entity with its arc.
type EntitySpan struct {
	Index      int             `json:"index"`
	Label      string          `json:"label"`
	Code       string          `json:"code"`
	Category   entity.Category `json:"category"`
	Value      float64         `json:"value"`
	StartAngle float64         `json:"start_angle"`
	EndAngle   float64         `json:"end_angle"`
}

// Span returns EndAngle - StartAngle.
func (e EntitySpan) Span() float64 { return e.EndAngle - e.StartAngle }

// Summarize canonicalizes rels, builds the matrix and computes the layout.
func Summarize(rels []relation.Relationship, opts layout.Options) Summary {
	order := entity.Canonicalize(rels)
	m := matrix.Build(order, rels)
	l := layout.Compute(m, opts)

	s := Summary{
		PadAngle:    l.PadAngle,
		Total:       l.Total,
		Overwritten: m.Overwritten(),
		Ribbons:     len(l.Ribbons),
		Entities:    make([]EntitySpan, 0, len(l.Arcs)),
	}
	for _, a := range l.Arcs {
		e := order.At(a.Index)
		s.Entities = append(s.Entities, EntitySpan{
			Index:      a.Index,
			Label:      e.Label,
			Code:       e.Code,
			Category:   e.Category,
			Value:      a.Value,
			StartAngle: a.StartAngle,
			EndAngle:   a.EndAngle,
		})
	}
	return s
}

// MarshalSummary serializes a summary for the cache.
func MarshalSummary(s Summary) ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSummary is the inverse of [MarshalSummary].
func UnmarshalSummary(data []byte) (Summary, error) {
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, err
	}
	if s.Entities == nil {
		s.Entities = []EntitySpan{}
	}
	return s, nil
}
