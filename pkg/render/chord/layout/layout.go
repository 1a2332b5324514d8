// Package layout computes the angular geometry of a directed chord diagram.
//
// Given an N×N flow matrix, [Compute] assigns each entity an arc of the
// circle proportional to its total flow (outgoing plus incoming) and carves
// each arc into segments, one per nonzero cell the entity participates in.
// Every nonzero cell (i, j) yields a [Ribbon] joining its outgoing segment on
// arc i to its incoming segment on arc j.
//
// Angles are in radians, measured clockwise from 12 o'clock. Arcs follow the
// canonical entity order starting at angle 0 and are separated by a fixed
// padding angle. The spans of all arcs plus the padding always add up to a
// full turn.
//
// The engine is a pure function of the matrix and [Options]; it never errors.
// Negative cells produce negative-width segments, and a matrix whose total is
// not positive splits the circle evenly between arcs with zero-width segments.
package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/chordwheel/pkg/matrix"
)

// Tau is a full turn in radians.
const Tau = 2 * math.Pi

// DefaultPadAngle is the gap between consecutive arcs in radians.
const DefaultPadAngle = 0.05

// Options configures [Compute].
type Options struct {
	// PadAngle is the gap between arcs. Negative values are treated as zero
	// and the effective value is capped at π/N.
	PadAngle float64
}

// DefaultOptions returns the options used by the renderer.
func DefaultOptions() Options {
	return Options{PadAngle: DefaultPadAngle}
}

// Arc is the angular extent of one entity.
type Arc struct {
	Index      int     `json:"index"`
	Value      float64 `json:"value"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
}

// Span returns EndAngle - StartAngle.
func (a Arc) Span() float64 { return a.EndAngle - a.StartAngle }

// Mid returns the angle halfway along the arc.
func (a Arc) Mid() float64 { return (a.StartAngle + a.EndAngle) / 2 }

// Segment is the part of arc Index occupied by the flow to or from Peer.
type Segment struct {
	Index      int     `json:"index"`
	Peer       int     `json:"peer"`
	Outgoing   bool    `json:"outgoing"`
	Value      float64 `json:"value"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
}

// Ribbon is the directed flow between two segments.
type Ribbon struct {
	Source Segment `json:"source"`
	Target Segment `json:"target"`
	Value  float64 `json:"value"`
}

// IsSelfLoop reports whether the ribbon starts and ends on the same arc.
func (r Ribbon) IsSelfLoop() bool { return r.Source.Index == r.Target.Index }

// Layout is the computed geometry.
type Layout struct {
	Arcs     []Arc    `json:"arcs"`
	Ribbons  []Ribbon `json:"ribbons"`
	PadAngle float64  `json:"pad_angle"`
	Total    float64  `json:"total"`
}

// Compute lays out m.
func Compute(m matrix.Matrix, opts Options) Layout {
	n := m.N()
	out := Layout{Arcs: []Arc{}, Ribbons: []Ribbon{}}
	if n == 0 {
		return out
	}

	pad := math.Max(opts.PadAngle, 0)
	pad = math.Min(pad, math.Pi/float64(n))
	out.PadAngle = pad
	out.Total = m.Total()

	// Each cell is counted twice, once on its source arc and once on its
	// target arc, so the arc values add up to twice the matrix total.
	var arcTotal float64
	for i := 0; i < n; i++ {
		arcTotal += m.RowSum(i) + m.ColSum(i)
	}

	free := Tau - float64(n)*pad
	var k float64
	if arcTotal > 0 {
		k = free / arcTotal
	}

	type key struct{ i, j int }
	outSeg := map[key]Segment{}
	inSeg := map[key]Segment{}

	x := 0.0
	for i := 0; i < n; i++ {
		segs := segmentsOf(m, i)
		x0 := x
		for _, s := range segs {
			s.StartAngle = x
			x += s.Value * k
			s.EndAngle = x
			if s.Outgoing {
				outSeg[key{i, s.Peer}] = s
			} else {
				inSeg[key{s.Peer, i}] = s
			}
		}
		value := m.RowSum(i) + m.ColSum(i)
		if k == 0 {
			x = x0 + free/float64(n)
		}
		out.Arcs = append(out.Arcs, Arc{Index: i, Value: value, StartAngle: x0, EndAngle: x})
		x += pad
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := m.At(i, j)
			if v == 0 {
				continue
			}
			out.Ribbons = append(out.Ribbons, Ribbon{
				Source: outSeg[key{i, j}],
				Target: inSeg[key{i, j}],
				Value:  v,
			})
		}
	}
	return out
}

// segmentsOf returns the nonzero segments of arc i in drawing order:
// descending value, then peer index, then outgoing before incoming.
func segmentsOf(m matrix.Matrix, i int) []Segment {
	var segs []Segment
	for j := 0; j < m.N(); j++ {
		if v := m.At(i, j); v != 0 {
			segs = append(segs, Segment{Index: i, Peer: j, Outgoing: true, Value: v})
		}
		if v := m.At(j, i); v != 0 {
			segs = append(segs, Segment{Index: i, Peer: j, Outgoing: false, Value: v})
		}
	}
	slices.SortStableFunc(segs, func(a, b Segment) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Peer, b.Peer); c != 0 {
			return c
		}
		switch {
		case a.Outgoing == b.Outgoing:
			return 0
		case a.Outgoing:
			return -1
		default:
			return 1
		}
	})
	return segs
}
