// Package interaction models hover behavior over chord diagram ribbons.
//
// A [Machine] tracks which ribbon, if any, is under the pointer and where
// its tooltip sits. It knows nothing about geometry or text: renderers feed
// it pointer events and read back a [Tooltip], and [Format] and [FormatHTML]
// turn that tooltip into display text.
//
//	Idle --Enter--> Hover --Leave--> Idle
//	                Hover --Move---> Hover (tooltip follows pointer)
//	                Hover --Enter--> Hover (other ribbon replaces current)
//	any   --Reset--> Idle
package interaction

import (
	"fmt"
	"html"
	"strconv"
)

// State is the hover state of a [Machine].
type State int

const (
	Idle State = iota
	Hover
)

func (s State) String() string {
	if s == Hover {
		return "hover"
	}
	return "idle"
}

// Tooltip offset from the pointer, in surface units.
const (
	OffsetX = -10.0
	OffsetY = -50.0
)

// Point is a pointer position.
type Point struct {
	X, Y float64
}

// Ribbon identifies a hovered ribbon by its endpoint labels and value.
type Ribbon struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// Tooltip is the visible hover state.
type Tooltip struct {
	Visible bool    `json:"visible"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Source  string  `json:"source,omitempty"`
	Target  string  `json:"target,omitempty"`
	Value   float64 `json:"value,omitempty"`
}

// Machine is the hover state machine. The zero value is idle.
// A Machine is not safe for concurrent use.
type Machine struct {
	state   State
	hovered Ribbon
	tip     Tooltip
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Tooltip returns the current tooltip. It is hidden while idle.
func (m *Machine) Tooltip() Tooltip { return m.tip }

// Hovered returns the ribbon under the pointer.
func (m *Machine) Hovered() (Ribbon, bool) {
	return m.hovered, m.state == Hover
}

// Enter shows the tooltip for r at p, replacing any hovered ribbon.
func (m *Machine) Enter(r Ribbon, p Point) {
	m.state = Hover
	m.hovered = r
	m.tip = Tooltip{
		Visible: true,
		X:       p.X + OffsetX,
		Y:       p.Y + OffsetY,
		Source:  r.Source,
		Target:  r.Target,
		Value:   r.Value,
	}
}

// Move repositions the tooltip. It is ignored while idle.
func (m *Machine) Move(p Point) {
	if m.state != Hover {
		return
	}
	m.tip.X = p.X + OffsetX
	m.tip.Y = p.Y + OffsetY
}

// Leave hides the tooltip if r is the hovered ribbon.
func (m *Machine) Leave(r Ribbon) {
	if m.state != Hover || r != m.hovered {
		return
	}
	m.Reset()
}

// Reset returns to idle.
func (m *Machine) Reset() {
	*m = Machine{}
}

// FormatValue renders v in its shortest round-tripping decimal form.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Format renders t as plain text, or "" if hidden.
func Format(t Tooltip) string {
	if !t.Visible {
		return ""
	}
	return fmt.Sprintf("%s → %s\nValue: %s", t.Source, t.Target, FormatValue(t.Value))
}

// FormatHTML renders t as an HTML fragment with escaped labels, or "" if
// hidden.
func FormatHTML(t Tooltip) string {
	if !t.Visible {
		return ""
	}
	return fmt.Sprintf("<div><strong>%s</strong> → <strong>%s</strong></div><div>Value: %s</div>",
		html.EscapeString(t.Source), html.EscapeString(t.Target), FormatValue(t.Value))
}
