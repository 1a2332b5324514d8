package scene

import (
	"github.com/matzehuels/chordwheel/pkg/relation"
	"github.com/matzehuels/chordwheel/pkg/render/chord/interaction"
)

// Surface is a drawing target that owns one scene at a time along with its
// hover state. It is not safe for concurrent use.
type Surface struct {
	view    ViewState
	current Scene
	hover   interaction.Machine
}

// NewSurface returns an empty surface for view.
func NewSurface(view ViewState) *Surface {
	s := &Surface{view: view.Normalize()}
	s.current = Build(nil, s.view)
	return s
}

// Draw replaces the current scene with one built from rels and resets the
// hover state. Drawing an empty set leaves an empty scene.
func (s *Surface) Draw(rels []relation.Relationship) Scene {
	s.hover.Reset()
	s.current = Build(rels, s.view)
	return s.current
}

// SetView changes the view state used by the next Draw.
func (s *Surface) SetView(view ViewState) { s.view = view.Normalize() }

// View returns the view state used by Draw.
func (s *Surface) View() ViewState { return s.view }

// Scene returns the current scene.
func (s *Surface) Scene() Scene { return s.current }

// Interaction returns the hover machine of the current scene.
func (s *Surface) Interaction() *interaction.Machine { return &s.hover }

// EnterRibbon hovers the i-th ribbon of the current scene at p. It reports
// false if i is out of range.
func (s *Surface) EnterRibbon(i int, p interaction.Point) bool {
	if i < 0 || i >= len(s.current.Ribbons) {
		return false
	}
	s.hover.Enter(s.current.Ribbons[i].Hover(), p)
	return true
}

// LeaveRibbon ends the hover of the i-th ribbon.
func (s *Surface) LeaveRibbon(i int) {
	if i < 0 || i >= len(s.current.Ribbons) {
		return
	}
	s.hover.Leave(s.current.Ribbons[i].Hover())
}
