package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/chordwheel/pkg/render/chord/interaction"
	"github.com/matzehuels/chordwheel/pkg/render/chord/scene"
)

// List styles
var (
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	tooltipBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	tooltipIdleStyle = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
)

// =============================================================================
// InspectModel - Interactive ribbon hover
// =============================================================================

// InspectModel is the bubbletea model of the inspect command. Moving the
// cursor hovers the ribbon under it, the way a pointer would on the SVG.
type InspectModel struct {
	Surface *scene.Surface
	Cursor  int
	Height  int
	Offset  int
}

// NewInspectModel creates a model over the current scene of s and hovers the
// first ribbon.
func NewInspectModel(s *scene.Surface) InspectModel {
	m := InspectModel{Surface: s, Height: 15}
	m.hover()
	return m
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.Surface.Scene().Ribbons)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
				m.hover()
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
				m.hover()
			}
		case "enter", " ":
			if m.Surface.Interaction().State() == interaction.Hover {
				m.Surface.LeaveRibbon(m.Cursor)
			} else {
				m.hover()
			}
		case "esc":
			m.Surface.Interaction().Reset()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// hover enters the ribbon under the cursor at the midpoint of its source
// chord.
func (m *InspectModel) hover() {
	if p, ok := ribbonAnchor(m.Surface.Scene(), m.Cursor); ok {
		m.Surface.EnterRibbon(m.Cursor, p)
	}
}

func (m InspectModel) View() string {
	sc := m.Surface.Scene()
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Ribbons"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ hover/leave  esc reset  q quit"))
	b.WriteString("\n\n")

	if sc.Empty() {
		b.WriteString(tooltipIdleStyle.Render("No relationships to display"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(sc.Ribbons))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		rb := sc.Ribbons[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, rb.SourceLabel, rb.TargetLabel, interaction.FormatValue(rb.Value), swatch(rb.Fill)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("", "Source", "Target", "Value", "Color").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			idx := m.Offset + row
			if idx >= len(sc.Ribbons) || col == 4 {
				return lipgloss.NewStyle()
			}
			if idx == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(sc.Ribbons))))
	b.WriteString("\n\n")
	b.WriteString(m.tooltipView())
	return b.String()
}

func (m InspectModel) tooltipView() string {
	hover := m.Surface.Interaction()
	tip := hover.Tooltip()
	state := StyleDim.Render("state: " + hover.State().String())
	if !tip.Visible {
		return tooltipIdleStyle.Render("no ribbon hovered") + "\n" + state
	}
	pos := StyleDim.Render(fmt.Sprintf("tooltip at (%.1f, %.1f)", tip.X, tip.Y))
	return tooltipBoxStyle.Render(interaction.Format(tip)) + "\n" + state + "  " + pos
}

// ribbonAnchor returns the midpoint of the i-th ribbon's source chord in
// surface coordinates.
func ribbonAnchor(sc scene.Scene, i int) (interaction.Point, bool) {
	if i < 0 || i >= len(sc.Layout.Ribbons) {
		return interaction.Point{}, false
	}
	seg := sc.Layout.Ribbons[i].Source
	a := (seg.StartAngle + seg.EndAngle) / 2
	sin, cos := math.Sincos(a)
	return interaction.Point{
		X: sc.CX + sc.InnerRadius*sin,
		Y: sc.CY - sc.InnerRadius*cos,
	}, true
}
