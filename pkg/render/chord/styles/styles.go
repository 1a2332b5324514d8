// Package styles holds the colors and label styling of chord diagrams.
package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/chordwheel/pkg/entity"
	"github.com/matzehuels/chordwheel/pkg/errors"
)

// Palette is an ordered list of "#rrggbb" colors.
type Palette []string

// Category10 is the ten-color categorical scheme used by default.
var Category10 = Palette{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Resolve returns custom when it has at least n colors and every one is a
// valid hex color, else [Category10].
func Resolve(custom []string, n int) Palette {
	if len(custom) == 0 || len(custom) < n {
		return Category10
	}
	for _, c := range custom {
		if errors.ValidateColor(c) != nil {
			return Category10
		}
	}
	return Palette(custom)
}

// Color returns the color for canonical index i, cycling through the palette.
func (p Palette) Color(i int) string {
	if len(p) == 0 {
		p = Category10
	}
	if i < 0 {
		i = -i
	}
	return p[i%len(p)]
}

const darkerFactor = 0.7

// Darker scales every channel of hex by 0.7. Unparseable input is returned
// unchanged.
func Darker(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return hex
	}
	scale := func(c uint8) uint8 { return uint8(math.Round(float64(c) * darkerFactor)) }
	return fmt.Sprintf("#%02x%02x%02x", scale(r), scale(g), scale(b))
}

// Tint mixes hex with white by amount in [0,1].
func Tint(hex string, amount float64) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return hex
	}
	amount = math.Max(0, math.Min(1, amount))
	mix := func(c uint8) uint8 { return uint8(math.Round(float64(c) + (255-float64(c))*amount)) }
	return fmt.Sprintf("#%02x%02x%02x", mix(r), mix(g), mix(b))
}

// RGB returns the channels of a "#rgb" or "#rrggbb" color.
func RGB(hex string) (r, g, b uint8, ok bool) { return parseHex(hex) }

func parseHex(hex string) (r, g, b uint8, ok bool) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// Label colors.
const (
	LabelColor      = "#333333"
	ProcessAreaTint = "#1f4e79"
)

// LabelStyle is the text styling applied to an entity label.
type LabelStyle struct {
	Weight string
	Fill   string
}

// ForCategory returns the label style for cat. Containers and process areas
// are bold, and process areas use an accent color.
func ForCategory(cat entity.Category) LabelStyle {
	switch cat {
	case entity.Container:
		return LabelStyle{Weight: "bold", Fill: LabelColor}
	case entity.ProcessArea:
		return LabelStyle{Weight: "bold", Fill: ProcessAreaTint}
	default:
		return LabelStyle{Weight: "normal", Fill: LabelColor}
	}
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
