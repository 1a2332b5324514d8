package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/chordwheel/pkg/render/chord/layout"
)

// polar converts an angle measured clockwise from 12 o'clock to surface
// coordinates around (cx, cy).
func polar(cx, cy, r, a float64) (x, y float64) {
	return cx + r*math.Sin(a), cy - r*math.Cos(a)
}

func arcFlags(span float64) (large, sweep int) {
	if math.Abs(span) > math.Pi {
		large = 1
	}
	if span >= 0 {
		sweep = 1
	}
	return large, sweep
}

// arcTo appends an SVG elliptical arc from a0 to a1 on radius r. Spans of a
// full turn are split in two since a single arc command cannot close a circle.
func arcTo(b *strings.Builder, cx, cy, r, a0, a1 float64) {
	span := a1 - a0
	if math.Abs(span) >= layout.Tau-1e-9 {
		mid := a0 + span/2
		arcTo(b, cx, cy, r, a0, mid)
		arcTo(b, cx, cy, r, mid, a1)
		return
	}
	large, sweep := arcFlags(span)
	x, y := polar(cx, cy, r, a1)
	fmt.Fprintf(b, "A%s,%s 0 %d,%d %s,%s", num(r), num(r), large, sweep, num(x), num(y))
}

// ArcPath returns the annular sector between radii r0 < r1 from a0 to a1.
func ArcPath(cx, cy, r0, r1, a0, a1 float64) string {
	var b strings.Builder
	x, y := polar(cx, cy, r1, a0)
	fmt.Fprintf(&b, "M%s,%s", num(x), num(y))
	arcTo(&b, cx, cy, r1, a0, a1)
	x, y = polar(cx, cy, r0, a1)
	fmt.Fprintf(&b, "L%s,%s", num(x), num(y))
	arcTo(&b, cx, cy, r0, a1, a0)
	b.WriteString("Z")
	return b.String()
}

// RibbonPath returns the closed ribbon joining the source and target
// segments on radius r. Each end follows the circle and the two ends are
// joined by quadratic curves through the center.
func RibbonPath(cx, cy, r float64, src, dst layout.Segment) string {
	var b strings.Builder
	sx, sy := polar(cx, cy, r, src.StartAngle)
	fmt.Fprintf(&b, "M%s,%s", num(sx), num(sy))
	arcTo(&b, cx, cy, r, src.StartAngle, src.EndAngle)
	if src.StartAngle != dst.StartAngle || src.EndAngle != dst.EndAngle {
		tx, ty := polar(cx, cy, r, dst.StartAngle)
		fmt.Fprintf(&b, "Q%s,%s %s,%s", num(cx), num(cy), num(tx), num(ty))
		arcTo(&b, cx, cy, r, dst.StartAngle, dst.EndAngle)
	}
	fmt.Fprintf(&b, "Q%s,%s %s,%sZ", num(cx), num(cy), num(sx), num(sy))
	return b.String()
}

// num formats v with at most three decimals and no trailing zeros.
func num(v float64) string {
	if math.Abs(v) < 5e-4 {
		return "0"
	}
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
