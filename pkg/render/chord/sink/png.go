package sink

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/chordwheel/pkg/fonts"
	"github.com/matzehuels/chordwheel/pkg/render"
	"github.com/matzehuels/chordwheel/pkg/render/chord/scene"
	"github.com/matzehuels/chordwheel/pkg/render/chord/styles"
)

// DefaultScale is the PNG scale factor when none is given.
const DefaultScale = 2.0

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
	noText  bool
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithoutLabels skips the label overlay.
func WithoutLabels() PNGOption {
	return func(r *pngRenderer) { r.noText = true }
}

// RenderPNG renders sc as a PNG at the configured scale. Shapes go through
// the SVG renderer and [render.Rasterize]; labels are drawn on top with the
// embedded Go fonts since the vector decoder does not handle text.
func RenderPNG(sc scene.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: DefaultScale}
	for _, opt := range opts {
		opt(&r)
	}
	if !(r.scale > 0) {
		r.scale = 1
	}

	svgOpts := append([]SVGOption{WithStatic()}, r.svgOpts...)
	img, err := render.Rasterize(RenderSVG(sc, svgOpts...), r.scale)
	if err != nil {
		return nil, err
	}
	if !r.noText {
		if err := overlayLabels(img, sc, r.scale); err != nil {
			return nil, err
		}
	}
	return render.EncodePNG(img)
}

// overlayLabels draws every label of sc onto img, reproducing the SVG text
// placement: anchored at the label point, rotated, vertically centered on
// the baseline shifted by 0.35em.
func overlayLabels(img *image.RGBA, sc scene.Scene, scale float64) error {
	size := LabelFontSize * scale
	if sc.Empty() {
		return drawCentered(img, EmptyText, 14*scale, sc.CX*scale, sc.CY*scale, color.RGBA{0x6b, 0x72, 0x80, 0xff})
	}

	faces := map[bool]font.Face{}
	defer func() {
		for _, f := range faces {
			f.Close()
		}
	}()

	for _, l := range sc.Labels {
		bold := l.Weight == "bold"
		face, ok := faces[bold]
		if !ok {
			var err error
			if face, err = fonts.Face(size, bold); err != nil {
				return err
			}
			faces[bold] = face
		}
		glyphs, width := textImage(face, l.Text, parseColor(l.Fill))
		if glyphs == nil {
			continue
		}
		offX := 0.0
		if l.Flipped() {
			offX = -width
		}
		ascent := float64(face.Metrics().Ascent.Ceil())
		offY := -ascent + 0.35*size
		drawRotated(img, glyphs, l.X*scale, l.Y*scale, l.Rotation*math.Pi/180, offX, offY)
	}
	return nil
}

func drawCentered(img *image.RGBA, text string, size, cx, cy float64, c color.Color) error {
	face, err := fonts.Face(size, false)
	if err != nil {
		return err
	}
	defer face.Close()
	glyphs, width := textImage(face, text, c)
	if glyphs == nil {
		return nil
	}
	ascent := float64(face.Metrics().Ascent.Ceil())
	drawRotated(img, glyphs, cx, cy, 0, -width/2, -ascent+0.35*size)
	return nil
}

// textImage renders text on a transparent image with the baseline at the
// face ascent. It returns nil for empty text.
func textImage(face font.Face, text string, c color.Color) (*image.RGBA, float64) {
	adv := font.MeasureString(face, text)
	w := adv.Ceil()
	if w <= 0 {
		return nil, 0
	}
	m := face.Metrics()
	h := (m.Ascent + m.Descent).Ceil()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: fixed.I(m.Ascent.Ceil())},
	}
	d.DrawString(text)
	return dst, float64(adv) / 64
}

// drawRotated composites src onto dst so that src pixel (u, v) lands at
// anchor + R(theta)·(u+offX, v+offY).
func drawRotated(dst *image.RGBA, src *image.RGBA, ax, ay, theta, offX, offY float64) {
	sin, cos := math.Sincos(theta)
	m := f64.Aff3{
		cos, -sin, ax + cos*offX - sin*offY,
		sin, cos, ay + sin*offX + cos*offY,
	}
	draw.BiLinear.Transform(dst, m, src, src.Bounds(), draw.Over, nil)
}

func parseColor(hex string) color.Color {
	r, g, b, ok := styles.RGB(hex)
	if !ok {
		return color.Black
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
