package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/matzehuels/chordwheel/pkg/errors"
)

// SVGNamespace is the namespace every standalone SVG document must declare.
const SVGNamespace = "http://www.w3.org/2000/svg"

// Export scale bounds.
const (
	MinScale = 1
	MaxScale = 3
)

// MaxPixels bounds the raster size of one export (about 400 MB of RGBA).
const MaxPixels = 100_000_000

var rootTagRe = regexp.MustCompile(`<svg\b[^>]*>`)

// EnsureNamespace returns svg with xmlns declared on the root element. Input
// that already declares it, or has no root svg element, is returned unchanged.
func EnsureNamespace(svg []byte) []byte {
	loc := rootTagRe.FindIndex(svg)
	if loc == nil {
		return svg
	}
	if bytes.Contains(svg[loc[0]:loc[1]], []byte("xmlns=")) {
		return svg
	}
	return insertRootAttr(svg, loc[0], fmt.Sprintf(` xmlns=%q`, SVGNamespace))
}

func insertRootAttr(svg []byte, start int, attr string) []byte {
	at := start + len("<svg")
	out := make([]byte, 0, len(svg)+len(attr))
	out = append(out, svg[:at]...)
	out = append(out, attr...)
	return append(out, svg[at:]...)
}

// ValidScale reports whether scale is an integer export factor in
// [MinScale, MaxScale].
func ValidScale(scale float64) bool {
	return scale >= MinScale && scale <= MaxScale && scale == math.Trunc(scale)
}

// ScaleFor maps a device pixel ratio to an integer export scale: rounded up
// and clamped to [MinScale, MaxScale].
func ScaleFor(devicePixelRatio float64) int {
	if math.IsNaN(devicePixelRatio) || devicePixelRatio <= MinScale {
		return MinScale
	}
	s := math.Ceil(devicePixelRatio)
	if s > MaxScale {
		return MaxScale
	}
	return int(s)
}

// Size is the intrinsic size of an SVG document in user units.
type Size struct {
	Width, Height float64
	// FromViewBox is true when the size came from the viewBox attribute.
	FromViewBox bool
}

// Dimensions returns the size of svg from its viewBox, falling back to the
// width and height attributes of the root element.
func Dimensions(svg []byte) (Size, error) {
	attrs, err := rootAttrs(svg)
	if err != nil {
		return Size{}, err
	}
	if vb, ok := attrs["viewBox"]; ok {
		f := strings.FieldsFunc(vb, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' || r == '\n' })
		if len(f) == 4 {
			w, errW := strconv.ParseFloat(f[2], 64)
			h, errH := strconv.ParseFloat(f[3], 64)
			if errW == nil && errH == nil && w > 0 && h > 0 {
				return Size{Width: w, Height: h, FromViewBox: true}, nil
			}
		}
	}
	w, okW := parseLength(attrs["width"])
	h, okH := parseLength(attrs["height"])
	if okW && okH {
		return Size{Width: w, Height: h}, nil
	}
	return Size{}, errors.New(errors.ErrCodeExportDecode, "svg has no usable viewBox or width/height")
}

func rootAttrs(svg []byte) (map[string]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(svg))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeExportDecode, "no svg root element")
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportDecode, err, "parse svg")
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "svg" {
			return nil, errors.New(errors.ErrCodeExportDecode, "root element is <%s>, want <svg>", se.Name.Local)
		}
		attrs := make(map[string]string, len(se.Attr))
		for _, a := range se.Attr {
			attrs[a.Name.Local] = a.Value
		}
		return attrs, nil
	}
}

func parseLength(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Rasterize draws svg onto an opaque white canvas of
// ceil(width*scale)×ceil(height*scale) pixels. Scales that are not positive
// are treated as 1.
func Rasterize(svg []byte, scale float64) (*image.RGBA, error) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		scale = 1
	}
	svg = EnsureNamespace(svg)
	size, err := Dimensions(svg)
	if err != nil {
		return nil, err
	}
	if !size.FromViewBox {
		loc := rootTagRe.FindIndex(svg)
		svg = insertRootAttr(svg, loc[0], fmt.Sprintf(` viewBox="0 0 %g %g"`, size.Width, size.Height))
	}

	fw, fh := math.Ceil(size.Width*scale), math.Ceil(size.Height*scale)
	if fw*fh > MaxPixels {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "raster %gx%g exceeds %d pixels", fw, fh, MaxPixels)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportDecode, err, "decode svg")
	}

	w, h := int(fw), int(fh)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportEncode, err, "encode png")
	}
	return buf.Bytes(), nil
}

// ToPNG rasterizes svg at scale and encodes the result as PNG.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	img, err := Rasterize(svg, scale)
	if err != nil {
		return nil, err
	}
	return EncodePNG(img)
}
