package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/chordwheel/pkg/errors"
)

func TestEnsureNamespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"missing", `<svg viewBox="0 0 1 1"></svg>`, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1 1"></svg>`},
		{"present", `<svg xmlns="http://www.w3.org/2000/svg"></svg>`, `<svg xmlns="http://www.w3.org/2000/svg"></svg>`},
		{"prolog", `<?xml version="1.0"?><svg width="2"/>`, `<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" width="2"/>`},
		{"not svg", `<html></html>`, `<html></html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(EnsureNamespace([]byte(tt.in))); got != tt.want {
				t.Errorf("EnsureNamespace = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScaleFor(t *testing.T) {
	tests := []struct {
		dpr  float64
		want int
	}{
		{0, 1}, {-2, 1}, {1, 1}, {1.25, 2}, {2, 2}, {2.5, 3}, {3, 3}, {4, 3},
	}
	for _, tt := range tests {
		if got := ScaleFor(tt.dpr); got != tt.want {
			t.Errorf("ScaleFor(%v) = %d, want %d", tt.dpr, got, tt.want)
		}
	}
}

func TestDimensions(t *testing.T) {
	tests := []struct {
		name  string
		svg   string
		w, h  float64
		wantE bool
	}{
		{"viewBox", `<svg viewBox="0 0 900 600" width="10" height="10"/>`, 900, 600, false},
		{"commas", `<svg viewBox="0,0,30,20"/>`, 30, 20, false},
		{"width height", `<svg width="120px" height="80"/>`, 120, 80, false},
		{"no size", `<svg/>`, 0, 0, true},
		{"not svg", `<div/>`, 0, 0, true},
		{"garbage", `not xml at all`, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, err := Dimensions([]byte(tt.svg))
			if tt.wantE {
				if !errors.Is(err, errors.ErrCodeExportDecode) {
					t.Errorf("Dimensions error = %v, want EXPORT_DECODE", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if size.Width != tt.w || size.Height != tt.h {
				t.Errorf("Dimensions = %vx%v, want %vx%v", size.Width, size.Height, tt.w, tt.h)
			}
		})
	}
}

func TestToPNGSizeAndBackground(t *testing.T) {
	svg := []byte(`<svg viewBox="0 0 900 600"></svg>`)
	data, err := ToPNG(svg, 2)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 1800 || b.Dy() != 1200 {
		t.Fatalf("size = %dx%d, want 1800x1200", b.Dx(), b.Dy())
	}
	for _, p := range [][2]int{{0, 0}, {1799, 0}, {0, 1199}, {1799, 1199}, {900, 600}} {
		r, g, bl, a := img.At(p[0], p[1]).RGBA()
		if r != 0xffff || g != 0xffff || bl != 0xffff || a != 0xffff {
			t.Errorf("pixel %v = (%d,%d,%d,%d), want opaque white", p, r, g, bl, a)
		}
	}
}

func TestRasterizeDrawsShapes(t *testing.T) {
	svg := []byte(`<svg width="10" height="10"><rect x="0" y="0" width="10" height="5" fill="#ff0000"/></svg>`)
	img, err := Rasterize(svg, 3)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 30 || b.Dy() != 30 {
		t.Fatalf("size = %v", b)
	}
	if c := img.RGBAAt(15, 5); c.R != 0xff || c.G != 0 || c.B != 0 {
		t.Errorf("top half pixel = %+v, want red", c)
	}
	if c := img.RGBAAt(15, 25); c.R != 0xff || c.G != 0xff || c.B != 0xff {
		t.Errorf("bottom half pixel = %+v, want white", c)
	}
}

func TestToPNGFractionalScale(t *testing.T) {
	img, err := Rasterize([]byte(`<svg viewBox="0 0 3 3"/>`), 1.5)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 5 {
		t.Errorf("size = %v, want 5x5", b)
	}
}

func TestToPNGDecodeError(t *testing.T) {
	_, err := ToPNG([]byte("<svg>"), 1)
	if !errors.Is(err, errors.ErrCodeExportDecode) {
		t.Errorf("ToPNG error = %v, want EXPORT_DECODE", err)
	}
	if err != nil && !strings.Contains(errors.UserMessage(err), "svg") {
		t.Errorf("UserMessage = %q", errors.UserMessage(err))
	}
}

func TestRasterizePixelBudget(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10000 10000"></svg>`)
	if _, err := Rasterize(svg, 2); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Rasterize over budget error = %v, want INVALID_CONFIG", err)
	}
}

func TestValidScale(t *testing.T) {
	for _, s := range []float64{1, 2, 3} {
		if !ValidScale(s) {
			t.Errorf("ValidScale(%v) = false", s)
		}
	}
	for _, s := range []float64{0, 0.5, 2.5, 4} {
		if ValidScale(s) {
			t.Errorf("ValidScale(%v) = true", s)
		}
	}
}
