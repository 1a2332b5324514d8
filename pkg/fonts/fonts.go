// Package fonts provides the label font for raster rendering.
//
// The Go Regular and Go Bold faces ship with golang.org/x/image, so they are
// compiled into the binary and need no system fonts. Parsed fonts are cached
// after first use; faces are cheap to create but not safe for concurrent use,
// so each caller gets its own.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family name matching the embedded face.
const FontFamily = "Go"

// FallbackFontFamily is the CSS font stack used in SVG output.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

var (
	regularOnce sync.Once
	regular     *opentype.Font
	regularErr  error

	boldOnce sync.Once
	bold     *opentype.Font
	boldErr  error
)

// Regular returns the parsed Go Regular font.
func Regular() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = opentype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// Bold returns the parsed Go Bold font.
func Bold() (*opentype.Font, error) {
	boldOnce.Do(func() {
		bold, boldErr = opentype.Parse(gobold.TTF)
	})
	return bold, boldErr
}

// Face returns a new face of the given size in pixels. A true isBold selects
// Go Bold.
func Face(size float64, isBold bool) (font.Face, error) {
	get := Regular
	if isBold {
		get = Bold
	}
	f, err := get()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return face, nil
}
