package fonts

import (
	"testing"

	"golang.org/x/image/font"
)

func TestFace(t *testing.T) {
	for _, isBold := range []bool{false, true} {
		face, err := Face(12, isBold)
		if err != nil {
			t.Fatalf("Face(12, %v): %v", isBold, err)
		}
		if w := font.MeasureString(face, "A1"); w <= 0 {
			t.Errorf("MeasureString = %v, want positive width", w)
		}
		face.Close()
	}
}

func TestFontsCached(t *testing.T) {
	a, err := Regular()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Regular()
	if a != b {
		t.Error("Regular should return the cached font")
	}
}
