package styles

import (
	"testing"

	"github.com/matzehuels/chordwheel/pkg/entity"
)

func TestResolve(t *testing.T) {
	custom := []string{"#000000", "#ffffff"}
	tests := []struct {
		name   string
		custom []string
		n      int
		want   string
	}{
		{"enough colors", custom, 2, "#000000"},
		{"too few colors", custom, 3, Category10[0]},
		{"nil", nil, 0, Category10[0]},
		{"invalid color", []string{"#000000", `red" onload="x`}, 2, Category10[0]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.custom, tt.n).Color(0); got != tt.want {
				t.Errorf("Resolve(...).Color(0) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColorCycles(t *testing.T) {
	if Category10.Color(10) != Category10.Color(0) {
		t.Error("Color should wrap around the palette")
	}
	if Category10.Color(13) != "#d62728" {
		t.Errorf("Color(13) = %q", Category10.Color(13))
	}
	if Palette(nil).Color(1) != Category10[1] {
		t.Error("empty palette should fall back to Category10")
	}
}

func TestDarker(t *testing.T) {
	tests := []struct{ in, want string }{
		{"#1f77b4", "#16537e"},
		{"#ffffff", "#b3b3b3"},
		{"#fff", "#b3b3b3"},
		{"#000000", "#000000"},
		{"tomato", "tomato"},
	}
	for _, tt := range tests {
		if got := Darker(tt.in); got != tt.want {
			t.Errorf("Darker(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTint(t *testing.T) {
	if got := Tint("#000000", 1); got != "#ffffff" {
		t.Errorf("Tint full = %q", got)
	}
	if got := Tint("#204060", 0); got != "#204060" {
		t.Errorf("Tint zero = %q", got)
	}
}

func TestForCategory(t *testing.T) {
	tests := []struct {
		cat        entity.Category
		wantWeight string
		wantFill   string
	}{
		{entity.Container, "bold", LabelColor},
		{entity.ProcessArea, "bold", ProcessAreaTint},
		{entity.Process, "normal", LabelColor},
		{entity.Other, "normal", LabelColor},
	}
	for _, tt := range tests {
		got := ForCategory(tt.cat)
		if got.Weight != tt.wantWeight || got.Fill != tt.wantFill {
			t.Errorf("ForCategory(%v) = %+v", tt.cat, got)
		}
	}
}

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML(`A & "B" <C>`); got != "A &amp; &#34;B&#34; &lt;C&gt;" {
		t.Errorf("EscapeXML = %q", got)
	}
}
