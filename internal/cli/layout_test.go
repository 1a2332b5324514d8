package cli

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/chordwheel/pkg/pipeline"
)

func TestLayoutCommandJSON(t *testing.T) {
	dir := isolate(t)
	input := writeSample(t, dir)
	out := filepath.Join(dir, "layout.json")

	if _, err := runCLI(t, "layout", input, "-o", out); err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	s, err := pipeline.UnmarshalSummary(data)
	if err != nil {
		t.Fatal(err)
	}

	var labels []string
	for _, e := range s.Entities {
		labels = append(labels, e.Label)
	}
	want := []string{"A. Policy", "A1 Intake", "Approval Form", "Reviewer"}
	if strings.Join(labels, "|") != strings.Join(want, "|") {
		t.Errorf("order = %v, want %v", labels, want)
	}
	if s.Overwritten != 1 {
		t.Errorf("overwritten = %d, want 1", s.Overwritten)
	}
	if s.Ribbons != 3 {
		t.Errorf("ribbons = %d, want 3", s.Ribbons)
	}
}

func TestLayoutCommandPadAngle(t *testing.T) {
	dir := isolate(t)
	input := writeSample(t, dir)
	out := filepath.Join(dir, "layout.json")

	if _, err := runCLI(t, "layout", input, "--pad-angle", "-1", "-o", out); err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	s, err := pipeline.UnmarshalSummary(data)
	if err != nil {
		t.Fatal(err)
	}
	if s.PadAngle != 0 {
		t.Errorf("pad angle = %v, want 0", s.PadAngle)
	}
	var sum float64
	for _, e := range s.Entities {
		sum += e.Span()
	}
	if math.Abs(sum-2*math.Pi) > 1e-9 {
		t.Errorf("spans sum to %v, want 2π", sum)
	}
}

func TestLayoutTable(t *testing.T) {
	s := pipeline.Summary{
		Entities: []pipeline.EntitySpan{
			{Index: 0, Label: "A. Policy", Code: "A.", Value: 3, StartAngle: 0, EndAngle: math.Pi / 2},
		},
	}
	out := layoutTable(s)
	for _, want := range []string{"Code", "A. Policy", "90.00°"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestDegrees(t *testing.T) {
	if got := degrees(math.Pi); got != 180 {
		t.Errorf("degrees(π) = %v", got)
	}
}
