package matrix

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/chordwheel/pkg/entity"
	"github.com/matzehuels/chordwheel/pkg/relation"
)

func build(rels []relation.Relationship) Matrix {
	return Build(entity.Canonicalize(rels), rels)
}

func TestBuildLastWriteWins(t *testing.T) {
	rels := []relation.Relationship{
		{Source: "A1", Target: "B1", Value: 5},
		{Source: "A1", Target: "B1", Value: 7},
	}
	m := build(rels)
	if m.N() != 2 {
		t.Fatalf("N = %d, want 2", m.N())
	}
	if got := m.At(0, 1); got != 7 {
		t.Errorf("At(A1,B1) = %v, want 7", got)
	}
	if m.Overwritten() != 1 {
		t.Errorf("Overwritten = %d, want 1", m.Overwritten())
	}
	if m.At(1, 0) != 0 {
		t.Errorf("reverse direction should stay zero")
	}
}

func TestBuildSums(t *testing.T) {
	rels := []relation.Relationship{
		{Source: "A1", Target: "B1", Value: 3},
		{Source: "B1", Target: "A1", Value: 2},
		{Source: "A1", Target: "A1", Value: 4},
		{Source: "C1", Target: "B1", Value: 1},
	}
	m := build(rels)
	want := [][]float64{
		{4, 3, 0},
		{2, 0, 0},
		{0, 1, 0},
	}
	if diff := cmp.Diff(want, m.Rows()); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"RowSum(A1)", m.RowSum(0), 7},
		{"ColSum(A1)", m.ColSum(0), 6},
		{"ColSum(B1)", m.ColSum(1), 4},
		{"RowSum(C1)", m.RowSum(2), 1},
		{"Total", m.Total(), 10},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	m := build(nil)
	if m.N() != 0 || m.Total() != 0 || len(m.Rows()) != 0 {
		t.Errorf("empty matrix = %+v", m)
	}
}

func TestBuildSkipsUnknownLabels(t *testing.T) {
	order := entity.CanonicalizeLabels([]string{"A1"})
	m := Build(order, []relation.Relationship{{Source: "A1", Target: "Z9", Value: 1}})
	if m.Total() != 0 {
		t.Errorf("Total = %v, want 0", m.Total())
	}
}

func TestFromRows(t *testing.T) {
	m := FromRows([][]float64{{1}, {2, 3, 9}})
	want := [][]float64{{1, 0}, {2, 3}}
	if diff := cmp.Diff(want, m.Rows()); diff != "" {
		t.Errorf("FromRows mismatch (-want +got):\n%s", diff)
	}
}
