// Package matrix builds the square flow matrix behind a chord diagram.
//
// Rows and columns are indexed by canonical entity index: cell (i, j) holds
// the flow from entity i to entity j. Duplicate (source, target) pairs are not
// summed; the last occurrence in input order wins. [Matrix.Overwritten]
// reports how many cells were replaced so callers can surface the data loss.
package matrix

import (
	"github.com/matzehuels/chordwheel/pkg/entity"
	"github.com/matzehuels/chordwheel/pkg/relation"
)

// Matrix is an N×N flow matrix. The zero value is an empty matrix.
type Matrix struct {
	n           int
	cells       []float64
	overwritten int
}

// New returns an n×n matrix of zeros.
func New(n int) Matrix {
	if n < 0 {
		n = 0
	}
	return Matrix{n: n, cells: make([]float64, n*n)}
}

// FromRows builds a matrix from a square slice of rows. Short rows are padded
// with zeros and extra columns are ignored.
func FromRows(rows [][]float64) Matrix {
	m := New(len(rows))
	for i, row := range rows {
		for j := 0; j < m.n && j < len(row); j++ {
			m.cells[i*m.n+j] = row[j]
		}
	}
	return m
}

// Build places every relationship into an order.Len()×order.Len() matrix.
// Relationships are applied in input order and overwrite earlier values for
// the same pair. Relationships whose labels are absent from order are skipped.
func Build(order entity.Order, rels []relation.Relationship) Matrix {
	m := New(order.Len())
	set := make([]bool, len(m.cells))
	for _, r := range rels {
		i, ok := order.Index(r.Source)
		if !ok {
			continue
		}
		j, ok := order.Index(r.Target)
		if !ok {
			continue
		}
		k := i*m.n + j
		if set[k] {
			m.overwritten++
		}
		set[k] = true
		m.cells[k] = r.Value
	}
	return m
}

// N returns the matrix dimension.
func (m Matrix) N() int { return m.n }

// At returns the flow from i to j.
func (m Matrix) At(i, j int) float64 { return m.cells[i*m.n+j] }

// Overwritten returns how many relationships replaced an earlier value.
func (m Matrix) Overwritten() int { return m.overwritten }

// RowSum returns the total outgoing flow of i.
func (m Matrix) RowSum(i int) float64 {
	var s float64
	for _, v := range m.cells[i*m.n : (i+1)*m.n] {
		s += v
	}
	return s
}

// ColSum returns the total incoming flow of j.
func (m Matrix) ColSum(j int) float64 {
	var s float64
	for i := 0; i < m.n; i++ {
		s += m.cells[i*m.n+j]
	}
	return s
}

// Total returns the sum of every cell.
func (m Matrix) Total() float64 {
	var s float64
	for _, v := range m.cells {
		s += v
	}
	return s
}

// Rows returns a copy of the matrix as a slice of rows.
func (m Matrix) Rows() [][]float64 {
	out := make([][]float64, m.n)
	for i := range out {
		out[i] = append([]float64(nil), m.cells[i*m.n:(i+1)*m.n]...)
	}
	return out
}
