// Package csr implements a compressed sparse row matrix whose sparsity
// pattern is derived from the vertex adjacency of a triangle mesh.
//
// Each row owns a contiguous slice of slots located by RowOffset. A slot
// holds a column index in ColIdx and a value in Elements. Slots are reserved
// when the structure is built and may outnumber the distinct columns of a
// row; unused slots hold NoColumn and always trail the occupied ones, which
// are sorted by ascending column.
package csr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soypat/femesh"
	"gonum.org/v1/gonum/mat"
)

// NoColumn marks a reserved slot that holds no entry.
const NoColumn = -1

var _ mat.Matrix = (*Matrix)(nil)

// Matrix is a square or rectangular CSR matrix. The structure (RowOffset and
// ColIdx) must not be modified after construction. Elements may be written
// by assembly routines and is read by MulVec.
type Matrix struct {
	rows, cols int

	// RowOffset has rows+1 entries. Row r owns slots
	// [RowOffset[r], RowOffset[r+1]).
	RowOffset []int
	// ColIdx holds the column of every slot or NoColumn.
	ColIdx []int
	// Elements holds the value of every slot.
	Elements []float64

	mesh *femesh.Mesh
}

// New creates a rows×cols matrix from an explicit structure. Elements is
// zero-initialized. rowOffset and colIdx are used directly, not copied.
func New(rows, cols int, rowOffset, colIdx []int) (*Matrix, error) {
	m := &Matrix{
		rows:      rows,
		cols:      cols,
		RowOffset: rowOffset,
		ColIdx:    colIdx,
		Elements:  make([]float64, len(colIdx)),
	}
	if err := m.check(); err != nil {
		return nil, err
	}
	return m, nil
}

// check verifies the structural invariants of the matrix.
func (m *Matrix) check() error {
	switch {
	case m.rows < 0 || m.cols < 0:
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrBadStructure, m.rows, m.cols)
	case len(m.RowOffset) != m.rows+1:
		return fmt.Errorf("%w: got %d row offsets for %d rows", ErrBadStructure, len(m.RowOffset), m.rows)
	case m.RowOffset[0] != 0:
		return fmt.Errorf("%w: first row offset is %d", ErrBadStructure, m.RowOffset[0])
	case m.RowOffset[m.rows] != len(m.ColIdx):
		return fmt.Errorf("%w: last row offset %d does not match %d slots", ErrBadStructure, m.RowOffset[m.rows], len(m.ColIdx))
	case len(m.Elements) != len(m.ColIdx):
		return fmt.Errorf("%w: %d elements for %d slots", ErrBadStructure, len(m.Elements), len(m.ColIdx))
	}
	for r := 0; r < m.rows; r++ {
		if m.RowOffset[r+1] < m.RowOffset[r] {
			return fmt.Errorf("%w: row %d offsets decrease", ErrBadStructure, r)
		}
	}
	for r := 0; r < m.rows; r++ {
		start, end := m.RowOffset[r], m.RowOffset[r+1]
		prev := NoColumn
		free := false
		for k := start; k < end; k++ {
			c := m.ColIdx[k]
			switch {
			case c == NoColumn:
				free = true
			case free:
				return fmt.Errorf("%w: row %d has column %d after an empty slot", ErrBadStructure, r, c)
			case c < 0 || c >= m.cols:
				return fmt.Errorf("%w: row %d column %d out of range", ErrBadStructure, r, c)
			case c <= prev:
				return fmt.Errorf("%w: row %d columns not strictly ascending", ErrBadStructure, r)
			default:
				prev = c
			}
		}
	}
	return nil
}

// Dims returns the dimensions of the matrix.
func (m *Matrix) Dims() (r, c int) { return m.rows, m.cols }

// Mesh returns the mesh the structure was built from. It is nil for matrices
// created with New.
func (m *Matrix) Mesh() *femesh.Mesh { return m.mesh }

// Reserved returns the number of reserved slots, RowOffset[rows].
func (m *Matrix) Reserved() int { return len(m.ColIdx) }

// NNZ returns the number of occupied slots.
func (m *Matrix) NNZ() (nnz int) {
	for r := 0; r < m.rows; r++ {
		nnz += m.RowLen(r)
	}
	return nnz
}

// RowLen returns the number of occupied slots of row r.
func (m *Matrix) RowLen(r int) int {
	start, end := m.RowOffset[r], m.RowOffset[r+1]
	return occupied(m.ColIdx[start:end])
}

// Row returns the occupied columns and values of row r. The returned slices
// share storage with the matrix.
func (m *Matrix) Row(r int) (cols []int, vals []float64) {
	start := m.RowOffset[r]
	end := start + m.RowLen(r)
	return m.ColIdx[start:end], m.Elements[start:end]
}

// Slot returns the index into ColIdx and Elements of entry (i, j). ok is
// false if the entry is not part of the sparsity pattern.
func (m *Matrix) Slot(i, j int) (k int, ok bool) {
	cols, _ := m.Row(i)
	idx := sort.SearchInts(cols, j)
	if idx < len(cols) && cols[idx] == j {
		return m.RowOffset[i] + idx, true
	}
	return -1, false
}

// At returns the value of element (i, j). Entries outside the sparsity
// pattern are zero.
func (m *Matrix) At(i, j int) float64 {
	if uint(i) >= uint(m.rows) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) >= uint(m.cols) {
		panic(mat.ErrColAccess)
	}
	k, ok := m.Slot(i, j)
	if !ok {
		return 0
	}
	return m.Elements[k]
}

// T returns the transpose of the matrix.
func (m *Matrix) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// Zero sets all element values to zero, keeping the structure.
func (m *Matrix) Zero() {
	for i := range m.Elements {
		m.Elements[i] = 0
	}
}

// Diagonal returns the diagonal entries of the matrix.
func (m *Matrix) Diagonal() []float64 {
	n := m.rows
	if m.cols < n {
		n = m.cols
	}
	diag := make([]float64, n)
	for i := range diag {
		if k, ok := m.Slot(i, i); ok {
			diag[i] = m.Elements[k]
		}
	}
	return diag
}

// SamePattern reports whether m and b have identical dimensions and
// structure so that their Elements can be combined slot by slot.
func (m *Matrix) SamePattern(b *Matrix) bool {
	if m.rows != b.rows || m.cols != b.cols || len(m.ColIdx) != len(b.ColIdx) {
		return false
	}
	for i := range m.RowOffset {
		if m.RowOffset[i] != b.RowOffset[i] {
			return false
		}
	}
	for i := range m.ColIdx {
		if m.ColIdx[i] != b.ColIdx[i] {
			return false
		}
	}
	return true
}

// Dense returns a dense copy of the matrix.
func (m *Matrix) Dense() *mat.Dense {
	if m.rows == 0 || m.cols == 0 {
		return &mat.Dense{}
	}
	d := mat.NewDense(m.rows, m.cols, nil)
	for r := 0; r < m.rows; r++ {
		cols, vals := m.Row(r)
		for i, c := range cols {
			d.Set(r, c, vals[i])
		}
	}
	return d
}

// String formats the matrix densely. Intended for small matrices.
func (m *Matrix) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Matrix (%d x %d):\n", m.rows, m.cols)
	for r := 0; r < m.rows; r++ {
		cols, vals := m.Row(r)
		idx := 0
		for c := 0; c < m.cols; c++ {
			v := 0.0
			if idx < len(cols) && cols[idx] == c {
				v = vals[idx]
				idx++
			}
			fmt.Fprintf(&sb, "%6.2f", v)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// occupied returns the number of leading slots holding a column.
func occupied(slots []int) int {
	for i, c := range slots {
		if c == NoColumn {
			return i
		}
	}
	return len(slots)
}
