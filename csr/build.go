package csr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soypat/femesh"
)

// Reservation selects how many slots Build reserves for each row before
// filling in columns.
type Reservation int

const (
	// ReserveBound reserves 1+2k slots for a vertex appearing in k triangles.
	// Each triangle adds at most two neighbours so the bound holds for any
	// mesh, open or closed.
	ReserveBound Reservation = iota
	// ReserveClosed reserves 1+k slots for a vertex appearing in k
	// triangles. This is exact for vertices in the interior of a closed
	// manifold surface, where the triangle fan around the vertex has k
	// distinct neighbours. Build fails with ErrRowOverflow on meshes where
	// the estimate is too small.
	ReserveClosed
)

func (r Reservation) String() string {
	switch r {
	case ReserveBound:
		return "bound"
	case ReserveClosed:
		return "closed"
	}
	return fmt.Sprintf("Reservation(%d)", int(r))
}

// ParseReservation returns the Reservation named by s.
func ParseReservation(s string) (Reservation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bound", "":
		return ReserveBound, nil
	case "closed":
		return ReserveClosed, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownReservation, s)
}

func (r Reservation) slots(appearances int) int {
	if appearances == 0 {
		return 0
	}
	switch r {
	case ReserveClosed:
		return 1 + appearances
	default:
		return 1 + 2*appearances
	}
}

// BuildOptions configures BuildWith. The zero value is ready to use.
type BuildOptions struct {
	Reservation Reservation
	// Compact removes unused slots after the pattern is filled so that every
	// slot of the result holds a column.
	Compact bool
}

// Build returns the sparsity pattern of the vertex adjacency of mesh with
// default options. Entry (i, j) is present when vertices i and j share a
// triangle, including i == j. Element values are zero.
func Build(mesh *femesh.Mesh) (*Matrix, error) {
	return BuildWith(mesh, BuildOptions{})
}

// BuildWith is like Build with explicit options. Building the same mesh
// twice produces identical RowOffset and ColIdx.
func BuildWith(mesh *femesh.Mesh, opts BuildOptions) (*Matrix, error) {
	if opts.Reservation != ReserveBound && opts.Reservation != ReserveClosed {
		return nil, fmt.Errorf("%w: %v", ErrUnknownReservation, opts.Reservation)
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	n := mesh.VertexCount()

	// Count triangle appearances per vertex, reserve slots and turn counts
	// into starting offsets.
	rowOffset := make([]int, n+1)
	for _, v := range mesh.Indices {
		rowOffset[v]++
	}
	total := 0
	for r := 0; r < n; r++ {
		reserve := opts.Reservation.slots(rowOffset[r])
		rowOffset[r] = total
		total += reserve
	}
	rowOffset[n] = total

	colIdx := make([]int, total)
	for i := range colIdx {
		colIdx[i] = NoColumn
	}
	for t := 0; t < mesh.TriangleCount(); t++ {
		tri := mesh.Triangle(t)
		for _, row := range tri {
			slots := colIdx[rowOffset[row]:rowOffset[row+1]]
			for _, col := range tri {
				if !insert(slots, col) {
					return nil, fmt.Errorf("%w: row %d has %d slots, triangle %d adds column %d", ErrRowOverflow, row, len(slots), t, col)
				}
			}
		}
	}
	for r := 0; r < n; r++ {
		slots := colIdx[rowOffset[r]:rowOffset[r+1]]
		sort.Ints(slots[:occupied(slots)])
	}

	m := &Matrix{
		rows:      n,
		cols:      n,
		RowOffset: rowOffset,
		ColIdx:    colIdx,
		mesh:      mesh,
	}
	if opts.Compact {
		m.compact()
	}
	m.Elements = make([]float64, len(m.ColIdx))
	return m, nil
}

// insert places col in the first free slot unless it is already present.
// It returns false if col is absent and no slot is free.
func insert(slots []int, col int) bool {
	for i, c := range slots {
		switch c {
		case col:
			return true
		case NoColumn:
			slots[i] = col
			return true
		}
	}
	return false
}

// compact drops unused slots in place.
func (m *Matrix) compact() {
	w := 0
	start := 0
	for r := 0; r < m.rows; r++ {
		end := m.RowOffset[r+1]
		n := occupied(m.ColIdx[start:end])
		copy(m.ColIdx[w:], m.ColIdx[start:start+n])
		m.RowOffset[r] = w
		w += n
		start = end
	}
	m.RowOffset[m.rows] = w
	m.ColIdx = m.ColIdx[:w:w]
}
