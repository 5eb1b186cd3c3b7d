// Package fem assembles P1 finite element matrices over the vertex adjacency
// pattern of a triangle mesh.
//
// Assembly is additive: element contributions are added to the values
// already stored in the matrix. Call Zero on the matrix before assembling
// into it again.
package fem

import (
	"fmt"
	"math"
	"runtime"
	"strings"
	"sync/atomic"
	"unsafe"

	"github.com/soypat/femesh"
	"github.com/soypat/femesh/csr"
	"golang.org/x/sync/errgroup"
)

// Strategy selects how assembly work is distributed.
type Strategy int

const (
	// Serial visits triangles in ascending order on the calling goroutine.
	Serial Strategy = iota
	// RowOwned partitions matrix rows across workers. Each worker walks the
	// triangles incident to its rows in ascending order and is the only
	// writer of those rows, so results are bit-identical to Serial.
	RowOwned
	// Atomic partitions triangles across workers which add into shared slots
	// with atomic compare-and-swap. Summation order varies between runs so
	// results match Serial only up to rounding.
	Atomic
)

func (s Strategy) String() string {
	switch s {
	case Serial:
		return "serial"
	case RowOwned:
		return "rowowned"
	case Atomic:
		return "atomic"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy returns the Strategy named by s.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "serial", "":
		return Serial, nil
	case "rowowned", "row-owned", "rows":
		return RowOwned, nil
	case "atomic":
		return Atomic, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Assembler adds element matrices of a mesh into a CSR matrix built from
// that mesh. The zero value assembles serially.
type Assembler struct {
	Strategy Strategy
	// Workers is the number of goroutines used by parallel strategies.
	// If not positive GOMAXPROCS is used.
	Workers int
}

// AssembleMass adds the consistent mass matrix of m's mesh into m.
func AssembleMass(m *csr.Matrix) error { return Assembler{}.Mass(m) }

// AssembleStiffness adds the stiffness matrix of m's mesh into m.
func AssembleStiffness(m *csr.Matrix) error { return Assembler{}.Stiffness(m) }

// Mass adds the consistent mass matrix of m's mesh into m. The sum of all
// added entries equals the mesh surface area.
func (a Assembler) Mass(m *csr.Matrix) error { return a.assemble(m, massLocal) }

// Stiffness adds the stiffness matrix of the surface Laplacian of m's mesh
// into m. Every row of the added matrix sums to zero.
func (a Assembler) Stiffness(m *csr.Matrix) error { return a.assemble(m, stiffnessLocal) }

func (a Assembler) assemble(m *csr.Matrix, k kernel) error {
	mesh := m.Mesh()
	if mesh == nil {
		return ErrNoMesh
	}
	if err := mesh.Validate(); err != nil {
		return err
	}
	if r, c := m.Dims(); r != mesh.VertexCount() || c != r {
		return fmt.Errorf("%w: %dx%d matrix for %d vertices", ErrPatternMismatch, r, c, mesh.VertexCount())
	}
	workers := a.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	switch a.Strategy {
	case Serial:
		return assembleTriangles(m, mesh, k, 0, mesh.TriangleCount(), addPlain)
	case RowOwned:
		return assembleRowOwned(m, mesh, k, workers)
	case Atomic:
		var g errgroup.Group
		for _, blk := range csr.Partition(mesh.TriangleCount(), workers) {
			lo, hi := blk[0], blk[1]
			g.Go(func() error {
				return assembleTriangles(m, mesh, k, lo, hi, addAtomic)
			})
		}
		return g.Wait()
	}
	return fmt.Errorf("%w: %v", ErrUnknownStrategy, a.Strategy)
}

// assembleTriangles adds the element matrices of triangles [lo,hi).
func assembleTriangles(m *csr.Matrix, mesh *femesh.Mesh, k kernel, lo, hi int, add func(*float64, float64)) error {
	for t := lo; t < hi; t++ {
		tri := mesh.Triangle(t)
		l := k(mesh.Triangle3(t))
		for i, row := range tri {
			if err := addRow(m, tri, row, &l[i], add); err != nil {
				return fmt.Errorf("triangle %d: %w", t, err)
			}
		}
	}
	return nil
}

func assembleRowOwned(m *csr.Matrix, mesh *femesh.Mesh, k kernel, workers int) error {
	offset, incident := incidence(mesh)
	var g errgroup.Group
	for _, blk := range csr.Partition(mesh.VertexCount(), workers) {
		lo, hi := blk[0], blk[1]
		g.Go(func() error {
			for row := lo; row < hi; row++ {
				for _, t := range incident[offset[row]:offset[row+1]] {
					tri := mesh.Triangle(t)
					l := k(mesh.Triangle3(t))
					for i, v := range tri {
						if v != row {
							continue
						}
						if err := addRow(m, tri, row, &l[i], addPlain); err != nil {
							return fmt.Errorf("triangle %d: %w", t, err)
						}
					}
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// addRow adds one row of an element matrix into the slots of row.
func addRow(m *csr.Matrix, tri [3]int, row int, l *[3]float64, add func(*float64, float64)) error {
	for j, col := range tri {
		slot, ok := m.Slot(row, col)
		if !ok {
			return fmt.Errorf("%w: (%d,%d)", csr.ErrMissingEntry, row, col)
		}
		add(&m.Elements[slot], l[j])
	}
	return nil
}

// incidence returns, for every vertex, the ascending list of triangles it
// belongs to. Triangles of vertex v are incident[offset[v]:offset[v+1]].
func incidence(mesh *femesh.Mesh) (offset, incident []int) {
	n := mesh.VertexCount()
	offset = make([]int, n+1)
	for t := 0; t < mesh.TriangleCount(); t++ {
		for _, v := range uniqueVertices(mesh.Triangle(t)) {
			offset[v+1]++
		}
	}
	for v := 0; v < n; v++ {
		offset[v+1] += offset[v]
	}
	incident = make([]int, offset[n])
	next := append([]int(nil), offset[:n]...)
	for t := 0; t < mesh.TriangleCount(); t++ {
		for _, v := range uniqueVertices(mesh.Triangle(t)) {
			incident[next[v]] = t
			next[v]++
		}
	}
	return offset, incident
}

// uniqueVertices returns the distinct vertex indices of a triangle.
func uniqueVertices(tri [3]int) []int {
	u := make([]int, 0, 3)
	for i, v := range tri {
		if (i > 0 && tri[0] == v) || (i > 1 && tri[1] == v) {
			continue
		}
		u = append(u, v)
	}
	return u
}

func addPlain(p *float64, v float64) { *p += v }

// addAtomic adds v to *p with a compare-and-swap loop over its bit pattern.
func addAtomic(p *float64, v float64) {
	bits := (*uint64)(unsafe.Pointer(p))
	for {
		old := atomic.LoadUint64(bits)
		sum := math.Float64bits(math.Float64frombits(old) + v)
		if atomic.CompareAndSwapUint64(bits, old, sum) {
			return
		}
	}
}
