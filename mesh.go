package femesh

import (
	"fmt"
	"math"

	"github.com/soypat/femesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle surface mesh. Vertices are stored once and
// referenced by triangles through Indices, three indices per triangle.
// A Mesh is not modified after generation and may be shared between
// readers.
type Mesh struct {
	Vertices []r3.Vec
	// Indices holds 3*TriangleCount() vertex indices. Triangle t is formed by
	// Indices[3*t], Indices[3*t+1] and Indices[3*t+2].
	Indices []int

	Shape        Shape
	Subdivisions int
}

// VertexCount returns the number of unique vertices in the mesh.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Triangle returns the vertex indices of the t'th triangle.
func (m *Mesh) Triangle(t int) [3]int {
	i := 3 * t
	return [3]int{m.Indices[i], m.Indices[i+1], m.Indices[i+2]}
}

// Triangle3 returns the vertex positions of the t'th triangle.
func (m *Mesh) Triangle3(t int) Triangle3 {
	i := 3 * t
	return Triangle3{
		m.Vertices[m.Indices[i]],
		m.Vertices[m.Indices[i+1]],
		m.Vertices[m.Indices[i+2]],
	}
}

// Triangles returns the positions of all triangles in the mesh.
func (m *Mesh) Triangles() []Triangle3 {
	tris := make([]Triangle3, m.TriangleCount())
	for t := range tris {
		tris[t] = m.Triangle3(t)
	}
	return tris
}

// Area returns the total surface area of the mesh.
func (m *Mesh) Area() (area float64) {
	for t := 0; t < m.TriangleCount(); t++ {
		area += m.Triangle3(t).Area()
	}
	return area
}

// Bounds returns the bounding box of the mesh vertices.
func (m *Mesh) Bounds() r3.Box {
	bb := d3.Box{Min: d3.Elem(math.MaxFloat64), Max: d3.Elem(-math.MaxFloat64)}
	for _, v := range m.Vertices {
		bb = bb.Include(v)
	}
	return r3.Box(bb)
}

// Validate checks that the index buffer describes whole triangles and that
// every index references an existing vertex.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: index buffer length %d", ErrBadIndices, len(m.Indices))
	}
	nv := len(m.Vertices)
	for i, idx := range m.Indices {
		if idx < 0 || idx >= nv {
			return fmt.Errorf("%w: triangle %d references vertex %d of %d", ErrIndexOutOfRange, i/3, idx, nv)
		}
	}
	return nil
}

// Triangle3 is a triangle in 3D space.
type Triangle3 [3]r3.Vec

// Normal returns the unit normal of the triangle following the right hand
// rule on vertex order. Degenerate triangles return a zero vector.
func (t Triangle3) Normal() r3.Vec {
	n := r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
	norm := r3.Norm(n)
	if norm == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/norm, n)
}

// Area returns the area of the triangle, 0.5*|AB x AC|.
func (t Triangle3) Area() float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0])))
}

// Centroid returns the average of the triangle vertices.
func (t Triangle3) Centroid() r3.Vec {
	return r3.Scale(1./3., r3.Add(t[0], r3.Add(t[1], t[2])))
}

// Degenerate returns true if two vertices of the triangle are within tol of
// each other.
func (t Triangle3) Degenerate(tol float64) bool {
	return d3.EqualWithin(t[0], t[1], tol) ||
		d3.EqualWithin(t[1], t[2], tol) ||
		d3.EqualWithin(t[2], t[0], tol)
}
