package femesh

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Shape selects the surface built by Generate.
type Shape int

const (
	// Cube is the surface of the [-1,1]³ cube.
	Cube Shape = iota
	// Sphere is the cube surface with every vertex projected onto the unit
	// sphere. Topology and triangle indices are the same as Cube.
	Sphere
)

func (s Shape) String() string {
	switch s {
	case Cube:
		return "cube"
	case Sphere:
		return "sphere"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// ParseShape returns the Shape named by s. Matching is case insensitive.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cube":
		return Cube, nil
	case "sphere":
		return Sphere, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, s)
}

// MaxSubdivisions is the largest subdivision count whose lattice coordinates
// fit in the 20 bit fields of the deduplication key.
const MaxSubdivisions = 1<<keyBits - 1

const keyBits = 20

// Generate builds a mesh of the given shape.
func Generate(shape Shape, subdivisions int) (*Mesh, error) {
	switch shape {
	case Cube:
		return GenerateCube(subdivisions)
	case Sphere:
		return GenerateSphere(subdivisions)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownShape, shape)
}

// GenerateSphere builds a cube mesh with the given subdivisions and projects
// its vertices onto the unit sphere.
func GenerateSphere(subdivisions int) (*Mesh, error) {
	m, err := GenerateCube(subdivisions)
	if err != nil {
		return nil, err
	}
	for i, v := range m.Vertices {
		m.Vertices[i] = r3.Unit(v)
	}
	m.Shape = Sphere
	return m, nil
}

// cubeFace describes one face of the cube. The face lies on the plane
// axis = dir*subdivisions of the integer lattice. Grid column j runs along
// first and grid row i along last.
type cubeFace struct {
	axis, dir   int
	first, last int
	// flip is set for faces where first × last points into the cube. Those
	// faces emit triangles with reversed winding so that all normals point
	// outward.
	flip bool
}

var cubeFaces = [6]cubeFace{
	{axis: 0, dir: 1, first: 1, last: 2},
	{axis: 1, dir: 1, first: 0, last: 2, flip: true},
	{axis: 0, dir: 0, first: 1, last: 2, flip: true},
	{axis: 1, dir: 0, first: 0, last: 2},
	{axis: 2, dir: 1, first: 1, last: 0, flip: true},
	{axis: 2, dir: 0, first: 1, last: 0},
}

// GenerateCube builds the surface of the [-1,1]³ cube where each face is
// split into a subdivisions×subdivisions grid of quads and each quad into
// two triangles. The mesh has 6s²+2 vertices and 12s² triangles.
//
// Grid points shared by adjacent faces are merged into a single vertex by
// keying their integer lattice coordinates.
func GenerateCube(subdivisions int) (*Mesh, error) {
	if subdivisions <= 0 || subdivisions > MaxSubdivisions {
		return nil, fmt.Errorf("%w: got %d, want 1..%d", ErrBadSubdivisions, subdivisions, MaxSubdivisions)
	}
	m, _ := generateCube(subdivisions)
	return m, nil
}

// generateCube returns the mesh and the table mapping each duplicated grid
// slot, in face/row/column visitation order, to its unique vertex index.
func generateCube(s int) (*Mesh, []int) {
	n := s + 1
	nUnique := 6*s*s + 2
	m := &Mesh{
		Vertices:     make([]r3.Vec, 0, nUnique),
		Indices:      make([]int, 0, 36*s*s),
		Shape:        Cube,
		Subdivisions: s,
	}
	// vertex index cache keyed by packed lattice coordinates.
	cache := make(map[uint64]int, nUnique)
	dupToUnique := make([]int, 0, 6*n*n)
	inv := 1 / float64(s)
	for _, face := range cubeFaces {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				var c [3]int
				c[face.axis] = face.dir * s
				c[face.first] = j
				c[face.last] = i
				key := latticeKey(c)
				idx, ok := cache[key]
				if !ok {
					idx = len(m.Vertices)
					cache[key] = idx
					m.Vertices = append(m.Vertices, r3.Vec{
						X: 2*float64(c[0])*inv - 1,
						Y: 2*float64(c[1])*inv - 1,
						Z: 2*float64(c[2])*inv - 1,
					})
				}
				dupToUnique = append(dupToUnique, idx)
			}
		}
	}
	if len(m.Vertices) != nUnique {
		panic("bug: cube vertex deduplication count mismatch")
	}

	offset := 0
	for _, face := range cubeFaces {
		for i := 0; i < s; i++ {
			for j := 0; j < s; j++ {
				v0 := dupToUnique[offset+i*n+j]
				v1 := dupToUnique[offset+i*n+j+1]
				v2 := dupToUnique[offset+(i+1)*n+j]
				v3 := dupToUnique[offset+(i+1)*n+j+1]
				// Every quad is split along its v1-v2 diagonal.
				if face.flip {
					m.Indices = append(m.Indices, v0, v2, v1, v1, v2, v3)
				} else {
					m.Indices = append(m.Indices, v0, v1, v2, v1, v3, v2)
				}
			}
		}
		offset += n * n
	}
	return m, dupToUnique
}

// latticeKey packs lattice coordinates into disjoint 20 bit fields.
func latticeKey(c [3]int) uint64 {
	return uint64(c[0]) | uint64(c[1])<<keyBits | uint64(c[2])<<(2*keyBits)
}
