// Package render exports and imports triangle meshes. It writes binary STL,
// JSON and PNG previews and locates mesh vertices by position.
package render

import (
	"io"

	"github.com/soypat/femesh"
)

// Renderer streams triangles. ReadTriangles fills t and returns the number of
// triangles written. It returns io.EOF once no triangles remain.
type Renderer interface {
	ReadTriangles(t []femesh.Triangle3) (int, error)
}

// NewMeshRenderer returns a Renderer reading the triangles of m in order.
func NewMeshRenderer(m *femesh.Mesh) Renderer {
	return &meshRenderer{mesh: m}
}

type meshRenderer struct {
	mesh *femesh.Mesh
	next int
}

func (r *meshRenderer) ReadTriangles(t []femesh.Triangle3) (n int, err error) {
	nt := r.mesh.TriangleCount()
	for n < len(t) && r.next < nt {
		t[n] = r.mesh.Triangle3(r.next)
		n++
		r.next++
	}
	if r.next == nt {
		err = io.EOF
	}
	return n, err
}
