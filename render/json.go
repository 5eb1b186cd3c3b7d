package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/soypat/femesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// jsonMesh is the on-disk layout of a mesh export.
type jsonMesh struct {
	Vertices  [][3]float64 `json:"vertices"`
	Triangles [][3]int     `json:"triangles"`
}

// WriteJSON writes m as a JSON object with a "vertices" list of [x,y,z]
// coordinates and a "triangles" list of [a,b,c] vertex indices, indented
// with four spaces.
func WriteJSON(w io.Writer, m *femesh.Mesh) error {
	jm := jsonMesh{
		Vertices:  make([][3]float64, len(m.Vertices)),
		Triangles: make([][3]int, m.TriangleCount()),
	}
	for i, v := range m.Vertices {
		jm.Vertices[i] = [3]float64{v.X, v.Y, v.Z}
	}
	for t := range jm.Triangles {
		jm.Triangles[t] = m.Triangle(t)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(&jm)
}

// CreateJSON writes m to a JSON file at path. See WriteJSON.
func CreateJSON(path string, m *femesh.Mesh) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := WriteJSON(fp, m); err != nil {
		return err
	}
	return fp.Close()
}

// ReadJSON reads a mesh written by WriteJSON. The result is validated.
func ReadJSON(r io.Reader) (*femesh.Mesh, error) {
	var jm jsonMesh
	if err := json.NewDecoder(r).Decode(&jm); err != nil {
		return nil, fmt.Errorf("decoding mesh json: %w", err)
	}
	m := &femesh.Mesh{
		Vertices: make([]r3.Vec, len(jm.Vertices)),
		Indices:  make([]int, 0, 3*len(jm.Triangles)),
	}
	for i, v := range jm.Vertices {
		m.Vertices[i] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	}
	for _, tri := range jm.Triangles {
		m.Indices = append(m.Indices, tri[:]...)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
