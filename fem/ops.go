package fem

import (
	"fmt"

	"github.com/soypat/femesh/csr"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// AddMatrix computes dst += alpha*src. Both matrices must share the same
// sparsity pattern.
func AddMatrix(dst, src *csr.Matrix, alpha float64) error {
	if !dst.SamePattern(src) {
		return ErrPatternMismatch
	}
	floats.AddScaled(dst.Elements, alpha, src.Elements)
	return nil
}

// LoadVector samples f at every mesh vertex and returns m times the samples.
// With m a mass matrix this is the right hand side of a P1 projection of f.
func LoadVector(m *csr.Matrix, f func(r3.Vec) float64) ([]float64, error) {
	mesh := m.Mesh()
	if mesh == nil {
		return nil, ErrNoMesh
	}
	r, c := m.Dims()
	if c != mesh.VertexCount() {
		return nil, fmt.Errorf("%w: %d columns for %d vertices", ErrPatternMismatch, c, mesh.VertexCount())
	}
	fv := make([]float64, c)
	for i, v := range mesh.Vertices {
		fv[i] = f(v)
	}
	load := make([]float64, r)
	if err := m.MulVec(load, fv); err != nil {
		return nil, err
	}
	return load, nil
}

// Lump returns the row sums of m. For a mass matrix these are the lumped
// vertex masses.
func Lump(m *csr.Matrix) []float64 {
	r, _ := m.Dims()
	sums := make([]float64, r)
	for i := range sums {
		_, vals := m.Row(i)
		sums[i] = floats.Sum(vals)
	}
	return sums
}
