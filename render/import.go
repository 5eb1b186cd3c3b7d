package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/femesh"
	"github.com/soypat/femesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ImportMesh builds an indexed mesh from a triangle soup such as the
// contents of an STL file. Vertices are shared among triangles when they
// fall in the same cell of a grid of side vertexTolOrZero.
// vertexTolOrZero should be of the order of 1/1000th of the size of the
// smallest triangle in the model. If set to 0 then it is inferred
// automatically.
func ImportMesh(model []femesh.Triangle3, vertexTolOrZero float64) (*femesh.Mesh, error) {
	if len(model) == 0 {
		return nil, errors.New("empty triangle slice")
	}
	bb := d3.Box{Min: d3.Elem(math.MaxFloat64), Max: d3.Elem(-math.MaxFloat64)}
	minDist2 := math.MaxFloat64
	maxDist2 := -math.MaxFloat64
	for i := range model {
		for j, vert := range model[i] {
			bb = bb.Include(vert)
			vert2 := model[i][(j+1)%3]
			side2 := r3.Norm2(r3.Sub(vert2, vert))
			minDist2 = math.Min(minDist2, side2)
			maxDist2 = math.Max(maxDist2, side2)
		}
	}
	tol := vertexTolOrZero
	suggested := math.Sqrt(minDist2) / 256
	if tol > math.Sqrt(maxDist2)/2 {
		return nil, fmt.Errorf("vertex tolerance is too large to generate appropiate mesh, suggested tolerance: %g", suggested)
	}
	if tol == 0 {
		tol = suggested
	}
	if tol <= 0 {
		return nil, errors.New("model has degenerate triangles, cannot infer vertex tolerance")
	}
	maxDim := d3.Max(bb.Size())
	if maxDim/tol > math.MaxInt64/2 {
		return nil, errors.New("tolerance too small. overflowed int64")
	}

	m := &femesh.Mesh{
		Indices: make([]int, 0, 3*len(model)),
	}
	// vertex index cache
	cache := make(map[[3]int64]int)
	ri := 1 / tol
	for _, tri := range model {
		for _, vert := range tri {
			// Scale vert to be integer in resolution-space.
			v := r3.Scale(ri, r3.Sub(vert, bb.Min))
			vi := [3]int64{int64(math.Round(v.X)), int64(math.Round(v.Y)), int64(math.Round(v.Z))}
			idx, ok := cache[vi]
			if !ok {
				idx = len(m.Vertices)
				cache[vi] = idx
				m.Vertices = append(m.Vertices, vert)
			}
			m.Indices = append(m.Indices, idx)
		}
	}
	return m, nil
}
