package fem

import (
	"math"

	"github.com/soypat/femesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// local is the 3×3 element matrix of one triangle. Entry [i][j] couples the
// triangle's i-th and j-th vertex.
type local [3][3]float64

// kernel computes the element matrix of a triangle.
type kernel func(tri femesh.Triangle3) local

// massLocal is the consistent P1 mass matrix: S/6 on the diagonal and S/12
// off it, S being the triangle area.
func massLocal(tri femesh.Triangle3) local {
	s := tri.Area()
	d, o := s/6, s/12
	return local{
		{d, o, o},
		{o, d, o},
		{o, o, d},
	}
}

// stiffnessLocal is the P1 stiffness matrix of the surface Laplacian. With
// AB and AC the edges leaving the first vertex it is expressed in terms of
// their dot products scaled by 1/(4S). Degenerate triangles yield zero.
func stiffnessLocal(tri femesh.Triangle3) (l local) {
	ab := r3.Sub(tri[1], tri[0])
	ac := r3.Sub(tri[2], tri[0])
	abab := r3.Dot(ab, ab)
	acac := r3.Dot(ac, ac)
	abac := r3.Dot(ab, ac)
	// det = |AB×AC|² = 4S².
	det := abab*acac - abac*abac
	if det <= 0 {
		return l
	}
	k := 0.5 / math.Sqrt(det)
	l[0][0] = k * (acac + abab - 2*abac)
	l[1][1] = k * acac
	l[2][2] = k * abab
	l[0][1] = k * (abac - acac)
	l[0][2] = k * (abac - abab)
	l[1][2] = -k * abac
	l[1][0] = l[0][1]
	l[2][0] = l[0][2]
	l[2][1] = l[1][2]
	return l
}
