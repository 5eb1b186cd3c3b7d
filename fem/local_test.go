package fem

import (
	"testing"

	"github.com/soypat/femesh"
	"github.com/stretchr/testify/assert"
)

var unitRight = femesh.Triangle3{{}, {X: 1}, {Y: 1}}

func TestMassLocal(t *testing.T) {
	l := massLocal(unitRight)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.5 / 12
			if i == j {
				want = 0.5 / 6
			}
			assert.InDelta(t, want, l[i][j], 1e-15, "entry (%d,%d)", i, j)
		}
	}
}

func TestStiffnessLocal(t *testing.T) {
	want := local{
		{1, -0.5, -0.5},
		{-0.5, 0.5, 0},
		{-0.5, 0, 0.5},
	}
	assert.Equal(t, want, stiffnessLocal(unitRight))

	// Scaling a triangle leaves its 2D stiffness matrix unchanged.
	scaled := femesh.Triangle3{{X: 3, Y: 3, Z: 3}, {X: 3, Y: 3, Z: 10}, {X: 3, Y: 10, Z: 3}}
	got := stiffnessLocal(scaled)
	for i := range want {
		for j := range want[i] {
			assert.InDelta(t, want[i][j], got[i][j], 1e-14)
		}
	}
}

func TestStiffnessLocalRowSums(t *testing.T) {
	tri := femesh.Triangle3{{X: 0.1, Y: -0.4, Z: 2}, {X: 1.3, Y: 0.2}, {X: -0.7, Y: 1.1, Z: 0.5}}
	l := stiffnessLocal(tri)
	for i := range l {
		assert.InDelta(t, 0, l[i][0]+l[i][1]+l[i][2], 1e-14, "row %d", i)
		for j := range l {
			assert.Equal(t, l[i][j], l[j][i])
		}
		assert.Greater(t, l[i][i], 0.0)
	}
}

func TestDegenerateLocal(t *testing.T) {
	for _, tri := range []femesh.Triangle3{
		{{}, {X: 1}, {X: 2}},
		{{}, {}, {Y: 1}},
		{},
	} {
		assert.Equal(t, local{}, massLocal(tri))
		assert.Equal(t, local{}, stiffnessLocal(tri))
	}
}
