package render

import (
	"math"
	"sort"
	"testing"

	"github.com/soypat/femesh"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestVertexLocatorExact(t *testing.T) {
	mesh, err := femesh.GenerateSphere(12)
	if err != nil {
		t.Fatal(err)
	}
	loc := NewVertexLocator(mesh)
	for i, v := range mesh.Vertices {
		got, dist := loc.Nearest(v)
		if got != i || dist != 0 {
			t.Fatalf("vertex %d: got %d at distance %g", i, got, dist)
		}
	}
}

func TestVertexLocatorBruteForce(t *testing.T) {
	mesh, err := femesh.GenerateCube(6)
	if err != nil {
		t.Fatal(err)
	}
	loc := NewVertexLocator(mesh)
	queries := []r3.Vec{
		{X: 0.31, Y: -0.77, Z: 1.2},
		{X: -2, Y: 0.05, Z: 0.4},
		{X: 0.9, Y: 0.93, Z: -0.96},
		{},
	}
	for _, q := range queries {
		idx := make([]int, mesh.VertexCount())
		for i := range idx {
			idx[i] = i
		}
		dist := func(i int) float64 { return r3.Norm(r3.Sub(q, mesh.Vertices[i])) }
		sort.SliceStable(idx, func(a, b int) bool { return dist(idx[a]) < dist(idx[b]) })

		got, d := loc.Nearest(q)
		if math.Abs(d-dist(idx[0])) > 1e-12 || math.Abs(dist(got)-d) > 1e-12 {
			t.Errorf("query %v: got vertex %d at %g, want distance %g", q, got, d, dist(idx[0]))
		}
		const n = 5
		nearest := loc.NearestN(q, n)
		if len(nearest) != n {
			t.Fatalf("query %v: got %d neighbours, want %d", q, len(nearest), n)
		}
		for k := range nearest {
			if math.Abs(dist(nearest[k])-dist(idx[k])) > 1e-12 {
				t.Errorf("query %v: neighbour %d at %g, want %g", q, k, dist(nearest[k]), dist(idx[k]))
			}
		}
		r := dist(idx[7]) + 1e-9
		within := loc.Within(q, r)
		count := 0
		for _, i := range idx {
			if dist(i) <= r {
				count++
			}
		}
		if len(within) != count {
			t.Errorf("query %v: got %d vertices within %g, want %d", q, len(within), r, count)
		}
		for k := 1; k < len(within); k++ {
			if dist(within[k]) < dist(within[k-1]) {
				t.Errorf("query %v: Within result not sorted", q)
			}
		}
	}
}

func TestVertexLocatorEmpty(t *testing.T) {
	loc := NewVertexLocator(&femesh.Mesh{})
	idx, d := loc.Nearest(r3.Vec{})
	if idx != -1 || !math.IsInf(d, 1) {
		t.Errorf("got %d %g", idx, d)
	}
	if loc.NearestN(r3.Vec{}, 3) != nil || loc.Within(r3.Vec{}, 1) != nil {
		t.Error("expected no results from empty locator")
	}
	// Fewer vertices than requested neighbours.
	loc = NewVertexLocator(&femesh.Mesh{Vertices: []r3.Vec{{X: 1}, {X: 2}}})
	if got := loc.NearestN(r3.Vec{}, 4); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("got %v", got)
	}
}
