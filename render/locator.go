package render

import (
	"math"
	"sort"

	"github.com/soypat/femesh"
	"github.com/soypat/femesh/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ kdtree.Interface = kdVertices{}
	_ kdtree.Bounder   = kdVertices{}
)

// VertexLocator answers nearest vertex queries over the vertices of a mesh.
type VertexLocator struct {
	tree kdtree.Tree
	n    int
}

// NewVertexLocator indexes the vertices of m. The mesh vertices are not
// retained.
func NewVertexLocator(m *femesh.Mesh) *VertexLocator {
	verts := make(kdVertices, len(m.Vertices))
	for i, v := range m.Vertices {
		verts[i] = kdVertex{V: v, Index: i}
	}
	loc := &VertexLocator{n: len(verts)}
	if len(verts) > 0 {
		loc.tree = *kdtree.New(verts, true)
	}
	return loc
}

// Nearest returns the index of the vertex closest to q and its distance.
// It returns -1 and +Inf if the mesh has no vertices.
func (l *VertexLocator) Nearest(q r3.Vec) (index int, dist float64) {
	if l.n == 0 {
		return -1, math.Inf(1)
	}
	got, dist2 := l.tree.Nearest(kdVertex{V: q})
	return got.(kdVertex).Index, math.Sqrt(dist2)
}

// NearestN returns the indices of the n vertices closest to q, nearest first.
func (l *VertexLocator) NearestN(q r3.Vec, n int) []int {
	if l.n == 0 || n <= 0 {
		return nil
	}
	keep := kdtree.NewNKeeper(n)
	l.tree.NearestSet(keep, kdVertex{V: q})
	return sortedIndices(keep.Heap)
}

// Within returns the indices of all vertices at distance r or less from q,
// nearest first.
func (l *VertexLocator) Within(q r3.Vec, r float64) []int {
	if l.n == 0 || r < 0 {
		return nil
	}
	keep := kdtree.NewDistKeeper(r * r)
	l.tree.NearestSet(keep, kdVertex{V: q})
	return sortedIndices(keep.Heap)
}

func sortedIndices(h kdtree.Heap) []int {
	found := make([]kdtree.ComparableDist, 0, len(h))
	for _, c := range h {
		// Keepers are seeded with sentinel entries.
		if c.Comparable != nil {
			found = append(found, c)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].Dist != found[j].Dist {
			return found[i].Dist < found[j].Dist
		}
		return found[i].Comparable.(kdVertex).Index < found[j].Comparable.(kdVertex).Index
	})
	idx := make([]int, len(found))
	for i, c := range found {
		idx[i] = c.Comparable.(kdVertex).Index
	}
	return idx
}

type kdVertex struct {
	V     r3.Vec
	Index int
}

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
//
// Given c = a.Compare(b, d):
//
//	c = a_d - b_d
func (a kdVertex) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return d3.Comp(a.V, int(d)) - d3.Comp(b.(kdVertex).V, int(d))
}

// Dims returns the number of dimensions described in the Comparable.
func (a kdVertex) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a kdVertex) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.V, b.(kdVertex).V))
}

type kdVertices []kdVertex

func (k kdVertices) Index(i int) kdtree.Comparable { return k[i] }

// Len returns the length of the list.
func (k kdVertices) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k kdVertices) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), vertices: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k kdVertices) Slice(start, end int) kdtree.Interface { return k[start:end] }

func (k kdVertices) Bounds() *kdtree.Bounding {
	bb := d3.Box{Min: d3.Elem(math.MaxFloat64), Max: d3.Elem(-math.MaxFloat64)}
	for _, v := range k {
		bb = bb.Include(v.V)
	}
	return &kdtree.Bounding{
		Min: kdVertex{V: bb.Min, Index: -1},
		Max: kdVertex{V: bb.Max, Index: -1},
	}
}

type kdPlane struct {
	dim      int
	vertices kdVertices
}

func (p kdPlane) Less(i, j int) bool {
	return d3.Comp(p.vertices[i].V, p.dim) < d3.Comp(p.vertices[j].V, p.dim)
}
func (p kdPlane) Swap(i, j int) {
	p.vertices[i], p.vertices[j] = p.vertices[j], p.vertices[i]
}
func (p kdPlane) Len() int {
	return len(p.vertices)
}
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.vertices = p.vertices[start:end]
	return p
}
