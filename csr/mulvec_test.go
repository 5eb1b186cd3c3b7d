package csr

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func randomize(m *Matrix, seed int64) {
	rnd := rand.New(rand.NewSource(seed))
	for k, c := range m.ColIdx {
		if c != NoColumn {
			m.Elements[k] = rnd.NormFloat64()
		} else {
			// Values in unused slots must never be read.
			m.Elements[k] = 1e300
		}
	}
}

func randomVec(n int, seed int64) []float64 {
	rnd := rand.New(rand.NewSource(seed))
	x := make([]float64, n)
	for i := range x {
		x[i] = rnd.Float64()*2 - 1
	}
	return x
}

func TestMulVecIdentity(t *testing.T) {
	m := cubeMatrix(t, 4, BuildOptions{})
	n, _ := m.Dims()
	for i := 0; i < n; i++ {
		k, ok := m.Slot(i, i)
		require.True(t, ok)
		m.Elements[k] = 1
	}
	x := randomVec(n, 2)
	y := make([]float64, n)
	require.NoError(t, m.MulVec(y, x))
	assert.Equal(t, x, y)
}

func TestMulVecDense(t *testing.T) {
	m := cubeMatrix(t, 3, BuildOptions{})
	randomize(m, 3)
	n, _ := m.Dims()
	x := randomVec(n, 4)
	got := make([]float64, n)
	require.NoError(t, m.MulVec(got, x))

	var want mat.VecDense
	want.MulVec(m.Dense(), mat.NewVecDense(n, x))
	assert.True(t, floats.EqualApprox(got, want.RawVector().Data, 1e-12))
}

func TestMulVecOverwrites(t *testing.T) {
	m := cubeMatrix(t, 2, BuildOptions{})
	n, _ := m.Dims()
	y := make([]float64, n)
	for i := range y {
		y[i] = 123
	}
	require.NoError(t, m.MulVec(y, randomVec(n, 5)))
	for _, v := range y {
		assert.Equal(t, 0.0, v)
	}
}

func TestMulVecDimensionMismatch(t *testing.T) {
	m := cubeMatrix(t, 2, BuildOptions{})
	randomize(m, 6)
	n, _ := m.Dims()
	for _, test := range []struct {
		ny, nx int
	}{
		{n, n - 1},
		{n - 1, n},
		{n + 1, n + 1},
		{0, 0},
	} {
		y := make([]float64, test.ny)
		for i := range y {
			y[i] = -7
		}
		x := randomVec(test.nx, 7)
		err := m.MulVec(y, x)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
		err = m.MulVecParallel(y, x, 4)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
		for _, v := range y {
			require.Equal(t, -7.0, v, "output written on error")
		}
	}
}

func TestMulVecParallel(t *testing.T) {
	m := cubeMatrix(t, 9, BuildOptions{})
	randomize(m, 8)
	n, _ := m.Dims()
	x := randomVec(n, 9)
	want := make([]float64, n)
	require.NoError(t, m.MulVec(want, x))
	for _, workers := range []int{-1, 0, 1, 2, 3, 7, n, n + 10} {
		got := make([]float64, n)
		require.NoError(t, m.MulVecParallel(got, x, workers))
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}

func TestPartition(t *testing.T) {
	for _, test := range []struct {
		n, parts int
		want     [][2]int
	}{
		{n: 10, parts: 3, want: [][2]int{{0, 4}, {4, 7}, {7, 10}}},
		{n: 2, parts: 5, want: [][2]int{{0, 1}, {1, 2}}},
		{n: 4, parts: 1, want: [][2]int{{0, 4}}},
		{n: 0, parts: 4, want: nil},
		{n: 4, parts: 0, want: nil},
	} {
		assert.Equal(t, test.want, Partition(test.n, test.parts), "n=%d parts=%d", test.n, test.parts)
	}
}

func BenchmarkMulVec(b *testing.B) {
	m := cubeMatrix(b, 100, BuildOptions{})
	randomize(m, 1)
	n, _ := m.Dims()
	x := randomVec(n, 2)
	y := make([]float64, n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.MulVec(y, x)
	}
}

func BenchmarkMulVecParallel(b *testing.B) {
	m := cubeMatrix(b, 100, BuildOptions{})
	randomize(m, 1)
	n, _ := m.Dims()
	x := randomVec(n, 2)
	y := make([]float64, n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.MulVecParallel(y, x, 0)
	}
}
