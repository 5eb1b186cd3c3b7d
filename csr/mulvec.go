package csr

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MulVec computes dst = m*x. dst is overwritten. The accumulation of each row
// stops at its first unused slot. dst and x must not share storage.
func (m *Matrix) MulVec(dst, x []float64) error {
	if err := m.checkMulVec(dst, x); err != nil {
		return err
	}
	m.mulRows(dst, x, 0, m.rows)
	return nil
}

// MulVecParallel computes dst = m*x splitting rows into contiguous blocks
// processed concurrently. Each row is accumulated in the same order as
// MulVec so results are bit-identical. If workers <= 0 GOMAXPROCS is used.
func (m *Matrix) MulVecParallel(dst, x []float64, workers int) error {
	if err := m.checkMulVec(dst, x); err != nil {
		return err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	for _, blk := range Partition(m.rows, workers) {
		lo, hi := blk[0], blk[1]
		g.Go(func() error {
			m.mulRows(dst, x, lo, hi)
			return nil
		})
	}
	return g.Wait()
}

func (m *Matrix) checkMulVec(dst, x []float64) error {
	if len(x) != m.cols || len(dst) != m.rows {
		return fmt.Errorf("%w: %dx%d matrix with len(x)=%d len(dst)=%d", ErrDimensionMismatch, m.rows, m.cols, len(x), len(dst))
	}
	return nil
}

func (m *Matrix) mulRows(dst, x []float64, lo, hi int) {
	for r := lo; r < hi; r++ {
		var sum float64
		for k := m.RowOffset[r]; k < m.RowOffset[r+1]; k++ {
			c := m.ColIdx[k]
			if c == NoColumn {
				break
			}
			sum += m.Elements[k] * x[c]
		}
		dst[r] = sum
	}
}

// Partition splits [0,n) into at most parts contiguous half-open ranges of
// near equal size. Empty ranges are omitted.
func Partition(n, parts int) [][2]int {
	if parts > n {
		parts = n
	}
	if parts <= 0 {
		return nil
	}
	blocks := make([][2]int, 0, parts)
	size, rem := n/parts, n%parts
	lo := 0
	for i := 0; i < parts; i++ {
		hi := lo + size
		if i < rem {
			hi++
		}
		blocks = append(blocks, [2]int{lo, hi})
		lo = hi
	}
	return blocks
}
