package csr

import "errors"

// Every message is prefixed with "csr: ". Callers match with errors.Is, the
// returned errors may wrap these with row or dimension context.
var (
	// ErrDimensionMismatch is returned by MulVec when vector lengths do not
	// match the matrix dimensions. No output is written.
	ErrDimensionMismatch = errors.New("csr: dimension mismatch")

	// ErrRowOverflow is returned by Build when a row's reserved slice is
	// exhausted before all of its distinct columns are placed. It means the
	// reservation policy undercounts for the input mesh.
	ErrRowOverflow = errors.New("csr: row reservation exhausted")

	// ErrBadStructure is returned by New when offsets or column indices
	// violate the CSR invariants.
	ErrBadStructure = errors.New("csr: invalid sparse structure")

	// ErrMissingEntry is returned when a (row, column) pair is not part of
	// the sparsity pattern.
	ErrMissingEntry = errors.New("csr: entry not in sparsity pattern")

	// ErrUnknownReservation is returned for reservation policies other than
	// bound and closed.
	ErrUnknownReservation = errors.New("csr: unknown reservation policy")
)
