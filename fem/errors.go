package fem

import "errors"

var (
	// ErrNoMesh is returned when a matrix carries no mesh to assemble from.
	// Matrices created with csr.New have no mesh.
	ErrNoMesh = errors.New("fem: matrix has no mesh")
	// ErrUnknownStrategy is returned for an unrecognized assembly strategy.
	ErrUnknownStrategy = errors.New("fem: unknown assembly strategy")
	// ErrPatternMismatch is returned when combining matrices whose sparsity
	// patterns differ.
	ErrPatternMismatch = errors.New("fem: sparsity patterns differ")
)
