package femesh

import "errors"

var (
	// ErrBadSubdivisions is returned by the generators when the subdivision
	// count is not positive or does not fit the 20 bit lattice key.
	ErrBadSubdivisions = errors.New("femesh: subdivisions out of range")

	// ErrBadIndices is returned when the index buffer does not hold whole triangles.
	ErrBadIndices = errors.New("femesh: index buffer length not a multiple of 3")

	// ErrIndexOutOfRange is returned when a triangle references a missing vertex.
	ErrIndexOutOfRange = errors.New("femesh: vertex index out of range")

	// ErrUnknownShape is returned by ParseShape and Generate for unsupported shapes.
	ErrUnknownShape = errors.New("femesh: unknown shape")
)
