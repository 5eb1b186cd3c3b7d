package render

import (
	"io"

	"github.com/soypat/femesh"
)

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.ReadAll implementation.
func RenderAll(r Renderer) ([]femesh.Triangle3, error) {
	var err error
	var nt int
	result := make([]femesh.Triangle3, 0, 1<<12)
	buf := make([]femesh.Triangle3, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}
