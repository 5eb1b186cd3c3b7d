package render

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/femesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures the camera of a mesh preview. The mesh is fit into a
// bi-unit cube centered at the origin before drawing so positions refer to
// that normalized space.
type View struct {
	// Width and Height of the output image in pixels.
	Width, Height int
	// Scale is the supersampling factor. The image is drawn at Scale times
	// the output size and downsampled for antialiasing.
	Scale int
	// Fovy is the vertical field of view in degrees.
	Fovy float64
	// Near and Far clipping planes.
	Near, Far float64
	// Eye is the camera position.
	Eye r3.Vec
	// LookAt is the point at the center of the view.
	LookAt r3.Vec
	// Up is the camera up direction.
	Up r3.Vec
}

// DefaultView returns a 640x480 isometric view of the bi-unit cube.
func DefaultView() View {
	return View{
		Width:  640,
		Height: 480,
		Scale:  2,
		Fovy:   30,
		Near:   1,
		Far:    10,
		Eye:    r3.Vec{X: 3, Y: 3, Z: 3},
		Up:     r3.Vec{Z: 1},
	}
}

// Preview draws a shaded image of m.
func Preview(m *femesh.Mesh, view View) (image.Image, error) {
	if m.TriangleCount() == 0 {
		return nil, errors.New("empty mesh")
	}
	if view.Width <= 0 || view.Height <= 0 {
		return nil, errors.New("non-positive preview size")
	}
	if view.Scale <= 0 {
		view.Scale = 1
	}
	tris := make([]*fauxgl.Triangle, m.TriangleCount())
	for t := range tris {
		tri := m.Triangle3(t)
		tris[t] = fauxgl.NewTriangleForPoints(fauxV(tri[0]), fauxV(tri[1]), fauxV(tri[2]))
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	var (
		eye    = fauxV(view.Eye)                      // camera position
		center = fauxV(view.LookAt)                   // view center position
		up     = fauxV(view.Up)                       // up vector
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize() // light direction
		color  = fauxgl.HexColor("#468966")           // object color
	)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	// create a rendering context
	context := fauxgl.NewContext(view.Width*view.Scale, view.Height*view.Scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	// create transformation matrix and light direction
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(view.Fovy, aspect, view.Near, view.Far)
	// use builtin phong shader
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	img := context.Image()
	if view.Scale > 1 {
		img = resize.Resize(uint(view.Width), uint(view.Height), img, resize.Bilinear)
	}
	return img, nil
}

// CreatePNG writes a preview of m to a PNG file.
func CreatePNG(path string, m *femesh.Mesh, view View) error {
	img, err := Preview(m, view)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

func fauxV(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}
