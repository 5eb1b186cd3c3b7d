package render_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/femesh"
	"github.com/soypat/femesh/internal/d3"
	"github.com/soypat/femesh/render"
)

func TestSTLCreateWriteRead(t *testing.T) {
	const subdivisions = 20
	mesh, err := femesh.GenerateSphere(subdivisions)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "sphere.stl")
	err = render.CreateSTL(path, render.NewMeshRenderer(mesh))
	if err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(render.NewMeshRenderer(mesh))
	if err != nil {
		t.Fatal(err)
	}
	if len(model) != mesh.TriangleCount() {
		t.Fatalf("rendered %d triangles, want %d", len(model), mesh.TriangleCount())
	}
	var b bytes.Buffer
	err = render.WriteSTL(&b, model)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != len(bfile) {
		t.Fatal("WriteSTL and CreateSTL output length mismatch")
	}
	if b.String() != string(bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
	if want := 84 + 50*mesh.TriangleCount(); len(bfile) != want {
		t.Errorf("got %d bytes, want %d", len(bfile), want)
	}
}

func TestSTLImport(t *testing.T) {
	const tol = 1e-6
	for _, shape := range []femesh.Shape{femesh.Cube, femesh.Sphere} {
		mesh, err := femesh.Generate(shape, 6)
		if err != nil {
			t.Fatal(err)
		}
		var b bytes.Buffer
		err = render.WriteSTL(&b, mesh.Triangles())
		if err != nil {
			t.Fatal(err)
		}
		got, err := render.ImportSTL(&b, 0)
		if err != nil {
			t.Fatal(err)
		}
		if err := got.Validate(); err != nil {
			t.Fatal(err)
		}
		if got.VertexCount() != mesh.VertexCount() {
			t.Errorf("%v: imported %d vertices, want %d", shape, got.VertexCount(), mesh.VertexCount())
		}
		if got.TriangleCount() != mesh.TriangleCount() {
			t.Fatalf("%v: imported %d triangles, want %d", shape, got.TriangleCount(), mesh.TriangleCount())
		}
		for i := 0; i < mesh.TriangleCount(); i++ {
			want, tri := mesh.Triangle3(i), got.Triangle3(i)
			for k := range want {
				if !d3.EqualWithin(tri[k], want[k], tol) {
					t.Fatalf("%v: triangle %d vertex %d got %v, want %v", shape, i, k, tri[k], want[k])
				}
			}
		}
	}
}

func TestSTLEmpty(t *testing.T) {
	var b bytes.Buffer
	if err := render.WriteSTL(&b, nil); err == nil {
		t.Error("expected error writing empty model")
	}
	if _, err := render.ReadSTL(bytes.NewReader(make([]byte, 84))); err == nil {
		t.Error("expected error reading zero triangle STL")
	}
	if _, err := render.ReadSTL(bytes.NewReader(make([]byte, 10))); err == nil {
		t.Error("expected error reading truncated header")
	}
}
