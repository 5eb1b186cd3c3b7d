package render_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/femesh"
	"github.com/soypat/femesh/render"
)

func TestJSONRoundTrip(t *testing.T) {
	mesh, err := femesh.GenerateSphere(5)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "mesh.json")
	if err := render.CreateJSON(path, mesh); err != nil {
		t.Fatal(err)
	}
	fp, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	got, err := render.ReadJSON(fp)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Vertices) != len(mesh.Vertices) {
		t.Fatalf("got %d vertices, want %d", len(got.Vertices), len(mesh.Vertices))
	}
	for i := range mesh.Vertices {
		if got.Vertices[i] != mesh.Vertices[i] {
			t.Fatalf("vertex %d: got %v, want %v", i, got.Vertices[i], mesh.Vertices[i])
		}
	}
	if len(got.Indices) != len(mesh.Indices) {
		t.Fatalf("got %d indices, want %d", len(got.Indices), len(mesh.Indices))
	}
	for i := range mesh.Indices {
		if got.Indices[i] != mesh.Indices[i] {
			t.Fatalf("index %d: got %d, want %d", i, got.Indices[i], mesh.Indices[i])
		}
	}
}

func TestJSONLayout(t *testing.T) {
	mesh, err := femesh.GenerateCube(1)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := render.WriteJSON(&b, mesh); err != nil {
		t.Fatal(err)
	}
	s := b.String()
	for _, want := range []string{
		"{\n    \"vertices\": [\n        [\n            1,\n            -1,\n            -1\n        ],",
		"\n    \"triangles\": [\n        [\n",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}

	b.Reset()
	if err := render.WriteJSON(&b, &femesh.Mesh{}); err != nil {
		t.Fatal(err)
	}
	if got := b.String(); got != "{\n    \"vertices\": [],\n    \"triangles\": []\n}\n" {
		t.Errorf("empty mesh json: %q", got)
	}
}

func TestJSONInvalid(t *testing.T) {
	_, err := render.ReadJSON(strings.NewReader(`{"vertices": [[0,0,0]], "triangles": [[0,0,1]]}`))
	if !errors.Is(err, femesh.ErrIndexOutOfRange) {
		t.Errorf("got %v, want ErrIndexOutOfRange", err)
	}
	_, err = render.ReadJSON(strings.NewReader(`{"vertices": [`))
	if err == nil {
		t.Error("expected error for truncated json")
	}
}
