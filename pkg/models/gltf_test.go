package models

import (
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/toyrender/pkg/math3d"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if !loader.Textures {
		t.Error("Textures should default to true")
	}
}

// triangleDoc builds a document with three positions and one indexed
// triangle primitive.
func triangleDoc(indices [3]uint16) *gltf.Document {
	positions := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}

	data := make([]byte, 0, 44)
	for _, f := range positions {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(f))
	}
	for _, i := range indices {
		data = binary.LittleEndian.AppendUint16(data, i)
	}
	data = append(data, 0, 0)

	return &gltf.Document{
		Buffers: []*gltf.Buffer{{ByteLength: len(data), Data: data}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: 36},
			{Buffer: 0, ByteOffset: 36, ByteLength: 6},
		},
		Accessors: []*gltf.Accessor{
			{BufferView: gltf.Index(0), ComponentType: gltf.ComponentFloat, Count: 3, Type: gltf.AccessorVec3},
			{BufferView: gltf.Index(1), ComponentType: gltf.ComponentUshort, Count: 3, Type: gltf.AccessorScalar},
		},
		Meshes: []*gltf.Mesh{{
			Name: "tri",
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]int{gltf.POSITION: 0},
				Indices:    gltf.Index(1),
			}},
		}},
	}
}

func saveGLB(t *testing.T, doc *gltf.Document) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeTriangleGLB saves a single indexed triangle with positions only.
func writeTriangleGLB(t *testing.T) string {
	t.Helper()
	return saveGLB(t, triangleDoc([3]uint16{0, 1, 2}))
}

func TestLoadGLB(t *testing.T) {
	m, err := LoadGLB(writeTriangleGLB(t))
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "tri.glb" {
		t.Errorf("Name = %q, want tri.glb", m.Name)
	}
	if len(m.Positions) != 3 || m.TriangleCount() != 1 {
		t.Fatalf("got %d positions and %d faces, want 3 and 1", len(m.Positions), m.TriangleCount())
	}
	if m.Positions[1] != math3d.V3(1, 0, 0) {
		t.Errorf("Positions[1] = %v, want (1, 0, 0)", m.Positions[1])
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	// missing normals are calculated, winding is counter-clockwise
	if !m.HasNormals() {
		t.Fatal("expected calculated normals")
	}
	if n := m.Normal(m.Faces[0][0]); math.Abs(n.Z-1) > 1e-9 {
		t.Errorf("normal = %v, want +Z", n)
	}
	for _, c := range m.Faces[0] {
		if c.T != -1 {
			t.Errorf("corner %d has uv %d without TEXCOORD_0", c.V, c.T)
		}
	}
	if m.Diffuse != nil {
		t.Error("expected no diffuse texture")
	}
}

func TestLoadGLBErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(doc *gltf.Document)
	}{
		{"index past positions", func(doc *gltf.Document) {
			*doc = *triangleDoc([3]uint16{0, 1, 7})
		}},
		{"missing accessor", func(doc *gltf.Document) {
			doc.Meshes[0].Primitives[0].Attributes[gltf.POSITION] = 5
		}},
		{"missing index accessor", func(doc *gltf.Document) {
			doc.Meshes[0].Primitives[0].Indices = gltf.Index(9)
		}},
		{"missing buffer view", func(doc *gltf.Document) {
			doc.Accessors[0].BufferView = gltf.Index(4)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := triangleDoc([3]uint16{0, 1, 2})
			tt.modify(doc)
			_, err := LoadGLB(saveGLB(t, doc))
			if !errors.Is(err, ErrIndexRange) {
				t.Errorf("LoadGLB error = %v, want ErrIndexRange", err)
			}
		})
	}
}
