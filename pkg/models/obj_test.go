package models

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/toyrender/pkg/math3d"
)

func TestParseOBJSingleCorner(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader("v 1.0 2.0 3.0\nf 1/1/1 1/1/1 1/1/1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Positions) != 1 || m.Positions[0] != math3d.V3(1, 2, 3) {
		t.Errorf("Positions = %v, want [(1, 2, 3)]", m.Positions)
	}
	if len(m.Faces) != 1 {
		t.Fatalf("got %d faces, want 1", len(m.Faces))
	}
	for i, c := range m.Faces[0] {
		if c != (Corner{0, 0, 0}) {
			t.Errorf("corner %d = %+v, want all zero", i, c)
		}
	}
}

const cubeOBJ = `# unit quad and a pentagon
mtllib cube.mtl
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0 0
vt 1 1
vt 0 1
vn 0 0 1
s off
usemtl none
f 1/1/1 2/2/1 3/3/1 4/4/1
f 1 2 3
f 1//1 3//1 4//1
f 2/2 3/3 4/4
`

func TestParseOBJ(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader(cubeOBJ))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Positions) != 4 || len(m.UVs) != 4 || len(m.Normals) != 1 {
		t.Fatalf("got %d/%d/%d positions/uvs/normals, want 4/4/1", len(m.Positions), len(m.UVs), len(m.Normals))
	}
	if m.UVs[1] != math3d.V2(1, 0) {
		t.Errorf("UVs[1] = %v, want (1, 0)", m.UVs[1])
	}

	want := []Face{
		// quad fan
		{{0, 0, 0}, {1, 1, 0}, {2, 2, 0}},
		{{0, 0, 0}, {2, 2, 0}, {3, 3, 0}},
		// v
		{{0, -1, -1}, {1, -1, -1}, {2, -1, -1}},
		// v//n
		{{0, -1, 0}, {2, -1, 0}, {3, -1, 0}},
		// v/t
		{{1, 1, -1}, {2, 2, -1}, {3, 3, -1}},
	}
	if len(m.Faces) != len(want) {
		t.Fatalf("got %d faces, want %d", len(m.Faces), len(want))
	}
	for i := range want {
		if m.Faces[i] != want[i] {
			t.Errorf("face %d = %+v, want %+v", i, m.Faces[i], want[i])
		}
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if m.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("BoundsMax = %v, want (1, 1, 0)", m.BoundsMax)
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"short vertex", "v 1 2\n", 1},
		{"bad float", "v 0 0 0\nv 1 x 2\n", 2},
		{"nan vertex", "v 0 0 0\nv nan 0.5 0\n", 2},
		{"infinite uv", "vt 0 Inf\n", 1},
		{"infinite normal", "vn 0 0 -inf\n", 1},
		{"short uv", "vt 0.5\n", 1},
		{"short normal", "vn 0 1\n", 1},
		{"two corners", "v 0 0 0\nf 1 1\n", 2},
		{"zero index", "v 0 0 0\n\nf 0 1 1\n", 3},
		{"negative index", "v 0 0 0\nf -1 1 1\n", 2},
		{"bad index", "v 0 0 0\nf 1/a/1 1 1\n", 2},
		{"missing position", "v 0 0 0\nf /1/1 1 1\n", 2},
		{"too many parts", "v 0 0 0\nf 1/1/1/1 1 1\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.src))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if pe.Line != tt.line {
				t.Errorf("Line = %d, want %d", pe.Line, tt.line)
			}
		})
	}
}

func TestParseOBJDefersRangeCheck(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader("v 0 0 0\nf 1 2 3\n"))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if err := m.Validate(); !errors.Is(err, ErrIndexRange) {
		t.Errorf("Validate = %v, want ErrIndexRange", err)
	}
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(cubeOBJ), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "quad.obj" {
		t.Errorf("Name = %q, want quad.obj", m.Name)
	}
	if m.TriangleCount() != 5 {
		t.Errorf("TriangleCount = %d, want 5", m.TriangleCount())
	}

	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}

func BenchmarkParseOBJ(b *testing.B) {
	var sb strings.Builder
	for i := range 1000 {
		sb.WriteString("v 0.1 0.2 0.3\nvt 0.5 0.5\nvn 0 0 1\n")
		if i > 0 {
			sb.WriteString("f 1/1/1 2/2/2 3/3/3\n")
		}
	}
	src := sb.String()
	for b.Loop() {
		if _, err := ParseOBJ(strings.NewReader(src)); err != nil {
			b.Fatal(err)
		}
	}
}
