package asset

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestExt(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"head.obj", ".obj"},
		{"head.OBJ.zst", ".obj"},
		{"dir/diffuse.tga.ZST", ".tga"},
		{"noext", ""},
	}
	for _, tc := range tests {
		if got := Ext(tc.path); got != tc.want {
			t.Errorf("Ext(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestOpenPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.obj")
	if err := os.WriteFile(path, []byte("v 1 2 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rc, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil || string(b) != "v 1 2 3\n" {
		t.Errorf("read %q, %v", b, err)
	}
}

func TestOpenZstd(t *testing.T) {
	want := []byte("v 1 2 3\nf 1/1/1 1/1/1 1/1/1\n")

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	compressed := enc.EncodeAll(want, nil)
	enc.Close()

	path := filepath.Join(t.TempDir(), "mesh.obj.zst")
	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		t.Fatal(err)
	}

	rc, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(want) {
		t.Errorf("decompressed %q, want %q", got, want)
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}
