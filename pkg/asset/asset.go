// Package asset opens mesh and texture files, decompressing zstd-compressed
// files (".zst" suffix) transparently.
package asset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Unfortunately, unlike io.ReadCloser, the zstd Decoder's Close() method
// doesn't return an error, so it is adapted here.
type zstdReadCloser struct {
	*zstd.Decoder
	f *os.File
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

// Open opens the file at path for reading. If the file name ends in ".zst"
// the returned reader yields the decompressed contents.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !IsCompressed(path) {
		return f, nil
	}

	zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("zstd %s: %w", path, err)
	}
	return zstdReadCloser{Decoder: zr, f: f}, nil
}

// IsCompressed reports whether path names a zstd-compressed file.
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zst")
}

// Ext returns the lower-cased extension of path, looking through a trailing
// ".zst" so that "head.obj.zst" reports ".obj".
func Ext(path string) string {
	if IsCompressed(path) {
		path = path[:len(path)-len(".zst")]
	}
	return strings.ToLower(filepath.Ext(path))
}
