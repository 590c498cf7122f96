package models

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/toyrender/pkg/asset"
	"github.com/taigrr/toyrender/pkg/math3d"
)

// ParseError describes a malformed line in a mesh file.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LoadOBJ reads a Wavefront OBJ file. Files ending in ".zst" are
// decompressed on the fly.
func LoadOBJ(path string) (*Model, error) {
	rc, err := asset.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	m, err := ParseOBJ(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Name = filepath.Base(path)
	return m, nil
}

// ParseOBJ reads the v, vt, vn and f records of an OBJ stream. Other
// records are ignored. Polygons with more than three corners are split
// into a triangle fan. Indices are converted to 0-based but not range
// checked; see Model.Validate.
func ParseOBJ(r io.Reader) (*Model, error) {
	m := NewModel("")
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var v math3d.Vec3
			v, err = parseVec3(fields[1:])
			m.Positions = append(m.Positions, v)
		case "vt":
			var f []float64
			// an optional third (w) component is ignored
			f, err = parseFloats(fields[1:], 2)
			if err == nil {
				m.UVs = append(m.UVs, math3d.V2(f[0], f[1]))
			}
		case "vn":
			var v math3d.Vec3
			v, err = parseVec3(fields[1:])
			m.Normals = append(m.Normals, v)
		case "f":
			err = m.parseFace(fields[1:])
		}
		if err != nil {
			return nil, &ParseError{Line: n, Text: line, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	m.CalculateBounds()
	return m, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	f := make([]float64, n)
	for i := range n {
		var err error
		if f[i], err = strconv.ParseFloat(fields[i], 64); err != nil {
			return nil, err
		}
		// one NaN or Inf would poison the bounds of the whole model
		if math.IsNaN(f[i]) || math.IsInf(f[i], 0) {
			return nil, fmt.Errorf("value %q is not finite", fields[i])
		}
	}
	return f, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	f, err := parseFloats(fields, 3)
	if err != nil {
		return math3d.Vec3{}, err
	}
	return math3d.V3(f[0], f[1], f[2]), nil
}

func (m *Model) parseFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs 3 corners, got %d", len(fields))
	}
	corners := make([]Corner, len(fields))
	for i, f := range fields {
		c, err := parseCorner(f)
		if err != nil {
			return err
		}
		corners[i] = c
	}
	for i := 1; i+1 < len(corners); i++ {
		m.Faces = append(m.Faces, Face{corners[0], corners[i], corners[i+1]})
	}
	return nil
}

// parseCorner accepts v, v/t, v//n and v/t/n.
func parseCorner(s string) (Corner, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return Corner{}, fmt.Errorf("corner %q has too many parts", s)
	}
	c := Corner{V: -1, T: -1, N: -1}
	dst := [3]*int{&c.V, &c.T, &c.N}
	for i, p := range parts {
		if p == "" {
			if i == 0 {
				return Corner{}, fmt.Errorf("corner %q has no position", s)
			}
			continue
		}
		idx, err := strconv.Atoi(p)
		if err != nil {
			return Corner{}, err
		}
		if idx <= 0 {
			return Corner{}, fmt.Errorf("corner %q: index %d is not 1-based", s, idx)
		}
		*dst[i] = idx - 1
	}
	return c, nil
}
