// Package models loads triangle meshes and their diffuse textures into a
// Model the renderer can walk face by face.
package models

import (
	"errors"
	"fmt"

	"github.com/brunoga/deep"
	"github.com/taigrr/toyrender/pkg/math3d"
	"github.com/taigrr/toyrender/pkg/pixmap"
)

// ErrIndexRange reports a face corner that references a missing position,
// UV or normal.
var ErrIndexRange = errors.New("models: face index out of range")

// Corner indexes one face corner into the model's attribute lists.
// T and N are -1 when the corner carries no UV or normal.
type Corner struct {
	V, T, N int
}

// Face is a triangle of three corners.
type Face [3]Corner

// Model is a triangle mesh with per-corner UV and normal references and an
// optional diffuse texture. It is read-only once loaded.
type Model struct {
	Name      string
	Positions []math3d.Vec3
	UVs       []math3d.Vec2
	Normals   []math3d.Vec3
	Faces     []Face
	Diffuse   *pixmap.Pixmap

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewModel creates an empty model.
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Model) CalculateBounds() {
	if len(m.Positions) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Vec3{}, math3d.Vec3{}
		return
	}

	m.BoundsMin = m.Positions[0]
	m.BoundsMax = m.Positions[0]
	for _, p := range m.Positions[1:] {
		m.BoundsMin = m.BoundsMin.Min(p)
		m.BoundsMax = m.BoundsMax.Max(p)
	}
}

// Center returns the center of the bounding box.
func (m *Model) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Model) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Model) TriangleCount() int {
	return len(m.Faces)
}

// Position returns the position of a face corner.
func (m *Model) Position(c Corner) math3d.Vec3 {
	return m.Positions[c.V]
}

// UV returns the texture coordinate of a face corner, or (0, 0) when the
// corner has none.
func (m *Model) UV(c Corner) math3d.Vec2 {
	if c.T < 0 {
		return math3d.Vec2{}
	}
	return m.UVs[c.T]
}

// Normal returns the normal of a face corner, or the zero vector when the
// corner has none.
func (m *Model) Normal(c Corner) math3d.Vec3 {
	if c.N < 0 {
		return math3d.Vec3{}
	}
	return m.Normals[c.N]
}

// Validate checks that every face corner references existing attributes.
// Missing UV and normal references (-1) are allowed.
func (m *Model) Validate() error {
	for i, f := range m.Faces {
		for j, c := range f {
			switch {
			case c.V < 0 || c.V >= len(m.Positions):
				return fmt.Errorf("face %d corner %d: position %d of %d: %w", i, j, c.V, len(m.Positions), ErrIndexRange)
			case c.T < -1 || c.T >= len(m.UVs):
				return fmt.Errorf("face %d corner %d: uv %d of %d: %w", i, j, c.T, len(m.UVs), ErrIndexRange)
			case c.N < -1 || c.N >= len(m.Normals):
				return fmt.Errorf("face %d corner %d: normal %d of %d: %w", i, j, c.N, len(m.Normals), ErrIndexRange)
			}
		}
	}
	return nil
}

// HasNormals reports whether every corner carries a normal.
func (m *Model) HasNormals() bool {
	for _, f := range m.Faces {
		for _, c := range f {
			if c.N < 0 {
				return false
			}
		}
	}
	return len(m.Faces) > 0
}

// CalculateSmoothNormals replaces the normal list with one averaged normal
// per position and points every corner at it.
func (m *Model) CalculateSmoothNormals() {
	normals := make([]math3d.Vec3, len(m.Positions))

	// Accumulate unnormalized face normals so larger faces weigh more
	for _, f := range m.Faces {
		v0 := m.Positions[f[0].V]
		n := m.Positions[f[1].V].Sub(v0).Cross(m.Positions[f[2].V].Sub(v0))
		for _, c := range f {
			normals[c.V] = normals[c.V].Add(n)
		}
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}

	m.Normals = normals
	for i := range m.Faces {
		for j := range m.Faces[i] {
			m.Faces[i][j].N = m.Faces[i][j].V
		}
	}
}

// Transform applies a transformation matrix to all positions and normals.
func (m *Model) Transform(mat math3d.Mat4) {
	for i := range m.Positions {
		m.Positions[i] = mat.MulVec3(m.Positions[i])
	}
	// Only the rotation part matters for normals; scaling is uniform here
	for i := range m.Normals {
		m.Normals[i] = mat.MulVec3Dir(m.Normals[i]).Normalize()
	}
	m.CalculateBounds()
}

// Normalize centers the model on the origin and scales it uniformly so its
// largest dimension spans [-1, 1].
func (m *Model) Normalize() {
	m.CalculateBounds()
	size := m.Size()
	extent := max(size.X, size.Y, size.Z)
	if extent == 0 {
		return
	}
	c := m.Center()
	m.Transform(math3d.ScaleUniform(2 / extent).Mul(math3d.Translate(c.Negate())))
}

// Clone creates a deep copy of the model, texture included.
func (m *Model) Clone() *Model {
	return deep.MustCopy(m)
}
