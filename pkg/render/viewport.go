package render

import "github.com/taigrr/toyrender/pkg/math3d"

// DefaultDepth is the depth range used when a Viewport has none set.
const DefaultDepth = 255

// Viewport maps the normalized cube [-1, 1]³ onto screen space. X grows to
// the right, Y grows downward and depth grows toward the viewer.
type Viewport struct {
	Width  int
	Height int
	Depth  float64 // depth of the nearest face of the cube

	// KeepAspect fits the cube into the largest centered square instead of
	// stretching it across the whole screen.
	KeepAspect bool
}

// NewViewport creates a stretching viewport with the default depth range.
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		Width:  width,
		Height: height,
		Depth:  DefaultDepth,
	}
}

// SetSize updates the screen dimensions, e.g. on a terminal resize.
func (v *Viewport) SetSize(width, height int) {
	v.Width = width
	v.Height = height
}

// Project converts a point in the normalized cube to screen coordinates:
// x = (p.x+1)·W/2, y = (1-p.y)·H/2, z = (p.z+1)·D/2.
func (v *Viewport) Project(p math3d.Vec3) math3d.Vec3 {
	d := v.Depth
	if d == 0 {
		d = DefaultDepth
	}
	w, h := float64(v.Width), float64(v.Height)
	if !v.KeepAspect {
		return math3d.V3((p.X+1)*w/2, (1-p.Y)*h/2, (p.Z+1)*d/2)
	}
	s := min(w, h) / 2
	return math3d.V3(w/2+p.X*s, h/2-p.Y*s, (p.Z+1)*d/2)
}

// ProjectVertex projects a vertex position and carries UV and normal over
// unchanged.
func (v *Viewport) ProjectVertex(pos math3d.Vec3, uv math3d.Vec2, normal math3d.Vec3) Vertex {
	return Vertex{Position: v.Project(pos), UV: uv, Normal: normal}
}
