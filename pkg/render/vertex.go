package render

import "github.com/taigrr/toyrender/pkg/math3d"

// Vertex bundles the attributes interpolated across a triangle. Position is
// in screen space: X and Y in pixels, Z as depth with larger values nearer.
type Vertex struct {
	Position math3d.Vec3
	UV       math3d.Vec2
	Normal   math3d.Vec3
}

// Add adds every attribute component-wise.
func (v Vertex) Add(o Vertex) Vertex {
	return Vertex{v.Position.Add(o.Position), v.UV.Add(o.UV), v.Normal.Add(o.Normal)}
}

// Sub subtracts every attribute component-wise.
func (v Vertex) Sub(o Vertex) Vertex {
	return Vertex{v.Position.Sub(o.Position), v.UV.Sub(o.UV), v.Normal.Sub(o.Normal)}
}

// Scale multiplies every attribute by s.
func (v Vertex) Scale(s float64) Vertex {
	return Vertex{v.Position.Scale(s), v.UV.Scale(s), v.Normal.Scale(s)}
}

// Lerp interpolates all attributes in lockstep.
func (v Vertex) Lerp(o Vertex, t float64) Vertex {
	return v.Add(o.Sub(v).Scale(t))
}

// Triangle is three screen-space vertices.
type Triangle [3]Vertex

// Lattice returns the vertex positions rounded to pixel coordinates, depth
// included.
func (t Triangle) Lattice() [3]math3d.Vec3i {
	return [3]math3d.Vec3i{t[0].Position.Round(), t[1].Position.Round(), t[2].Position.Round()}
}
