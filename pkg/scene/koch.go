package scene

import (
	"math"

	"github.com/taigrr/toyrender/pkg/math3d"
	"github.com/taigrr/toyrender/pkg/render"
)

// KochCurve returns the 4ⁿ+1 points of a Koch curve of depth n from p to
// q. Each segment is split at its thirds r and t, and the peak s of an
// equilateral bump is inserted between them.
func KochCurve(p, q math3d.Vec2, n int) []math3d.Vec2 {
	pts := []math3d.Vec2{p}
	return append(koch(pts, p, q, n), q)
}

// koch appends every point of the curve from p to q except q itself.
func koch(pts []math3d.Vec2, p, q math3d.Vec2, n int) []math3d.Vec2 {
	if n <= 0 {
		return pts
	}
	const h = 0.28867513459481287 // √3/6

	r := p.Lerp(q, 1.0/3)
	t := p.Lerp(q, 2.0/3)
	s := math3d.V2(
		(p.X+q.X)/2-(p.Y-q.Y)*h,
		(p.Y+q.Y)/2+(p.X-q.X)*h,
	)

	pts = koch(pts, p, r, n-1)
	pts = append(pts, r)
	pts = koch(pts, r, s, n-1)
	pts = append(pts, s)
	pts = koch(pts, s, t, n-1)
	pts = append(pts, t)
	return koch(pts, t, q, n-1)
}

// Snowflake returns the closed outline of a Koch snowflake: a curve of
// depth n on every edge of a regular polygon with the given number of
// sides, inscribed in a circle of radius d around c. The first point is
// not repeated at the end.
func Snowflake(c math3d.Vec2, d float64, n, sides int) []math3d.Vec2 {
	if sides < 2 {
		return nil
	}
	vs := make([]math3d.Vec2, sides)
	for i := range vs {
		a := 2 * math.Pi / float64(sides) * float64(i)
		vs[i] = math3d.V2(c.X+d*math.Cos(a), c.Y-d*math.Sin(a))
	}

	var out []math3d.Vec2
	for i := range vs {
		curve := KochCurve(vs[(i+1)%sides], vs[i], n)
		out = append(out, curve[:len(curve)-1]...)
	}
	return out
}

// DrawSnowflake strokes a snowflake centered on the canvas, sized to a
// quarter of its smaller dimension.
func DrawSnowflake(c *render.Canvas, n, sides int, color int32) {
	w, h := float64(c.Width()), float64(c.Height())
	center := math3d.V2(w/2, h/2)
	outline := Snowflake(center, min(w, h)/4, n, sides)

	pts := make([]math3d.Vec3i, len(outline))
	for i, p := range outline {
		pts[i] = math3d.V3(p.X, p.Y, 0).Trunc()
	}
	c.Polyline(pts, true, color)
}
