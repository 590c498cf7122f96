package render

import (
	"math"

	"github.com/taigrr/toyrender/pkg/math3d"
)

// rowExtent is the horizontal extent of a triangle's boundary on one
// scanline, with the attribute bundles found at both ends.
type rowExtent struct {
	set         bool
	minX, maxX  int
	left, right Vertex
}

// fill rasterizes tri row by row. The rows are bounded by walking the long
// edge v0→v2 together with the upper segment v0→v1 and the lower segment
// v1→v2; every pixel between the bounds is depth tested and shaded.
func (c *Canvas) fill(tri Triangle, shade func(Vertex) int32) Result {
	p := tri.Lattice()

	// Adjacent compare-and-swap keeps vertices with equal Y in input order.
	if p[1].Y < p[0].Y {
		p[0], p[1], tri[0], tri[1] = p[1], p[0], tri[1], tri[0]
	}
	if p[2].Y < p[1].Y {
		p[1], p[2], tri[1], tri[2] = p[2], p[1], tri[2], tri[1]
	}
	if p[1].Y < p[0].Y {
		p[0], p[1], tri[0], tri[1] = p[1], p[0], tri[1], tri[0]
	}

	y0, y2 := p[0].Y, p[2].Y
	if y0 == y2 {
		return Degenerate
	}

	// Only the rows on the canvas are tracked.
	w, h := c.Width(), c.Height()
	top, bottom := max(y0, 0), min(y2, h-1)
	if top > bottom {
		return Drawn
	}
	rows := make([]rowExtent, bottom-top+1)
	walkEdge(rows, top, p[0], p[2], tri[0], tri[2])
	walkEdge(rows, top, p[0], p[1], tri[0], tri[1])
	walkEdge(rows, top, p[1], p[2], tri[1], tri[2])

	for y := top; y <= bottom; y++ {
		e := rows[y-top]
		if !e.set {
			continue
		}
		span := float64(e.maxX - e.minX)
		for x := max(e.minX, 0); x <= min(e.maxX, w-1); x++ {
			var phi float64
			if span > 0 {
				phi = float64(x-e.minX) / span
			}
			v := e.left.Lerp(e.right, phi)
			z := depth(v.Position.Z)

			i := y*w + x
			if z > c.Depth.Data[i] {
				c.Depth.Data[i] = z
				c.Color.Data[i] = shade(v)
			}
		}
	}
	return Drawn
}

// walkEdge widens the row extents with every lattice point of the edge
// a→b that lies on rows[0] (row top) through the last row. The bundle at a
// point blends the endpoint bundles by the fraction of the edge walked so
// far. a.Y must not exceed b.Y.
func walkEdge(rows []rowExtent, top int, a, b math3d.Vec3i, va, vb Vertex) {
	bottom := top + len(rows) - 1
	if b.Y < top || a.Y > bottom {
		return
	}
	lr := NewLineRasterizer(math3d.V3i(a.X, a.Y, 0), math3d.V3i(b.X, b.Y, 0))
	if a.Y < top {
		// jump to the first point on row top
		lr.Advance(lr.StepsTo(1, top-a.Y))
	}
	n := float64(lr.Span())
	at := func() Vertex {
		if n == 0 {
			return va
		}
		return va.Lerp(vb, float64(lr.Taken())/n)
	}

	for pt := range lr.Walk() {
		if pt.Y > bottom {
			break
		}
		e := &rows[pt.Y-top]
		if !e.set {
			v := at()
			*e = rowExtent{set: true, minX: pt.X, maxX: pt.X, left: v, right: v}
			continue
		}
		if pt.X < e.minX {
			e.minX, e.left = pt.X, at()
		}
		if pt.X > e.maxX {
			e.maxX, e.right = pt.X, at()
		}
	}
}

// depth rounds an interpolated Z to a depth cell, keeping clear of the
// cleared sentinel.
func depth(z float64) int32 {
	z = math3d.Clamp(math.Round(z), math.MinInt32+1, math.MaxInt32)
	return int32(z)
}
