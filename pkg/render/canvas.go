// Package render rasterizes lines and textured, Z-buffered triangles into a
// pair of pixmaps and presents the result as bytes, images or terminal
// cells.
package render

import (
	"errors"
	"image"
	"math"

	"github.com/taigrr/toyrender/pkg/math3d"
	"github.com/taigrr/toyrender/pkg/pixmap"
)

// DepthCleared is the Z-buffer value after Clear. Any rasterized depth
// passes the greater-than test against it.
const DepthCleared int32 = math.MinInt32

// ErrShortBuffer is returned by Present when the destination cannot hold
// a full frame.
var ErrShortBuffer = errors.New("render: present buffer too small")

// Result reports what a triangle call did.
type Result int

const (
	Drawn      Result = iota // at least one scanline was walked
	Culled                   // facing away from the light
	Degenerate               // zero screen height
)

func (r Result) String() string {
	switch r {
	case Drawn:
		return "drawn"
	case Culled:
		return "culled"
	case Degenerate:
		return "degenerate"
	}
	return "unknown"
}

// Canvas owns a color pixmap and a depth pixmap of the same size. Depth
// cells hold rounded screen-space Z; a pixel is written only when its depth
// is strictly greater than the stored one, so the first writer wins ties.
type Canvas struct {
	Color *pixmap.Pixmap
	Depth *pixmap.Pixmap
}

// NewCanvas creates a cleared canvas with a black background.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		Color: pixmap.New(width, height),
		Depth: pixmap.New(width, height),
	}
	c.Clear(pixmap.Black)
	return c
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.Color.Width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.Color.Height }

// Resize reallocates both buffers if the size changed, then clears them.
func (c *Canvas) Resize(width, height int, bg int32) {
	if width != c.Width() || height != c.Height() {
		c.Color = pixmap.New(width, height)
		c.Depth = pixmap.New(width, height)
	}
	c.Clear(bg)
}

// Clear resets the color buffer to bg and the depth buffer to
// DepthCleared. Call it once per frame.
func (c *Canvas) Clear(bg int32) {
	c.Color.Fill(bg)
	c.Depth.Fill(DepthCleared)
}

// Set writes a color without a depth test.
func (c *Canvas) Set(x, y int, color int32) {
	c.Color.Set(x, y, color)
}

// At returns the color at (x, y), or 0 out of bounds.
func (c *Canvas) At(x, y int) int32 {
	return c.Color.At(x, y)
}

// Present writes the color buffer into dst as 3 bytes per pixel in R, G, B
// order, top row first.
func (c *Canvas) Present(dst []byte) error {
	if len(dst) < 3*len(c.Color.Data) {
		return ErrShortBuffer
	}
	for i, px := range c.Color.Data {
		dst[3*i], dst[3*i+1], dst[3*i+2] = pixmap.Channels(px)
	}
	return nil
}

// Bytes returns a newly allocated R, G, B copy of the color buffer.
func (c *Canvas) Bytes() []byte {
	b := make([]byte, 3*len(c.Color.Data))
	_ = c.Present(b)
	return b
}

// Image converts the color buffer to an opaque RGBA image.
func (c *Canvas) Image() *image.RGBA {
	return c.Color.ToImage()
}

// Line strokes every lattice point from from to to, both ends included.
// Lines ignore the depth buffer.
func (c *Canvas) Line(from, to math3d.Vec3i, color int32) {
	for p := range Line(from, to) {
		c.Color.Set(p.X, p.Y, color)
	}
}

// Polyline strokes consecutive points, joining the last back to the first
// when closed is set.
func (c *Canvas) Polyline(pts []math3d.Vec3i, closed bool, color int32) {
	for i := 1; i < len(pts); i++ {
		c.Line(pts[i-1], pts[i], color)
	}
	if closed && len(pts) > 2 {
		c.Line(pts[len(pts)-1], pts[0], color)
	}
}

// TriangleOutline strokes the three edges of tri.
func (c *Canvas) TriangleOutline(tri Triangle, color int32) {
	p := tri.Lattice()
	for i := range p {
		p[i].Z = 0
	}
	c.Polyline(p[:], true, color)
}

// Triangle fills tri with flat shading: every texel is scaled by intensity.
// Non-positive intensity culls the triangle. A nil texture shades white.
func (c *Canvas) Triangle(tri Triangle, tex *pixmap.Pixmap, intensity float64) Result {
	if intensity <= 0 {
		return Culled
	}
	return c.fill(tri, func(v Vertex) int32 {
		return pixmap.Shade(texel(tex, v.UV), intensity)
	})
}

// TriangleLit fills tri with per-pixel Lambert shading against the
// direction light, using the interpolated and renormalized vertex normal.
// The triangle is culled when its mean vertex normal faces away from the
// light.
func (c *Canvas) TriangleLit(tri Triangle, tex *pixmap.Pixmap, light math3d.Vec3) Result {
	light = light.Normalize()
	mean := tri[0].Normal.Add(tri[1].Normal).Add(tri[2].Normal).Normalize()
	if mean.Dot(light) <= 0 {
		return Culled
	}
	return c.fill(tri, func(v Vertex) int32 {
		// a zero normal normalizes to zero and shades black
		return pixmap.Shade(texel(tex, v.UV), v.Normal.Normalize().Dot(light))
	})
}

// TriangleColor fills tri with a single color, depth tested.
func (c *Canvas) TriangleColor(tri Triangle, color int32) Result {
	return c.fill(tri, func(Vertex) int32 { return color })
}

// texel samples the diffuse map. Model UVs put V=0 at the bottom while
// pixmaps put row 0 at the top, so V is flipped.
func texel(tex *pixmap.Pixmap, uv math3d.Vec2) int32 {
	if tex == nil {
		return pixmap.White
	}
	return tex.Sample(uv.X, 1-uv.Y)
}
