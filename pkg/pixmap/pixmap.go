// Package pixmap provides the dense 2D buffer of 32-bit cells shared by the
// texture decoder and the rasterizer. A cell holds either a packed RGB color
// or a depth value, depending on how the owner uses the map.
package pixmap

// Pixmap is a width×height array of int32 cells.
// Cells are stored row-major by y: (x, y) lives at Data[y*Width+x], with
// row 0 at the top.
type Pixmap struct {
	Width  int
	Height int
	Data   []int32
}

// New creates a pixmap with every cell set to zero.
func New(width, height int) *Pixmap {
	width = max(width, 0)
	height = max(height, 0)
	return &Pixmap{
		Width:  width,
		Height: height,
		Data:   make([]int32, width*height),
	}
}

// NewFilled creates a pixmap with every cell set to v.
func NewFilled(width, height int, v int32) *Pixmap {
	p := New(width, height)
	p.Fill(v)
	return p
}

// Fill sets every cell to v.
func (p *Pixmap) Fill(v int32) {
	// Use copy-doubling for faster clearing
	n := len(p.Data)
	if n == 0 {
		return
	}
	p.Data[0] = v
	for i := 1; i < n; i *= 2 {
		copy(p.Data[i:], p.Data[:i])
	}
}

// InBounds reports whether (x, y) addresses a cell.
func (p *Pixmap) InBounds(x, y int) bool {
	return x >= 0 && x < p.Width && y >= 0 && y < p.Height
}

// At returns the cell at (x, y), or 0 if out of bounds.
func (p *Pixmap) At(x, y int) int32 {
	if !p.InBounds(x, y) {
		return 0
	}
	return p.Data[y*p.Width+x]
}

// Set writes the cell at (x, y). Out-of-bounds writes are dropped.
func (p *Pixmap) Set(x, y int, v int32) {
	if !p.InBounds(x, y) {
		return
	}
	p.Data[y*p.Width+x] = v
}

// Row returns the cells of row y, aliasing the pixmap's storage.
func (p *Pixmap) Row(y int) []int32 {
	if y < 0 || y >= p.Height {
		return nil
	}
	return p.Data[y*p.Width : (y+1)*p.Width]
}

// Sample reads the cell at normalized coordinates (u, v), with (0, 0) at
// the top-left corner and (1, 1) at the bottom-right. Coordinates outside
// [0, 1] return 0.
func (p *Pixmap) Sample(u, v float64) int32 {
	if !(u >= 0 && u <= 1 && v >= 0 && v <= 1) {
		return 0
	}
	x := min(int(u*float64(p.Width)), p.Width-1)
	y := min(int(v*float64(p.Height)), p.Height-1)
	return p.At(x, y)
}
