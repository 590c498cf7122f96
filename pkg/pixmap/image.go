package pixmap

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
)

// ToImage converts a color pixmap to a standard Go image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := range p.Height {
		for x := range p.Width {
			img.SetRGBA(x, y, ToRGBA(p.Data[y*p.Width+x]))
		}
	}
	return img
}

// FromImage creates a color pixmap from an image.Image.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	p := New(bounds.Dx(), bounds.Dy())
	for y := range p.Height {
		for x := range p.Width {
			p.Data[y*p.Width+x] = FromColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return p
}

// Scale returns a nearest-neighbor resampled copy of a color pixmap.
func (p *Pixmap) Scale(width, height int) *Pixmap {
	if width == p.Width && height == p.Height {
		out := New(width, height)
		copy(out.Data, p.Data)
		return out
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), p.ToImage(), image.Rect(0, 0, p.Width, p.Height), xdraw.Src, nil)
	return FromImage(dst)
}

// NewChecker creates a procedural checkerboard texture.
func NewChecker(width, height, checkSize int, c1, c2 int32) *Pixmap {
	p := New(width, height)
	checkSize = max(checkSize, 1)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				p.Data[y*width+x] = c1
			} else {
				p.Data[y*width+x] = c2
			}
		}
	}
	return p
}

// SavePNG saves a color pixmap as a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, p.ToImage()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

// SaveBMP saves a color pixmap as a BMP file.
func (p *Pixmap) SaveBMP(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := bmp.Encode(f, p.ToImage()); err != nil {
		return fmt.Errorf("encode bmp: %w", err)
	}
	return f.Close()
}
