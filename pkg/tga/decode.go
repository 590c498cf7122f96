package tga

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/taigrr/toyrender/pkg/asset"
	"github.com/taigrr/toyrender/pkg/pixmap"
)

// Load reads a TGA file from path. Files ending in ".zst" are decompressed
// on the fly.
func Load(path string) (*pixmap.Pixmap, error) {
	rc, err := asset.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	p, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Decode reads a TGA image from r. The returned pixmap always has its
// first row at the top, whatever origin the file declares.
func Decode(r io.Reader) (*pixmap.Pixmap, error) {
	br := bufio.NewReader(r)

	h, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}
	if err := h.validate(); err != nil {
		return nil, err
	}

	// image ID and palette are not used
	skip := int64(h.IDLength) + int64(h.colorMapSize())
	if _, err := io.CopyN(io.Discard, br, skip); err != nil {
		return nil, fmt.Errorf("skip id and color map: %w", ErrTruncated)
	}

	w, ht := int(h.Width), int(h.Height)
	bpp := h.BytesPerPixel()
	var cells []int32
	if h.RLE() {
		cells, err = readRLE(br, w*ht, bpp)
	} else {
		cells, err = readRaw(br, w, ht, bpp)
	}
	if err != nil {
		return nil, fmt.Errorf("read pixels: %w", err)
	}

	p := &pixmap.Pixmap{Width: w, Height: ht, Data: cells}
	orient(p, h.Descriptor)
	return p, nil
}

// initialCells caps the up-front allocation. Storage grows with the pixels
// actually read, so a header declaring a huge image over a short payload
// fails with ErrTruncated instead of allocating the declared size.
const initialCells = 1 << 16

// decodePixel packs one on-disk pixel. Truecolor pixels are stored B, G, R
// (then alpha, which is dropped); greyscale values are replicated.
func decodePixel(b []byte, bpp int) int32 {
	if bpp == 1 {
		return pixmap.RGB(b[0], b[0], b[0])
	}
	return pixmap.RGB(b[2], b[1], b[0])
}

// appendPixels decodes every pixel of b onto cells.
func appendPixels(cells []int32, b []byte, bpp int) []int32 {
	for off := 0; off+bpp <= len(b); off += bpp {
		cells = append(cells, decodePixel(b[off:off+bpp], bpp))
	}
	return cells
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}

// readRaw decodes ht rows of w uncompressed pixels in file order.
func readRaw(r io.Reader, w, ht, bpp int) ([]int32, error) {
	row := make([]byte, w*bpp)
	cells := make([]int32, 0, min(w*ht, initialCells))
	for range ht {
		if _, err := io.ReadFull(r, row); err != nil {
			return nil, truncated(err)
		}
		cells = appendPixels(cells, row, bpp)
	}
	return cells, nil
}

// readRLE expands run-length packets until n pixels are decoded, in file
// order. A control byte below 128 starts a literal run of ctrl+1 pixels;
// otherwise the next pixel repeats ctrl-127 times.
func readRLE(r *bufio.Reader, n, bpp int) ([]int32, error) {
	buf := make([]byte, 128*bpp)
	cells := make([]int32, 0, min(n, initialCells))
	for len(cells) < n {
		ctrl, err := r.ReadByte()
		if err != nil {
			return nil, truncated(err)
		}
		var count int
		if ctrl < 128 {
			count = int(ctrl) + 1
		} else {
			count = int(ctrl) - 127
		}
		if len(cells)+count > n {
			return nil, fmt.Errorf("run of %d pixels at offset %d overflows image: %w", count, len(cells), ErrCorrupt)
		}

		if ctrl < 128 {
			if _, err := io.ReadFull(r, buf[:count*bpp]); err != nil {
				return nil, truncated(err)
			}
			cells = appendPixels(cells, buf[:count*bpp], bpp)
			continue
		}
		if _, err := io.ReadFull(r, buf[:bpp]); err != nil {
			return nil, truncated(err)
		}
		px := decodePixel(buf[:bpp], bpp)
		for range count {
			cells = append(cells, px)
		}
	}
	return cells, nil
}

// orient rearranges a pixmap holding rows in file order so that row 0 is
// the top row and pixels run left to right.
func orient(p *pixmap.Pixmap, desc uint8) {
	if desc&DescTopToBottom == 0 {
		for top, bot := 0, p.Height-1; top < bot; top, bot = top+1, bot-1 {
			a, b := p.Row(top), p.Row(bot)
			for i := range a {
				a[i], b[i] = b[i], a[i]
			}
		}
	}
	if desc&DescRightToLeft != 0 {
		for y := range p.Height {
			slices.Reverse(p.Row(y))
		}
	}
}
