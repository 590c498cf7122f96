package tga

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/taigrr/toyrender/pkg/pixmap"
)

// maxPacket is the longest run a single RLE packet can describe.
const maxPacket = 128

// EncodeOptions selects the output flavour.
type EncodeOptions struct {
	// RLE writes run-length packets (types 10/11) instead of raw pixels.
	RLE bool
	// Greyscale writes 8-bit intensity (types 3/11) instead of 24-bit BGR.
	Greyscale bool
}

// Encode writes p to w as a top-left-origin TGA image.
func Encode(w io.Writer, p *pixmap.Pixmap, opts EncodeOptions) error {
	if p.Width > 0xffff || p.Height > 0xffff {
		return fmt.Errorf("tga: %dx%d exceeds the format's size limit", p.Width, p.Height)
	}

	h := Header{
		Width:      uint16(p.Width),
		Height:     uint16(p.Height),
		Descriptor: DescTopToBottom,
	}
	bpp := 3
	switch {
	case opts.Greyscale && opts.RLE:
		h.ImageType, bpp = TypeRLEGreyscale, 1
	case opts.Greyscale:
		h.ImageType, bpp = TypeGreyscale, 1
	case opts.RLE:
		h.ImageType = TypeRLETrueColor
	default:
		h.ImageType = TypeTrueColor
	}
	h.BitsPerPixel = uint8(bpp * 8)

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(h.Bytes()); err != nil {
		return err
	}

	row := make([]byte, p.Width*bpp)
	for y := range p.Height {
		for x, c := range p.Row(y) {
			encodePixel(row[x*bpp:(x+1)*bpp], c)
		}
		var err error
		if opts.RLE {
			err = writeRLE(bw, row, bpp)
		} else {
			_, err = bw.Write(row)
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes p to a new file at path.
func Save(path string, p *pixmap.Pixmap, opts EncodeOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, p, opts); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func encodePixel(dst []byte, c int32) {
	r, g, b := pixmap.Channels(c)
	if len(dst) == 1 {
		dst[0] = uint8((int(r) + int(g) + int(b)) / 3)
		return
	}
	dst[0], dst[1], dst[2] = b, g, r
}

// writeRLE encodes one row of pixels. Packets never cross rows.
func writeRLE(w io.Writer, row []byte, bpp int) error {
	n := len(row) / bpp
	at := func(i int) []byte { return row[i*bpp : (i+1)*bpp] }

	for i := 0; i < n; {
		run := 1
		for i+run < n && run < maxPacket && bytes.Equal(at(i), at(i+run)) {
			run++
		}
		if run >= 2 {
			if _, err := w.Write([]byte{byte(run - 1 + 128)}); err != nil {
				return err
			}
			if _, err := w.Write(at(i)); err != nil {
				return err
			}
			i += run
			continue
		}

		// literal packet: extend until the next repeat starts
		lit := 1
		for i+lit < n && lit < maxPacket {
			if i+lit+1 < n && bytes.Equal(at(i+lit), at(i+lit+1)) {
				break
			}
			lit++
		}
		if _, err := w.Write([]byte{byte(lit - 1)}); err != nil {
			return err
		}
		if _, err := w.Write(row[i*bpp : (i+lit)*bpp]); err != nil {
			return err
		}
		i += lit
	}
	return nil
}
