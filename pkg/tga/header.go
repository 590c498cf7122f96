// Package tga decodes and encodes uncompressed and run-length encoded
// truecolor and greyscale TGA images into pixmaps.
package tga

import (
	"encoding/binary"
	"fmt"
	"io"
)

// HeaderSize is the size in bytes of the fixed TGA header.
const HeaderSize = 18

// Image type codes.
const (
	TypeTrueColor    = 2
	TypeGreyscale    = 3
	TypeRLETrueColor = 10
	TypeRLEGreyscale = 11
)

// Image descriptor flags.
const (
	DescRightToLeft = 0x10 // pixels in a row run right to left
	DescTopToBottom = 0x20 // first row in the file is the top row
)

// Header is the fixed 18-byte TGA header.
type Header struct {
	IDLength       uint8
	ColorMapType   uint8
	ImageType      uint8
	ColorMapOrigin uint16
	ColorMapLength uint16
	ColorMapDepth  uint8
	XOrigin        uint16
	YOrigin        uint16
	Width          uint16
	Height         uint16
	BitsPerPixel   uint8
	Descriptor     uint8
}

// ParseHeader decodes a header field by field from its little-endian
// on-disk form.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("header is %d bytes: %w", len(b), ErrTruncated)
	}
	le := binary.LittleEndian
	return Header{
		IDLength:       b[0],
		ColorMapType:   b[1],
		ImageType:      b[2],
		ColorMapOrigin: le.Uint16(b[3:5]),
		ColorMapLength: le.Uint16(b[5:7]),
		ColorMapDepth:  b[7],
		XOrigin:        le.Uint16(b[8:10]),
		YOrigin:        le.Uint16(b[10:12]),
		Width:          le.Uint16(b[12:14]),
		Height:         le.Uint16(b[14:16]),
		BitsPerPixel:   b[16],
		Descriptor:     b[17],
	}, nil
}

// ReadHeader reads and decodes the header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var b [HeaderSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Header{}, fmt.Errorf("read header: %w", ErrTruncated)
		}
		return Header{}, fmt.Errorf("read header: %w", err)
	}
	return ParseHeader(b[:])
}

// Bytes encodes the header into its 18-byte on-disk form.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	le := binary.LittleEndian
	b[0] = h.IDLength
	b[1] = h.ColorMapType
	b[2] = h.ImageType
	le.PutUint16(b[3:5], h.ColorMapOrigin)
	le.PutUint16(b[5:7], h.ColorMapLength)
	b[7] = h.ColorMapDepth
	le.PutUint16(b[8:10], h.XOrigin)
	le.PutUint16(b[10:12], h.YOrigin)
	le.PutUint16(b[12:14], h.Width)
	le.PutUint16(b[14:16], h.Height)
	b[16] = h.BitsPerPixel
	b[17] = h.Descriptor
	return b
}

// BytesPerPixel derives the pixel size from the bits-per-pixel field.
func (h Header) BytesPerPixel() int {
	return int(h.BitsPerPixel) >> 3
}

// RLE reports whether the payload is run-length encoded.
func (h Header) RLE() bool {
	return h.ImageType == TypeRLETrueColor || h.ImageType == TypeRLEGreyscale
}

// colorMapSize is the number of palette bytes that follow the image ID.
func (h Header) colorMapSize() int {
	if h.ColorMapType == 0 {
		return 0
	}
	return int(h.ColorMapLength) * ((int(h.ColorMapDepth) + 7) / 8)
}

func (h Header) validate() error {
	switch h.ImageType {
	case TypeTrueColor, TypeGreyscale, TypeRLETrueColor, TypeRLEGreyscale:
	default:
		return fmt.Errorf("image type %d: %w", h.ImageType, ErrUnsupportedType)
	}
	switch h.BytesPerPixel() {
	case 1, 3, 4:
	default:
		return fmt.Errorf("%d bits per pixel: %w", h.BitsPerPixel, ErrUnsupportedDepth)
	}
	return nil
}
