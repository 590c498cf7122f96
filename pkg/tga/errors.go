package tga

import "errors"

var (
	ErrUnsupportedType  = errors.New("tga: unsupported image type")
	ErrUnsupportedDepth = errors.New("tga: unsupported pixel depth")
	ErrTruncated        = errors.New("tga: truncated data")
	ErrCorrupt          = errors.New("tga: corrupt run-length data")
)
