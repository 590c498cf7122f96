package pixmap

import (
	"image/color"

	"github.com/taigrr/toyrender/pkg/math3d"
)

// Colors are packed as 0x00RRGGBB.
const (
	Black int32 = 0x000000
	White int32 = 0xFFFFFF
	Red   int32 = 0xFF0000
	Green int32 = 0x00FF00
	Blue  int32 = 0x0000FF
)

// RGB packs three 8-bit channels into a cell value.
func RGB(r, g, b uint8) int32 {
	return int32(r)<<16 | int32(g)<<8 | int32(b)
}

// Channels unpacks a cell value into its 8-bit channels.
func Channels(c int32) (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// ToRGBA converts a packed cell to an opaque color.RGBA.
func ToRGBA(c int32) color.RGBA {
	r, g, b := Channels(c)
	return color.RGBA{r, g, b, 255}
}

// FromColor packs any color.Color, discarding alpha.
func FromColor(c color.Color) int32 {
	r, g, b, _ := c.RGBA()
	// RGBA returns 16-bit values, scale to 8-bit
	return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Shade scales every channel of c by intensity, clamped to [0, 1].
func Shade(c int32, intensity float64) int32 {
	intensity = math3d.Clamp(intensity, 0, 1)
	r, g, b := Channels(c)
	return RGB(
		uint8(float64(r)*intensity),
		uint8(float64(g)*intensity),
		uint8(float64(b)*intensity),
	)
}
