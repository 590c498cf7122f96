package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/toyrender/pkg/pixmap"
)

// Draw blits the color buffer onto a terminal screen. See DrawPixmap.
func (c *Canvas) Draw(scr uv.Screen, area uv.Rectangle) {
	DrawPixmap(scr, area, c.Color)
}

// DrawPixmap converts a color pixmap to terminal cells. Each terminal row
// covers two pixmap rows: the cell is an upper half block (▀) with the top
// pixel as foreground and the bottom pixel as background, so the pixmap
// should be twice as tall as the area.
func DrawPixmap(scr uv.Screen, area uv.Rectangle, p *pixmap.Pixmap) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		if topY >= p.Height {
			break
		}
		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= p.Width {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(p.At(x, topY)),
					Bg: cellColor(p.At(x, topY+1)),
				},
			})
		}
	}
}

func cellColor(c int32) color.Color {
	return pixmap.ToRGBA(c)
}
