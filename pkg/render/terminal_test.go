package render

import (
	"image/color"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/toyrender/pkg/pixmap"
)

// recordingScreen records SetCell calls. Other Screen methods are not used
// by the blit.
type recordingScreen struct {
	uv.Screen
	cells map[[2]int]*uv.Cell
}

func (s *recordingScreen) SetCell(x, y int, c *uv.Cell) {
	s.cells[[2]int{x, y}] = c
}

func TestDrawPixmapHalfBlocks(t *testing.T) {
	c := NewCanvas(3, 4)
	c.Set(0, 0, pixmap.Red)
	c.Set(0, 1, pixmap.Blue)
	c.Set(2, 3, pixmap.Green)

	scr := &recordingScreen{cells: map[[2]int]*uv.Cell{}}
	c.Draw(scr, uv.Rect(10, 5, 3, 2))

	if len(scr.cells) != 6 {
		t.Fatalf("set %d cells, want 6", len(scr.cells))
	}
	first := scr.cells[[2]int{10, 5}]
	if first == nil || first.Content != "▀" {
		t.Fatalf("cell (10, 5) = %+v, want a half block", first)
	}
	if first.Style.Fg != (color.RGBA{255, 0, 0, 255}) || first.Style.Bg != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("cell (10, 5) colors = %v / %v, want red over blue", first.Style.Fg, first.Style.Bg)
	}
	last := scr.cells[[2]int{12, 6}]
	if last == nil || last.Style.Bg != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("cell (12, 6) = %+v, want green background", last)
	}
}

func TestDrawPixmapClipsToPixmap(t *testing.T) {
	scr := &recordingScreen{cells: map[[2]int]*uv.Cell{}}
	DrawPixmap(scr, uv.Rect(0, 0, 80, 24), pixmap.New(4, 2))
	if len(scr.cells) != 4 {
		t.Errorf("set %d cells, want 4", len(scr.cells))
	}
}
