package main

import (
	"flag"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/toyrender/pkg/math3d"
	"github.com/taigrr/toyrender/pkg/pixmap"
	"github.com/taigrr/toyrender/pkg/scene"
	"github.com/taigrr/toyrender/pkg/tga"
)

// setFlags assigns command line flags for one test and restores the
// previous values afterwards.
func setFlags(t *testing.T, values map[string]string) {
	t.Helper()
	for name, value := range values {
		f := flag.Lookup(name)
		if f == nil {
			t.Fatalf("no flag %q", name)
		}
		old := f.Value.String()
		if err := flag.Set(name, value); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { flag.Set(name, old) })
	}
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		flags   map[string]string
		koch    bool
		wantErr string
	}{
		{name: "defaults"},
		{name: "zero fps", flags: map[string]string{"fps": "0"}, wantErr: "-fps"},
		{name: "negative fps", flags: map[string]string{"fps": "-5"}, wantErr: "-fps"},
		{name: "bad bg", flags: map[string]string{"bg": "red"}, wantErr: "-bg"},
		{name: "zero light", flags: map[string]string{"light": "0,0,0"}, wantErr: "zero vector"},
		{name: "bad size", flags: map[string]string{"size": "0x10"}, wantErr: "positive"},
		{name: "bad mode", flags: map[string]string{"mode": "phong"}, wantErr: "unknown render mode"},
		{name: "koch", flags: map[string]string{"mode": "koch"}, koch: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setFlags(t, tc.flags)
			cfg, err := parseConfig(tc.koch)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Errorf("parseConfig() = %v, want error containing %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if cfg.koch != tc.koch {
				t.Errorf("koch = %v, want %v", cfg.koch, tc.koch)
			}
		})
	}

	t.Run("values", func(t *testing.T) {
		setFlags(t, map[string]string{
			"bg":    "10,20,30",
			"light": "0,2,0",
			"size":  "64x48",
			"mode":  "lambert",
		})
		cfg, err := parseConfig(false)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.bg != pixmap.RGB(10, 20, 30) {
			t.Errorf("bg = %06x", cfg.bg)
		}
		if cfg.width != 64 || cfg.height != 48 {
			t.Errorf("size = %dx%d, want 64x48", cfg.width, cfg.height)
		}
		if cfg.opts.Mode != scene.ModeLambert || cfg.opts.Light != math3d.V3(0, 2, 0) {
			t.Errorf("opts = %+v", cfg.opts)
		}
	})
}

const triangleOBJ = `v -1 -1 0
v 1 -1 0
v 0 1 0
f 1 2 3
`

func TestExport(t *testing.T) {
	dir := t.TempDir()
	objPath := filepath.Join(dir, "tri.obj")
	if err := os.WriteFile(objPath, []byte(triangleOBJ), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := scene.Load(objPath, "", scene.Options{Mode: scene.ModeFlat})
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config{bg: pixmap.Blue, width: 40, height: 30}

	for _, name := range []string{"frame.png", "frame.bmp", "frame.tga"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := export(cfg, s, path, nil); err != nil {
				t.Fatal(err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if info.Size() == 0 {
				t.Error("empty output file")
			}
		})
	}

	got, err := tga.Load(filepath.Join(dir, "frame.tga"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 40 || got.Height != 30 {
		t.Fatalf("size = %dx%d, want 40x30", got.Width, got.Height)
	}
	if got.At(0, 0) != pixmap.Blue {
		t.Errorf("corner = %06x, want background", got.At(0, 0))
	}
	if got.At(20, 20) != pixmap.White {
		t.Errorf("center = %06x, want lit face", got.At(20, 20))
	}

	t.Run("koch", func(t *testing.T) {
		path := filepath.Join(dir, "koch.tga")
		if err := export(&config{width: 64, height: 64, koch: true}, nil, path, nil); err != nil {
			t.Fatal(err)
		}
		p, err := tga.Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if p.At(48, 32) != pixmap.White {
			t.Error("snowflake vertex not drawn")
		}
	})

	if err := export(cfg, s, filepath.Join(dir, "frame.gif"), nil); err == nil {
		t.Error("expected error for unsupported output format")
	}
}

func TestViewerResize(t *testing.T) {
	var resized [2]int
	v := &viewer{
		cfg:      &config{fps: 30},
		rotation: NewRotationState(30),
		zoom:     1,
		onResize: func(w, h int) { resized = [2]int{w, h} },
	}
	v.resize(8, 4)

	if quit := v.handle(uv.WindowSizeEvent{Width: 20, Height: 6}); quit {
		t.Fatal("resize asked to quit")
	}
	if resized != [2]int{20, 6} {
		t.Errorf("terminal resized to %v, want [20 6]", resized)
	}
	if v.canvas.Width() != 20 || v.canvas.Height() != 12 {
		t.Errorf("canvas = %dx%d, want 20x12", v.canvas.Width(), v.canvas.Height())
	}

	// a fixed render size keeps the canvas, only the terminal follows
	v.cfg.width, v.cfg.height = 64, 48
	v.handle(uv.WindowSizeEvent{Width: 30, Height: 10})
	if resized != [2]int{30, 10} || v.canvas.Width() != 64 || v.canvas.Height() != 48 {
		t.Errorf("terminal %v canvas %dx%d, want [30 10] and 64x48", resized, v.canvas.Width(), v.canvas.Height())
	}
}

func TestRotationAxisDecay(t *testing.T) {
	a := NewRotationAxis(60)
	a.Velocity = 1
	for range 300 {
		a.Update()
	}
	if math.Abs(a.Velocity) > 0.01 {
		t.Errorf("velocity = %v after 5s, want close to 0", a.Velocity)
	}
	if a.Position <= 1 {
		t.Errorf("position = %v, want the spin to have carried on", a.Position)
	}

	r := NewRotationState(60)
	r.ApplyImpulse(0.5, -0.5)
	r.Update()
	r.Reset()
	if r.Pitch.Velocity != 0 || r.Yaw.Position != 0 {
		t.Error("Reset kept rotation state")
	}
}
