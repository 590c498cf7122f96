// toyrender - software rasterizer for OBJ and GLB models
// Renders a model into the terminal with half-block pixels, or a single
// frame into an image file.
//
// Controls:
//
//	Mouse drag  - Rotate model (yaw/pitch)
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Space       - Apply random impulse
//	R           - Reset rotation
//	M           - Cycle render mode
//	+/-         - Zoom, or Koch depth in koch mode
//	Esc         - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/toyrender/pkg/asset"
	"github.com/taigrr/toyrender/pkg/log"
	"github.com/taigrr/toyrender/pkg/math3d"
	"github.com/taigrr/toyrender/pkg/pixmap"
	"github.com/taigrr/toyrender/pkg/render"
	"github.com/taigrr/toyrender/pkg/scene"
	"github.com/taigrr/toyrender/pkg/tga"
)

var (
	texturePath = flag.String("texture", "", "Path to texture image (TGA/PNG/JPG, optionally .zst)")
	targetFPS   = flag.Int("fps", 30, "Target FPS")
	bgColor     = flag.String("bg", "0,0,0", "Background color (R,G,B)")
	modeName    = flag.String("mode", "textured", "Render mode: textured, flat, lambert, wireframe or koch")
	lightDir    = flag.String("light", "0,0,1", "Direction toward the light (X,Y,Z)")
	depth       = flag.Float64("depth", render.DefaultDepth, "Depth range of the Z buffer")
	size        = flag.String("size", "", "Render size WxH (default: terminal size, or 800x800 with -out)")
	outPath     = flag.String("out", "", "Render one frame to a .png, .bmp or .tga file and exit")
	kochDepth   = flag.Int("koch", 4, "Recursion depth in koch mode")
	spin        = flag.Float64("spin", 0, "Constant yaw speed in radians per second")
	logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn or error")
	logDir      = flag.String("log-dir", "", "Log directory (default: user config dir)")
)

const modeKoch = "koch"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "toyrender - software rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: toyrender [options] <model.obj|model.glb>\n")
		fmt.Fprintf(os.Stderr, "       toyrender -mode koch [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Rotate model\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  M           - Cycle render mode\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Zoom (Koch depth in koch mode)\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	koch := strings.EqualFold(*modeName, modeKoch)
	if flag.NArg() < 1 && !koch {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), koch); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// config is the parsed form of the command line.
type config struct {
	bg            int32
	fps           int
	width, height int
	koch          bool
	opts          scene.Options
}

func parseConfig(koch bool) (*config, error) {
	cfg := &config{koch: koch, fps: *targetFPS}
	if cfg.fps <= 0 {
		return nil, fmt.Errorf("bad -fps %d: must be positive", cfg.fps)
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(*bgColor, "%d,%d,%d", &r, &g, &b); err != nil {
		return nil, fmt.Errorf("bad -bg %q: %w", *bgColor, err)
	}
	cfg.bg = pixmap.RGB(r, g, b)

	var light math3d.Vec3
	if _, err := fmt.Sscanf(*lightDir, "%g,%g,%g", &light.X, &light.Y, &light.Z); err != nil {
		return nil, fmt.Errorf("bad -light %q: %w", *lightDir, err)
	}
	if light.Len() == 0 {
		return nil, errors.New("-light must not be the zero vector")
	}

	if *size != "" {
		if _, err := fmt.Sscanf(*size, "%dx%d", &cfg.width, &cfg.height); err != nil {
			return nil, fmt.Errorf("bad -size %q: %w", *size, err)
		}
		if cfg.width <= 0 || cfg.height <= 0 {
			return nil, fmt.Errorf("bad -size %q: dimensions must be positive", *size)
		}
	}

	cfg.opts = scene.Options{
		Light:      light,
		Depth:      *depth,
		KeepAspect: true,
	}
	if !koch {
		mode, err := scene.ParseMode(*modeName)
		if err != nil {
			return nil, err
		}
		cfg.opts.Mode = mode
	}
	return cfg, nil
}

func run(modelPath string, koch bool) error {
	cfg, err := parseConfig(koch)
	if err != nil {
		return err
	}

	lg, err := log.New(*logLevel, *logDir)
	if err != nil {
		return err
	}
	cfg.opts.Logger = lg
	lg.Info("Starting",
		slog.String("model", modelPath),
		slog.String("mode", *modeName),
		slog.String("out", *outPath))

	var s *scene.Scene
	if !koch {
		s, err = scene.Load(modelPath, *texturePath, cfg.opts)
		if err != nil {
			lg.Error("Scene load failed", slog.Any("error", err))
			return err
		}
	}

	if *outPath != "" {
		return export(cfg, s, *outPath, lg)
	}
	return view(cfg, s, modelPath, lg)
}

// export renders a single frame and writes it to path, choosing the
// encoder by extension.
func export(cfg *config, s *scene.Scene, path string, lg *log.Logger) error {
	w, h := cfg.width, cfg.height
	if w == 0 {
		w, h = 800, 800
	}
	c := render.NewCanvas(w, h)
	c.Clear(cfg.bg)
	if s != nil {
		stats := s.Render(c)
		lg.Info("Rendered", slog.Any("stats", stats))
	} else {
		scene.DrawSnowflake(c, *kochDepth, 3, pixmap.White)
	}

	var err error
	switch ext := asset.Ext(path); ext {
	case ".png":
		err = c.Color.SavePNG(path)
	case ".bmp":
		err = c.Color.SaveBMP(path)
	case ".tga":
		err = tga.Save(path, c.Color, tga.EncodeOptions{RLE: true})
	default:
		return fmt.Errorf("unsupported output format %q (use .png, .bmp or .tga)", ext)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	lg.Info("Wrote frame", slog.String("path", path), slog.Int("width", w), slog.Int("height", h))
	return nil
}
