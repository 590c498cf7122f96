package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/toyrender/pkg/log"
	"github.com/taigrr/toyrender/pkg/math3d"
	"github.com/taigrr/toyrender/pkg/pixmap"
	"github.com/taigrr/toyrender/pkg/render"
	"github.com/taigrr/toyrender/pkg/scene"
)

// RotationAxis tracks position and velocity for one rotation axis with spring decay
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // spring velocity of Velocity itself
}

// NewRotationAxis creates an axis whose velocity decays through a critically
// damped spring.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and pulls velocity toward 0.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

type RotationState struct {
	Pitch, Yaw RotationAxis
	fps        int
}

func NewRotationState(fps int) *RotationState {
	return &RotationState{
		Pitch: NewRotationAxis(fps),
		Yaw:   NewRotationAxis(fps),
		fps:   fps,
	}
}

func (r *RotationState) Update() {
	r.Pitch.Update()
	r.Yaw.Update()
}

func (r *RotationState) ApplyImpulse(pitch, yaw float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
}

func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
}

// Transform rotates about X by the pitch, then about Y by the yaw, and
// scales by zoom.
func (r *RotationState) Transform(zoom float64) math3d.Mat4 {
	return math3d.ScaleUniform(zoom).
		Mul(math3d.RotateX(r.Pitch.Position)).
		Mul(math3d.RotateY(r.Yaw.Position))
}

// viewer is the state of the interactive loop. It is owned by the loop
// goroutine; terminal events are drained there too.
type viewer struct {
	cfg      *config
	scene    *scene.Scene
	rotation *RotationState
	canvas   *render.Canvas
	log      *log.Logger
	// onResize resizes the terminal's own screen buffer.
	onResize func(w, h int)

	width, height int // terminal cells
	zoom          float64
	koch          int
	torque        struct{ pitch, yaw float64 }
	mouseDown     bool
	lastX, lastY  int
}

const torqueStrength = 3.0

// resize matches the canvas to a terminal of w×h cells, two pixel rows per
// cell, unless a fixed render size was requested.
func (v *viewer) resize(w, h int) {
	v.width, v.height = w, h
	cw, ch := w, h*2
	if v.cfg.width > 0 {
		cw, ch = v.cfg.width, v.cfg.height
	}
	if v.canvas == nil {
		v.canvas = render.NewCanvas(cw, ch)
		return
	}
	v.canvas.Resize(cw, ch, v.cfg.bg)
}

// handle applies one terminal event and reports whether the viewer should
// quit.
func (v *viewer) handle(ev uv.Event) bool {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		if v.onResize != nil {
			v.onResize(ev.Width, ev.Height)
		}
		v.resize(ev.Width, ev.Height)
		v.log.Debug("Resized", slog.Int("width", ev.Width), slog.Int("height", ev.Height))

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c", "q"):
			return true
		case ev.MatchString("r"):
			v.rotation.Reset()
			v.zoom = 1
		case ev.MatchString("w", "up"):
			v.torque.pitch = -torqueStrength
		case ev.MatchString("s", "down"):
			v.torque.pitch = torqueStrength
		case ev.MatchString("a", "left"):
			v.torque.yaw = -torqueStrength
		case ev.MatchString("d", "right"):
			v.torque.yaw = torqueStrength
		case ev.MatchString("space"):
			v.rotation.ApplyImpulse((rand.Float64()-0.5)*1.5, (rand.Float64()-0.5)*1.5)
		case ev.MatchString("m"):
			if v.scene != nil {
				mode := (v.scene.Options.Mode + 1) % (scene.ModeWireframe + 1)
				v.scene.Options.Mode = mode
				v.log.Info("Mode changed", slog.String("mode", mode.String()))
			}
		case ev.MatchString("+", "="):
			v.zoom = math.Min(4, v.zoom+0.1)
			v.koch = min(7, v.koch+1)
		case ev.MatchString("-", "_"):
			v.zoom = math.Max(0.2, v.zoom-0.1)
			v.koch = max(0, v.koch-1)
		}

	case uv.KeyReleaseEvent:
		switch {
		case ev.MatchString("w", "up", "s", "down"):
			v.torque.pitch = 0
		case ev.MatchString("a", "left", "d", "right"):
			v.torque.yaw = 0
		}

	case uv.MouseClickEvent:
		v.mouseDown = true
		v.lastX, v.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		v.mouseDown = false

	case uv.MouseMotionEvent:
		if v.mouseDown {
			dx, dy := ev.X-v.lastX, ev.Y-v.lastY
			v.rotation.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03)
			v.lastX, v.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.zoom = math.Min(4, v.zoom+0.1)
		case uv.MouseWheelDown:
			v.zoom = math.Max(0.2, v.zoom-0.1)
		}
	}
	return false
}

// step advances the rotation by dt seconds and redraws the canvas.
func (v *viewer) step(dt float64) {
	v.rotation.ApplyImpulse(v.torque.pitch*dt, v.torque.yaw*dt)
	v.rotation.Yaw.Position += *spin * dt
	// key release events are not reported by every terminal
	v.torque.pitch *= 0.9
	v.torque.yaw *= 0.9
	v.rotation.Update()

	v.canvas.Clear(v.cfg.bg)
	if v.scene == nil {
		scene.DrawSnowflake(v.canvas, v.koch, 3, pixmap.White)
		return
	}
	v.scene.Transform = v.rotation.Transform(v.zoom)
	v.scene.Render(v.canvas)
}

// draw puts the canvas on the terminal, resampling it when a fixed render
// size differs from the terminal.
func (v *viewer) draw(scr uv.Screen) {
	area := uv.Rect(0, 0, v.width, v.height)
	if v.canvas.Width() == v.width && v.canvas.Height() == v.height*2 {
		v.canvas.Draw(scr, area)
		return
	}
	render.DrawPixmap(scr, area, v.canvas.Color.Scale(v.width, v.height*2))
}

func view(cfg *config, s *scene.Scene, modelPath string, lg *log.Logger) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1002h") // button-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1002l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	v := &viewer{
		cfg:      cfg,
		scene:    s,
		rotation: NewRotationState(cfg.fps),
		log:      lg,
		zoom:     1,
		koch:     *kochDepth,
		onResize: func(w, h int) {
			term.Erase()
			term.Resize(w, h)
		},
	}
	v.resize(width, height)
	if s != nil {
		lg.Info("Viewing", slog.String("model", filepath.Base(modelPath)), slog.Int("faces", s.Model.TriangleCount()))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	events := term.Events()
	targetDuration := time.Second / time.Duration(cfg.fps)
	lastFrame := time.Now()

	for {
	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok || v.handle(ev) {
					return nil
				}
			default:
				break drain
			}
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		v.step(dt)
		term.Erase()
		v.draw(term)
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
