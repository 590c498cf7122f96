// Package scene drives the renderer: it loads a model and its texture,
// projects every face through a viewport and issues fills or outlines to a
// canvas.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taigrr/toyrender/pkg/asset"
	"github.com/taigrr/toyrender/pkg/log"
	"github.com/taigrr/toyrender/pkg/math3d"
	"github.com/taigrr/toyrender/pkg/models"
	"github.com/taigrr/toyrender/pkg/pixmap"
	"github.com/taigrr/toyrender/pkg/render"
)

// ErrUnsupportedFormat is returned for mesh files that are neither OBJ nor
// GLB.
var ErrUnsupportedFormat = errors.New("scene: unsupported mesh format")

// Mode selects how faces are drawn.
type Mode int

const (
	ModeTextured  Mode = iota // texture scaled by the flat face intensity
	ModeFlat                  // white scaled by the flat face intensity
	ModeLambert               // texture with per-pixel Lambert shading
	ModeWireframe             // face outlines, no depth test
)

var modeNames = []string{"textured", "flat", "lambert", "wireframe"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode parses a mode name as printed by Mode.String.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown render mode %q (want one of %s)", s, strings.Join(modeNames, ", "))
}

// DefaultLight points from the model toward the viewer.
var DefaultLight = math3d.V3(0, 0, 1)

// Options configures a scene. The zero value renders textured faces lit
// from the viewer.
type Options struct {
	Mode Mode
	// Light is the direction toward the light. Zero selects DefaultLight.
	Light math3d.Vec3
	// Depth is the screen depth range. Zero selects render.DefaultDepth.
	Depth float64
	// KeepAspect keeps the model square on non-square canvases.
	KeepAspect bool
	// WireColor is the outline color in wireframe mode. Zero selects
	// white.
	WireColor int32
	Logger    *log.Logger
}

// Stats counts what happened to the faces of one render pass.
type Stats struct {
	Faces      int
	Drawn      int
	Culled     int
	Degenerate int
}

func (s *Stats) add(r render.Result) {
	switch r {
	case render.Drawn:
		s.Drawn++
	case render.Culled:
		s.Culled++
	case render.Degenerate:
		s.Degenerate++
	}
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("faces", s.Faces),
		slog.Int("drawn", s.Drawn),
		slog.Int("culled", s.Culled),
		slog.Int("degenerate", s.Degenerate),
	)
}

// Scene is a normalized model with its texture, ready to render. The model
// is shared read-only between passes; only Transform changes per frame.
type Scene struct {
	Model   *models.Model
	Texture *pixmap.Pixmap
	Options Options

	// Transform is applied to the normalized model before projection.
	Transform math3d.Mat4
}

// LoadModel reads a mesh, choosing the loader by extension (".obj" or
// ".glb", optionally followed by ".zst"), and validates its indices.
func LoadModel(path string) (*models.Model, error) {
	var (
		m   *models.Model
		err error
	)
	switch ext := asset.Ext(path); ext {
	case ".obj":
		m, err = models.LoadOBJ(path)
	case ".glb":
		m, err = models.LoadGLB(path)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Load builds a scene from files. An empty texturePath uses the model's
// embedded texture, or a checkerboard when it has none. Any load failure
// aborts the scene.
func Load(meshPath, texturePath string, opts Options) (*Scene, error) {
	m, err := LoadModel(meshPath)
	if err != nil {
		return nil, err
	}

	tex := m.Diffuse
	if texturePath != "" {
		if tex, err = models.LoadTexture(texturePath); err != nil {
			return nil, fmt.Errorf("load texture: %w", err)
		}
	}
	if tex == nil {
		opts.Logger.Info("No texture, using checkerboard", slog.String("model", m.Name))
		tex = models.CheckerTexture()
	}

	s, err := New(m, tex, opts)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("Loaded scene",
		slog.String("model", m.Name),
		slog.Int("positions", len(m.Positions)),
		slog.Int("faces", m.TriangleCount()),
		slog.Int("textureWidth", tex.Width),
		slog.Int("textureHeight", tex.Height))
	return s, nil
}

// New builds a scene around an in-memory model. The model is copied,
// missing normals are calculated and the copy is normalized into the
// [-1, 1] cube.
func New(m *models.Model, tex *pixmap.Pixmap, opts Options) (*Scene, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m = m.Clone()
	if !m.HasNormals() {
		m.CalculateSmoothNormals()
	}
	m.Normalize()

	return &Scene{
		Model:     m,
		Texture:   tex,
		Options:   opts,
		Transform: math3d.Identity(),
	}, nil
}

func (s *Scene) light() math3d.Vec3 {
	if s.Options.Light == (math3d.Vec3{}) {
		return DefaultLight
	}
	return s.Options.Light.Normalize()
}

func (s *Scene) viewport(c *render.Canvas) *render.Viewport {
	vp := render.NewViewport(c.Width(), c.Height())
	if s.Options.Depth > 0 {
		vp.Depth = s.Options.Depth
	}
	vp.KeepAspect = s.Options.KeepAspect
	return vp
}

// Frame clears the canvas to bg and renders one pass.
func (s *Scene) Frame(c *render.Canvas, bg int32) Stats {
	c.Clear(bg)
	return s.Render(c)
}

// Render draws every face into c without clearing it first.
func (s *Scene) Render(c *render.Canvas) Stats {
	vp := s.viewport(c)
	light := s.light()
	wire := s.Options.WireColor
	if wire == 0 {
		wire = pixmap.White
	}

	m := s.Model
	stats := Stats{Faces: len(m.Faces)}
	for _, f := range m.Faces {
		var world [3]math3d.Vec3
		var tri render.Triangle
		for i, corner := range f {
			world[i] = s.Transform.MulVec3(m.Position(corner))
			n := s.Transform.MulVec3Dir(m.Normal(corner))
			tri[i] = vp.ProjectVertex(world[i], m.UV(corner), n)
		}

		switch s.Options.Mode {
		case ModeWireframe:
			c.TriangleOutline(tri, wire)
			stats.add(render.Drawn)
		case ModeLambert:
			stats.add(c.TriangleLit(tri, s.Texture, light))
		case ModeFlat:
			stats.add(c.Triangle(tri, nil, faceIntensity(world, light)))
		default:
			stats.add(c.Triangle(tri, s.Texture, faceIntensity(world, light)))
		}
	}

	s.Options.Logger.Debug("Rendered frame", slog.Any("stats", stats))
	return stats
}

// faceIntensity is the cosine between the face normal (w1-w0)×(w2-w0) and
// the light. Zero-area faces have no normal and get zero intensity.
func faceIntensity(w [3]math3d.Vec3, light math3d.Vec3) float64 {
	n := w[1].Sub(w[0]).Cross(w[2].Sub(w[0])).Normalize()
	return n.Dot(light)
}
