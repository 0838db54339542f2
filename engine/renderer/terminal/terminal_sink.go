// Package terminal draws a scene onto a tcell screen. Stars are projected to
// character cells and mapped to glyphs by apparent size and brightness; spheres
// are filled as projected ellipses and glow halos as pulsing rings.
package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/game_object"
	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer"
	"github.com/Carmen-Shannon/oxy-starfield/engine/scene"
)

// CellAspect is the height of a terminal cell divided by its width.
const CellAspect = 2

// glyphRamp orders glyphs from faintest to brightest.
var glyphRamp = []rune(".,:-=+*#%@")

// cell is one character of the frame being composed.
type cell struct {
	glyph rune
	fg    common.Color
	level float32
	bg    common.Color
	depth float32
}

type terminalSink struct {
	mu *sync.Mutex

	screen    tcell.Screen
	logger    *zap.Logger
	starScale float32

	width, height int
	cells         []cell
}

var _ renderer.Sink = &terminalSink{}

// TerminalSinkBuilderOption configures the terminal sink.
type TerminalSinkBuilderOption func(*terminalSink)

// WithStarScale sets how many glyph levels a unit-size star spans at unit depth.
//
// Parameters:
//   - scale: the apparent size factor
//
// Returns:
//   - TerminalSinkBuilderOption: option function to apply
func WithStarScale(scale float32) TerminalSinkBuilderOption {
	return func(s *terminalSink) {
		s.starScale = scale
	}
}

// WithLogger sets the logger for the sink.
//
// Parameters:
//   - logger: the parent logger
//
// Returns:
//   - TerminalSinkBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) TerminalSinkBuilderOption {
	return func(s *terminalSink) {
		s.logger = logger.Named("terminal-sink")
	}
}

// NewTerminalSink creates a sink drawing to an initialized tcell screen.
// The sink does not own the screen; Release leaves it to the host.
//
// Parameters:
//   - screen: the initialized screen
//   - options: functional options
//
// Returns:
//   - renderer.Sink: the terminal sink
func NewTerminalSink(screen tcell.Screen, options ...TerminalSinkBuilderOption) renderer.Sink {
	s := &terminalSink{
		mu:        &sync.Mutex{},
		screen:    screen,
		logger:    zap.NewNop(),
		starScale: 8,
	}
	for _, opt := range options {
		opt(s)
	}
	w, h := screen.Size()
	s.resizeLocked(w, h)
	return s
}

func (s *terminalSink) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resizeLocked(width, height)
	s.logger.Debug("resized", zap.Int("cols", s.width), zap.Int("rows", s.height))
}

func (s *terminalSink) resizeLocked(width, height int) {
	s.width, s.height = max(width, 0), max(height, 0)
	n := s.width * s.height
	if cap(s.cells) < n {
		s.cells = make([]cell, n)
	}
	s.cells = s.cells[:n]
}

func (s *terminalSink) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cells = nil
	s.width, s.height = 0, 0
}

func (s *terminalSink) Render(sc scene.Scene) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.width == 0 || s.height == 0 {
		return nil
	}

	clearColor := sc.ClearColor()
	for i := range s.cells {
		s.cells[i] = cell{glyph: ' ', bg: clearColor, depth: float32(1e30)}
	}

	frustum := sc.Frustum()
	pulse := sc.Pulse()
	for _, obj := range sc.Objects() {
		mdl := obj.Model()
		if mdl == nil {
			continue
		}
		objPulse := float32(0)
		if obj.PulseOpacity() {
			objPulse = pulse
		}
		if mdl.Kind() == model.KindPoints {
			s.drawPoints(sc, &frustum, obj, mdl.Points(), objPulse)
			continue
		}
		s.drawSphere(sc, &frustum, obj, objPulse)
	}

	s.flush()
	return nil
}

// drawPoints projects each visible star into its cell, keeping the brightest star per cell.
func (s *terminalSink) drawPoints(sc scene.Scene, frustum *common.Frustum, obj game_object.GameObject, points model.PointSource, pulse float32) {
	if points == nil {
		return
	}
	cam := sc.Camera()
	m := obj.ModelMatrix()
	vp := cam.ViewProjectionMatrix()
	view := cam.ViewMatrix()
	tint := obj.Tint()
	alpha := obj.Opacity()

	positions := points.Positions()
	sizes := points.Sizes()
	opacities := points.Opacities()
	colors := points.Colors()
	glow := points.Glow()

	for i, p := range positions {
		world := m.Mul4x1(p.Vec4(1)).Vec3()
		if !frustum.ContainsPoint(world) {
			continue
		}
		x, y, ok := s.project(vp, world)
		if !ok {
			continue
		}
		depth := -view.Mul4x1(world.Vec4(1)).Z()
		if depth <= 0 {
			continue
		}

		apparent := sizes[i] * (1 + glow[i]*pulse) * s.starScale / depth
		intensity := opacities[i] * alpha * mix(1, 0.5+0.5*pulse, glow[i])
		level := common.Clamp(apparent*intensity, 0, 1)

		c := &s.cells[y*s.width+x]
		if level <= c.level {
			continue
		}
		c.level = level
		c.depth = depth
		c.glyph = glyphFor(level)
		c.fg = common.Color{
			R: colors[i].R * tint.R,
			G: colors[i].G * tint.G,
			B: colors[i].B * tint.B,
		}.Scale(0.35 + 0.65*intensity)
	}
}

// drawSphere fills the projected ellipse of a mesh object. Alpha objects cover
// the stars behind them; additive objects with a rim draw a pulsing ring.
func (s *terminalSink) drawSphere(sc scene.Scene, frustum *common.Frustum, obj game_object.GameObject, pulse float32) {
	cam := sc.Camera()
	scale := obj.Scale()
	radius := obj.Model().BoundingRadius() * max(scale.X(), scale.Y(), scale.Z())
	center := obj.Position()
	if !frustum.ContainsSphere(center, radius) {
		return
	}

	depth := -cam.ViewMatrix().Mul4x1(center.Vec4(1)).Z()
	if depth <= cam.Near() {
		return
	}
	cx, cy, ok := s.projectF(cam.ViewProjectionMatrix(), center)
	if !ok {
		return
	}
	proj := cam.ProjectionMatrix()
	rx := radius * proj.At(0, 0) / depth * 0.5 * float32(s.width)
	ry := radius * proj.At(1, 1) / depth * 0.5 * float32(s.height)
	if rx <= 0 || ry <= 0 {
		return
	}

	tint := obj.Tint().Colorful()
	opacity := obj.Opacity()
	rim := obj.RimStrength()
	additive := obj.Blend() == game_object.BlendAdditive
	front := depth - radius

	x0, x1 := clampInt(int(cx-rx), 0, s.width-1), clampInt(int(cx+rx)+1, 0, s.width-1)
	y0, y1 := clampInt(int(cy-ry), 0, s.height-1), clampInt(int(cy+ry)+1, 0, s.height-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := (float32(x) + 0.5 - cx) / rx
			dy := (float32(y) + 0.5 - cy) / ry
			d := mgl32.Vec2{dx, dy}.Len()
			if d > 1 {
				continue
			}

			// flat fill blended toward a rim-weighted halo
			edge := d * d
			halo := edge * (0.6 + 0.4*pulse)
			a := opacity * mix(1, halo, rim)
			if a <= 0 {
				continue
			}

			c := &s.cells[y*s.width+x]
			c.bg = common.FromColorful(c.bg.Colorful().BlendRgb(tint, float64(common.Clamp(a, 0, 1))))
			if additive {
				continue
			}
			if c.depth > front {
				c.level *= 1 - opacity
				c.depth = front
				if c.level <= 0 {
					c.glyph = ' '
				} else {
					c.glyph = glyphFor(c.level)
				}
			}
		}
	}
}

// project maps a world point to a cell.
func (s *terminalSink) project(vp mgl32.Mat4, p mgl32.Vec3) (int, int, bool) {
	fx, fy, ok := s.projectF(vp, p)
	if !ok {
		return 0, 0, false
	}
	x, y := int(fx), int(fy)
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return 0, 0, false
	}
	return x, y, true
}

// projectF maps a world point to fractional cell coordinates.
func (s *terminalSink) projectF(vp mgl32.Mat4, p mgl32.Vec3) (float32, float32, bool) {
	clip := vp.Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, false
	}
	nx, ny := clip.X()/clip.W(), clip.Y()/clip.W()
	return (nx + 1) * 0.5 * float32(s.width), (1 - ny) * 0.5 * float32(s.height), true
}

func (s *terminalSink) flush() {
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			c := s.cells[y*s.width+x]
			br, bg, bb := c.bg.RGB8()
			style := tcell.StyleDefault.Background(tcell.NewRGBColor(br, bg, bb))
			if c.glyph != ' ' {
				fr, fg, fb := c.fg.RGB8()
				style = style.Foreground(tcell.NewRGBColor(fr, fg, fb))
			}
			s.screen.SetContent(x, y, c.glyph, nil, style)
		}
	}
	s.screen.Show()
}

// glyphFor maps a brightness level in (0, 1] to a glyph.
func glyphFor(level float32) rune {
	i := int(level * float32(len(glyphRamp)))
	return glyphRamp[clampInt(i, 0, len(glyphRamp)-1)]
}

func mix(a, b, t float32) float32 {
	return a + (b-a)*t
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
