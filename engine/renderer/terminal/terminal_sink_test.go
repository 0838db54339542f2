package terminal

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/camera"
	"github.com/Carmen-Shannon/oxy-starfield/engine/game_object"
	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
	"github.com/Carmen-Shannon/oxy-starfield/engine/scene"
)

type points struct {
	positions []mgl32.Vec3
}

func (p *points) Len() int                { return len(p.positions) }
func (p *points) Positions() []mgl32.Vec3 { return p.positions }
func (p *points) Sizes() []float32        { return fill(len(p.positions), 2) }
func (p *points) Opacities() []float32    { return fill(len(p.positions), 1) }
func (p *points) Glow() []float32         { return fill(len(p.positions), 0) }
func (p *points) Revision() uint64        { return 1 }
func (p *points) Colors() []common.Color {
	out := make([]common.Color, len(p.positions))
	for i := range out {
		out[i] = common.Color{R: 1, G: 1, B: 1}
	}
	return out
}

func fill(n int, v float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func starObject(positions ...mgl32.Vec3) game_object.GameObject {
	return game_object.NewGameObject(
		game_object.WithName("field"),
		game_object.WithModel(model.NewModel(model.WithPoints(&points{positions: positions}))),
		game_object.WithTint(common.Color{R: 1, G: 1, B: 1}),
		game_object.WithOpacity(1),
	)
}

func TestTerminalSink_DrawsStarAtCenter(t *testing.T) {
	screen := newScreen(t, 40, 20)
	sink := NewTerminalSink(screen)

	sc := scene.NewScene("test", camera.NewCamera(), scene.WithObjects(starObject(mgl32.Vec3{})))
	require.NoError(t, sink.Render(sc))

	r, _, _, _ := screen.GetContent(20, 10)
	assert.NotEqual(t, ' ', r)

	r, _, _, _ = screen.GetContent(0, 0)
	assert.Equal(t, ' ', r)
}

func TestTerminalSink_StarScaleSetsGlyph(t *testing.T) {
	for scale, want := range map[float32]rune{0.01: '.', 10000: '@'} {
		screen := newScreen(t, 40, 20)
		sink := NewTerminalSink(screen, WithStarScale(scale))

		sc := scene.NewScene("test", camera.NewCamera(), scene.WithObjects(starObject(mgl32.Vec3{})))
		require.NoError(t, sink.Render(sc))

		r, _, _, _ := screen.GetContent(20, 10)
		assert.Equal(t, want, r, "scale %v", scale)
	}
}

func TestTerminalSink_SkipsStarsBehindCamera(t *testing.T) {
	screen := newScreen(t, 40, 20)
	sink := NewTerminalSink(screen)

	sc := scene.NewScene("test", camera.NewCamera(), scene.WithObjects(starObject(mgl32.Vec3{0, 0, 60})))
	require.NoError(t, sink.Render(sc))

	for y := range 20 {
		for x := range 40 {
			r, _, _, _ := screen.GetContent(x, y)
			require.Equal(t, ' ', r, "cell %d,%d", x, y)
		}
	}
}

func TestTerminalSink_OpaqueSphereHidesStarsBehind(t *testing.T) {
	screen := newScreen(t, 40, 20)
	sink := NewTerminalSink(screen)

	sphere := game_object.NewGameObject(
		game_object.WithName("sphere"),
		game_object.WithModel(model.NewSphereModel("sphere", 5, 8)),
		game_object.WithTint(common.Color{R: 1}),
		game_object.WithOpacity(1),
	)
	sc := scene.NewScene("test", camera.NewCamera(), scene.WithObjects(starObject(mgl32.Vec3{}), sphere))
	require.NoError(t, sink.Render(sc))

	r, _, style, _ := screen.GetContent(20, 10)
	assert.Equal(t, ' ', r)
	_, bg, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), bg)
}

func TestTerminalSink_ZeroSizeIsNoop(t *testing.T) {
	screen := newScreen(t, 40, 20)
	sink := NewTerminalSink(screen)
	sink.Resize(0, 0)

	sc := scene.NewScene("test", camera.NewCamera(), scene.WithObjects(starObject(mgl32.Vec3{})))
	assert.NoError(t, sink.Render(sc))
	sink.Release()
}

func TestGlyphFor(t *testing.T) {
	assert.Equal(t, '.', glyphFor(0.01))
	assert.Equal(t, '@', glyphFor(1))
	assert.Equal(t, '@', glyphFor(5))
}
