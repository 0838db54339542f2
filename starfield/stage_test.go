package starfield

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/config"
	"github.com/Carmen-Shannon/oxy-starfield/engine/game_object"
)

func TestNewStage_Layout(t *testing.T) {
	st := newTestStage(t)

	objs := st.Scene.Objects()
	require.Len(t, objs, 3)
	assert.Equal(t, ObjectField, objs[0].Name())
	assert.Equal(t, ObjectSphere, objs[1].Name())
	assert.Equal(t, ObjectGlow, objs[2].Name())
	assert.Len(t, st.Scene.Rotatables(), 3)

	assert.Equal(t, game_object.BlendAdditive, objs[0].Blend())
	assert.True(t, objs[0].PulseOpacity())
	assert.NotEqual(t, game_object.BlendAdditive, st.Sphere.Blend())
	assert.Equal(t, float32(1), st.Glow.RimStrength())
	assert.Equal(t, float32(30), st.Scene.Camera().Position()[2])
	assert.Equal(t, mgl32.Vec3{}, st.Scene.Camera().Target())
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, st.Scene.Camera().Up())
}

func TestNewStage_BadColor(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Spheres.GlowColor = "#zz"

	_, err := NewStage(cfg, Generate(testRNG(), 1, testFieldConfig(t)))
	assert.ErrorContains(t, err, "glow color")
}

func TestStage_Resize(t *testing.T) {
	st := newTestStage(t)

	st.Resize(800, 400, 1)
	assert.InDelta(t, 2.0, st.Scene.Camera().Aspect(), 1e-6)

	st.Resize(80, 40, 2)
	assert.InDelta(t, 1.0, st.Scene.Camera().Aspect(), 1e-6)

	st.Resize(0, 40, 2)
	assert.InDelta(t, 1.0, st.Scene.Camera().Aspect(), 1e-6)
}

func newTestController(t *testing.T, opts ...ControllerBuilderOption) (*Controller, *Stage, *Tracker, *Theme) {
	t.Helper()
	st := newTestStage(t)
	tr := NewTracker()
	th := NewTheme(testPalette(t), testRNG())
	return NewController(st, tr, th, opts...), st, tr, th
}

func TestController_ToggleInputs(t *testing.T) {
	c, st, _, th := newTestController(t)
	cfg := config.NewDefaultConfig()
	alert, err := common.ParseHexColor(cfg.Spheres.GlowColorAlert)
	require.NoError(t, err)
	normal, err := common.ParseHexColor(cfg.Spheres.GlowColor)
	require.NoError(t, err)

	c.MouseDown(common.MouseButtonRight, 0, 0)
	assert.True(t, th.Active())
	assert.True(t, st.Scene.ThemeActive())
	assert.Equal(t, alert, st.Glow.Tint())

	c.KeyDown(common.KeyT)
	assert.False(t, th.Active())
	assert.False(t, st.Scene.ThemeActive())
	assert.Equal(t, normal, st.Glow.Tint())
	assert.Equal(t, st.Field.OriginalColors(), st.Field.Colors())
}

func TestController_DragAndReset(t *testing.T) {
	c, st, tr, _ := newTestController(t, WithPointerScale(2))

	c.MouseDown(common.MouseButtonLeft, 10, 10)
	c.MouseMove(10, 15)
	assert.True(t, tr.Dragging())
	o := tr.Consume()
	assert.InDelta(t, 10*0.0025, o.DragX, 1e-6)

	c.MouseUp(common.MouseButtonLeft, 10, 15)
	assert.False(t, tr.Dragging())

	st.Sphere.Rotate(mgl32.Vec3{o.DragX, 0, 0})
	c.KeyDown(common.KeyR)
	for _, obj := range st.Scene.Rotatables() {
		assert.Zero(t, obj.Rotation().Len())
	}
}

func TestController_ScrollClamps(t *testing.T) {
	c, st, _, _ := newTestController(t, WithZoom(10, 5, 50))

	c.Scroll(1)
	assert.Equal(t, float32(20), st.Scene.Camera().Position()[2])
	c.Scroll(5)
	assert.Equal(t, float32(5), st.Scene.Camera().Position()[2])
	c.Scroll(-100)
	assert.Equal(t, float32(50), st.Scene.Camera().Position()[2])
}

func TestController_ResizeScalesExtent(t *testing.T) {
	c, st, tr, _ := newTestController(t, WithPointerScale(8))

	c.Resize(100, 50, 2)
	assert.InDelta(t, 1.0, st.Scene.Camera().Aspect(), 1e-6)

	c.MouseMove(100, 25)
	o := tr.Consume()
	assert.InDelta(t, 1.0, o.LookX, 1e-6)
	assert.InDelta(t, 0.0, o.LookY, 1e-6)
}
