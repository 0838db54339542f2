package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/camera"
	"github.com/Carmen-Shannon/oxy-starfield/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScenePanicsWithoutCamera(t *testing.T) {
	assert.Panics(t, func() { NewScene("x", nil) })
}

func TestSceneOrderAndLookup(t *testing.T) {
	field := game_object.NewGameObject(game_object.WithName("field"), game_object.WithRotatable(true))
	sphere := game_object.NewGameObject(game_object.WithName("sphere"), game_object.WithRotatable(true))
	glow := game_object.NewGameObject(game_object.WithName("glow"))

	s := NewScene("starfield", camera.NewCamera(),
		WithObjects(field, sphere),
		WithClearColor(common.Color{R: 0.1}),
	)
	id := s.Add(glow)

	assert.Equal(t, "starfield", s.Name())
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, uint64(3), id)
	assert.Same(t, sphere, s.Get(2))
	assert.Same(t, glow, s.Find("glow"))
	assert.Nil(t, s.Find("missing"))
	assert.Equal(t, common.Color{R: 0.1}, s.ClearColor())

	objs := s.Objects()
	require.Len(t, objs, 3)
	assert.Equal(t, "field", objs[0].Name())
	assert.Equal(t, "glow", objs[2].Name())
	assert.Len(t, s.Rotatables(), 2)

	sphere.SetEnabled(false)
	assert.Len(t, s.Objects(), 2)
	assert.Len(t, s.Rotatables(), 1)

	s.Remove(1)
	assert.Nil(t, s.Get(1))
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, "glow", s.Objects()[0].Name())
	s.Clear()
	assert.Zero(t, s.Count())
}

func TestSceneExplicitIDsAdvanceCounter(t *testing.T) {
	s := NewScene("s", camera.NewCamera())
	s.Add(game_object.NewGameObject(game_object.WithID(10)))
	assert.Equal(t, uint64(11), s.Add(game_object.NewGameObject()))
}

func TestScenePulseAndTheme(t *testing.T) {
	s := NewScene("s", camera.NewCamera())

	assert.Zero(t, s.Pulse())
	s.SetPulse(0.25)
	assert.Equal(t, float32(0.25), s.Pulse())
	s.SetPulse(4)
	assert.Equal(t, float32(1), s.Pulse())

	assert.False(t, s.ThemeActive())
	s.SetThemeActive(true)
	assert.True(t, s.ThemeActive())
}

func TestSceneFrustum(t *testing.T) {
	s := NewScene("s", camera.NewCamera(camera.WithAspect(16.0/9.0)))
	f := s.Frustum()

	assert.True(t, f.ContainsPoint(mgl32.Vec3{0, 0, 0}))
	assert.False(t, f.ContainsPoint(mgl32.Vec3{0, 0, 100}), "behind the camera")
	assert.False(t, f.ContainsPoint(mgl32.Vec3{0, 0, -5000}), "past the far plane")
}
