package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()

	assert.Equal(t, mgl32.Vec3{0, 0, 30}, c.Position())
	assert.Equal(t, mgl32.Vec3{}, c.Target())
	assert.InDelta(t, mgl32.DegToRad(75), c.Fov(), 1e-6)
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(2000), c.Far())
}

func TestCameraProjectsOriginToCenter(t *testing.T) {
	c := NewCamera(WithAspect(2))

	clip := c.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	ndc := clip.Vec3().Mul(1 / clip.W())

	assert.InDelta(t, 0, ndc.X(), 1e-6)
	assert.InDelta(t, 0, ndc.Y(), 1e-6)
	assert.Greater(t, ndc.Z(), float32(0))
	assert.Less(t, ndc.Z(), float32(1))
	assert.InDelta(t, 30, clip.W(), 1e-4, "w is the view-space depth")
}

func TestCameraSetAspectIgnoresInvalid(t *testing.T) {
	c := NewCamera(WithAspect(1.5))
	before := c.ProjectionMatrix()

	c.SetAspect(0)
	c.SetAspect(-2)
	c.SetAspect(float32(math.Inf(1)))
	c.SetAspect(float32(math.NaN()))
	assert.Equal(t, float32(1.5), c.Aspect())
	assert.Equal(t, before, c.ProjectionMatrix())

	c.SetAspect(2)
	assert.Equal(t, float32(2), c.Aspect())
	assert.NotEqual(t, before, c.ProjectionMatrix())
}

func TestCameraSettersRecompute(t *testing.T) {
	c := NewCamera()
	c.SetPosition(mgl32.Vec3{0, 0, 10})
	c.SetFar(50)

	clip := c.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, -100, 1})
	assert.Greater(t, clip.Z(), clip.W(), "beyond the far plane")
}
