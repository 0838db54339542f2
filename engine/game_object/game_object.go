package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// BlendMode selects how an object's fragments combine with the frame.
type BlendMode int

const (
	// BlendAlpha is standard source-over blending.
	BlendAlpha BlendMode = iota

	// BlendAdditive adds the object's color to the frame, scaled by its alpha.
	BlendAdditive
)

type gameObject struct {
	mu *sync.Mutex

	id        uint64
	name      string
	enabled   atomic.Bool
	rotatable bool
	mdl       model.Model

	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3

	tint         common.Color
	opacity      float32
	blend        BlendMode
	pulseOpacity bool
	rimStrength  float32
}

// GameObject defines the interface for a scene entity: a model placed in the
// world with an Euler rotation, a scale and the surface parameters the render
// sinks need to draw it.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the object's name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Enabled returns whether this object is enabled for rendering and animation.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Rotatable reports whether the animation driver rotates this object.
	//
	// Returns:
	//   - bool: true if rotatable
	Rotatable() bool

	// Model returns the Model associated with this object, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// Position returns the world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Rotation returns the XYZ Euler rotation in radians.
	//
	// Returns:
	//   - mgl32.Vec3: the rotation
	Rotation() mgl32.Vec3

	// Scale returns the per-axis scale.
	//
	// Returns:
	//   - mgl32.Vec3: the scale
	Scale() mgl32.Vec3

	// ModelMatrix returns translate * rotate * scale for the current transform.
	//
	// Returns:
	//   - mgl32.Mat4: the model-to-world matrix
	ModelMatrix() mgl32.Mat4

	// Tint returns the surface color.
	//
	// Returns:
	//   - common.Color: the tint
	Tint() common.Color

	// Opacity returns the surface opacity in [0, 1].
	//
	// Returns:
	//   - float32: the opacity
	Opacity() float32

	// Blend returns the blend mode.
	//
	// Returns:
	//   - BlendMode: the blend mode
	Blend() BlendMode

	// PulseOpacity reports whether the opacity breathes with the scene pulse.
	//
	// Returns:
	//   - bool: true if the pulse modulates the opacity
	PulseOpacity() bool

	// RimStrength returns how strongly the surface fades toward its center, 0 for a flat surface.
	//
	// Returns:
	//   - float32: the rim strength
	RimStrength() float32

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetEnabled sets whether the object is enabled.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetPosition moves the object.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// SetRotation replaces the Euler rotation.
	//
	// Parameters:
	//   - r: the new rotation in radians
	SetRotation(r mgl32.Vec3)

	// Rotate adds delta to the Euler rotation.
	//
	// Parameters:
	//   - delta: the rotation increment in radians
	Rotate(delta mgl32.Vec3)

	// SetScale replaces the scale.
	//
	// Parameters:
	//   - s: the new scale
	SetScale(s mgl32.Vec3)

	// SetTint replaces the surface color.
	//
	// Parameters:
	//   - c: the new tint
	SetTint(c common.Color)

	// SetOpacity replaces the surface opacity.
	//
	// Parameters:
	//   - opacity: the new opacity, clamped to [0, 1]
	SetOpacity(opacity float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new enabled GameObject configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:      &sync.Mutex{},
		scale:   mgl32.Vec3{1, 1, 1},
		tint:    common.Color{R: 1, G: 1, B: 1},
		opacity: 1,
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Rotatable() bool {
	return g.rotatable
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position
}

func (g *gameObject) Rotation() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotation
}

func (g *gameObject) Scale() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scale
}

func (g *gameObject) ModelMatrix() mgl32.Mat4 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return common.ModelMatrix(g.position, g.rotation, g.scale)
}

func (g *gameObject) Tint() common.Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tint
}

func (g *gameObject) Opacity() float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.opacity
}

func (g *gameObject) Blend() BlendMode {
	return g.blend
}

func (g *gameObject) PulseOpacity() bool {
	return g.pulseOpacity
}

func (g *gameObject) RimStrength() float32 {
	return g.rimStrength
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = p
}

func (g *gameObject) SetRotation(r mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = r
}

func (g *gameObject) Rotate(delta mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = g.rotation.Add(delta)
}

func (g *gameObject) SetScale(s mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = s
}

func (g *gameObject) SetTint(c common.Color) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tint = c
}

func (g *gameObject) SetOpacity(opacity float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.opacity = common.Clamp(opacity, 0, 1)
}
