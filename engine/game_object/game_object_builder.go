package game_object

import (
	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the name of the GameObject.
//
// Parameters:
//   - name: the object name used in logs and lookups
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject is enabled.
//
// Parameters:
//   - enabled: true to render and animate the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithRotatable marks the GameObject as driven by pointer, drag and tilt rotation.
//
// Parameters:
//   - rotatable: true to let the animation driver rotate the object
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Rotatable flag
func WithRotatable(rotatable bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotatable = rotatable
	}
}

// WithModel sets the Model for this GameObject.
//
// Parameters:
//   - m: the Model to associate
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Model
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mdl = m
	}
}

// WithPosition sets the initial world-space position.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(p mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = p
	}
}

// WithScale sets the initial scale.
//
// Parameters:
//   - s: the per-axis scale
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(s mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = s
	}
}

// WithTint sets the surface color.
//
// Parameters:
//   - c: the tint
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the tint
func WithTint(c common.Color) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.tint = c
	}
}

// WithOpacity sets the surface opacity.
//
// Parameters:
//   - opacity: the opacity, clamped to [0, 1]
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the opacity
func WithOpacity(opacity float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.opacity = common.Clamp(opacity, 0, 1)
	}
}

// WithBlend sets the blend mode.
//
// Parameters:
//   - mode: BlendAlpha or BlendAdditive
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the blend mode
func WithBlend(mode BlendMode) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.blend = mode
	}
}

// WithPulseOpacity makes the opacity breathe with the scene pulse.
//
// Parameters:
//   - enabled: true to modulate the opacity by the pulse
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the pulse flag
func WithPulseOpacity(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.pulseOpacity = enabled
	}
}

// WithRimStrength sets how strongly the surface fades toward its center.
//
// Parameters:
//   - strength: 0 for a flat surface, larger values for a thinner halo
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rim strength
func WithRimStrength(strength float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rimStrength = strength
	}
}
