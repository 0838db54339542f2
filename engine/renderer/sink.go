package renderer

import (
	"github.com/Carmen-Shannon/oxy-starfield/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// Sink rasterizes a scene. The animation driver submits the scene once per frame;
// errors are per frame and never stop the loop.
type Sink interface {
	// Render draws one frame of s.
	//
	// Parameters:
	//   - s: the scene to draw
	//
	// Returns:
	//   - error: a per-frame failure, the next frame is attempted regardless
	Render(s scene.Scene) error

	// Resize adapts the sink's output surface to a new size in pixels or cells.
	//
	// Parameters:
	//   - width: the new width
	//   - height: the new height
	Resize(width, height int)

	// Release frees every resource the sink holds.
	Release()
}

// SurfaceSource is a host window the WebGPU renderer can present to.
type SurfaceSource interface {
	// SurfaceDescriptor returns the platform-specific descriptor for surface creation.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}
