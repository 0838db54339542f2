package window

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-starfield/common"
)

// Window provides platform windowing and input event handling.
// Wraps the GLFW window with a common interface that satisfies both the engine's Host
// and the renderer's SurfaceSource. All callbacks run on the goroutine calling PollEvents.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up/zoom in, negative = down/zoom out)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press events.
	// Escape never reaches the callback; it closes the window.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetMouseDownCallback sets the callback for mouse button presses.
	//
	// Parameters:
	//   - callback: function receiving the button and cursor x, y position
	SetMouseDownCallback(callback func(button common.MouseButton, x, y float32))

	// SetMouseUpCallback sets the callback for mouse button releases.
	//
	// Parameters:
	//   - callback: function receiving the button and cursor x, y position
	SetMouseUpCallback(callback func(button common.MouseButton, x, y float32))

	// SetMouseMoveCallback sets the callback for cursor movement.
	//
	// Parameters:
	//   - callback: function receiving cursor x, y position
	SetMouseMoveCallback(callback func(x, y float32))

	// SetTiltCallback sets the callback receiving joystick tilt as device orientation.
	// It is invoked once per PollEvents while a joystick is present and tilt is enabled.
	//
	// Parameters:
	//   - callback: function receiving beta (front-back) and gamma (left-right) in degrees
	SetTiltCallback(callback func(beta, gamma float32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// PollEvents processes pending window events and dispatches them to the callbacks.
	PollEvents()

	// ShouldClose returns true once the window was closed by the user or by Escape.
	//
	// Returns:
	//   - bool: true if the window should close
	ShouldClose() bool

	// Close destroys the window and releases platform resources.
	Close()

	// Size returns the current framebuffer size in pixels.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (int, int)

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// minWidth and minHeight bound the window size during resize.
	minWidth, minHeight int

	// width and height are the current framebuffer size in pixels.
	width, height int

	// cursorScaleX and cursorScaleY convert cursor positions from screen
	// coordinates to framebuffer pixels. They exceed 1 on high-DPI displays.
	cursorScaleX, cursorScaleY float32

	// tiltJoystick enables reading the first joystick's axes as device tilt.
	tiltJoystick bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onResize    func(width, height int)
	onScroll    func(delta float32)
	onKeyDown   func(keyCode uint32)
	onMouseDown func(button common.MouseButton, x, y float32)
	onMouseUp   func(button common.MouseButton, x, y float32)
	onMouseMove func(x, y float32)
	onTilt      func(beta, gamma float32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order. Must be called on the main goroutine.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
//   - error: an error if GLFW or the window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "Starfield",
		minWidth:  320,
		minHeight: 240,
		width:     1280,
		height:    720,

		cursorScaleX: 1,
		cursorScaleY: 1,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetMouseDownCallback(callback func(button common.MouseButton, x, y float32)) {
	w.onMouseDown = callback
}

func (w *engineWindow) SetMouseUpCallback(callback func(button common.MouseButton, x, y float32)) {
	w.onMouseUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y float32)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SetTiltCallback(callback func(beta, gamma float32)) {
	w.onTilt = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) PollEvents() {
	platformProcessMessages(w)
}

func (w *engineWindow) ShouldClose() bool {
	return !platformIsRunningCheck(w)
}

func (w *engineWindow) Close() {
	platformCloseWindow(w)
}

func (w *engineWindow) Size() (int, int) {
	return w.width, w.height
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// updateCursorScale records the ratio between the framebuffer size and the
// window size in screen coordinates. A zero dimension keeps a scale of 1.
func (w *engineWindow) updateCursorScale(fbWidth, fbHeight, winWidth, winHeight int) {
	w.cursorScaleX, w.cursorScaleY = 1, 1
	if fbWidth > 0 && winWidth > 0 {
		w.cursorScaleX = float32(fbWidth) / float32(winWidth)
	}
	if fbHeight > 0 && winHeight > 0 {
		w.cursorScaleY = float32(fbHeight) / float32(winHeight)
	}
}

// toFramebuffer converts a cursor position to framebuffer pixels, the space
// Size reports, so pointer input and the resize extent always agree.
func (w *engineWindow) toFramebuffer(x, y float64) (float32, float32) {
	return float32(x) * common.Coalesce(w.cursorScaleX, 1), float32(y) * common.Coalesce(w.cursorScaleY, 1)
}

// tiltFromAxes maps the first two joystick axes in [-1, 1] to device orientation
// angles in degrees: axis 1 to beta, axis 0 to gamma, both clamped to ±90.
func tiltFromAxes(axes []float32) (beta, gamma float32, ok bool) {
	if len(axes) < 2 {
		return 0, 0, false
	}
	return common.Clamp(axes[1], -1, 1) * 90, common.Clamp(axes[0], -1, 1) * 90, true
}
