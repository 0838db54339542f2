package starfield

// Orientation is the rotation input collected for one frame.
type Orientation struct {
	// LookX and LookY are the normalized pointer position in [-1, 1].
	LookX, LookY float32
	// DragX and DragY are the drag rotation accumulated since the last frame, in radians.
	DragX, DragY float32
	// TiltX and TiltY are the latest device tilt rotation, in radians.
	TiltX, TiltY float32
	// TiltSupported is set once any tilt reading has arrived.
	TiltSupported bool
}

// Tracker turns pointer and tilt events into rotation deltas.
// It is idle until PointerDown and dragging until PointerUp.
type Tracker struct {
	rotationSpeed       float32
	deviceRotationSpeed float32

	width, height float32

	dragging     bool
	prevX, prevY float32

	pointerX, pointerY     float32
	dragDeltaX, dragDeltaY float32
	tiltX, tiltY           float32
	tiltSupported          bool
}

// TrackerBuilderOption configures a Tracker.
type TrackerBuilderOption func(*Tracker)

// WithRotationSpeed sets the radians per pixel of drag and per frame of look.
func WithRotationSpeed(speed float32) TrackerBuilderOption {
	return func(t *Tracker) {
		t.rotationSpeed = speed
	}
}

// WithDeviceRotationSpeed sets the radians per degree of device tilt.
func WithDeviceRotationSpeed(speed float32) TrackerBuilderOption {
	return func(t *Tracker) {
		t.deviceRotationSpeed = speed
	}
}

// WithExtent sets the initial viewport size used to normalize pointer positions.
func WithExtent(width, height int) TrackerBuilderOption {
	return func(t *Tracker) {
		t.Resize(width, height)
	}
}

// NewTracker creates an idle tracker.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Tracker: the tracker
func NewTracker(options ...TrackerBuilderOption) *Tracker {
	t := &Tracker{
		rotationSpeed:       0.0025,
		deviceRotationSpeed: 0.01,
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// RotationSpeed returns the configured rotation speed.
func (t *Tracker) RotationSpeed() float32 {
	return t.rotationSpeed
}

// Dragging reports whether a drag is in progress.
func (t *Tracker) Dragging() bool {
	return t.dragging
}

// Resize updates the extent used to normalize pointer positions.
func (t *Tracker) Resize(width, height int) {
	t.width = float32(width)
	t.height = float32(height)
}

// PointerDown starts a drag at (x, y).
func (t *Tracker) PointerDown(x, y float32) {
	t.dragging = true
	t.prevX, t.prevY = x, y
}

// PointerUp ends the drag.
func (t *Tracker) PointerUp() {
	t.dragging = false
}

// PointerMove updates the look position and, while dragging, accumulates the
// drag delta. Vertical motion rotates around x, horizontal motion around y.
func (t *Tracker) PointerMove(x, y float32) {
	if t.width > 0 && t.height > 0 {
		t.pointerX = x/t.width*2 - 1
		t.pointerY = -(y/t.height)*2 + 1
	}
	if t.dragging {
		t.dragDeltaX += (y - t.prevY) * t.rotationSpeed
		t.dragDeltaY += (x - t.prevX) * t.rotationSpeed
	}
	t.prevX, t.prevY = x, y
}

// Tilt records a device orientation reading in degrees. Readings overwrite
// each other; they are not accumulated.
func (t *Tracker) Tilt(beta, gamma float32) {
	t.tiltX = -beta * t.deviceRotationSpeed
	t.tiltY = -gamma * t.deviceRotationSpeed
	t.tiltSupported = true
}

// Consume returns the input for one frame and zeroes the drag and tilt deltas.
// The look position persists.
func (t *Tracker) Consume() Orientation {
	o := Orientation{
		LookX:         t.pointerX,
		LookY:         t.pointerY,
		DragX:         t.dragDeltaX,
		DragY:         t.dragDeltaY,
		TiltSupported: t.tiltSupported,
	}
	if t.tiltSupported {
		o.TiltX, o.TiltY = t.tiltX, t.tiltY
	}
	t.dragDeltaX, t.dragDeltaY = 0, 0
	t.tiltX, t.tiltY = 0, 0
	return o
}
