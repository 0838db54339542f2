package starfield

import (
	"time"

	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer"
	"github.com/Carmen-Shannon/oxy-starfield/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Driver advances the scene by one frame per Tick: it publishes the glow
// pulse, rotates every rotatable object by the consumed pointer, drag and tilt
// input, then submits the scene to the render sink.
type Driver struct {
	scene   scene.Scene
	tracker *Tracker
	sink    renderer.Sink
	logger  *zap.Logger

	period        time.Duration
	errorInterval time.Duration

	start       time.Time
	started     bool
	lastErrorAt time.Time
	suppressed  int
	frames      uint64
}

// DriverBuilderOption configures a Driver.
type DriverBuilderOption func(*Driver)

// WithPulsePeriod sets the length of one glow pulse.
func WithPulsePeriod(period time.Duration) DriverBuilderOption {
	return func(d *Driver) {
		d.period = period
	}
}

// WithSink sets the render sink the scene is submitted to after each update.
func WithSink(sink renderer.Sink) DriverBuilderOption {
	return func(d *Driver) {
		d.sink = sink
	}
}

// WithDriverLogger sets the logger used for render errors.
func WithDriverLogger(logger *zap.Logger) DriverBuilderOption {
	return func(d *Driver) {
		d.logger = logger.Named("driver")
	}
}

// WithErrorInterval sets the minimum spacing between logged render errors.
// Errors inside the interval are counted and reported with the next log line.
func WithErrorInterval(interval time.Duration) DriverBuilderOption {
	return func(d *Driver) {
		d.errorInterval = interval
	}
}

// NewDriver creates a driver for s fed by tracker.
//
// Parameters:
//   - s: the scene to animate
//   - tracker: the interaction input source
//   - options: functional options
//
// Returns:
//   - *Driver: the driver
func NewDriver(s scene.Scene, tracker *Tracker, options ...DriverBuilderOption) *Driver {
	d := &Driver{
		scene:         s,
		tracker:       tracker,
		logger:        zap.NewNop(),
		period:        3 * time.Second,
		errorInterval: time.Second,
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// Frames returns the number of ticks run so far.
func (d *Driver) Frames() uint64 {
	return d.frames
}

// Tick runs one frame. The first call fixes the start time of the pulse.
// Render errors are logged and never stop the animation.
//
// Parameters:
//   - now: the frame timestamp
func (d *Driver) Tick(now time.Time) {
	if !d.started {
		d.start = now
		d.started = true
	}
	d.frames++

	d.scene.SetPulse(float32(Pulse(now.Sub(d.start), d.period)))

	o := d.tracker.Consume()
	speed := d.tracker.RotationSpeed()
	delta := mgl32.Vec3{
		o.LookY*speed + o.DragX + o.TiltX,
		o.LookX*speed + o.DragY + o.TiltY,
		0,
	}
	if delta != (mgl32.Vec3{}) {
		for _, obj := range d.scene.Rotatables() {
			obj.Rotate(delta)
		}
	}

	if d.sink == nil {
		return
	}
	if err := d.sink.Render(d.scene); err != nil {
		d.reportRenderError(now, err)
	}
}

func (d *Driver) reportRenderError(now time.Time, err error) {
	if !d.lastErrorAt.IsZero() && now.Sub(d.lastErrorAt) < d.errorInterval {
		d.suppressed++
		return
	}
	d.logger.Warn("render failed",
		zap.Error(err),
		zap.Uint64("frame", d.frames),
		zap.Int("suppressed", d.suppressed))
	d.lastErrorAt = now
	d.suppressed = 0
}
