package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-starfield/engine/profiler"
)

// ErrNoHost is returned by Run when the engine was built without a host.
var ErrNoHost = errors.New("engine has no host")

// ErrAlreadyRunning is returned by Run when the loop is already running.
var ErrAlreadyRunning = errors.New("engine is already running")

// TickFunc advances the application by one frame.
type TickFunc func(now time.Time, deltaTime float32)

// Host is the platform loop the engine drives: a desktop window or a terminal screen.
// PollEvents dispatches pending input to the host's handlers on the calling goroutine.
type Host interface {
	// PollEvents processes pending platform events and invokes the registered handlers.
	PollEvents()

	// ShouldClose reports whether the user asked the host to close.
	//
	// Returns:
	//   - bool: true once the host wants to close
	ShouldClose() bool

	// Size returns the current drawable size in the host's units (pixels or cells).
	//
	// Returns:
	//   - int: the width
	//   - int: the height
	Size() (int, int)

	// SetResizeCallback registers the function invoked when the drawable size changes.
	//
	// Parameters:
	//   - callback: receives the new width and height
	SetResizeCallback(callback func(width, height int))

	// Close releases the host's platform resources.
	Close()
}

// engine implements the Engine interface.
// Polling, ticking and resize handling all run on the goroutine that calls Run.
type engine struct {
	running atomic.Bool

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	host   Host
	logger *zap.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback   TickFunc
	resizeHandlers []func(width, height int)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the frame scheduler. It polls the host, runs the tick callback once per
// frame and forwards host resizes to the registered handlers until the host closes or
// Quit is called.
type Engine interface {
	// Host returns the underlying host.
	//
	// Returns:
	//   - Host: the host instance
	Host() Host

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called each frame.
	// Use this for input processing, animation updates and scene rendering.
	//
	// Parameters:
	//   - callback: function to call each frame with the frame time and the delta time in seconds
	SetTickCallback(callback TickFunc)

	// AddResizeHandler registers a function called on the loop goroutine when the host resizes.
	// Handlers run in registration order.
	//
	// Parameters:
	//   - handler: receives the new width and height
	AddResizeHandler(handler func(width, height int))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the frame loop on the calling goroutine and blocks until the host
	// closes or Quit is called.
	//
	// Returns:
	//   - error: ErrNoHost or ErrAlreadyRunning, or an error for a panicking frame
	Run() error

	// Quit signals the loop to stop.
	// Safe to call from any goroutine and multiple times; subsequent calls are no-ops.
	Quit()

	// Done returns a channel closed once Quit has been called or the host closed.
	//
	// Returns:
	//   - <-chan struct{}: the quit channel
	Done() <-chan struct{}
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (host, profiling, frame limit, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel: make(chan struct{}),
		logger:      zap.NewNop(),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}

	if e.host != nil {
		e.host.SetResizeCallback(e.dispatchResize)
	}

	return e
}

func (e *engine) Host() Host {
	return e.host
}

func (e *engine) dispatchResize(width, height int) {
	e.logger.Debug("host resized", zap.Int("width", width), zap.Int("height", height))
	for _, h := range e.resizeHandlers {
		h(width, height)
	}
}

func (e *engine) Run() error {
	if e.host == nil {
		return ErrNoHost
	}
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)

	w, h := e.host.Size()
	e.dispatchResize(w, h)

	lastFrame := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return nil
		default:
		}

		if e.host.ShouldClose() {
			e.signalQuit()
			return nil
		}

		now := time.Now()
		dt := float32(now.Sub(lastFrame).Seconds())
		lastFrame = now

		if err := e.frame(now, dt); err != nil {
			e.signalQuit()
			return err
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
				timer := time.NewTimer(remaining)
				select {
				case <-e.quitChannel:
					timer.Stop()
					return nil
				case <-timer.C:
				}
			}
		}
	}
}

// frame polls the host and runs one tick. A panic inside the tick ends the loop
// with an error instead of crashing the process.
func (e *engine) frame(now time.Time, dt float32) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("frame recovered from panic", zap.Any("panic", r))
			err = fmt.Errorf("frame panicked: %v", r)
		}
	}()

	e.host.PollEvents()

	if e.tickCallback != nil {
		e.tickCallback(now, dt)
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}
	return nil
}

// Quit signals the loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal the loop to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickCallback registers the function called each frame.
func (e *engine) SetTickCallback(callback TickFunc) {
	e.tickCallback = callback
}

func (e *engine) AddResizeHandler(handler func(width, height int)) {
	e.resizeHandlers = append(e.resizeHandlers, handler)
}

// SetRenderFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
