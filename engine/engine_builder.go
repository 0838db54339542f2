package engine

import (
	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-starfield/engine/profiler"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler sets the profiler used when profiling is enabled.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithHost sets the host window or terminal the engine polls.
//
// Parameters:
//   - h: a ready Host instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithHost(h Host) EngineBuilderOption {
	return func(e *engine) {
		e.host = h
	}
}

// WithTickCallback registers the per-frame callback during construction.
//
// Parameters:
//   - callback: the frame function
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickCallback(callback TickFunc) EngineBuilderOption {
	return func(e *engine) {
		e.tickCallback = callback
	}
}

// WithResizeHandler registers a resize handler during construction.
//
// Parameters:
//   - handler: receives the new width and height
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithResizeHandler(handler func(width, height int)) EngineBuilderOption {
	return func(e *engine) {
		e.resizeHandlers = append(e.resizeHandlers, handler)
	}
}

// WithLogger sets the engine's logger.
//
// Parameters:
//   - logger: the parent logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = logger.Named("engine")
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}
