// Package terminal hosts the scene in a terminal: a tcell screen whose events are
// read on a background goroutine and dispatched on the engine loop.
package terminal

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-starfield/common"
)

// Screen is a terminal host. It satisfies the engine's Host; callbacks run on the
// goroutine calling PollEvents.
type Screen interface {
	// Screen returns the underlying tcell screen for render sinks.
	//
	// Returns:
	//   - tcell.Screen: the screen
	Screen() tcell.Screen

	// SetResizeCallback sets the function called when the terminal is resized.
	//
	// Parameters:
	//   - callback: function receiving the new size in cells
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key presses. Printable keys are
	// reported as upper-case ASCII codes, matching the window key codes.
	// Escape, q and Ctrl-C never reach the callback; they close the host.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetMouseDownCallback sets the callback for mouse button presses.
	//
	// Parameters:
	//   - callback: function receiving the button and cell position
	SetMouseDownCallback(callback func(button common.MouseButton, x, y float32))

	// SetMouseUpCallback sets the callback for mouse button releases.
	//
	// Parameters:
	//   - callback: function receiving the button and cell position
	SetMouseUpCallback(callback func(button common.MouseButton, x, y float32))

	// SetMouseMoveCallback sets the callback for mouse movement.
	//
	// Parameters:
	//   - callback: function receiving the cell position
	SetMouseMoveCallback(callback func(x, y float32))

	// PollEvents drains the events read so far and dispatches them to the callbacks.
	PollEvents()

	// ShouldClose reports whether a quit key was pressed or the host was closed.
	//
	// Returns:
	//   - bool: true once the host wants to close
	ShouldClose() bool

	// Size returns the terminal size in cells.
	//
	// Returns:
	//   - int: columns
	//   - int: rows
	Size() (int, int)

	// Close stops the reader goroutine and restores the terminal. Safe to call twice.
	Close()
}

type screenHost struct {
	screen tcell.Screen
	logger *zap.Logger

	events chan tcell.Event
	quit   chan struct{}
	wg     sync.WaitGroup

	closeOnce sync.Once
	closing   atomic.Bool

	buttons tcell.ButtonMask

	onResize    func(width, height int)
	onKeyDown   func(keyCode uint32)
	onMouseDown func(button common.MouseButton, x, y float32)
	onMouseUp   func(button common.MouseButton, x, y float32)
	onMouseMove func(x, y float32)
}

var _ Screen = &screenHost{}

// ScreenBuilderOption configures the terminal host.
type ScreenBuilderOption func(*screenHost)

// WithScreen uses an existing tcell screen instead of opening the terminal.
// The screen must not be initialized yet.
//
// Parameters:
//   - s: the screen, typically a tcell.SimulationScreen in tests
//
// Returns:
//   - ScreenBuilderOption: option function to apply
func WithScreen(s tcell.Screen) ScreenBuilderOption {
	return func(h *screenHost) {
		h.screen = s
	}
}

// WithLogger sets the host's logger.
//
// Parameters:
//   - logger: the parent logger
//
// Returns:
//   - ScreenBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) ScreenBuilderOption {
	return func(h *screenHost) {
		h.logger = logger.Named("terminal")
	}
}

// WithEventBuffer sets the capacity of the event channel between the reader and the loop.
//
// Parameters:
//   - size: the channel capacity
//
// Returns:
//   - ScreenBuilderOption: option function to apply
func WithEventBuffer(size int) ScreenBuilderOption {
	return func(h *screenHost) {
		h.events = make(chan tcell.Event, max(size, 1))
	}
}

// NewScreen initializes the terminal, enables mouse reporting and starts the event reader.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Screen: the terminal host
//   - error: an error if the terminal cannot be opened
func NewScreen(options ...ScreenBuilderOption) (Screen, error) {
	h := &screenHost{
		logger: zap.NewNop(),
		events: make(chan tcell.Event, 64),
		quit:   make(chan struct{}),
	}
	for _, opt := range options {
		opt(h)
	}

	if h.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("failed to open terminal: %w", err)
		}
		h.screen = s
	}
	if err := h.screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	h.screen.EnableMouse()
	h.screen.HideCursor()
	h.screen.Clear()

	h.wg.Add(1)
	go h.readEvents()
	return h, nil
}

// readEvents forwards screen events to the loop until the screen is finalized.
func (h *screenHost) readEvents() {
	defer h.wg.Done()
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case h.events <- ev:
		case <-h.quit:
			return
		}
	}
}

func (h *screenHost) Screen() tcell.Screen {
	return h.screen
}

func (h *screenHost) SetResizeCallback(callback func(width, height int)) {
	h.onResize = callback
}

func (h *screenHost) SetKeyDownCallback(callback func(keyCode uint32)) {
	h.onKeyDown = callback
}

func (h *screenHost) SetMouseDownCallback(callback func(button common.MouseButton, x, y float32)) {
	h.onMouseDown = callback
}

func (h *screenHost) SetMouseUpCallback(callback func(button common.MouseButton, x, y float32)) {
	h.onMouseUp = callback
}

func (h *screenHost) SetMouseMoveCallback(callback func(x, y float32)) {
	h.onMouseMove = callback
}

func (h *screenHost) PollEvents() {
	for {
		select {
		case ev := <-h.events:
			h.dispatch(ev)
		default:
			return
		}
	}
}

func (h *screenHost) dispatch(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, ht := ev.Size()
		h.screen.Sync()
		if h.onResize != nil {
			h.onResize(w, ht)
		}
	case *tcell.EventKey:
		h.dispatchKey(ev)
	case *tcell.EventMouse:
		h.dispatchMouse(ev)
	}
}

func (h *screenHost) dispatchKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		h.closing.Store(true)
		return
	case tcell.KeyRune:
		r := ev.Rune()
		if r == 'q' || r == 'Q' || (r == 'c' && ev.Modifiers()&tcell.ModCtrl != 0) {
			h.closing.Store(true)
			return
		}
		if h.onKeyDown != nil && r < unicode.MaxASCII {
			h.onKeyDown(uint32(unicode.ToUpper(r)))
		}
	}
}

// dispatchMouse turns tcell's button state into press and release edges.
func (h *screenHost) dispatchMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	fx, fy := float32(x), float32(y)
	buttons := ev.Buttons()

	if h.onMouseMove != nil {
		h.onMouseMove(fx, fy)
	}

	for _, b := range []struct {
		mask   tcell.ButtonMask
		button common.MouseButton
	}{
		{tcell.Button1, common.MouseButtonLeft},
		{tcell.Button2, common.MouseButtonRight},
		{tcell.Button3, common.MouseButtonMiddle},
	} {
		was, is := h.buttons&b.mask != 0, buttons&b.mask != 0
		switch {
		case is && !was && h.onMouseDown != nil:
			h.onMouseDown(b.button, fx, fy)
		case was && !is && h.onMouseUp != nil:
			h.onMouseUp(b.button, fx, fy)
		}
	}
	h.buttons = buttons
}

func (h *screenHost) ShouldClose() bool {
	return h.closing.Load()
}

func (h *screenHost) Size() (int, int) {
	return h.screen.Size()
}

func (h *screenHost) Close() {
	h.closeOnce.Do(func() {
		h.closing.Store(true)
		close(h.quit)
		h.screen.Fini()
		h.wg.Wait()
		h.logger.Debug("terminal closed")
	})
}
