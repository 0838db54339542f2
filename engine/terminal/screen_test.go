package terminal

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Carmen-Shannon/oxy-starfield/common"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newSimHost(t *testing.T, options ...ScreenBuilderOption) (Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	h, err := NewScreen(append([]ScreenBuilderOption{WithScreen(sim)}, options...)...)
	require.NoError(t, err)
	sim.SetSize(80, 24)
	t.Cleanup(h.Close)
	return h, sim
}

// pollUntil drains host events until cond holds.
func pollUntil(t *testing.T, h Screen, cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		h.PollEvents()
		return cond()
	}, 2*time.Second, 5*time.Millisecond)
}

func TestScreen_KeysAreUpperCased(t *testing.T) {
	h, sim := newSimHost(t)
	var keys []uint32
	h.SetKeyDownCallback(func(k uint32) { keys = append(keys, k) })

	sim.InjectKey(tcell.KeyRune, 't', tcell.ModNone)
	pollUntil(t, h, func() bool { return len(keys) == 1 })
	assert.Equal(t, uint32(common.KeyT), keys[0])
	assert.False(t, h.ShouldClose())
}

func TestScreen_EventBufferCapacity(t *testing.T) {
	h, sim := newSimHost(t, WithEventBuffer(2))
	assert.Equal(t, 2, cap(h.(*screenHost).events))

	var keys []uint32
	h.SetKeyDownCallback(func(k uint32) { keys = append(keys, k) })
	for _, r := range "abcde" {
		sim.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
	pollUntil(t, h, func() bool { return len(keys) == 5 })
	assert.Equal(t, []uint32{'A', 'B', 'C', 'D', 'E'}, keys)
}

func TestScreen_EventBufferHasAFloor(t *testing.T) {
	h, _ := newSimHost(t, WithEventBuffer(0))
	assert.Equal(t, 1, cap(h.(*screenHost).events))
}

func TestScreen_QuitKeys(t *testing.T) {
	for name, inject := range map[string]func(tcell.SimulationScreen){
		"escape": func(s tcell.SimulationScreen) { s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone) },
		"q":      func(s tcell.SimulationScreen) { s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone) },
		"ctrl-c": func(s tcell.SimulationScreen) { s.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl) },
	} {
		t.Run(name, func(t *testing.T) {
			h, sim := newSimHost(t)
			inject(sim)
			pollUntil(t, h, h.ShouldClose)
		})
	}
}

func TestScreen_MouseEdges(t *testing.T) {
	h, sim := newSimHost(t)

	type press struct {
		down   bool
		button common.MouseButton
		x, y   float32
	}
	var presses []press
	var moves int
	h.SetMouseDownCallback(func(b common.MouseButton, x, y float32) { presses = append(presses, press{true, b, x, y}) })
	h.SetMouseUpCallback(func(b common.MouseButton, x, y float32) { presses = append(presses, press{false, b, x, y}) })
	h.SetMouseMoveCallback(func(x, y float32) { moves++ })

	sim.InjectMouse(10, 5, tcell.Button1, tcell.ModNone)
	sim.InjectMouse(12, 6, tcell.Button1, tcell.ModNone)
	sim.InjectMouse(12, 6, tcell.ButtonNone, tcell.ModNone)
	sim.InjectMouse(3, 3, tcell.Button2, tcell.ModNone)

	pollUntil(t, h, func() bool { return len(presses) == 3 })
	assert.Equal(t, press{true, common.MouseButtonLeft, 10, 5}, presses[0])
	assert.Equal(t, press{false, common.MouseButtonLeft, 12, 6}, presses[1])
	assert.Equal(t, press{true, common.MouseButtonRight, 3, 3}, presses[2])
	assert.Equal(t, 4, moves)
}

func TestScreen_Resize(t *testing.T) {
	h, sim := newSimHost(t)
	var size [2]int
	h.SetResizeCallback(func(w, ht int) { size = [2]int{w, ht} })

	require.NoError(t, sim.PostEvent(tcell.NewEventResize(100, 40)))
	pollUntil(t, h, func() bool { return size == [2]int{100, 40} })
}

func TestScreen_CloseIsIdempotent(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	h, err := NewScreen(WithScreen(sim))
	require.NoError(t, err)

	h.Close()
	h.Close()
	assert.True(t, h.ShouldClose())
}
