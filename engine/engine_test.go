package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Carmen-Shannon/oxy-starfield/engine/profiler"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeHost struct {
	mu      sync.Mutex
	polls   int
	closeAt int
	width   int
	height  int
	resize  func(width, height int)
	closed  bool
	onPoll  func(h *fakeHost)
}

func (h *fakeHost) PollEvents() {
	h.mu.Lock()
	h.polls++
	cb := h.onPoll
	h.mu.Unlock()
	if cb != nil {
		cb(h)
	}
}

func (h *fakeHost) ShouldClose() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closeAt > 0 && h.polls >= h.closeAt
}

func (h *fakeHost) Size() (int, int) { return h.width, h.height }

func (h *fakeHost) SetResizeCallback(callback func(width, height int)) { h.resize = callback }

func (h *fakeHost) Close() { h.closed = true }

func TestRun_RequiresHost(t *testing.T) {
	assert.ErrorIs(t, NewEngine().Run(), ErrNoHost)
}

func TestRun_StopsWhenHostCloses(t *testing.T) {
	host := &fakeHost{closeAt: 5, width: 10, height: 20}
	var ticks atomic.Int32
	e := NewEngine(
		WithHost(host),
		WithTickCallback(func(time.Time, float32) { ticks.Add(1) }),
	)

	require.NoError(t, e.Run())
	assert.Equal(t, int32(5), ticks.Load())

	select {
	case <-e.Done():
	default:
		t.Fatal("done channel not closed after host close")
	}
}

func TestRun_StopsOnQuitFromAnotherGoroutine(t *testing.T) {
	host := &fakeHost{}
	e := NewEngine(WithHost(host), WithRenderFrameLimit(1000))

	done := make(chan error, 1)
	go func() { done <- e.Run() }()

	time.Sleep(10 * time.Millisecond)
	e.Quit()
	e.Quit()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop after Quit")
	}
}

func TestRun_TicksAfterPolling(t *testing.T) {
	var order []string
	host := &fakeHost{closeAt: 2}
	host.onPoll = func(*fakeHost) { order = append(order, "poll") }
	e := NewEngine(
		WithHost(host),
		WithTickCallback(func(time.Time, float32) { order = append(order, "tick") }),
	)

	require.NoError(t, e.Run())
	assert.Equal(t, []string{"poll", "tick", "poll", "tick"}, order)
}

func TestRun_TicksSuppliedProfiler(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	p := profiler.NewProfiler(profiler.WithClock(clock), profiler.WithUpdateInterval(time.Second))

	host := &fakeHost{closeAt: 4}
	host.onPoll = func(*fakeHost) { now = now.Add(500 * time.Millisecond) }
	e := NewEngine(WithHost(host), WithProfiler(p), WithProfiling(true))

	require.NoError(t, e.Run())
	assert.InDelta(t, 2.0, p.FPS(), 1e-9)
}

func TestRun_DispatchesResize(t *testing.T) {
	host := &fakeHost{closeAt: 1, width: 800, height: 600}
	var sizes [][2]int
	e := NewEngine(
		WithHost(host),
		WithResizeHandler(func(w, h int) { sizes = append(sizes, [2]int{w, h}) }),
	)
	host.onPoll = func(h *fakeHost) { h.resize(1024, 768) }

	require.NoError(t, e.Run())
	assert.Equal(t, [][2]int{{800, 600}, {1024, 768}}, sizes)
}

func TestRun_RecoversPanickingTick(t *testing.T) {
	host := &fakeHost{}
	e := NewEngine(
		WithHost(host),
		WithTickCallback(func(time.Time, float32) { panic("boom") }),
	)

	assert.ErrorContains(t, e.Run(), "boom")
}

func TestRun_RejectsConcurrentRun(t *testing.T) {
	host := &fakeHost{}
	e := NewEngine(WithHost(host), WithRenderFrameLimit(500))

	done := make(chan error, 1)
	go func() { done <- e.Run() }()
	time.Sleep(10 * time.Millisecond)

	assert.ErrorIs(t, e.Run(), ErrAlreadyRunning)
	e.Quit()
	assert.NoError(t, <-done)
}

func TestFrameDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), frameDuration(0))
	assert.Equal(t, time.Duration(0), frameDuration(-5))
	assert.Equal(t, 20*time.Millisecond, frameDuration(50))
}
