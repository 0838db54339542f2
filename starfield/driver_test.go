package starfield

import (
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Carmen-Shannon/oxy-starfield/config"
	"github.com/Carmen-Shannon/oxy-starfield/engine/scene"
)

type fakeSink struct {
	renders []float32
	err     error
}

func (s *fakeSink) Render(sc scene.Scene) error {
	s.renders = append(s.renders, sc.Pulse())
	return s.err
}

func (s *fakeSink) Resize(int, int) {}
func (s *fakeSink) Release()        {}

func newTestStage(t *testing.T) *Stage {
	t.Helper()
	cfg := config.NewDefaultConfig()
	st, err := NewStage(cfg, Generate(testRNG(), 100, testFieldConfig(t)))
	require.NoError(t, err)
	return st
}

func TestDriver_PulseAndRender(t *testing.T) {
	st := newTestStage(t)
	sink := &fakeSink{}
	d := NewDriver(st.Scene, NewTracker(), WithSink(sink), WithPulsePeriod(2*time.Second))

	t0 := time.Unix(100, 0)
	d.Tick(t0)
	d.Tick(t0.Add(time.Second))
	d.Tick(t0.Add(2 * time.Second))

	require.Len(t, sink.renders, 3)
	assert.Zero(t, sink.renders[0])
	assert.InDelta(t, 1.0, sink.renders[1], 1e-6)
	assert.InDelta(t, 0.0, sink.renders[2], 1e-6)
	assert.Equal(t, uint64(3), d.Frames())
}

func TestDriver_DragAppliedOnce(t *testing.T) {
	st := newTestStage(t)
	tr := NewTracker(WithExtent(100, 100))
	d := NewDriver(st.Scene, tr)

	tr.PointerDown(50, 50)
	tr.PointerMove(50, 90)

	t0 := time.Unix(0, 0)
	d.Tick(t0)
	first := st.Glow.Rotation()
	d.Tick(t0.Add(time.Millisecond))
	second := st.Glow.Rotation()

	// pointer at (50, 90) looks down by 0.8; the drag adds 40px once
	look := mgl32.Vec3{-0.8 * 0.0025, 0, 0}
	assert.InDelta(t, 40*0.0025+look[0], first[0], 1e-6)
	assert.InDelta(t, look[0], second[0]-first[0], 1e-6)
	assert.InDelta(t, 0, second[1], 1e-6)
}

func TestDriver_RotatesEveryRotatable(t *testing.T) {
	st := newTestStage(t)
	tr := NewTracker()
	d := NewDriver(st.Scene, tr)

	tr.Tilt(10, -20)
	d.Tick(time.Unix(0, 0))

	want := mgl32.Vec3{-0.1, 0.2, 0}
	for _, obj := range st.Scene.Rotatables() {
		assert.InDelta(t, want[0], obj.Rotation()[0], 1e-6, obj.Name())
		assert.InDelta(t, want[1], obj.Rotation()[1], 1e-6, obj.Name())
	}
}

func TestDriver_RenderErrorsRateLimited(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sink := &fakeSink{err: errors.New("surface lost")}
	d := NewDriver(newTestStage(t).Scene, NewTracker(),
		WithSink(sink),
		WithDriverLogger(zap.New(core)),
		WithErrorInterval(time.Second))

	t0 := time.Unix(0, 0)
	d.Tick(t0)
	d.Tick(t0.Add(100 * time.Millisecond))
	d.Tick(t0.Add(500 * time.Millisecond))
	d.Tick(t0.Add(1100 * time.Millisecond))

	assert.Len(t, sink.renders, 4)
	entries := logs.FilterMessage("render failed").All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(0), entries[0].ContextMap()["suppressed"])
	assert.Equal(t, int64(2), entries[1].ContextMap()["suppressed"])
	assert.Equal(t, uint64(4), entries[1].ContextMap()["frame"])
}
