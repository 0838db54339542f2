package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTick_LogsOncePerInterval(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	now := time.Unix(0, 0)
	p := NewProfiler(
		WithLogger(zap.New(core)),
		WithUpdateInterval(time.Second),
		WithClock(func() time.Time { return now }),
	)

	for range 29 {
		now = now.Add(time.Second / 60)
		assert.False(t, p.Tick())
	}
	now = now.Add(time.Second * 3 / 4)
	assert.True(t, p.Tick())

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "frame stats", entry.Message)
	assert.Equal(t, "profiler", entry.LoggerName)
	assert.InDelta(t, 30.0/(29.0/60.0+0.75), p.FPS(), 0.01)
}

func TestWithUpdateInterval_IgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithUpdateInterval(0))
	assert.Equal(t, time.Second, p.Interval())
}
