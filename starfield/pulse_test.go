package starfield

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPulse_PeriodicAndBounded(t *testing.T) {
	period := 3 * time.Second
	for ms := int64(0); ms < 9000; ms += 37 {
		elapsed := time.Duration(ms) * time.Millisecond
		p := Pulse(elapsed, period)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
		assert.Equal(t, p, Pulse(elapsed+period, period))
	}
}

func TestPulse_Shape(t *testing.T) {
	period := 2 * time.Second
	assert.Equal(t, 0.0, Pulse(0, period))
	assert.InDelta(t, 1.0, Pulse(period/2, period), 1e-9)
	assert.InDelta(t, 0.5, Pulse(period/4, period), 1e-9)
}

func TestPulse_NonPositivePeriod(t *testing.T) {
	assert.Zero(t, Pulse(time.Second, 0))
	assert.Zero(t, Pulse(time.Second, -time.Second))
}
