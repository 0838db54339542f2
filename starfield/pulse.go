package starfield

import (
	"math"
	"time"

	"github.com/Carmen-Shannon/oxy-starfield/common"
)

// Pulse returns the glow intensity in [0, 1] after elapsed time. The phase
// mod(elapsed, period)/period drives a raised cosine that is then smoothed,
// so the value rests briefly at 0 and 1. The phase is computed on integer
// nanoseconds, making Pulse exactly periodic.
//
// Parameters:
//   - elapsed: time since the animation started
//   - period: length of one pulse; non-positive periods yield 0
//
// Returns:
//   - float64: the pulse value
func Pulse(elapsed, period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	rem := elapsed % period
	if rem < 0 {
		rem += period
	}
	phase := float64(rem) / float64(period)
	wave := 0.5 - 0.5*math.Cos(2*math.Pi*phase)
	return common.Smoothstep(0, 1, wave)
}
