package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// tone is a sine oscillator with a linear attack/release envelope.
type tone struct {
	freq     float64
	rate     beep.SampleRate
	phase    float64
	position int
	total    int
	attack   int
	release  int
}

// newTone returns a finite sine streamer of freq Hz lasting duration.
func newTone(freq float64, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &tone{
		freq:    freq,
		rate:    rate,
		total:   rate.N(duration),
		attack:  rate.N(attack),
		release: rate.N(release),
	}
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}

		vol := 1.0
		if t.attack > 0 && t.position < t.attack {
			vol = float64(t.position) / float64(t.attack)
		}
		if remaining := t.total - t.position; t.release > 0 && remaining < t.release {
			vol = min(vol, float64(remaining)/float64(t.release))
		}

		v := math.Sin(2*math.Pi*t.phase) * vol
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// withVolume scales s linearly; zero or less is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
