package audio

import (
	"errors"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-starfield/config"
)

type fakeSpeaker struct {
	inits   int
	rate    beep.SampleRate
	initErr error
	played  []beep.Streamer
}

func (f *fakeSpeaker) init(rate beep.SampleRate, _ int) error {
	f.inits++
	f.rate = rate
	return f.initErr
}

func (f *fakeSpeaker) play(s beep.Streamer) {
	f.played = append(f.played, s)
}

func newTestChime(f *fakeSpeaker, enabled bool) *Chime {
	return NewChime(config.AudioConfig{Enabled: enabled, SampleRate: 8000, Volume: 1},
		WithOutput(f.init, f.play))
}

func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestChime_LazyInitOnce(t *testing.T) {
	f := &fakeSpeaker{}
	c := newTestChime(f, true)
	assert.Zero(t, f.inits)

	c.Play(true)
	c.Play(false)
	assert.Equal(t, 1, f.inits)
	assert.Equal(t, beep.SampleRate(8000), f.rate)
	assert.Len(t, f.played, 2)
}

func TestChime_Disabled(t *testing.T) {
	f := &fakeSpeaker{}
	c := newTestChime(f, false)

	c.Play(true)
	assert.ErrorIs(t, c.Init(), ErrDisabled)
	assert.Zero(t, f.inits)
	assert.Empty(t, f.played)
	assert.False(t, c.Enabled())
}

func TestChime_InitFailureDisables(t *testing.T) {
	f := &fakeSpeaker{initErr: errors.New("no device")}
	c := newTestChime(f, true)

	c.Play(true)
	c.Play(true)
	assert.Equal(t, 1, f.inits)
	assert.Empty(t, f.played)
	assert.False(t, c.Enabled())
}

func TestChime_SequenceLength(t *testing.T) {
	f := &fakeSpeaker{}
	c := newTestChime(f, true)
	c.Play(true)
	require.Len(t, f.played, 1)

	samples := drain(f.played[0])
	assert.Len(t, samples, 2*beep.SampleRate(8000).N(noteDuration))
	for _, s := range samples {
		assert.LessOrEqual(t, s[0], 1.0)
		assert.GreaterOrEqual(t, s[0], -1.0)
		assert.Equal(t, s[0], s[1])
	}
}

func TestTone_Envelope(t *testing.T) {
	rate := beep.SampleRate(1000)
	s := newTone(50, 100*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, rate)

	samples := drain(s)
	require.Len(t, samples, 100)
	assert.Zero(t, samples[0][0])
	assert.InDelta(t, 0, samples[99][0], 0.11)
	assert.NoError(t, s.Err())
}
