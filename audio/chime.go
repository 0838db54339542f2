// Package audio plays the short chime announcing a theme toggle.
package audio

import (
	"errors"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-starfield/config"
)

const (
	noteDuration = 120 * time.Millisecond
	noteAttack   = 8 * time.Millisecond
	noteRelease  = 60 * time.Millisecond

	// lower and upper notes of the chime, A4 and E5
	noteLow  = 440.0
	noteHigh = 659.25
)

// ErrDisabled is returned by Init when the chime is switched off.
var ErrDisabled = errors.New("audio disabled")

// Chime plays a two-note sine sequence: rising when the warm theme turns on,
// falling when it turns off. The speaker is opened on first use. A failed open
// disables the chime for the rest of the process.
type Chime struct {
	mu          sync.Mutex
	enabled     bool
	initialized bool
	failed      bool

	rate   beep.SampleRate
	volume float64
	logger *zap.Logger

	initSpeaker func(rate beep.SampleRate, bufferSize int) error
	play        func(s beep.Streamer)
}

// ChimeBuilderOption configures a Chime.
type ChimeBuilderOption func(*Chime)

// WithLogger sets the chime's logger.
func WithLogger(logger *zap.Logger) ChimeBuilderOption {
	return func(c *Chime) {
		c.logger = logger.Named("audio")
	}
}

// WithOutput replaces the speaker used to open the device and play streams.
func WithOutput(initSpeaker func(rate beep.SampleRate, bufferSize int) error, play func(s beep.Streamer)) ChimeBuilderOption {
	return func(c *Chime) {
		c.initSpeaker = initSpeaker
		c.play = play
	}
}

// NewChime creates a chime from the audio configuration. The speaker is not
// touched until the first Play.
//
// Parameters:
//   - cfg: the audio configuration
//   - options: functional options
//
// Returns:
//   - *Chime: the chime
func NewChime(cfg config.AudioConfig, options ...ChimeBuilderOption) *Chime {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	c := &Chime{
		enabled:     cfg.Enabled,
		rate:        beep.SampleRate(rate),
		volume:      cfg.Volume,
		logger:      zap.NewNop(),
		initSpeaker: speaker.Init,
		play:        func(s beep.Streamer) { speaker.Play(s) },
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Init opens the speaker if it is not open yet.
//
// Returns:
//   - error: ErrDisabled when switched off or after an earlier failure, or the speaker error
func (c *Chime) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initLocked()
}

func (c *Chime) initLocked() error {
	if !c.enabled || c.failed {
		return ErrDisabled
	}
	if c.initialized {
		return nil
	}
	if err := c.initSpeaker(c.rate, c.rate.N(100*time.Millisecond)); err != nil {
		c.failed = true
		c.logger.Warn("audio unavailable, chime disabled", zap.Error(err))
		return err
	}
	c.initialized = true
	return nil
}

// Enabled reports whether the chime can still play.
func (c *Chime) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled && !c.failed
}

// Play queues the chime for the given theme state and returns immediately.
//
// Parameters:
//   - warm: true for the rising sequence, false for the falling one
func (c *Chime) Play(warm bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initLocked() != nil {
		return
	}
	c.play(c.sequence(warm))
}

func (c *Chime) sequence(warm bool) beep.Streamer {
	first, second := noteLow, noteHigh
	if !warm {
		first, second = noteHigh, noteLow
	}
	return withVolume(beep.Seq(
		newTone(first, noteDuration, noteAttack, noteRelease, c.rate),
		newTone(second, noteDuration, noteAttack, noteRelease, c.rate),
	), c.volume)
}
