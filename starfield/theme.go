package starfield

import (
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"go.uber.org/zap"
)

// Theme flips the field between its base colors and the warm palette.
type Theme struct {
	active   bool
	palette  *WarmPalette
	rng      *rand.Rand
	logger   *zap.Logger
	onToggle []func(active bool)
	scratch  []common.Color
}

// ThemeBuilderOption configures a Theme.
type ThemeBuilderOption func(*Theme)

// WithThemeLogger sets the logger used to report toggles.
func WithThemeLogger(logger *zap.Logger) ThemeBuilderOption {
	return func(t *Theme) {
		t.logger = logger.Named("theme")
	}
}

// WithToggleListener registers a function called after every toggle with the new state.
func WithToggleListener(fn func(active bool)) ThemeBuilderOption {
	return func(t *Theme) {
		t.onToggle = append(t.onToggle, fn)
	}
}

// NewTheme creates an inactive theme drawing warm colors from palette.
//
// Parameters:
//   - palette: the warm palette
//   - rng: the random source used for warm colors
//   - options: functional options
//
// Returns:
//   - *Theme: the theme
func NewTheme(palette *WarmPalette, rng *rand.Rand, options ...ThemeBuilderOption) *Theme {
	t := &Theme{
		palette: palette,
		rng:     rng,
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// Active reports whether the warm palette is displayed.
func (t *Theme) Active() bool {
	return t.active
}

// Toggle flips the theme and rewrites every displayed color of field. Warm
// colors are drawn fresh on each activation; deactivation restores the
// retained base colors exactly. Glow values are re-applied unchanged.
//
// Parameters:
//   - field: the field to recolor
//
// Returns:
//   - bool: the new state
func (t *Theme) Toggle(field *Field) bool {
	t.active = !t.active

	if t.active {
		if cap(t.scratch) < field.Len() {
			t.scratch = make([]common.Color, field.Len())
		}
		t.scratch = t.scratch[:field.Len()]
		for i := range t.scratch {
			t.scratch[i] = t.palette.Sample(t.rng)
		}
		field.applyColors(t.scratch)
	} else {
		field.applyColors(field.original)
	}

	t.logger.Info("theme toggled",
		zap.Bool("warm", t.active),
		zap.Int("particles", field.Len()),
		zap.Uint64("revision", field.Revision()))
	for _, fn := range t.onToggle {
		fn(t.active)
	}
	return t.active
}
