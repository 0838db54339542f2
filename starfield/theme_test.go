package starfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/config"
)

func testPalette(t *testing.T) *WarmPalette {
	t.Helper()
	p, err := NewWarmPalette(config.NewDefaultConfig().Theme)
	require.NoError(t, err)
	return p
}

func TestTheme_ToggleTwiceRestoresColors(t *testing.T) {
	f := Generate(testRNG(), 2000, testFieldConfig(t))
	before := append([]common.Color(nil), f.Colors()...)
	glow := append([]float32(nil), f.Glow()...)

	var states []bool
	theme := NewTheme(testPalette(t), testRNG(), WithToggleListener(func(active bool) {
		states = append(states, active)
	}))

	require.True(t, theme.Toggle(f))
	assert.True(t, theme.Active())
	assert.NotEqual(t, before, f.Colors())
	assert.Equal(t, glow, f.Glow())
	assert.Equal(t, uint64(2), f.Revision())

	require.False(t, theme.Toggle(f))
	assert.Equal(t, before, f.Colors())
	assert.Equal(t, glow, f.Glow())
	assert.Equal(t, uint64(3), f.Revision())

	assert.Equal(t, []bool{true, false}, states)
}

func TestTheme_WarmColorsAreFreshEachActivation(t *testing.T) {
	f := Generate(testRNG(), 500, testFieldConfig(t))
	theme := NewTheme(testPalette(t), testRNG())

	theme.Toggle(f)
	first := append([]common.Color(nil), f.Colors()...)
	theme.Toggle(f)
	theme.Toggle(f)

	assert.NotEqual(t, first, f.Colors())
}

func TestWarmPalette_SampleInBands(t *testing.T) {
	p := testPalette(t)
	rng := testRNG()

	for range 1000 {
		c := p.Sample(rng)
		h, s, v := c.Colorful().Hsv()
		assert.True(t, h >= 345 || h <= 60, "hue %f outside the warm bands", h)
		assert.GreaterOrEqual(t, s, 0.74)
		assert.InDelta(t, 1.0, v, 0.01)
	}
}

func TestNewWarmPalette_RequiresWeight(t *testing.T) {
	_, err := NewWarmPalette(config.ThemeConfig{Bands: []config.BandConfig{{Name: "x", Weight: 0}}})
	assert.Error(t, err)
}
