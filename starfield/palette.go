package starfield

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/config"
	"github.com/lucasb-eyer/go-colorful"
)

// WarmBand is a weighted hue range sampled in HSV space.
// Hues are in degrees and may exceed 360 to wrap through red.
type WarmBand struct {
	Name       string
	HueMin     float64
	HueMax     float64
	Saturation float64
	Value      float64
	Weight     float64
}

// WarmPalette draws colors from a set of weighted hue bands.
type WarmPalette struct {
	bands []WarmBand
	total float64
}

// NewWarmPalette builds the palette from the theme section of the configuration.
//
// Parameters:
//   - c: the theme configuration
//
// Returns:
//   - *WarmPalette: the palette
//   - error: error if no band carries positive weight
func NewWarmPalette(c config.ThemeConfig) (*WarmPalette, error) {
	p := &WarmPalette{bands: make([]WarmBand, 0, len(c.Bands))}
	for _, b := range c.Bands {
		p.bands = append(p.bands, WarmBand{
			Name:       b.Name,
			HueMin:     b.HueMin,
			HueMax:     b.HueMax,
			Saturation: b.Saturation,
			Value:      b.Value,
			Weight:     b.Weight,
		})
		p.total += b.Weight
	}
	if p.total <= 0 {
		return nil, errors.New("warm palette needs at least one band with positive weight")
	}
	return p, nil
}

// Bands returns the palette bands.
func (p *WarmPalette) Bands() []WarmBand {
	return p.bands
}

// Sample draws one color: a band by weight, then a hue uniformly inside it.
func (p *WarmPalette) Sample(rng *rand.Rand) common.Color {
	b := p.pickBand(rng)
	hue := b.HueMin + rng.Float64()*(b.HueMax-b.HueMin)
	return common.FromColorful(colorful.Hsv(math.Mod(hue, 360), b.Saturation, b.Value))
}

func (p *WarmPalette) pickBand(rng *rand.Rand) WarmBand {
	r := rng.Float64() * p.total
	for _, b := range p.bands {
		if r < b.Weight {
			return b
		}
		r -= b.Weight
	}
	return p.bands[len(p.bands)-1]
}
