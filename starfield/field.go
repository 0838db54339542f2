// Package starfield holds the data model and per-frame update policy of the
// starfield scene: particle generation, pointer and tilt tracking, the warm
// color theme and the animation driver that applies them once per frame.
package starfield

import (
	"fmt"
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/config"
	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// Particle is a single star of the field.
type Particle struct {
	Position      mgl32.Vec3
	Size          float32
	BaseOpacity   float32
	BaseColor     common.Color
	GlowIntensity float32
}

// Bucket is one weighted entry of the base color distribution.
type Bucket struct {
	Name   string
	Color  common.Color
	Weight float64
}

// FieldConfig holds the parsed generation parameters of a Field.
type FieldConfig struct {
	HalfWidth    float32
	SizeMin      float32
	SizeMax      float32
	OpacityMin   float32
	OpacityMax   float32
	GlowFraction float64
	GlowMin      float32
	GlowMax      float32
	Buckets      []Bucket
}

// NewFieldConfig converts the loaded configuration into generation parameters,
// parsing every bucket color.
//
// Parameters:
//   - c: the field section of the application configuration
//
// Returns:
//   - FieldConfig: the parsed parameters
//   - error: error if a bucket color cannot be parsed
func NewFieldConfig(c config.FieldConfig) (FieldConfig, error) {
	fc := FieldConfig{
		HalfWidth:    c.HalfWidth,
		SizeMin:      c.SizeMin,
		SizeMax:      c.SizeMax,
		OpacityMin:   c.OpacityMin,
		OpacityMax:   c.OpacityMax,
		GlowFraction: c.GlowFraction,
		GlowMin:      c.GlowMin,
		GlowMax:      c.GlowMax,
		Buckets:      make([]Bucket, 0, len(c.Buckets)),
	}
	for _, b := range c.Buckets {
		col, err := common.ParseHexColor(b.Color)
		if err != nil {
			return FieldConfig{}, fmt.Errorf("field bucket %q: %w", b.Name, err)
		}
		fc.Buckets = append(fc.Buckets, Bucket{Name: b.Name, Color: col, Weight: b.Weight})
	}
	return fc, nil
}

func (fc FieldConfig) pickColor(rng *rand.Rand) common.Color {
	total := 0.0
	for _, b := range fc.Buckets {
		total += b.Weight
	}
	if total <= 0 {
		return common.Color{R: 1, G: 1, B: 1}
	}
	r := rng.Float64() * total
	for _, b := range fc.Buckets {
		if r < b.Weight {
			return b.Color
		}
		r -= b.Weight
	}
	return fc.Buckets[len(fc.Buckets)-1].Color
}

// Field is the fixed-size particle cloud together with the attribute buffers
// a render sink consumes. The displayed colors and the glow buffer are always
// rewritten together and share one revision counter.
//
// A Field is owned by the frame loop and is not safe for concurrent use.
type Field struct {
	particles []Particle

	positions []mgl32.Vec3
	sizes     []float32
	opacities []float32
	original  []common.Color
	colors    []common.Color
	glow      []float32
	revision  uint64
}

var _ model.PointSource = &Field{}

// Generate builds a field of count particles. Positions are uniform in the
// cube [-HalfWidth, HalfWidth]^3, sizes and opacities uniform in their ranges,
// base colors drawn from the weighted buckets and roughly GlowFraction of the
// particles flagged as glowing.
//
// Parameters:
//   - rng: the random source
//   - count: number of particles; negative values produce an empty field
//   - cfg: the generation parameters
//
// Returns:
//   - *Field: the generated field
func Generate(rng *rand.Rand, count int, cfg FieldConfig) *Field {
	count = max(count, 0)
	f := &Field{
		particles: make([]Particle, count),
		positions: make([]mgl32.Vec3, count),
		sizes:     make([]float32, count),
		opacities: make([]float32, count),
		original:  make([]common.Color, count),
		colors:    make([]common.Color, count),
		glow:      make([]float32, count),
	}

	hw := cfg.HalfWidth
	for i := range f.particles {
		p := Particle{
			Position: mgl32.Vec3{
				uniform(rng, -hw, hw),
				uniform(rng, -hw, hw),
				uniform(rng, -hw, hw),
			},
			Size:        uniform(rng, cfg.SizeMin, cfg.SizeMax),
			BaseOpacity: uniform(rng, cfg.OpacityMin, cfg.OpacityMax),
			BaseColor:   cfg.pickColor(rng),
		}
		if rng.Float64() < cfg.GlowFraction {
			p.GlowIntensity = uniform(rng, cfg.GlowMin, cfg.GlowMax)
		}

		f.particles[i] = p
		f.positions[i] = p.Position
		f.sizes[i] = p.Size
		f.opacities[i] = p.BaseOpacity
		f.original[i] = p.BaseColor
	}
	f.applyColors(f.original)
	return f
}

func uniform(rng *rand.Rand, lo, hi float32) float32 {
	return lo + rng.Float32()*(hi-lo)
}

// applyColors rewrites the displayed colors from src and re-applies the glow
// buffer, bumping the revision once.
func (f *Field) applyColors(src []common.Color) {
	copy(f.colors, src)
	for i := range f.particles {
		f.glow[i] = f.particles[i].GlowIntensity
	}
	f.revision++
}

// Particles returns the generated particles. Callers must not modify them.
func (f *Field) Particles() []Particle {
	return f.particles
}

// OriginalColors returns the retained base colors.
func (f *Field) OriginalColors() []common.Color {
	return f.original
}

// Len returns the number of particles.
func (f *Field) Len() int {
	return len(f.particles)
}

// Positions returns the particle positions in field space.
func (f *Field) Positions() []mgl32.Vec3 {
	return f.positions
}

// Sizes returns the per-particle point sizes.
func (f *Field) Sizes() []float32 {
	return f.sizes
}

// Opacities returns the per-particle base opacities.
func (f *Field) Opacities() []float32 {
	return f.opacities
}

// Colors returns the displayed colors, which change with the theme.
func (f *Field) Colors() []common.Color {
	return f.colors
}

// Glow returns each particle's pulse strength, zero for particles that do not glow.
func (f *Field) Glow() []float32 {
	return f.glow
}

// Revision returns a counter bumped whenever the displayed colors change.
func (f *Field) Revision() uint64 {
	return f.revision
}
