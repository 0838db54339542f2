// package common contains plain data types and helpers shared across the engine
// and the starfield scene. They are not interface-wrapped structs.
package common

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGB triple with components in [0, 1].
type Color struct {
	R, G, B float32
}

// ParseHexColor parses a "#rrggbb" string into a Color.
//
// Parameters:
//   - hex: the color in hex notation
//
// Returns:
//   - Color: the parsed color
//   - error: error if the string is not a valid hex color
func ParseHexColor(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return FromColorful(c), nil
}

// FromColorful converts a go-colorful color into a clamped Color.
func FromColorful(c colorful.Color) Color {
	c = c.Clamped()
	return Color{R: float32(c.R), G: float32(c.G), B: float32(c.B)}
}

// Colorful converts the color into a go-colorful color for blending and conversion.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}

// Scale multiplies every component by f and clamps the result to [0, 1].
func (c Color) Scale(f float32) Color {
	return Color{
		R: Clamp(c.R*f, 0, 1),
		G: Clamp(c.G*f, 0, 1),
		B: Clamp(c.B*f, 0, 1),
	}
}

// Array returns the color as a [3]float32 for GPU layouts.
func (c Color) Array() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// RGB8 returns the color as 8-bit channel values.
func (c Color) RGB8() (r, g, b int32) {
	return int32(Clamp(c.R, 0, 1)*255 + 0.5), int32(Clamp(c.G, 0, 1)*255 + 0.5), int32(Clamp(c.B, 0, 1)*255 + 0.5)
}
