package render

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/funtimes-emotive/internal/transition"
)

// fallback is used when a property set carries an unparsable color.
var fallback = colorful.Color{R: 0.69, G: 0.69, B: 0.69}

// ParseColor reads a #RRGGBB color.
func ParseColor(hex string) (Color, bool) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fromColorful(fallback), false
	}
	return fromColorful(c), true
}

// Hex formats c as #rrggbb.
func (c Color) Hex() string {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}.Clamped().Hex()
}

func fromColorful(c colorful.Color) Color {
	return Color{R: float32(c.R), G: float32(c.G), B: float32(c.B)}
}

// Breath is the brightness factor of the breathing cycle at time t seconds.
// One breath lasts 4s/BreathRate and dims by at most BreathDepth.
func Breath(p transition.PropertySet, t float64) float64 {
	if p.BreathRate <= 0 || p.BreathDepth <= 0 {
		return 1
	}
	phase := 2 * math.Pi * t * p.BreathRate / 4
	return 1 - p.BreathDepth*0.5*(1-math.Cos(phase))
}

// Glow is the core color at time t: the primary color scaled by glow
// intensity and breath. Intensities above 1 push toward white in Luv space
// instead of clipping a single channel.
func Glow(p transition.PropertySet, t float64) Color {
	base, err := colorful.Hex(p.PrimaryColor)
	if err != nil {
		base = fallback
	}
	level := p.GlowIntensity * Breath(p, t)
	if level <= 1 {
		return scale(fromColorful(base), float32(math.Max(level, 0)))
	}
	over := math.Min(level-1, 1)
	return fromColorful(base.BlendLuv(colorful.Color{R: 1, G: 1, B: 1}, over*0.5).Clamped())
}

// Jitter is a deterministic per-pixel brightness wobble of amplitude amount.
func Jitter(amount, t float64, i int) float32 {
	if amount <= 0 {
		return 1
	}
	w := math.Sin(t*37.0+float64(i)*1.7) * math.Sin(t*11.0+float64(i)*0.9)
	return float32(1 + amount*0.5*w)
}

func scale(c Color, s float32) Color {
	return Color{R: c.R * s, G: c.G * s, B: c.B * s}
}
