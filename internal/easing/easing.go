package easing

import "math"

// Func maps linear progress in [0,1] to eased progress.
type Func func(x float64) float64

// BackOvershoot bounds how far the "back" curves travel past their end
// points. Interpolated values under back easing stay within
// start + (target-start)*BackOvershoot.
const BackOvershoot = 1.1

const backC1 = 1.70158

// Clamp01 clamps x in [0,1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Lerp interpolates between a and b; t=0 returns a, t=1 returns b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func Linear(x float64) float64 { return x }

// Smooth is the classic smoothstep 3x^2 - 2x^3.
func Smooth(x float64) float64 { return x * x * (3 - 2*x) }

// Smoother is 6x^5 - 15x^4 + 10x^3.
func Smoother(x float64) float64 { return x * x * x * (x*(x*6-15) + 10) }

func InQuad(x float64) float64  { return x * x }
func OutQuad(x float64) float64 { return 1 - (1-x)*(1-x) }

func InCubic(x float64) float64  { return x * x * x }
func OutCubic(x float64) float64 { return 1 - math.Pow(1-x, 3) }

func InOutCubic(x float64) float64 {
	if x < 0.5 {
		return 4 * x * x * x
	}
	return 1 - math.Pow(-2*x+2, 3)/2
}

func InSine(x float64) float64    { return 1 - math.Cos(x*math.Pi/2) }
func OutSine(x float64) float64   { return math.Sin(x * math.Pi / 2) }
func InOutSine(x float64) float64 { return -(math.Cos(math.Pi*x) - 1) / 2 }

func OutExpo(x float64) float64 {
	if x >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*x)
}

// OutBack overshoots the end point by roughly 10% before settling.
func OutBack(x float64) float64 {
	c3 := backC1 + 1
	return 1 + c3*math.Pow(x-1, 3) + backC1*math.Pow(x-1, 2)
}

var byName = map[string]Func{
	"linear":       Linear,
	"smooth":       Smooth,
	"cubic":        Smoother,
	"quad-in":      InQuad,
	"quad-out":     OutQuad,
	"cubic-in":     InCubic,
	"cubic-out":    OutCubic,
	"cubic-in-out": InOutCubic,
	"sine-in":      InSine,
	"sine-out":     OutSine,
	"sine-in-out":  InOutSine,
	"expo-out":     OutExpo,
	"back-out":     OutBack,
}

// Get looks up a curve by name. The empty name resolves to Linear.
func Get(name string) (Func, bool) {
	if name == "" {
		return Linear, true
	}
	f, ok := byName[name]
	return f, ok
}

// Overshoots reports whether the named curve leaves [0,1] for inputs in [0,1].
func Overshoots(name string) bool {
	return name == "back-out"
}

// Names lists the registered curve names.
func Names() []string {
	out := make([]string, 0, len(byName))
	for k := range byName {
		out = append(out, k)
	}
	return out
}

// Apply evaluates the named curve on clamped x, falling back to linear for unknown names.
func Apply(kind string, x float64) float64 {
	x = Clamp01(x)
	f, ok := Get(kind)
	if !ok {
		return x
	}
	return f(x)
}
