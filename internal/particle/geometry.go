package particle

import (
	"math"
	"math/rand"
)

// Behavior names the motion model a particle is spawned with.
type Behavior string

const (
	Ambient    Behavior = "ambient"
	Resting    Behavior = "resting"
	Rising     Behavior = "rising"
	Ascending  Behavior = "ascending"
	Falling    Behavior = "falling"
	Cascading  Behavior = "cascading"
	Aggressive Behavior = "aggressive"
	Scattering Behavior = "scattering"
	Burst      Behavior = "burst"
	Popcorn    Behavior = "popcorn"
	Radiant    Behavior = "radiant"
	Repelling  Behavior = "repelling"
	Orbiting   Behavior = "orbiting"
	Connecting Behavior = "connecting"
	Directed   Behavior = "directed"
	Fizzy      Behavior = "fizzy"
	Glitchy    Behavior = "glitchy"
	Spaz       Behavior = "spaz"
	Erratic    Behavior = "erratic"
)

// Site is where one particle appears and, for directional behaviors, the
// heading it is emitted along (radians, screen coordinates, y down).
type Site struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Angle    float64 `json:"angle,omitempty"`
	HasAngle bool    `json:"hasAngle,omitempty"`
}

type heading int

const (
	headingNone heading = iota
	headingOutward
	headingInward
	headingTangent
	headingUp
	headingDown
	headingRight
	headingRandom
)

type arc int

const (
	arcFull arc = iota
	arcLower
	arcUpper
)

// band is a radius range in base units.
type band struct {
	inner, outer float64
	arc          arc
	heading      heading
}

var bands = map[Behavior]band{
	Ambient:    {1.0, 1.6, arcFull, headingNone},
	Resting:    {0.8, 1.2, arcFull, headingNone},
	Rising:     {0.6, 1.2, arcLower, headingUp},
	Ascending:  {0.6, 1.2, arcLower, headingUp},
	Fizzy:      {0.5, 1.0, arcLower, headingUp},
	Falling:    {0.6, 1.2, arcUpper, headingDown},
	Cascading:  {0.8, 1.4, arcUpper, headingDown},
	Aggressive: {0.9, 1.3, arcFull, headingOutward},
	Scattering: {0.2, 0.6, arcFull, headingOutward},
	Burst:      {0.0, 0.3, arcFull, headingOutward},
	Popcorn:    {0.0, 0.3, arcFull, headingOutward},
	Radiant:    {0.0, 0.3, arcFull, headingOutward},
	Repelling:  {1.2, 2.0, arcFull, headingOutward},
	Orbiting:   {1.4, 1.6, arcFull, headingTangent},
	Connecting: {1.5, 3.0, arcFull, headingInward},
	Directed:   {0.2, 0.4, arcFull, headingRight},
	Glitchy:    {0.0, 2.5, arcFull, headingNone},
	Spaz:       {0.0, 3.0, arcFull, headingRandom},
	Erratic:    {0.0, 3.0, arcFull, headingRandom},
}

// hintScale widens or tightens a band for particular emotions.
var hintScale = map[string]float64{
	"suspicion": 0.7,
	"resting":   0.8,
	"excited":   1.25,
	"anger":     1.1,
}

// Known reports whether behavior has a spawn band.
func Known(behavior string) bool {
	_, ok := bands[Behavior(behavior)]
	return ok
}

// BaseUnit is the canvas-derived length every radius band is measured in.
func BaseUnit(width, height float64) float64 {
	return math.Min(width, height) / 10
}

// RadiusBand returns the [inner, outer] spawn radius for behavior in
// pixels, or ok=false for behaviors that spawn at the exact center.
func RadiusBand(behavior string, width, height float64, hint string) (inner, outer float64, ok bool) {
	b, ok := bands[Behavior(behavior)]
	if !ok {
		return 0, 0, false
	}
	u := BaseUnit(width, height)
	if s, ok := hintScale[hint]; ok {
		u *= s
	}
	return b.inner * u, b.outer * u, true
}

// SpawnPosition picks a spawn site around (cx, cy) for behavior. Unknown
// behaviors spawn at the exact center with no heading.
func SpawnPosition(rng *rand.Rand, behavior string, cx, cy, width, height float64, hint string) Site {
	b, ok := bands[Behavior(behavior)]
	if !ok {
		return Site{X: cx, Y: cy}
	}
	inner, outer, _ := RadiusBand(behavior, width, height, hint)
	r := inner + rng.Float64()*(outer-inner)

	var theta float64
	switch b.arc {
	case arcLower:
		theta = rng.Float64() * math.Pi
	case arcUpper:
		theta = math.Pi + rng.Float64()*math.Pi
	default:
		theta = rng.Float64() * 2 * math.Pi
	}
	site := Site{X: cx + math.Cos(theta)*r, Y: cy + math.Sin(theta)*r, HasAngle: true}

	switch b.heading {
	case headingOutward:
		site.Angle = theta
	case headingInward:
		site.Angle = math.Mod(theta+math.Pi, 2*math.Pi)
	case headingTangent:
		site.Angle = math.Mod(theta+math.Pi/2, 2*math.Pi)
	case headingUp:
		site.Angle = -math.Pi / 2
	case headingDown:
		site.Angle = math.Pi / 2
	case headingRight:
		site.Angle = 0
	case headingRandom:
		site.Angle = rng.Float64() * 2 * math.Pi
	default:
		site.HasAngle = false
	}
	return site
}
