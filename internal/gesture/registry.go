package gesture

import "strings"

// Kind is a gesture from the closed registry. Names that are not
// registered parse to Unknown.
type Kind int

const (
	Unknown Kind = iota
	Bounce
	Pulse
	Shake
	Spin
	Nod
	Tilt
	Expand
	Contract
	Flash
	Drift
	Wave
	Jump
	Sway
	Float
	Wiggle
	Glow
	Flicker
	Breathe
	Stretch
	Sparkle
	Shimmer
	Groove
	Point
	Lean
	Reach
	HeadBob
	Orbital
	Twist
	Shiver
	Hold
	Morph
	Settle
	Rain
	Fade
	kindCount
)

var kindNames = [kindCount]string{
	Unknown:  "unknown",
	Bounce:   "bounce",
	Pulse:    "pulse",
	Shake:    "shake",
	Spin:     "spin",
	Nod:      "nod",
	Tilt:     "tilt",
	Expand:   "expand",
	Contract: "contract",
	Flash:    "flash",
	Drift:    "drift",
	Wave:     "wave",
	Jump:     "jump",
	Sway:     "sway",
	Float:    "float",
	Wiggle:   "wiggle",
	Glow:     "glow",
	Flicker:  "flicker",
	Breathe:  "breathe",
	Stretch:  "stretch",
	Sparkle:  "sparkle",
	Shimmer:  "shimmer",
	Groove:   "groove",
	Point:    "point",
	Lean:     "lean",
	Reach:    "reach",
	HeadBob:  "headbob",
	Orbital:  "orbital",
	Twist:    "twist",
	Shiver:   "shiver",
	Hold:     "hold",
	Morph:    "morph",
	Settle:   "settle",
	Rain:     "rain",
	Fade:     "fade",
}

var byName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := Kind(1); k < kindCount; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

func (k Kind) String() string {
	if k <= Unknown || k >= kindCount {
		return kindNames[Unknown]
	}
	return kindNames[k]
}

// Valid reports whether k is a registered gesture.
func (k Kind) Valid() bool { return k > Unknown && k < kindCount }

// Parse resolves a gesture name case-insensitively.
func Parse(name string) Kind {
	if k, ok := byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k
	}
	return Unknown
}

// Kinds lists every registered gesture in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := Kind(1); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}
