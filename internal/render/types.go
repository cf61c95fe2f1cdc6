// Package render turns the resolved emotional state into a frame: a small
// ring of glow pixels around the mascot core plus the state snapshot and
// spawn plan a visual client needs.
package render

import (
	"github.com/coreman2200/funtimes-emotive/internal/emotive"
	"github.com/coreman2200/funtimes-emotive/internal/particle"
)

// Color is linear RGB in 0..1.
type Color struct{ R, G, B float32 }

// Frame is everything produced for one animation tick.
type Frame struct {
	ID        uint64                 `json:"id"`
	T         float64                `json:"t"` // seconds since start
	State     emotive.ResolvedState  `json:"state"`
	Emotional emotive.EmotionalState `json:"emotional"`
	Shape     string                 `json:"shape,omitempty"`
	Gestures  []string               `json:"gestures,omitempty"` // played since the previous frame
	Spawn     particle.Plan          `json:"spawn"`
	Pixels    []Color                `json:"-"`
}

// Driver consumes finished frames (websocket fan-out, terminal, log).
type Driver interface {
	Write(f *Frame) error
}

// Drivers fans a frame out to several drivers. The first error wins but
// every driver still receives the frame.
type Drivers []Driver

func (ds Drivers) Write(f *Frame) error {
	var first error
	for _, d := range ds {
		if d == nil {
			continue
		}
		if err := d.Write(f); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RGB packs pixels into 8-bit triplets.
func RGB(px []Color) []byte {
	out := make([]byte, len(px)*3)
	for i, c := range px {
		out[i*3+0] = to8(c.R)
		out[i*3+1] = to8(c.G)
		out[i*3+2] = to8(c.B)
	}
	return out
}

func to8(x float32) byte {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return byte(x*255.0 + 0.5)
}
