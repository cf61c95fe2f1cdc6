package render

import (
	"errors"
	"math"
	"time"
)

// DefaultPixels is the halo ring size: one core pixel plus the ring.
const DefaultPixels = 16

// accentDecay is how much of a gesture accent fades per second.
const accentDecay = 4.0

// accentGestures briefly push the halo toward white when played.
var accentGestures = map[string]bool{
	"flash":   true,
	"glow":    true,
	"sparkle": true,
	"shimmer": true,
	"flicker": true,
	"pulse":   true,
}

// Engine renders the halo for each frame, applies post-processing, then
// hands the frame to the driver.
type Engine struct {
	Drv Driver

	// Out is the last rendered buffer. Index 0 is the core.
	Out   []Color
	white []Color

	post   Post
	accent float64
	lastT  float64

	// metrics (last durations in ms)
	Last struct {
		RenderMS float64
		WriteMS  float64
	}
}

// NewEngine allocates buffers for n pixels.
func NewEngine(n int, drv Driver) (*Engine, error) {
	if n <= 0 {
		return nil, errors.New("invalid pixel count")
	}
	e := &Engine{
		Drv:   drv,
		Out:   make([]Color, n),
		white: make([]Color, n),
		post:  DefaultPost(),
	}
	for i := range e.white {
		e.white[i] = Color{1, 1, 1}
	}
	return e, nil
}

func (e *Engine) SetPost(p Post) { e.post = p }

func (e *Engine) Post() Post { return e.post }

// Accent returns the current gesture accent level in 0..1.
func (e *Engine) Accent() float64 { return e.accent }

// RenderOnce fills f.Pixels from f.State and writes f to the driver.
func (e *Engine) RenderOnce(f *Frame) error {
	start := time.Now()

	dt := f.T - e.lastT
	if dt < 0 {
		dt = 0
	}
	e.lastT = f.T
	e.accent = math.Max(0, e.accent-dt*accentDecay)
	for _, g := range f.Gestures {
		if accentGestures[g] {
			e.accent = 1
		}
	}

	props := f.State.Properties
	core := Glow(props, f.T)
	n := len(e.Out)
	e.Out[0] = core
	for i := 1; i < n; i++ {
		// ring falls off with eye openness widening the halo
		falloff := 0.35 + 0.45*math.Max(0, math.Min(props.EyeOpenness, 1))
		e.Out[i] = scale(core, float32(falloff)*Jitter(props.JitterAmount, f.T, i))
	}
	if e.accent > 0 {
		Mix(e.Out, e.Out, e.white, e.accent*0.6)
	}
	e.post.Apply(e.Out)

	f.Pixels = make([]Color, n)
	copy(f.Pixels, e.Out)
	e.Last.RenderMS = float64(time.Since(start).Microseconds()) / 1000.0

	if e.Drv == nil {
		return nil
	}
	ws := time.Now()
	err := e.Drv.Write(f)
	e.Last.WriteMS = float64(time.Since(ws).Microseconds()) / 1000.0
	return err
}
