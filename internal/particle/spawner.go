package particle

import (
	"math"
	"math/rand"
	"time"
)

const (
	// DefaultMaxDelta caps the frame time fed to the accumulator so that a
	// stalled frame cannot produce a burst of spawns on resume.
	DefaultMaxDelta = 50 * time.Millisecond
	// DefaultMaxAccumulated caps the fractional carry, in particles.
	DefaultMaxAccumulated = 3.0
)

// Canvas is the drawing surface the spawn geometry is derived from.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the canvas midpoint.
func (c Canvas) Center() (float64, float64) { return c.Width / 2, c.Height / 2 }

// Options configures a Spawner. Zero values select the defaults.
type Options struct {
	Canvas         Canvas
	MaxDelta       time.Duration
	MaxAccumulated float64
	Rand           *rand.Rand
}

// Emission is what the current emotion asks of the particle system.
type Emission struct {
	Behavior string
	Hint     string
	Rate     float64 // particles per second
	Min      int
	Max      int
}

// Plan is one frame's spawn decision.
type Plan struct {
	Count int    `json:"count"`
	Sites []Site `json:"sites,omitempty"`
}

// Spawner turns an emission rate into whole particles per frame. Its only
// state is the fractional accumulator carried between frames.
type Spawner struct {
	opts Options
	rng  *rand.Rand
	acc  float64
}

// NewSpawner returns a spawner with an empty accumulator.
func NewSpawner(opts Options) *Spawner {
	if opts.MaxDelta <= 0 {
		opts.MaxDelta = DefaultMaxDelta
	}
	if opts.MaxAccumulated <= 0 {
		opts.MaxAccumulated = DefaultMaxAccumulated
	}
	if opts.Canvas.Width <= 0 || opts.Canvas.Height <= 0 {
		opts.Canvas = Canvas{Width: 400, Height: 400}
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Spawner{opts: opts, rng: rng}
}

// Canvas returns the configured canvas.
func (s *Spawner) Canvas() Canvas { return s.opts.Canvas }

// Accumulated is the fractional particle count carried to the next frame.
func (s *Spawner) Accumulated() float64 { return s.acc }

// Reset drops the carried fraction.
func (s *Spawner) Reset() { s.acc = 0 }

// SpawnRate adds rate*dt to the accumulator and returns its whole part.
// dt is capped at MaxDelta and the accumulator at MaxAccumulated.
func (s *Spawner) SpawnRate(rate float64, dt time.Duration) int {
	if rate <= 0 || dt <= 0 {
		return 0
	}
	if dt > s.opts.MaxDelta {
		dt = s.opts.MaxDelta
	}
	s.acc += rate * dt.Seconds()
	if s.acc > s.opts.MaxAccumulated {
		s.acc = s.opts.MaxAccumulated
	}
	n := math.Floor(s.acc)
	s.acc -= n
	return int(n)
}

// SpawnPosition picks a spawn site for behavior on the given geometry.
func (s *Spawner) SpawnPosition(behavior string, cx, cy, width, height float64, hint string) Site {
	return SpawnPosition(s.rng, behavior, cx, cy, width, height, hint)
}

// Plan decides this frame's spawns. alive is the current population; the
// population is topped up to e.Min and never pushed past e.Max.
func (s *Spawner) Plan(e Emission, alive int, dt time.Duration) Plan {
	n := s.SpawnRate(e.Rate, dt)
	if alive < e.Min && n < e.Min-alive {
		n = e.Min - alive
	}
	if e.Max > 0 && alive+n > e.Max {
		n = e.Max - alive
	}
	if n <= 0 {
		return Plan{}
	}
	cx, cy := s.opts.Canvas.Center()
	p := Plan{Count: n, Sites: make([]Site, n)}
	for i := range p.Sites {
		p.Sites[i] = s.SpawnPosition(e.Behavior, cx, cy, s.opts.Canvas.Width, s.opts.Canvas.Height, e.Hint)
	}
	return p
}
