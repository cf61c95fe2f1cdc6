// Package emotive owns the mascot's emotional state: the primary emotion
// and its timed transition, the undertone layered on top of it, and a small
// set of weighted secondary emotion slots.
package emotive

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-emotive/internal/catalog"
	"github.com/coreman2200/funtimes-emotive/internal/easing"
	"github.com/coreman2200/funtimes-emotive/internal/transition"
)

const (
	DefaultDuration = time.Second
	DefaultEasing   = "cubic-out"
	DefaultMaxSlots = 4
)

// Options configures a Machine. Zero values select the defaults above.
type Options struct {
	Catalog         *catalog.Catalog
	Duration        time.Duration
	Easing          string
	MaxSlots        int
	SlotDecayPerSec float64
	Log             zerolog.Logger
}

// EmotionOptions qualifies a SetEmotion call. A zero Duration uses the
// machine default; a zero Intensity means full intensity. An empty
// Undertone clears any active undertone.
type EmotionOptions struct {
	Undertone string
	Duration  time.Duration
	Intensity float64
}

// ResolvedState is the machine's output for one frame.
type ResolvedState struct {
	Emotion            string                 `json:"emotion"`
	Dominant           string                 `json:"dominant"`
	Undertone          string                 `json:"undertone,omitempty"`
	IsTransitioning    bool                   `json:"isTransitioning"`
	TransitionProgress float64                `json:"transitionProgress"`
	Properties         transition.PropertySet `json:"properties"`
}

// Machine is the emotive state machine. It is not safe for concurrent use;
// the frame loop that calls Update owns it.
type Machine struct {
	cat  *catalog.Catalog
	opts Options
	ease easing.Func
	log  zerolog.Logger

	emotion   string
	undertone *catalog.Undertone

	base     transition.PropertySet // interpolated, before undertone
	target   transition.PropertySet
	active   *transition.Transition
	resolved transition.PropertySet

	slots   []Slot
	slotSeq uint64
}

// New creates a machine resting at the catalog's neutral emotion.
func New(opts Options) *Machine {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Easing == "" {
		opts.Easing = DefaultEasing
	}
	if opts.MaxSlots <= 0 {
		opts.MaxSlots = DefaultMaxSlots
	}
	ease, ok := easing.Get(opts.Easing)
	if !ok {
		opts.Log.Warn().Str("easing", opts.Easing).Msg("unknown easing; using linear")
		ease = easing.Linear
	}
	m := &Machine{
		cat:     opts.Catalog,
		opts:    opts,
		ease:    ease,
		log:     opts.Log,
		emotion: catalog.Neutral,
	}
	m.base = transition.FromRecord(m.cat.Neutral())
	m.target = m.base.Clone()
	m.resolve()
	return m
}

// Catalog returns the catalog currently in use.
func (m *Machine) Catalog() *catalog.Catalog { return m.cat }

// SetCatalog swaps the catalog. The running transition and current values
// are kept; new lookups use the new catalog.
func (m *Machine) SetCatalog(c *catalog.Catalog) {
	if c == nil {
		return
	}
	m.cat = c
	if m.undertone != nil {
		if u, ok := c.Undertone(m.undertone.Name); ok {
			m.undertone = &u
		}
	}
	m.resolve()
}

// SetEmotion starts a timed transition from the current values toward the
// named emotion. It returns false and leaves the machine untouched when the
// emotion or undertone name is unknown.
func (m *Machine) SetEmotion(name string, o EmotionOptions) bool {
	rec, ok := m.cat.Lookup(name)
	if !ok {
		m.log.Warn().Str("emotion", name).Msg("unknown emotion")
		return false
	}
	u, ok := m.lookupUndertone(o.Undertone)
	if !ok {
		m.log.Warn().Str("undertone", o.Undertone).Msg("unknown undertone")
		return false
	}
	d := o.Duration
	if d <= 0 {
		d = m.opts.Duration
	}
	m.emotion = rec.Name
	m.undertone = u
	m.target = m.targetFor(rec, o.Intensity)
	m.active = transition.New(m.base, m.target, d, m.ease)
	m.resolve()
	m.log.Debug().Str("emotion", rec.Name).Dur("duration", d).Msg("emotion transition started")
	return true
}

// SnapEmotion jumps straight to the named emotion without a transition.
// Used when reconstructing state, where replaying a timed blend is wrong.
func (m *Machine) SnapEmotion(name string, undertone string) bool {
	rec, ok := m.cat.Lookup(name)
	if !ok {
		return false
	}
	u, ok := m.lookupUndertone(undertone)
	if !ok {
		return false
	}
	m.emotion = rec.Name
	m.undertone = u
	m.target = transition.FromRecord(rec)
	m.base = m.target.Clone()
	m.active = nil
	m.resolve()
	return true
}

// SetUndertone changes the undertone without restarting the transition.
// "" and "none" clear it.
func (m *Machine) SetUndertone(name string) bool {
	u, ok := m.lookupUndertone(name)
	if !ok {
		m.log.Warn().Str("undertone", name).Msg("unknown undertone")
		return false
	}
	m.undertone = u
	m.resolve()
	return true
}

// ClearUndertone removes the active undertone.
func (m *Machine) ClearUndertone() {
	m.undertone = nil
	m.resolve()
}

func (m *Machine) lookupUndertone(name string) (*catalog.Undertone, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" || n == "none" {
		return nil, true
	}
	u, ok := m.cat.Undertone(n)
	if !ok {
		return nil, false
	}
	return &u, true
}

// targetFor blends from neutral toward rec by intensity.
func (m *Machine) targetFor(rec catalog.Record, intensity float64) transition.PropertySet {
	full := transition.FromRecord(rec)
	if intensity <= 0 || intensity >= 1 {
		return full
	}
	neutral := transition.FromRecord(m.cat.Neutral())
	return transition.Lerp(neutral, full, intensity, true)
}

// Update advances the machine by dt. Transition progress is applied first,
// then the undertone is re-derived from the new base values, then slot
// intensities are resolved. Calling it with dt == 0 only re-resolves.
func (m *Machine) Update(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	if m.active != nil {
		m.active.Advance(dt)
		if m.active.Done() {
			m.base = m.target.Clone()
			m.active = nil
		} else {
			m.base = m.active.Current()
		}
	}
	m.resolve()
	m.decaySlots(dt)
}

func (m *Machine) resolve() {
	m.resolved = ApplyUndertone(m.base, m.undertone)
}

// ApplyUndertone layers u onto p. A nil undertone returns a copy of p.
func ApplyUndertone(p transition.PropertySet, u *catalog.Undertone) transition.PropertySet {
	out := p.Clone()
	if u == nil {
		return out
	}
	out.BreathRate *= u.BreathFactor()
	out.GlowIntensity *= u.GlowFactor()
	out.ParticleRate *= u.ParticleFactor()
	out.JitterAmount += u.Jitter()
	return out
}

// State returns a copy of the resolved state.
func (m *Machine) State() ResolvedState {
	s := ResolvedState{
		Emotion:            m.emotion,
		Dominant:           m.Dominant(),
		IsTransitioning:    m.active != nil,
		TransitionProgress: 1,
		Properties:         m.resolved.Clone(),
	}
	if m.active != nil {
		s.TransitionProgress = m.active.Progress()
	}
	if m.undertone != nil {
		s.Undertone = m.undertone.Name
	}
	return s
}

// Properties returns the resolved property set for this frame.
func (m *Machine) Properties() transition.PropertySet { return m.resolved.Clone() }

// Emotion is the current primary emotion.
func (m *Machine) Emotion() string { return m.emotion }

// Behavior is the particle behavior currently in effect.
func (m *Machine) Behavior() string { return m.resolved.ParticleBehavior }
