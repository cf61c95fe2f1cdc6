// Package app wires the emotive core together and drives it one frame at a time.
package app

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-emotive/internal/catalog"
	"github.com/coreman2200/funtimes-emotive/internal/config"
	"github.com/coreman2200/funtimes-emotive/internal/diagnostics"
	"github.com/coreman2200/funtimes-emotive/internal/emotive"
	"github.com/coreman2200/funtimes-emotive/internal/gesture"
	"github.com/coreman2200/funtimes-emotive/internal/particle"
	"github.com/coreman2200/funtimes-emotive/internal/render"
	"github.com/coreman2200/funtimes-emotive/internal/sched"
	"github.com/coreman2200/funtimes-emotive/internal/tests"
	"github.com/coreman2200/funtimes-emotive/internal/timeline"
)

// ParticleLifetime is how long a spawned particle counts toward the population.
const ParticleLifetime = 2 * time.Second

// Shapes are the morph targets clients may select.
var Shapes = []string{"circle", "heart", "star", "sun", "moon", "eclipse", "square", "triangle"}

type Options struct {
	Config  *config.Config
	Catalog *catalog.Catalog // nil = load Config.CatalogPath or the embedded default
	Store   *timeline.Store  // nil = memory only
	Driver  render.Driver
	Pixels  int
	Log     zerolog.Logger
	// OnDiag receives diagnostics raised by the core. It is called with
	// the core lock held and must not call back into the core.
	OnDiag func(diagnostics.Diagnostic)
}

// Status is a cheap summary for health checks.
type Status struct {
	FrameID   uint64 `json:"frame_id"`
	Emotion   string `json:"emotion"`
	Undertone string `json:"undertone,omitempty"`
	Shape     string `json:"shape,omitempty"`
	Recording bool   `json:"recording"`
	Playing   bool   `json:"playing"`
	Particles int    `json:"particles"`
	SelfTest  string `json:"self_test,omitempty"`
}

// Core owns every stateful component. All of them are single-threaded, so
// public methods take mu; callbacks fired from the queue run inside Step
// with mu already held and use the unlocked variants.
type Core struct {
	mu sync.Mutex

	cfg      *config.Config
	log      zerolog.Logger
	queue    *sched.Queue
	machine  *emotive.Machine
	spawner  *particle.Spawner
	gestures *gesture.Controller
	rec      *timeline.Recorder
	store    *timeline.Store
	eng      *render.Engine
	onDiag   func(diagnostics.Diagnostic)

	shape   string
	played  []string
	expiry  []time.Duration
	frameID uint64
	runner  *tests.Runner
}

// NewCore builds the core from config.
func NewCore(o Options) (*Core, error) {
	cfg := o.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cat := o.Catalog
	if cat == nil {
		var err error
		if cfg.CatalogPath == "" {
			cat = catalog.Default()
		} else if cat, err = catalog.Load(cfg.CatalogPath); err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}
	store := o.Store
	if store == nil {
		store = timeline.NewStore(nil)
	}
	if o.Pixels <= 0 {
		o.Pixels = render.DefaultPixels
	}
	eng, err := render.NewEngine(o.Pixels, o.Driver)
	if err != nil {
		return nil, err
	}
	seed := cfg.Particles.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	c := &Core{
		cfg:    cfg,
		log:    o.Log,
		queue:  sched.NewQueue(),
		store:  store,
		eng:    eng,
		onDiag: o.OnDiag,
	}
	c.machine = emotive.New(emotive.Options{
		Catalog:         cat,
		Duration:        time.Duration(cfg.Transition.DurationMs) * time.Millisecond,
		Easing:          cfg.Transition.Easing,
		MaxSlots:        cfg.Slots.Max,
		SlotDecayPerSec: cfg.Slots.DecayPerSec,
		Log:             o.Log.With().Str("component", "emotive").Logger(),
	})
	c.spawner = particle.NewSpawner(particle.Options{
		Canvas:         particle.Canvas{Width: cfg.Particles.Width, Height: cfg.Particles.Height},
		MaxDelta:       time.Duration(cfg.Particles.MaxDeltaMs) * time.Millisecond,
		MaxAccumulated: cfg.Particles.MaxAccumulated,
		Rand:           rand.New(rand.NewSource(seed)),
	})
	c.rec = timeline.NewRecorder(c.queue, timeline.Hooks{
		Gesture: func(name string) { c.gestures.Trigger(name) },
		Emotion: func(name string) { c.setEmotion(name, emotive.EmotionOptions{}) },
		Shape:   func(name string) { c.setShape(name) },
		SnapEmotion: func(name string) {
			c.machine.SnapEmotion(name, c.machine.State().Undertone)
		},
		SnapShape: func(name string) { c.snapShape(name) },
		PlaybackDone: func() {
			c.diag(diagnostics.New(diagnostics.Info, diagnostics.TimelineLoaded, "playback finished"))
		},
	}, o.Log.With().Str("component", "timeline").Logger())
	c.gestures = gesture.NewController(gesture.Options{
		Player:        gesture.PlayerFunc(func(k gesture.Kind) { c.played = append(c.played, k.String()) }),
		Scheduler:     c.queue,
		Recorder:      c.rec,
		Chains:        cfg.Gestures.Chains,
		GroupInterval: time.Duration(cfg.Gestures.GroupIntervalMs) * time.Millisecond,
		BeatGesture:   cfg.Rhythm.BeatGesture,
		Log:           o.Log.With().Str("component", "gesture").Logger(),
	})
	return c, nil
}

func (c *Core) diag(d diagnostics.Diagnostic) {
	if c.onDiag != nil {
		c.onDiag(d)
	}
}

// Config returns the config the core was built with.
func (c *Core) Config() *config.Config { return c.cfg }

// SetEmotion starts a transition and records it when recording.
func (c *Core) SetEmotion(name string, o emotive.EmotionOptions) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setEmotion(name, o)
}

func (c *Core) setEmotion(name string, o emotive.EmotionOptions) bool {
	if !c.machine.SetEmotion(name, o) {
		return false
	}
	if c.rec.IsRecording() {
		c.rec.Record(timeline.EmotionEvent, c.machine.Emotion())
	}
	return true
}

func (c *Core) SetUndertone(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.SetUndertone(name)
}

func (c *Core) TriggerGesture(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gestures.Trigger(name)
}

// TriggerGestureAt plays a gesture now but records it at the given offset
// from recording start.
func (c *Core) TriggerGestureAt(name string, atMs int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gestures.TriggerAt(name, time.Duration(atMs)*time.Millisecond)
}

func (c *Core) Chain(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gestures.Chain(name)
}

// StopChains cancels chain groups that have not fired yet.
func (c *Core) StopChains() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gestures.Stop()
}

func (c *Core) Beat() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gestures.Beat()
}

// SetShape selects a morph target and records it when recording.
func (c *Core) SetShape(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setShape(name)
}

func (c *Core) setShape(name string) bool {
	if strings.TrimSpace(name) == "" || !c.snapShape(name) {
		c.log.Warn().Str("shape", name).Msg("unknown shape")
		return false
	}
	if c.rec.IsRecording() {
		c.rec.Record(timeline.ShapeEvent, c.shape)
	}
	return true
}

// snapShape applies a shape without recording it. An empty name clears it.
func (c *Core) snapShape(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		c.shape = ""
		return true
	}
	i := sort.SearchStrings(sortedShapes, n)
	if i == len(sortedShapes) || sortedShapes[i] != n {
		return false
	}
	c.shape = n
	return true
}

var sortedShapes = func() []string {
	s := append([]string(nil), Shapes...)
	sort.Strings(s)
	return s
}()

func (c *Core) PushEmotion(name string, intensity float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.PushEmotion(name, intensity)
}

func (c *Core) NudgeEmotion(name string, delta, limit float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.NudgeEmotion(name, delta, limit)
}

func (c *Core) ClearEmotions() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.machine.ClearEmotions()
}

// SetCatalog swaps in a reloaded catalog.
func (c *Core) SetCatalog(cat *catalog.Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.machine.SetCatalog(cat)
	c.diag(diagnostics.New(diagnostics.Info, diagnostics.CatalogReloaded, "catalog reloaded").
		With("emotions", len(cat.Emotions())))
}

// Emotions lists the catalog's canonical emotion names.
func (c *Core) Emotions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Catalog().Emotions()
}

// Chains lists configured chain names.
func (c *Core) Chains() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gestures.Chains()
}

// State returns the resolved state without advancing time.
func (c *Core) State() emotive.ResolvedState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.State()
}

func (c *Core) EmotionalState() emotive.EmotionalState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.EmotionalState()
}

func (c *Core) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.machine.State()
	s := Status{
		FrameID:   c.frameID,
		Emotion:   st.Emotion,
		Undertone: st.Undertone,
		Shape:     c.shape,
		Recording: c.rec.IsRecording(),
		Playing:   c.rec.IsPlaying(),
		Particles: len(c.expiry),
	}
	if c.runner != nil {
		s.SelfTest = string(c.runner.Kind())
	}
	return s
}

// RunTest starts a self-test plan, replacing any running one.
func (c *Core) RunTest(kind tests.Kind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch kind {
	case tests.EmotionSweep, tests.GestureSweep, tests.ChainSweep:
	default:
		c.log.Warn().Str("test", string(kind)).Msg("unknown self-test")
		return false
	}
	c.runner = tests.NewRunner(tests.Plan{Kind: kind, Hold: c.cfg.FPS})
	return true
}

// Step advances the core by dt: scheduled callbacks fire first, then the
// self-test, the state machine and particle planning. The finished frame is
// rendered and written to the driver outside the lock.
func (c *Core) Step(dt time.Duration) (*render.Frame, error) {
	if dt < 0 {
		dt = 0
	}
	c.mu.Lock()
	c.queue.Advance(dt)
	if c.runner != nil && !c.runner.Step(target{c}) {
		c.diag(c.runner.Report())
		c.runner = nil
	}
	c.machine.Update(dt)

	now := c.queue.Now()
	live := c.expiry[:0]
	for _, e := range c.expiry {
		if e > now {
			live = append(live, e)
		}
	}
	c.expiry = live

	props := c.machine.Properties()
	plan := c.spawner.Plan(particle.Emission{
		Behavior: props.ParticleBehavior,
		Hint:     c.machine.Emotion(),
		Rate:     props.ParticleRate,
		Min:      int(math.Round(props.MinParticles)),
		Max:      int(math.Round(props.MaxParticles)),
	}, len(c.expiry), dt)
	for i := 0; i < plan.Count; i++ {
		c.expiry = append(c.expiry, now+ParticleLifetime)
	}

	c.frameID++
	f := &render.Frame{
		ID:        c.frameID,
		T:         now.Seconds(),
		State:     c.machine.State(),
		Emotional: c.machine.EmotionalState(),
		Shape:     c.shape,
		Gestures:  c.played,
		Spawn:     plan,
	}
	c.played = nil
	c.mu.Unlock()

	if err := c.eng.RenderOnce(f); err != nil {
		return f, err
	}
	return f, nil
}

// target exposes the core to a self-test runner while mu is held.
type target struct{ c *Core }

func (t target) Emotions() []string { return t.c.machine.Catalog().Emotions() }
func (t target) Chains() []string   { return t.c.gestures.Chains() }
func (t target) Gestures() []string {
	kinds := gesture.Kinds()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = k.String()
	}
	return out
}
func (t target) SetEmotion(name string) bool {
	return t.c.setEmotion(name, emotive.EmotionOptions{})
}
func (t target) TriggerGesture(name string) bool { return t.c.gestures.Trigger(name) }
func (t target) Chain(name string) bool          { return t.c.gestures.Chain(name) }
