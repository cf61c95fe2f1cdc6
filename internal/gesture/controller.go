package gesture

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-emotive/internal/sched"
	"github.com/coreman2200/funtimes-emotive/internal/timeline"
)

// DefaultGroupInterval separates consecutive chain groups.
const DefaultGroupInterval = 500 * time.Millisecond

// Player renders a gesture.
type Player interface {
	PlayGesture(k Kind)
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(k Kind)

func (f PlayerFunc) PlayGesture(k Kind) { f(k) }

// Recorder receives gesture events while a recording session is active.
// *timeline.Recorder satisfies it.
type Recorder interface {
	IsRecording() bool
	Record(t timeline.EventType, name string) bool
	RecordAt(t timeline.EventType, name string, at time.Duration) bool
}

type Options struct {
	Player    Player
	Scheduler sched.Scheduler
	Recorder  Recorder
	// Chains maps chain names to grammar strings such as "bounce+glow>spin".
	Chains        map[string]string
	GroupInterval time.Duration
	// BeatGesture fires on every Beat. Empty disables beats.
	BeatGesture string
	Log         zerolog.Logger
}

// Controller forwards gesture triggers to the player, records them, and
// schedules chain groups.
type Controller struct {
	player   Player
	sched    sched.Scheduler
	rec      Recorder
	chains   map[string]string
	interval time.Duration
	beat     string
	log      zerolog.Logger
	pending  []*sched.Task
}

func NewController(o Options) *Controller {
	if o.GroupInterval <= 0 {
		o.GroupInterval = DefaultGroupInterval
	}
	chains := make(map[string]string, len(o.Chains))
	for name, def := range o.Chains {
		chains[strings.ToLower(strings.TrimSpace(name))] = def
	}
	return &Controller{
		player:   o.Player,
		sched:    o.Scheduler,
		rec:      o.Recorder,
		chains:   chains,
		interval: o.GroupInterval,
		beat:     o.BeatGesture,
		log:      o.Log,
	}
}

// Trigger plays a gesture now and records it at the elapsed recording time.
func (c *Controller) Trigger(name string) bool {
	k, ok := c.play(name)
	if ok && c.rec != nil && c.rec.IsRecording() {
		c.rec.Record(timeline.GestureEvent, k.String())
	}
	return ok
}

// TriggerAt plays a gesture now and records it at the given offset from
// recording start.
func (c *Controller) TriggerAt(name string, at time.Duration) bool {
	k, ok := c.play(name)
	if ok && c.rec != nil && c.rec.IsRecording() {
		c.rec.RecordAt(timeline.GestureEvent, k.String(), at)
	}
	return ok
}

func (c *Controller) play(name string) (Kind, bool) {
	k := Parse(name)
	if !k.Valid() {
		c.log.Warn().Str("gesture", name).Msg("unknown gesture")
		return Unknown, false
	}
	if c.player != nil {
		c.player.PlayGesture(k)
	}
	return k, true
}

// Chain fires the named chain. The first group plays immediately and group
// i plays i group intervals later. Chains may overlap freely.
func (c *Controller) Chain(name string) bool {
	def, ok := c.chains[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		c.log.Warn().Str("chain", name).Msg("unknown chain")
		return false
	}
	groups := ParseChain(def)
	c.prune()
	for i, group := range groups {
		group := group
		if i == 0 || c.sched == nil {
			c.fire(group)
			continue
		}
		c.pending = append(c.pending, c.sched.After(time.Duration(i)*c.interval, func() {
			c.fire(group)
		}))
	}
	c.log.Debug().Str("chain", name).Int("groups", len(groups)).Msg("chain started")
	return true
}

func (c *Controller) fire(group []string) {
	for _, g := range group {
		c.Trigger(g)
	}
}

// Chains lists the configured chain names, sorted.
func (c *Controller) Chains() []string {
	names := make([]string, 0, len(c.chains))
	for n := range c.chains {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Definition returns the grammar string for a chain.
func (c *Controller) Definition(name string) (string, bool) {
	def, ok := c.chains[strings.ToLower(strings.TrimSpace(name))]
	return def, ok
}

// Beat fires the beat gesture, if one is configured.
func (c *Controller) Beat() bool {
	if c.beat == "" {
		return false
	}
	return c.Trigger(c.beat)
}

// Pending counts chain groups still waiting to fire.
func (c *Controller) Pending() int {
	c.prune()
	return len(c.pending)
}

// Stop cancels every chain group that has not fired yet and returns how
// many were cancelled.
func (c *Controller) Stop() int {
	n := 0
	for _, t := range c.pending {
		if t.Cancel() {
			n++
		}
	}
	c.pending = nil
	return n
}

func (c *Controller) prune() {
	live := c.pending[:0]
	for _, t := range c.pending {
		if !t.Fired() && !t.Cancelled() {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(c.pending); i++ {
		c.pending[i] = nil
	}
	c.pending = live
}
