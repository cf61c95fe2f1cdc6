package gesture

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-emotive/internal/sched"
	"github.com/coreman2200/funtimes-emotive/internal/timeline"
)

type played struct {
	q     *sched.Queue
	kinds []Kind
	at    []time.Duration
}

func (p *played) PlayGesture(k Kind) {
	p.kinds = append(p.kinds, k)
	p.at = append(p.at, p.q.Now())
}

func newController(t *testing.T, chains map[string]string) (*Controller, *played, *sched.Queue, *timeline.Recorder) {
	t.Helper()
	q := sched.NewQueue()
	p := &played{q: q}
	rec := timeline.NewRecorder(q, timeline.Hooks{}, zerolog.Nop())
	c := NewController(Options{
		Player:      p,
		Scheduler:   q,
		Recorder:    rec,
		Chains:      chains,
		BeatGesture: "pulse",
		Log:         zerolog.Nop(),
	})
	return c, p, q, rec
}

func TestParseChain(t *testing.T) {
	tests := []struct {
		def  string
		want [][]string
	}{
		{"bounce", [][]string{{"bounce"}}},
		{"bounce+glow", [][]string{{"bounce", "glow"}}},
		{"bounce > spin", [][]string{{"bounce"}, {"spin"}}},
		{" a + b > c >  > d+ ", [][]string{{"a", "b"}, {"c"}, {"d"}}},
		{"", nil},
		{">+>", nil},
	}
	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseChain(tt.def))
		})
	}
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, Bounce, Parse("Bounce"))
	assert.Equal(t, HeadBob, Parse(" headbob "))
	assert.Equal(t, Unknown, Parse("moonwalk"))
	assert.False(t, Unknown.Valid())
	assert.Equal(t, "unknown", Kind(999).String())
	assert.Len(t, Kinds(), int(kindCount)-1)
	for _, k := range Kinds() {
		assert.Equal(t, k, Parse(k.String()))
	}
}

func TestTriggerRecordsWhileRecording(t *testing.T) {
	c, p, q, rec := newController(t, nil)
	assert.True(t, c.Trigger("spin"))
	assert.Empty(t, rec.Events())

	rec.StartRecording()
	q.Advance(80 * time.Millisecond)
	assert.True(t, c.Trigger("SPIN"))
	assert.True(t, c.TriggerAt("nod", 5*time.Millisecond))
	assert.False(t, c.Trigger("moonwalk"))

	assert.Equal(t, []Kind{Spin, Spin, Nod}, p.kinds)
	assert.Equal(t, []timeline.Event{
		{Type: timeline.GestureEvent, Name: "spin", Time: 80},
		{Type: timeline.GestureEvent, Name: "nod", Time: 5},
	}, rec.Events())
}

func TestSimultaneousChainFiresAtOnce(t *testing.T) {
	c, p, q, _ := newController(t, map[string]string{"Greet": "wave+glow"})
	require.True(t, c.Chain("greet"))
	assert.Equal(t, []Kind{Wave, Glow}, p.kinds)
	assert.Equal(t, []time.Duration{0, 0}, p.at)
	assert.Zero(t, q.Pending())
}

func TestSequentialChainUsesGroupInterval(t *testing.T) {
	c, p, q, _ := newController(t, map[string]string{"combo": "bounce>spin+flash>settle"})
	require.True(t, c.Chain("COMBO"))
	assert.Equal(t, []Kind{Bounce}, p.kinds)
	assert.Equal(t, 2, c.Pending())

	q.Advance(DefaultGroupInterval - time.Millisecond)
	assert.Len(t, p.kinds, 1)
	q.Advance(time.Millisecond)
	assert.Equal(t, []Kind{Bounce, Spin, Flash}, p.kinds)
	assert.Equal(t, DefaultGroupInterval, p.at[1])

	q.Advance(DefaultGroupInterval)
	assert.Equal(t, Settle, p.kinds[3])
	assert.Equal(t, 2*DefaultGroupInterval, p.at[3])
	assert.Zero(t, c.Pending())
}

func TestOverlappingChainsCoFire(t *testing.T) {
	c, p, q, _ := newController(t, map[string]string{"x": "nod>nod"})
	c.Chain("x")
	c.Chain("x")
	q.Advance(DefaultGroupInterval)
	assert.Len(t, p.kinds, 4)
}

func TestUnknownChainIsNoOp(t *testing.T) {
	c, p, _, _ := newController(t, nil)
	assert.False(t, c.Chain("missing"))
	assert.Empty(t, p.kinds)
}

func TestStopCancelsPendingGroups(t *testing.T) {
	c, p, q, _ := newController(t, map[string]string{"long": "a1>bounce>spin"})
	c.Chain("long")
	assert.Empty(t, p.kinds)
	assert.Equal(t, 2, c.Stop())
	q.Advance(5 * time.Second)
	assert.Empty(t, p.kinds)
}

func TestBeat(t *testing.T) {
	c, p, _, _ := newController(t, nil)
	assert.True(t, c.Beat())
	assert.Equal(t, []Kind{Pulse}, p.kinds)

	silent := NewController(Options{})
	assert.False(t, silent.Beat())
}

func TestChainsSorted(t *testing.T) {
	c, _, _, _ := newController(t, map[string]string{"b": "nod", "A": "spin"})
	assert.Equal(t, []string{"a", "b"}, c.Chains())
	def, ok := c.Definition("B")
	assert.True(t, ok)
	assert.Equal(t, "nod", def)
}
