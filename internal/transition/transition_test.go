package transition

import (
	"math"
	"testing"
	"time"

	"github.com/coreman2200/funtimes-emotive/internal/catalog"
	"github.com/coreman2200/funtimes-emotive/internal/easing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numeric(p PropertySet) []float64 {
	return []float64{p.GlowIntensity, p.ParticleRate, p.MinParticles, p.MaxParticles,
		p.BreathRate, p.BreathDepth, p.EyeOpenness, p.JitterAmount}
}

func records(t *testing.T, a, b string) (PropertySet, PropertySet) {
	t.Helper()
	c := catalog.Default()
	ra, ok := c.Lookup(a)
	require.True(t, ok)
	rb, ok := c.Lookup(b)
	require.True(t, ok)
	return FromRecord(ra), FromRecord(rb)
}

func TestInterpolateStaysBetweenEndpoints(t *testing.T) {
	from, to := records(t, "sadness", "surprise")
	for _, name := range easing.Names() {
		if easing.Overshoots(name) {
			continue
		}
		ease, _ := easing.Get(name)
		for p := 0.0; p <= 1.0; p += 0.05 {
			got := numeric(Interpolate(from, to, p, ease))
			lo, hi := numeric(from), numeric(to)
			for i := range got {
				floor, ceil := math.Min(lo[i], hi[i]), math.Max(lo[i], hi[i])
				if got[i] < floor-1e-9 || got[i] > ceil+1e-9 {
					t.Fatalf("%s p=%.2f field %d = %v outside [%v,%v]", name, p, i, got[i], floor, ceil)
				}
			}
		}
	}
}

func TestBackEasingBoundedOvershoot(t *testing.T) {
	from, to := records(t, "neutral", "anger")
	ease, _ := easing.Get("back-out")
	span := to.GlowIntensity - from.GlowIntensity
	for p := 0.0; p <= 1.0; p += 0.01 {
		got := Interpolate(from, to, p, ease).GlowIntensity
		assert.LessOrEqual(t, got, from.GlowIntensity+span*easing.BackOvershoot+1e-9)
	}
}

func TestStringsSwitchAtCrossover(t *testing.T) {
	from, to := records(t, "neutral", "joy")
	before := Interpolate(from, to, Crossover-0.01, easing.OutCubic)
	after := Interpolate(from, to, Crossover, easing.OutCubic)
	assert.Equal(t, from.PrimaryColor, before.PrimaryColor)
	assert.Equal(t, from.ParticleBehavior, before.ParticleBehavior)
	assert.Equal(t, to.PrimaryColor, after.PrimaryColor)
	assert.Equal(t, to.ParticleBehavior, after.ParticleBehavior)
}

func TestCompleteIsExactTarget(t *testing.T) {
	from, to := records(t, "neutral", "anger")
	got := Interpolate(from, to, 1, easing.InOutSine)
	assert.Equal(t, to, got)
	got.Extra["shake_amount"] = 5
	assert.NotEqual(t, 5.0, to.Extra["shake_amount"])
}

func TestExtraFields(t *testing.T) {
	a := PropertySet{Extra: map[string]float64{"keep": 0, "drop": 1}}
	b := PropertySet{Extra: map[string]float64{"keep": 10, "add": 3}}
	early := Interpolate(a, b, 0.2, easing.Linear)
	assert.InDelta(t, 2, early.Extra["keep"], 1e-9)
	assert.Equal(t, 1.0, early.Extra["drop"])
	assert.Equal(t, 3.0, early.Extra["add"])

	late := Interpolate(a, b, 0.6, easing.Linear)
	_, ok := late.Extra["drop"]
	assert.False(t, ok)
}

func TestTransitionProgress(t *testing.T) {
	from, to := records(t, "neutral", "joy")
	tr := New(from, to, time.Second, easing.Linear)
	assert.Equal(t, 0.0, tr.Advance(0))
	assert.InDelta(t, 0.25, tr.Advance(250*time.Millisecond), 1e-9)

	prev := tr.Progress()
	for i := 0; i < 20; i++ {
		p := tr.Advance(100 * time.Millisecond)
		assert.GreaterOrEqual(t, p, prev)
		prev = p
	}
	assert.True(t, tr.Done())
	assert.Equal(t, 1.0, tr.Progress())
	assert.Equal(t, to, tr.Current())
}

func TestZeroDurationCompletesOnFirstTick(t *testing.T) {
	from, to := records(t, "neutral", "joy")
	tr := New(from, to, 0, nil)
	assert.False(t, tr.Done())
	tr.Advance(time.Millisecond)
	assert.True(t, tr.Done())
}
