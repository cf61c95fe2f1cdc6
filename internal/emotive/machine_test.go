package emotive

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-emotive/internal/catalog"
	"github.com/coreman2200/funtimes-emotive/internal/transition"
)

const frame = 16 * time.Millisecond

func newMachine(t *testing.T) *Machine {
	t.Helper()
	return New(Options{Catalog: catalog.Default(), Duration: 500 * time.Millisecond, Easing: "sine-in-out"})
}

func settle(m *Machine) {
	for i := 0; i < 200 && m.State().IsTransitioning; i++ {
		m.Update(frame)
	}
}

func TestStartsNeutral(t *testing.T) {
	m := newMachine(t)
	s := m.State()
	assert.Equal(t, catalog.Neutral, s.Emotion)
	assert.False(t, s.IsTransitioning)
	assert.Equal(t, 1.0, s.TransitionProgress)
	assert.Equal(t, "ambient", m.Behavior())
}

func TestSetEmotionAliasAndTransition(t *testing.T) {
	m := newMachine(t)
	require.True(t, m.SetEmotion("happy", EmotionOptions{}))
	s := m.State()
	assert.Equal(t, "joy", s.Emotion)
	assert.True(t, s.IsTransitioning)
	assert.Equal(t, 0.0, s.TransitionProgress)

	settle(m)
	joy, _ := catalog.Default().Lookup("joy")
	assert.Equal(t, transition.FromRecord(joy), m.Properties())
	assert.False(t, m.State().IsTransitioning)
}

func TestInterpolationBoundedAndProgressMonotonic(t *testing.T) {
	m := newMachine(t)
	start := m.Properties()
	require.True(t, m.SetEmotion("anger", EmotionOptions{Duration: 300 * time.Millisecond}))
	anger, _ := catalog.Default().Lookup("anger")
	target := transition.FromRecord(anger)

	within := func(v, a, b float64) bool {
		return v >= math.Min(a, b)-1e-9 && v <= math.Max(a, b)+1e-9
	}
	prev := 0.0
	for i := 0; i < 40; i++ {
		m.Update(frame)
		s := m.State()
		assert.GreaterOrEqual(t, s.TransitionProgress, prev)
		prev = s.TransitionProgress
		p := s.Properties
		assert.True(t, within(p.GlowIntensity, start.GlowIntensity, target.GlowIntensity))
		assert.True(t, within(p.ParticleRate, start.ParticleRate, target.ParticleRate))
		assert.True(t, within(p.BreathRate, start.BreathRate, target.BreathRate))
		assert.True(t, within(p.EyeOpenness, start.EyeOpenness, target.EyeOpenness))
	}
	assert.Equal(t, 1.0, prev)
}

func TestInvalidEmotionLeavesStateUntouched(t *testing.T) {
	m := newMachine(t)
	require.True(t, m.SetEmotion("joy", EmotionOptions{Undertone: "nervous"}))
	m.Update(100 * time.Millisecond)

	before := m.State()
	assert.False(t, m.SetEmotion("not-a-real-emotion", EmotionOptions{}))
	assert.Equal(t, before, m.State())

	assert.False(t, m.SetEmotion("sadness", EmotionOptions{Undertone: "grumpy"}))
	assert.Equal(t, before, m.State())

	assert.False(t, m.SetUndertone("grumpy"))
	assert.Equal(t, before, m.State())
}

func TestClearingUndertoneMatchesPlainEmotion(t *testing.T) {
	a := newMachine(t)
	require.True(t, a.SetEmotion("joy", EmotionOptions{Undertone: "nervous"}))
	settle(a)
	assert.Equal(t, "nervous", a.State().Undertone)
	a.ClearUndertone()

	b := newMachine(t)
	require.True(t, b.SetEmotion("joy", EmotionOptions{}))
	settle(b)

	assert.Equal(t, b.Properties(), a.Properties())
	assert.Empty(t, a.State().Undertone)
}

func TestUndertoneAppliesMidTransitionWithoutRestart(t *testing.T) {
	m := newMachine(t)
	require.True(t, m.SetEmotion("joy", EmotionOptions{}))
	m.Update(200 * time.Millisecond)
	progress := m.State().TransitionProgress
	plain := m.Properties()

	require.True(t, m.SetUndertone("nervous"))
	s := m.State()
	assert.Equal(t, progress, s.TransitionProgress)
	assert.True(t, s.IsTransitioning)
	assert.InDelta(t, plain.BreathRate*1.3, s.Properties.BreathRate, 1e-9)
	assert.InDelta(t, plain.JitterAmount+0.3, s.Properties.JitterAmount, 1e-9)

	require.True(t, m.SetUndertone("none"))
	assert.Equal(t, plain, m.Properties())
}

func TestRetargetStartsFromCurrentValues(t *testing.T) {
	m := newMachine(t)
	require.True(t, m.SetEmotion("anger", EmotionOptions{}))
	m.Update(250 * time.Millisecond)
	mid := m.Properties()

	require.True(t, m.SetEmotion("sadness", EmotionOptions{}))
	assert.Equal(t, mid, m.Properties())
	assert.Equal(t, 0.0, m.State().TransitionProgress)
}

func TestIntensityBlendsFromNeutral(t *testing.T) {
	m := newMachine(t)
	require.True(t, m.SetEmotion("anger", EmotionOptions{Intensity: 0.5, Duration: time.Millisecond}))
	m.Update(frame)
	c := catalog.Default()
	anger, _ := c.Lookup("anger")
	neutral := c.Neutral()
	assert.InDelta(t, (anger.GlowIntensity+neutral.GlowIntensity)/2, m.Properties().GlowIntensity, 1e-9)
	assert.Equal(t, anger.PrimaryColor, m.Properties().PrimaryColor)
}

func TestZeroDeltaUpdateIsSafe(t *testing.T) {
	m := newMachine(t)
	require.True(t, m.SetEmotion("fear", EmotionOptions{}))
	m.Update(100 * time.Millisecond)
	before := m.State()
	m.Update(0)
	m.Update(0)
	assert.Equal(t, before, m.State())
}

func TestSnapEmotionSkipsTransition(t *testing.T) {
	m := newMachine(t)
	require.True(t, m.SnapEmotion("love", ""))
	s := m.State()
	assert.False(t, s.IsTransitioning)
	love, _ := catalog.Default().Lookup("love")
	assert.Equal(t, transition.FromRecord(love), s.Properties)
	assert.False(t, m.SnapEmotion("nope", ""))
}

func TestSetCatalogKeepsCurrentValues(t *testing.T) {
	m := newMachine(t)
	before := m.State()
	c, err := catalog.New(map[string]catalog.Record{
		catalog.Neutral: {PrimaryColor: "#000000"},
		"zen":           {PrimaryColor: "#FFFFFF", GlowIntensity: 2},
	}, nil, nil)
	require.NoError(t, err)
	m.SetCatalog(c)
	assert.Equal(t, before, m.State())
	assert.True(t, m.SetEmotion("zen", EmotionOptions{}))
	assert.False(t, m.SetEmotion("joy", EmotionOptions{}))
}
