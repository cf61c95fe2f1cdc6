package particle

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newSpawner() *Spawner {
	return NewSpawner(Options{Canvas: Canvas{Width: 400, Height: 300}, Rand: rand.New(rand.NewSource(7))})
}

func TestSpawnRateConservesTotal(t *testing.T) {
	cases := []struct {
		name  string
		rate  float64
		dt    time.Duration
		ticks int
	}{
		{"60fps steady", 3, 16 * time.Millisecond, 1000},
		{"odd rate", 7.3, 13 * time.Millisecond, 777},
		{"high rate", 40, 40 * time.Millisecond, 300},
		{"slow trickle", 0.25, 50 * time.Millisecond, 2000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newSpawner()
			total := 0
			for i := 0; i < tc.ticks; i++ {
				total += s.SpawnRate(tc.rate, tc.dt)
			}
			expected := tc.rate * tc.dt.Seconds() * float64(tc.ticks)
			assert.LessOrEqual(t, math.Abs(float64(total)-math.Floor(expected)), 1.0)
		})
	}
}

func TestStalledFrameIsCapped(t *testing.T) {
	s := newSpawner()
	n := s.SpawnRate(1000, 10*time.Second)
	assert.LessOrEqual(t, n, int(DefaultMaxAccumulated))
	assert.Less(t, s.Accumulated(), 1.0)
}

func TestZeroRateAndDelta(t *testing.T) {
	s := newSpawner()
	assert.Equal(t, 0, s.SpawnRate(0, time.Second))
	assert.Equal(t, 0, s.SpawnRate(10, 0))
	assert.Equal(t, 0, s.SpawnRate(-5, time.Second))
	assert.Equal(t, 0.0, s.Accumulated())
}

func TestUnknownBehaviorSpawnsAtCenter(t *testing.T) {
	s := newSpawner()
	site := s.SpawnPosition("moonwalk", 200, 150, 400, 300, "")
	assert.Equal(t, Site{X: 200, Y: 150}, site)
}

func TestSitesRespectRadiusBands(t *testing.T) {
	s := newSpawner()
	for b := range bands {
		inner, outer, ok := RadiusBand(string(b), 400, 300, "")
		assert.True(t, ok)
		for i := 0; i < 50; i++ {
			site := s.SpawnPosition(string(b), 200, 150, 400, 300, "")
			r := math.Hypot(site.X-200, site.Y-150)
			if r < inner-1e-9 || r > outer+1e-9 {
				t.Fatalf("%s radius %v outside [%v,%v]", b, r, inner, outer)
			}
		}
	}
}

func TestDirectionalBehaviors(t *testing.T) {
	s := newSpawner()
	for i := 0; i < 20; i++ {
		up := s.SpawnPosition(string(Rising), 200, 150, 400, 300, "")
		assert.GreaterOrEqual(t, up.Y, 150.0)
		assert.True(t, up.HasAngle)
		assert.Equal(t, -math.Pi/2, up.Angle)

		down := s.SpawnPosition(string(Falling), 200, 150, 400, 300, "")
		assert.LessOrEqual(t, down.Y, 150.0)
		assert.Equal(t, math.Pi/2, down.Angle)
	}
	amb := s.SpawnPosition(string(Ambient), 200, 150, 400, 300, "")
	assert.False(t, amb.HasAngle)
}

func TestHintScalesBand(t *testing.T) {
	_, plain, _ := RadiusBand(string(Ambient), 400, 400, "")
	_, tight, _ := RadiusBand(string(Ambient), 400, 400, "suspicion")
	assert.InDelta(t, plain*0.7, tight, 1e-9)
}

func TestPlanHonorsPopulationLimits(t *testing.T) {
	s := newSpawner()
	e := Emission{Behavior: string(Burst), Rate: 0, Min: 4, Max: 6}

	p := s.Plan(e, 1, 16*time.Millisecond)
	assert.Equal(t, 3, p.Count)
	assert.Len(t, p.Sites, 3)

	e.Rate = 1000
	p = s.Plan(e, 5, 50*time.Millisecond)
	assert.Equal(t, 1, p.Count)

	p = s.Plan(e, 9, 50*time.Millisecond)
	assert.Equal(t, 0, p.Count)
	assert.Empty(t, p.Sites)
}
