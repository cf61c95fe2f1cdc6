package easing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpoints(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			f, ok := Get(name)
			assert.True(t, ok)
			assert.InDelta(t, 0, f(0), 1e-9)
			assert.InDelta(t, 1, f(1), 1e-9)
		})
	}
}

func TestMonotonicCurvesStayInUnitRange(t *testing.T) {
	for _, name := range Names() {
		if Overshoots(name) {
			continue
		}
		f, _ := Get(name)
		prev := 0.0
		for x := 0.0; x <= 1.0; x += 0.01 {
			v := f(x)
			if v < -1e-9 || v > 1+1e-9 {
				t.Fatalf("%s(%v) = %v outside [0,1]", name, x, v)
			}
			if v < prev-1e-9 {
				t.Fatalf("%s not monotonic at %v: %v < %v", name, x, v, prev)
			}
			prev = v
		}
	}
}

func TestBackOvershootBounded(t *testing.T) {
	peak := 0.0
	for x := 0.0; x <= 1.0; x += 0.001 {
		peak = math.Max(peak, OutBack(x))
	}
	assert.Greater(t, peak, 1.0)
	assert.LessOrEqual(t, peak, BackOvershoot)
}

func TestOutCubicMidpoint(t *testing.T) {
	assert.InDelta(t, 0.875, OutCubic(0.5), 1e-9)
	assert.InDelta(t, 0.5, Smooth(0.5), 1e-9)
}

func TestApplyUnknownFallsBackToLinear(t *testing.T) {
	assert.Equal(t, 0.25, Apply("wobble", 0.25))
	assert.Equal(t, 1.0, Apply("linear", 7))
	_, ok := Get("wobble")
	assert.False(t, ok)
}
