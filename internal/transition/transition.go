package transition

import (
	"time"

	"github.com/coreman2200/funtimes-emotive/internal/catalog"
	"github.com/coreman2200/funtimes-emotive/internal/easing"
)

// Crossover is the raw progress at which string and enum fields switch
// from the start value to the target value. They never interpolate.
const Crossover = 0.5

// PropertySet is the concrete per-frame visual state. Particle bounds are
// kept fractional while blending; consumers round them.
type PropertySet struct {
	PrimaryColor     string             `json:"primaryColor"`
	GlowIntensity    float64            `json:"glowIntensity"`
	ParticleRate     float64            `json:"particleRate"`
	MinParticles     float64            `json:"minParticles"`
	MaxParticles     float64            `json:"maxParticles"`
	ParticleBehavior string             `json:"particleBehavior"`
	BreathRate       float64            `json:"breathRate"`
	BreathDepth      float64            `json:"breathDepth"`
	EyeOpenness      float64            `json:"eyeOpenness"`
	JitterAmount     float64            `json:"jitterAmount"`
	Extra            map[string]float64 `json:"extra,omitempty"`
}

// FromRecord converts a catalog record into a property set.
func FromRecord(r catalog.Record) PropertySet {
	return PropertySet{
		PrimaryColor:     r.PrimaryColor,
		GlowIntensity:    r.GlowIntensity,
		ParticleRate:     r.ParticleRate,
		MinParticles:     float64(r.MinParticles),
		MaxParticles:     float64(r.MaxParticles),
		ParticleBehavior: r.ParticleBehavior,
		BreathRate:       r.BreathRate,
		BreathDepth:      r.BreathDepth,
		EyeOpenness:      r.EyeOpenness,
		Extra:            cloneExtra(r.Extra),
	}
}

// Clone returns a deep copy.
func (p PropertySet) Clone() PropertySet {
	p.Extra = cloneExtra(p.Extra)
	return p
}

func cloneExtra(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Lerp blends every numeric field of a toward b by weight w, which is not
// clamped so that overshooting curves can pass through. String fields
// take b's value once switched is true.
func Lerp(a, b PropertySet, w float64, switched bool) PropertySet {
	out := PropertySet{
		PrimaryColor:     a.PrimaryColor,
		GlowIntensity:    easing.Lerp(a.GlowIntensity, b.GlowIntensity, w),
		ParticleRate:     easing.Lerp(a.ParticleRate, b.ParticleRate, w),
		MinParticles:     easing.Lerp(a.MinParticles, b.MinParticles, w),
		MaxParticles:     easing.Lerp(a.MaxParticles, b.MaxParticles, w),
		ParticleBehavior: a.ParticleBehavior,
		BreathRate:       easing.Lerp(a.BreathRate, b.BreathRate, w),
		BreathDepth:      easing.Lerp(a.BreathDepth, b.BreathDepth, w),
		EyeOpenness:      easing.Lerp(a.EyeOpenness, b.EyeOpenness, w),
		JitterAmount:     easing.Lerp(a.JitterAmount, b.JitterAmount, w),
	}
	if switched {
		out.PrimaryColor = b.PrimaryColor
		out.ParticleBehavior = b.ParticleBehavior
	}
	if len(a.Extra) > 0 || len(b.Extra) > 0 {
		out.Extra = make(map[string]float64, len(b.Extra))
		for k, bv := range b.Extra {
			if av, ok := a.Extra[k]; ok {
				out.Extra[k] = easing.Lerp(av, bv, w)
			} else {
				out.Extra[k] = bv
			}
		}
		if !switched {
			for k, av := range a.Extra {
				if _, ok := b.Extra[k]; !ok {
					out.Extra[k] = av
				}
			}
		}
	}
	return out
}

// Interpolate returns the property set at raw progress p in [0,1] along
// the eased path from start to target. At p >= 1 it returns an exact copy
// of target.
func Interpolate(start, target PropertySet, p float64, ease easing.Func) PropertySet {
	p = easing.Clamp01(p)
	if p >= 1 {
		return target.Clone()
	}
	if ease == nil {
		ease = easing.Linear
	}
	return Lerp(start, target, ease(p), p >= Crossover)
}

// Transition is one timed blend between two property sets.
type Transition struct {
	From     PropertySet
	To       PropertySet
	Duration time.Duration
	Ease     easing.Func

	elapsed time.Duration
}

// New starts a transition at progress zero. A non-positive duration
// completes on the first Advance.
func New(from, to PropertySet, d time.Duration, ease easing.Func) *Transition {
	return &Transition{From: from.Clone(), To: to.Clone(), Duration: d, Ease: ease}
}

// Advance moves the transition forward by dt and returns the new progress.
func (t *Transition) Advance(dt time.Duration) float64 {
	if dt > 0 {
		t.elapsed += dt
	}
	if t.Duration > 0 && t.elapsed > t.Duration {
		t.elapsed = t.Duration
	}
	return t.Progress()
}

// Progress is elapsed/duration clamped to [0,1].
func (t *Transition) Progress() float64 {
	if t.Duration <= 0 {
		if t.elapsed > 0 {
			return 1
		}
		return 0
	}
	return easing.Clamp01(float64(t.elapsed) / float64(t.Duration))
}

// Done reports whether the transition reached its target.
func (t *Transition) Done() bool { return t.Progress() >= 1 }

// Current is the interpolated property set at the present progress.
func (t *Transition) Current() PropertySet {
	return Interpolate(t.From, t.To, t.Progress(), t.Ease)
}
