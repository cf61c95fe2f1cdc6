package catalog

// Record is the immutable property set for one named emotion.
type Record struct {
	Name             string             `yaml:"-" json:"name"`
	PrimaryColor     string             `yaml:"primary_color" json:"primaryColor"`
	GlowIntensity    float64            `yaml:"glow_intensity" json:"glowIntensity"`
	ParticleRate     float64            `yaml:"particle_rate" json:"particleRate"`
	MinParticles     int                `yaml:"min_particles" json:"minParticles"`
	MaxParticles     int                `yaml:"max_particles" json:"maxParticles"`
	ParticleBehavior string             `yaml:"particle_behavior" json:"particleBehavior"`
	BreathRate       float64            `yaml:"breath_rate" json:"breathRate"`
	BreathDepth      float64            `yaml:"breath_depth" json:"breathDepth"`
	EyeOpenness      float64            `yaml:"eye_openness" json:"eyeOpenness"`
	Extra            map[string]float64 `yaml:"extra,omitempty" json:"extra,omitempty"`
}

// Undertone modifies a primary emotion without changing its identity.
// When Amplification is non-zero it scales glow, particle rate and breath
// uniformly and the individual multipliers are ignored. Zero multipliers
// leave their field unchanged.
type Undertone struct {
	Name                    string  `yaml:"-" json:"name"`
	JitterAmount            float64 `yaml:"jitter_amount" json:"jitterAmount"`
	BreathRateMultiplier    float64 `yaml:"breath_rate_multiplier" json:"breathRateMultiplier"`
	GlowIntensityMultiplier float64 `yaml:"glow_intensity_multiplier" json:"glowIntensityMultiplier"`
	ParticleRateMultiplier  float64 `yaml:"particle_rate_multiplier" json:"particleRateMultiplier"`
	Amplification           float64 `yaml:"amplification,omitempty" json:"amplification,omitempty"`
}

func factor(m float64) float64 {
	if m == 0 {
		return 1
	}
	return m
}

// BreathFactor returns the breath-rate scale this undertone applies.
func (u Undertone) BreathFactor() float64 {
	if u.Amplification != 0 {
		return u.Amplification
	}
	return factor(u.BreathRateMultiplier)
}

// GlowFactor returns the glow-intensity scale this undertone applies.
func (u Undertone) GlowFactor() float64 {
	if u.Amplification != 0 {
		return u.Amplification
	}
	return factor(u.GlowIntensityMultiplier)
}

// ParticleFactor returns the particle-rate scale this undertone applies.
func (u Undertone) ParticleFactor() float64 {
	if u.Amplification != 0 {
		return u.Amplification
	}
	return factor(u.ParticleRateMultiplier)
}

// Jitter returns the additive jitter this undertone contributes.
func (u Undertone) Jitter() float64 {
	if u.Amplification != 0 {
		return 0
	}
	return u.JitterAmount
}

type document struct {
	Aliases    map[string]string    `yaml:"aliases"`
	Emotions   map[string]Record    `yaml:"emotions"`
	Undertones map[string]Undertone `yaml:"undertones"`
}
