package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Neutral is the canonical resting emotion every catalog must define.
const Neutral = "neutral"

// ErrInvalid marks a catalog document that failed validation.
var ErrInvalid = errors.New("invalid catalog")

//go:embed default.yaml
var defaultYAML []byte

var builtinAliases = map[string]string{
	"happy":     "joy",
	"sad":       "sadness",
	"angry":     "anger",
	"mad":       "anger",
	"scared":    "fear",
	"afraid":    "fear",
	"surprised": "surprise",
}

// Catalog maps canonical names to emotion records and undertone modifiers.
// It is read-only after construction and safe to share.
type Catalog struct {
	emotions   map[string]Record
	undertones map[string]Undertone
	aliases    map[string]string
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads and parses a catalog YAML file.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates a catalog YAML document.
func Parse(b []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(doc.Emotions, doc.Undertones, doc.Aliases)
}

// New builds a catalog from in-memory tables. The maps are copied.
func New(emotions map[string]Record, undertones map[string]Undertone, aliases map[string]string) (*Catalog, error) {
	c := &Catalog{
		emotions:   make(map[string]Record, len(emotions)),
		undertones: make(map[string]Undertone, len(undertones)),
		aliases:    make(map[string]string, len(builtinAliases)+len(aliases)),
	}
	for name, r := range emotions {
		if name != strings.ToLower(name) {
			return nil, fmt.Errorf("%w: emotion %q is not lower-case", ErrInvalid, name)
		}
		if err := validateRecord(r); err != nil {
			return nil, fmt.Errorf("%w: emotion %q: %v", ErrInvalid, name, err)
		}
		r.Name = name
		if r.Extra != nil {
			extra := make(map[string]float64, len(r.Extra))
			for k, v := range r.Extra {
				extra[k] = v
			}
			r.Extra = extra
		}
		c.emotions[name] = r
	}
	if _, ok := c.emotions[Neutral]; !ok {
		return nil, fmt.Errorf("%w: missing %q emotion", ErrInvalid, Neutral)
	}
	for name, u := range undertones {
		if name != strings.ToLower(name) {
			return nil, fmt.Errorf("%w: undertone %q is not lower-case", ErrInvalid, name)
		}
		if u.Amplification < 0 || u.BreathRateMultiplier < 0 || u.GlowIntensityMultiplier < 0 || u.ParticleRateMultiplier < 0 {
			return nil, fmt.Errorf("%w: undertone %q has a negative factor", ErrInvalid, name)
		}
		u.Name = name
		c.undertones[name] = u
	}
	for k, v := range builtinAliases {
		if _, ok := c.emotions[v]; ok {
			c.aliases[k] = v
		}
	}
	for k, v := range aliases {
		k, v = strings.ToLower(k), strings.ToLower(v)
		if _, ok := c.emotions[v]; !ok {
			return nil, fmt.Errorf("%w: alias %q points at unknown emotion %q", ErrInvalid, k, v)
		}
		c.aliases[k] = v
	}
	return c, nil
}

func validateRecord(r Record) error {
	if _, err := colorful.Hex(r.PrimaryColor); err != nil {
		return fmt.Errorf("primary_color %q: %v", r.PrimaryColor, err)
	}
	if r.GlowIntensity < 0 || r.ParticleRate < 0 || r.BreathRate < 0 || r.BreathDepth < 0 || r.EyeOpenness < 0 {
		return errors.New("negative property")
	}
	if r.MinParticles < 0 || r.MaxParticles < r.MinParticles {
		return fmt.Errorf("particle bounds [%d,%d]", r.MinParticles, r.MaxParticles)
	}
	return nil
}

// Canonical resolves a caller-supplied name through case folding and the
// alias table. It reports false when no emotion matches.
func (c *Catalog) Canonical(name string) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if a, ok := c.aliases[n]; ok {
		n = a
	}
	_, ok := c.emotions[n]
	return n, ok
}

// Lookup returns the record for name (aliases allowed).
func (c *Catalog) Lookup(name string) (Record, bool) {
	n, ok := c.Canonical(name)
	if !ok {
		return Record{}, false
	}
	return c.emotions[n], true
}

// Neutral returns the neutral record.
func (c *Catalog) Neutral() Record { return c.emotions[Neutral] }

// Undertone returns the named modifier.
func (c *Catalog) Undertone(name string) (Undertone, bool) {
	u, ok := c.undertones[strings.ToLower(strings.TrimSpace(name))]
	return u, ok
}

// Emotions lists canonical emotion names, sorted.
func (c *Catalog) Emotions() []string {
	out := make([]string, 0, len(c.emotions))
	for k := range c.emotions {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Undertones lists undertone names, sorted.
func (c *Catalog) Undertones() []string {
	out := make([]string, 0, len(c.undertones))
	for k := range c.undertones {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
