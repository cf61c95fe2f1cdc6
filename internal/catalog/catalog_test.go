package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	assert.Contains(t, c.Emotions(), "joy")
	assert.Contains(t, c.Emotions(), Neutral)
	assert.Contains(t, c.Undertones(), "nervous")

	n := c.Neutral()
	assert.Equal(t, Neutral, n.Name)
	assert.Equal(t, "ambient", n.ParticleBehavior)
}

func TestLookupAliasesAndCase(t *testing.T) {
	c := Default()
	for _, name := range []string{"happy", "Joy", "  JOY ", "glad"} {
		r, ok := c.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, "joy", r.Name)
	}
	_, ok := c.Lookup("not-a-real-emotion")
	assert.False(t, ok)
}

func TestUndertoneFactors(t *testing.T) {
	c := Default()
	nervous, ok := c.Undertone("Nervous")
	require.True(t, ok)
	assert.Equal(t, 1.3, nervous.BreathFactor())
	assert.Equal(t, 0.3, nervous.Jitter())

	intense, ok := c.Undertone("intense")
	require.True(t, ok)
	assert.Equal(t, 1.5, intense.GlowFactor())
	assert.Equal(t, 1.5, intense.ParticleFactor())
	assert.Equal(t, 0.0, intense.Jitter())

	assert.Equal(t, 1.0, Undertone{}.GlowFactor())
}

func TestParseRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"no neutral": `
emotions:
  joy: {primary_color: "#FFEB3B"}
`,
		"bad color": `
emotions:
  neutral: {primary_color: "not-a-color"}
`,
		"bounds": `
emotions:
  neutral: {primary_color: "#FFFFFF", min_particles: 5, max_particles: 2}
`,
		"dangling alias": `
aliases: {cheery: glee}
emotions:
  neutral: {primary_color: "#FFFFFF"}
`,
		"upper case": `
emotions:
  neutral: {primary_color: "#FFFFFF"}
  Joy: {primary_color: "#FFFFFF"}
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := Parse([]byte("emotions: [1, 2"))
	assert.Error(t, err)
}

func TestRecordsAreCopied(t *testing.T) {
	extra := map[string]float64{"shake": 1}
	c, err := New(map[string]Record{
		Neutral: {PrimaryColor: "#000000", Extra: extra},
	}, nil, nil)
	require.NoError(t, err)
	extra["shake"] = 99
	assert.Equal(t, 1.0, c.Neutral().Extra["shake"])
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("emotions:\n  neutral: {primary_color: \"#000000\"}\n"), 0o644))

	w, err := NewWatcher(path, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close()

	doc := "emotions:\n  neutral: {primary_color: \"#000000\"}\n  joy: {primary_color: \"#FFEB3B\"}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	select {
	case c := <-w.Updates:
		assert.Equal(t, []string{"joy", Neutral}, c.Emotions())
	case <-time.After(3 * time.Second):
		t.Fatal("no catalog update observed")
	}
}
