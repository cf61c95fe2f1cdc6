package timeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewStore(nil)
	assert.False(t, s.Persistent())
	assert.False(t, s.Exists("intro"))

	tl := Timeline{Version: Version, Duration: 300, Events: []Event{
		{Type: EmotionEvent, Name: "joy", Time: 0},
		{Type: GestureEvent, Name: "spin", Time: 150},
	}}
	require.NoError(t, s.Save("intro", tl))
	require.NoError(t, s.Save("b-side", Timeline{}))
	assert.True(t, s.Exists("intro"))

	got, err := s.Load("intro")
	require.NoError(t, err)
	assert.Equal(t, tl, got)

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"b-side", "intro"}, names)
}

func TestStoreRejectsBadNames(t *testing.T) {
	s := NewStore(nil)
	for _, name := range []string{"", "Intro", "../up", "has space"} {
		assert.Error(t, s.Save(name, Timeline{}), name)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	_, err := NewStore(nil).Load("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSchemaDescribesEvents(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Mascot timeline", doc["title"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "version")
	assert.Contains(t, props, "duration")
	assert.Contains(t, props, "events")
	assert.Contains(t, doc["required"], "events")
}
