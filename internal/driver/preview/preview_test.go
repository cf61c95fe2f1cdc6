package preview

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-emotive/internal/render"
)

func TestThrottleKeepsGestures(t *testing.T) {
	var got [][]byte
	d := New(func(b []byte) { got = append(got, b) }, 50*time.Millisecond)
	clock := time.Unix(0, 0)
	d.now = func() time.Time { return clock }

	require.NoError(t, d.Write(&render.Frame{ID: 1, Pixels: []render.Color{{R: 0, G: 1, B: 0}}}))
	clock = clock.Add(10 * time.Millisecond)
	require.NoError(t, d.Write(&render.Frame{ID: 2}))
	assert.Len(t, got, 1, "throttled")

	require.NoError(t, d.Write(&render.Frame{ID: 3, Gestures: []string{"nod"}}))
	require.Len(t, got, 2)

	var p Payload
	require.NoError(t, json.Unmarshal(got[1], &p))
	assert.Equal(t, uint64(3), p.Frame.ID)
	assert.Equal(t, []string{"nod"}, p.Frame.Gestures)

	require.NoError(t, json.Unmarshal(got[0], &p))
	assert.Equal(t, "#00ff00", p.Core)
	assert.Equal(t, "AP8A", p.RGB)
}
