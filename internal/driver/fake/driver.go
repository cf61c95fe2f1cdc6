// Package fake is a headless driver that logs a compact summary of each frame.
package fake

import (
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-emotive/internal/render"
)

// Driver logs the core color, state and spawn count every Every frames
// (every frame when Every <= 1).
type Driver struct {
	Log   zerolog.Logger
	Every int
	Count int
}

func (d *Driver) Write(f *render.Frame) error {
	d.Count++
	if d.Every > 1 && d.Count%d.Every != 1 {
		return nil
	}
	core := "#000000"
	if len(f.Pixels) > 0 {
		core = f.Pixels[0].Hex()
	}
	ev := d.Log.Info().
		Uint64("frame", f.ID).
		Str("emotion", f.State.Emotion).
		Float64("progress", f.State.TransitionProgress).
		Str("behavior", f.State.Properties.ParticleBehavior).
		Str("core", core).
		Int("spawn", f.Spawn.Count)
	if f.State.Undertone != "" {
		ev = ev.Str("undertone", f.State.Undertone)
	}
	if f.Shape != "" {
		ev = ev.Str("shape", f.Shape)
	}
	if len(f.Gestures) > 0 {
		ev = ev.Strs("gestures", f.Gestures)
	}
	ev.Msg("frame")
	return nil
}
