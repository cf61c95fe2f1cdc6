package app

import (
	"github.com/coreman2200/funtimes-emotive/internal/diagnostics"
	"github.com/coreman2200/funtimes-emotive/internal/timeline"
)

func (c *Core) StartRecording() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rec.StartRecording()
}

func (c *Core) StopRecording() []timeline.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec.StopRecording()
}

// Play replays events, or the last recording when events is nil.
func (c *Core) Play(events []timeline.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rec.PlayTimeline(events)
}

func (c *Core) StopPlayback() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rec.StopPlayback()
}

func (c *Core) Seek(ms int64) timeline.Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec.Seek(ms)
}

func (c *Core) Export() timeline.Timeline {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec.Export()
}

func (c *Core) ExportJSON() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec.ExportJSON()
}

// ImportJSON replaces the live recording. Malformed input is returned as
// an error wrapping timeline.ErrMalformed.
func (c *Core) ImportJSON(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.rec.ImportJSON(b); err != nil {
		return err
	}
	c.diag(diagnostics.New(diagnostics.Info, diagnostics.TimelineLoaded, "timeline imported").
		With("events", len(c.rec.Events())))
	return nil
}

// SaveTimeline stores the live recording under name.
func (c *Core) SaveTimeline(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Save(name, c.rec.Export())
}

// LoadTimeline replaces the live recording with a stored one.
func (c *Core) LoadTimeline(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	tl, err := c.store.Load(name)
	if err != nil {
		return err
	}
	c.rec.Import(tl)
	c.diag(diagnostics.New(diagnostics.Info, diagnostics.TimelineLoaded, "timeline loaded").
		With("name", name).With("events", len(tl.Events)))
	return nil
}

func (c *Core) Timelines() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.List()
}
