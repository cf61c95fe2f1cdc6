package timeline

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-emotive/internal/catalog"
	"github.com/coreman2200/funtimes-emotive/internal/sched"
)

// Hooks are the callbacks playback and seek drive. Nil hooks are skipped.
type Hooks struct {
	// Gesture, Emotion and Shape replay an event as if a client sent it.
	Gesture func(name string)
	Emotion func(name string)
	Shape   func(name string)
	// SnapEmotion and SnapShape apply state directly; seek uses them so
	// that reconstruction never starts a transition or records an event.
	// SnapShape("") clears the shape.
	SnapEmotion func(name string)
	SnapShape   func(name string)
	// PlaybackDone runs once when playback reaches its end on its own.
	PlaybackDone func()
}

// Position is the state Seek reconstructed.
type Position struct {
	Time    int64  `json:"time"`
	Emotion string `json:"emotion,omitempty"`
	Shape   string `json:"shape,omitempty"`
}

// Recorder records, replays and seeks a timeline. Recording and playback
// are independent flags; nothing stops both from being on at once.
type Recorder struct {
	sched sched.Scheduler
	hooks Hooks
	log   zerolog.Logger

	recording bool
	recStart  time.Duration
	duration  time.Duration
	events    []Event

	playing   bool
	playStart time.Duration
	playGen   uint64
	playTasks []*sched.Task
}

// NewRecorder wires a recorder to the host scheduler and playback hooks.
func NewRecorder(s sched.Scheduler, hooks Hooks, log zerolog.Logger) *Recorder {
	return &Recorder{sched: s, hooks: hooks, log: log}
}

// SetHooks replaces the playback hooks.
func (r *Recorder) SetHooks(h Hooks) { r.hooks = h }

// IsRecording reports whether events are being captured.
func (r *Recorder) IsRecording() bool { return r.recording }

// IsPlaying reports whether a playback is in progress.
func (r *Recorder) IsPlaying() bool { return r.playing }

// StartRecording clears the event sequence and starts a new session.
func (r *Recorder) StartRecording() {
	r.events = r.events[:0]
	r.duration = 0
	r.recStart = r.sched.Now()
	r.recording = true
	r.log.Info().Msg("recording started")
}

// StopRecording ends the session and returns a copy of what was recorded.
func (r *Recorder) StopRecording() []Event {
	if r.recording {
		r.duration = r.sched.Now() - r.recStart
		r.recording = false
		r.log.Info().Int("events", len(r.events)).Dur("duration", r.duration).Msg("recording stopped")
	}
	return r.Events()
}

// Elapsed is the time since recording started, or zero when not recording.
func (r *Recorder) Elapsed() time.Duration {
	if !r.recording {
		return 0
	}
	return r.sched.Now() - r.recStart
}

// Record appends an event stamped with the elapsed recording time.
// It reports false when not recording or the type is unknown.
func (r *Recorder) Record(t EventType, name string) bool {
	return r.RecordAt(t, name, r.Elapsed())
}

// RecordAt appends an event at a caller-supplied offset from recording start.
func (r *Recorder) RecordAt(t EventType, name string, at time.Duration) bool {
	if !r.recording || !t.Valid() || name == "" {
		return false
	}
	if at < 0 {
		at = 0
	}
	r.events = append(r.events, Event{Type: t, Name: name, Time: at.Milliseconds()})
	return true
}

// Events returns a copy of the event sequence.
func (r *Recorder) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Duration is the recorded session length; while recording it is the
// time elapsed so far.
func (r *Recorder) Duration() time.Duration {
	if r.recording {
		return r.sched.Now() - r.recStart
	}
	return r.duration
}

// PlayTimeline replays events at their recorded offsets. A nil slice plays
// the recorder's own sequence. Any playback already running is cancelled.
func (r *Recorder) PlayTimeline(events []Event) {
	if events == nil {
		events = r.Events()
	}
	r.cancelPlayback()
	r.playing = true
	r.playGen++
	gen := r.playGen
	r.playStart = r.sched.Now()

	var end int64
	for _, e := range events {
		e := e
		if e.Time > end {
			end = e.Time
		}
		task := r.sched.After(time.Duration(e.Time)*time.Millisecond, func() {
			if !r.playing || r.playGen != gen {
				return
			}
			r.dispatch(e)
		})
		r.playTasks = append(r.playTasks, task)
	}
	// Scheduled last so it runs after any event sharing the final offset.
	r.playTasks = append(r.playTasks, r.sched.After(time.Duration(end)*time.Millisecond, func() {
		if !r.playing || r.playGen != gen {
			return
		}
		r.playing = false
		r.playTasks = nil
		r.log.Info().Int64("end_ms", end).Msg("playback finished")
		if r.hooks.PlaybackDone != nil {
			r.hooks.PlaybackDone()
		}
	}))
	r.log.Info().Int("events", len(events)).Int64("end_ms", end).Msg("playback started")
}

// PlaybackElapsed is the time since playback started, or zero when idle.
func (r *Recorder) PlaybackElapsed() time.Duration {
	if !r.playing {
		return 0
	}
	return r.sched.Now() - r.playStart
}

// StopPlayback is a soft cancel: callbacks that have not fired become
// no-ops. Effects already applied are not rolled back.
func (r *Recorder) StopPlayback() {
	if !r.playing {
		return
	}
	r.cancelPlayback()
	r.log.Info().Msg("playback stopped")
}

func (r *Recorder) cancelPlayback() {
	r.playing = false
	for _, t := range r.playTasks {
		t.Cancel()
	}
	r.playTasks = nil
}

func (r *Recorder) dispatch(e Event) {
	var fn func(string)
	switch e.Type {
	case GestureEvent:
		fn = r.hooks.Gesture
	case EmotionEvent:
		fn = r.hooks.Emotion
	case ShapeEvent:
		fn = r.hooks.Shape
	}
	if fn != nil {
		fn(e.Name)
	}
}

// Seek reconstructs the persistent state at timeMs: the last emotion and
// the last shape at or before it are applied directly. When the sequence
// has emotion events but none yet, seek rests on the neutral emotion; the
// same goes for shapes, which are cleared. Gestures are transient and are
// not replayed. Seeking twice to the same time yields the same state.
func (r *Recorder) Seek(timeMs int64) Position {
	pos := Reconstruct(r.events, timeMs)
	if pos.Emotion == "" && r.has(EmotionEvent) {
		pos.Emotion = catalog.Neutral
	}
	if pos.Emotion != "" {
		switch {
		case r.hooks.SnapEmotion != nil:
			r.hooks.SnapEmotion(pos.Emotion)
		case r.hooks.Emotion != nil:
			r.hooks.Emotion(pos.Emotion)
		}
	}
	switch {
	case r.hooks.SnapShape != nil && (pos.Shape != "" || r.has(ShapeEvent)):
		r.hooks.SnapShape(pos.Shape)
	case r.hooks.SnapShape == nil && pos.Shape != "" && r.hooks.Shape != nil:
		r.hooks.Shape(pos.Shape)
	}
	return pos
}

func (r *Recorder) has(t EventType) bool {
	for _, e := range r.events {
		if e.Type == t {
			return true
		}
	}
	return false
}

// Reconstruct reduces events to the latest emotion and shape at or before
// timeMs. Among events sharing a time the later one in the slice wins.
func Reconstruct(events []Event, timeMs int64) Position {
	pos := Position{Time: timeMs}
	emotionAt, shapeAt := int64(-1), int64(-1)
	for _, e := range events {
		if e.Time > timeMs {
			continue
		}
		switch {
		case e.Type == EmotionEvent && e.Time >= emotionAt:
			pos.Emotion, emotionAt = e.Name, e.Time
		case e.Type == ShapeEvent && e.Time >= shapeAt:
			pos.Shape, shapeAt = e.Name, e.Time
		}
	}
	return pos
}

// Export returns a value copy of the current sequence in persisted form.
func (r *Recorder) Export() Timeline {
	return Timeline{
		Version:  Version,
		Duration: r.Duration().Milliseconds(),
		Events:   r.Events(),
	}
}

// ExportJSON encodes Export.
func (r *Recorder) ExportJSON() ([]byte, error) {
	return Encode(r.Export())
}

// Import replaces the live sequence and duration. A zero duration is
// accepted as unknown. Recording, if active, is stopped.
func (r *Recorder) Import(tl Timeline) {
	r.recording = false
	r.events = make([]Event, len(tl.Events))
	copy(r.events, tl.Events)
	r.duration = time.Duration(tl.Duration) * time.Millisecond
}

// ImportJSON decodes b and imports it. Decode failures are returned
// wrapped in ErrMalformed and leave the recorder unchanged.
func (r *Recorder) ImportJSON(b []byte) error {
	tl, err := Decode(b)
	if err != nil {
		return err
	}
	r.Import(tl)
	return nil
}
