package timeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// Version is written into every exported timeline.
const Version = "1.0"

// EventType classifies a timeline event.
type EventType string

const (
	GestureEvent EventType = "gesture"
	EmotionEvent EventType = "emotion"
	ShapeEvent   EventType = "shape"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case GestureEvent, EmotionEvent, ShapeEvent:
		return true
	}
	return false
}

// Event is one recorded trigger. Time is milliseconds from recording start.
type Event struct {
	Type EventType `json:"type" jsonschema:"required,enum=gesture,enum=emotion,enum=shape"`
	Name string    `json:"name" jsonschema:"required,minLength=1"`
	Time int64     `json:"time" jsonschema:"required,minimum=0"`
}

// Timeline is the persisted form of a recording. A Duration of 0 means unknown.
type Timeline struct {
	Version  string  `json:"version" jsonschema:"required"`
	Duration int64   `json:"duration" jsonschema:"minimum=0"`
	Events   []Event `json:"events" jsonschema:"required"`
}

// ErrMalformed wraps every decode failure of persisted timeline data.
var ErrMalformed = errors.New("malformed timeline")

// wire tolerates fractional millisecond values and an absent duration.
type wire struct {
	Version  string   `json:"version"`
	Duration *float64 `json:"duration"`
	Events   []struct {
		Type EventType `json:"type"`
		Name string    `json:"name"`
		Time *float64  `json:"time"`
	} `json:"events"`
}

// Decode parses and validates timeline JSON.
func Decode(b []byte) (Timeline, error) {
	var w wire
	if err := json.Unmarshal(b, &w); err != nil {
		return Timeline{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	tl := Timeline{Version: w.Version, Events: make([]Event, 0, len(w.Events))}
	if tl.Version == "" {
		tl.Version = Version
	}
	if w.Duration != nil {
		d, err := millis(*w.Duration)
		if err != nil {
			return Timeline{}, fmt.Errorf("%w: duration: %v", ErrMalformed, err)
		}
		tl.Duration = d
	}
	for i, e := range w.Events {
		if !e.Type.Valid() {
			return Timeline{}, fmt.Errorf("%w: event %d: unknown type %q", ErrMalformed, i, e.Type)
		}
		if e.Name == "" {
			return Timeline{}, fmt.Errorf("%w: event %d: empty name", ErrMalformed, i)
		}
		if e.Time == nil {
			return Timeline{}, fmt.Errorf("%w: event %d: missing time", ErrMalformed, i)
		}
		ms, err := millis(*e.Time)
		if err != nil {
			return Timeline{}, fmt.Errorf("%w: event %d: %v", ErrMalformed, i, err)
		}
		tl.Events = append(tl.Events, Event{Type: e.Type, Name: e.Name, Time: ms})
	}
	return tl, nil
}

// Encode renders tl as JSON. A nil event list is written as [].
func Encode(tl Timeline) ([]byte, error) {
	if tl.Events == nil {
		tl.Events = []Event{}
	}
	if tl.Version == "" {
		tl.Version = Version
	}
	return json.Marshal(tl)
}

// MaxMillis is the largest time that still fits a time.Duration.
const MaxMillis = math.MaxInt64 / int64(time.Millisecond)

func millis(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a finite number")
	}
	if v < 0 {
		return 0, fmt.Errorf("negative time %v", v)
	}
	if v > float64(MaxMillis) {
		return 0, fmt.Errorf("time %v out of range", v)
	}
	return int64(math.Round(v)), nil
}

// End is the time of the last event, or Duration when that is later.
func (tl Timeline) End() int64 {
	end := tl.Duration
	for _, e := range tl.Events {
		if e.Time > end {
			end = e.Time
		}
	}
	return end
}
