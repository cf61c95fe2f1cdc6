package ws

import (
	"encoding/json"
	"time"

	"github.com/coreman2200/funtimes-emotive/internal/emotive"
	"github.com/coreman2200/funtimes-emotive/internal/tests"
)

// ControlMsg is one command on /control. Op selects the command; the other
// fields are read as that command needs them.
type ControlMsg struct {
	Op         string          `json:"op"`
	Name       string          `json:"name,omitempty"`
	Undertone  string          `json:"undertone,omitempty"`
	DurationMs int             `json:"durationMs,omitempty"`
	Intensity  float64         `json:"intensity,omitempty"`
	Delta      float64         `json:"delta,omitempty"`
	Limit      float64         `json:"limit,omitempty"`
	TimeMs     *int64          `json:"timeMs,omitempty"`
	Timeline   json.RawMessage `json:"timeline,omitempty"`
}

// Reply answers every ControlMsg.
type Reply struct {
	Op    string `json:"op"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// Apply runs one command against the core.
func (s *Server) Apply(m ControlMsg) Reply {
	c := s.Core
	r := Reply{Op: m.Op}
	fail := func(err error) Reply {
		r.Error = err.Error()
		return r
	}
	switch m.Op {
	case "emotion":
		r.OK = c.SetEmotion(m.Name, emotive.EmotionOptions{
			Undertone: m.Undertone,
			Duration:  time.Duration(m.DurationMs) * time.Millisecond,
			Intensity: m.Intensity,
		})
	case "undertone":
		r.OK = c.SetUndertone(m.Name)
	case "gesture":
		if m.TimeMs != nil {
			r.OK = c.TriggerGestureAt(m.Name, *m.TimeMs)
		} else {
			r.OK = c.TriggerGesture(m.Name)
		}
	case "chain":
		r.OK = c.Chain(m.Name)
	case "stopChains":
		r.OK, r.Data = true, c.StopChains()
	case "shape":
		r.OK = c.SetShape(m.Name)
	case "push":
		r.OK = c.PushEmotion(m.Name, m.Intensity)
	case "nudge":
		r.OK = c.NudgeEmotion(m.Name, m.Delta, m.Limit)
	case "clear":
		c.ClearEmotions()
		r.OK = true
	case "beat":
		r.OK = c.Beat()
	case "record":
		c.StartRecording()
		r.OK = true
	case "stopRecord":
		r.OK, r.Data = true, c.StopRecording()
	case "play":
		if len(m.Timeline) > 0 {
			if err := c.ImportJSON(m.Timeline); err != nil {
				return fail(err)
			}
		}
		c.Play(nil)
		r.OK = true
	case "stopPlay":
		c.StopPlayback()
		r.OK = true
	case "seek":
		var at int64
		if m.TimeMs != nil {
			at = *m.TimeMs
		}
		r.OK, r.Data = true, c.Seek(at)
	case "import":
		if err := c.ImportJSON(m.Timeline); err != nil {
			return fail(err)
		}
		r.OK = true
	case "export":
		r.OK, r.Data = true, c.Export()
	case "save":
		if err := c.SaveTimeline(m.Name); err != nil {
			return fail(err)
		}
		r.OK = true
	case "load":
		if err := c.LoadTimeline(m.Name); err != nil {
			return fail(err)
		}
		r.OK = true
	case "list":
		names, err := c.Timelines()
		if err != nil {
			return fail(err)
		}
		r.OK, r.Data = true, names
	case "test":
		r.OK = c.RunTest(tests.Kind(m.Name))
	case "state":
		r.OK, r.Data = true, map[string]any{
			"state":     c.State(),
			"emotional": c.EmotionalState(),
			"status":    c.Status(),
		}
	default:
		r.Error = "unknown op"
		s.Log.Warn().Str("op", m.Op).Msg("unknown control op")
	}
	return r
}
