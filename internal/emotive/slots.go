package emotive

import (
	"sort"
	"time"

	"github.com/coreman2200/funtimes-emotive/internal/catalog"
	"github.com/coreman2200/funtimes-emotive/internal/easing"
)

// Slot is one weighted secondary emotion.
type Slot struct {
	Emotion   string  `json:"emotion"`
	Intensity float64 `json:"intensity"`

	seq uint64
}

// EmotionalState reports the slot blend. Slots are ordered strongest first.
// Dominant is recomputed on every slot change and mirrored in
// ResolvedState.Dominant. It never retargets the primary emotion or starts
// a transition; the primary only moves through SetEmotion.
type EmotionalState struct {
	Dominant string `json:"dominant"`
	Slots    []Slot `json:"slots"`
}

// PushEmotion inserts the emotion at intensity, or re-weights it if already
// present. Pushing into a full set evicts the weakest slot, oldest first on
// ties. An intensity of 0 removes the slot.
func (m *Machine) PushEmotion(name string, intensity float64) bool {
	n, ok := m.cat.Canonical(name)
	if !ok {
		m.log.Warn().Str("emotion", name).Msg("unknown emotion for slot")
		return false
	}
	intensity = easing.Clamp01(intensity)
	m.slotSeq++
	if i := m.slotIndex(n); i >= 0 {
		if intensity == 0 {
			m.removeSlot(i)
			return true
		}
		m.slots[i].Intensity = intensity
		m.slots[i].seq = m.slotSeq
		return true
	}
	if intensity == 0 {
		return true
	}
	if len(m.slots) >= m.opts.MaxSlots {
		m.removeSlot(m.weakestSlot())
	}
	m.slots = append(m.slots, Slot{Emotion: n, Intensity: intensity, seq: m.slotSeq})
	return true
}

// NudgeEmotion adds delta to the slot's intensity, clamped to [0, limit].
// A missing slot is created when delta is positive. A slot reaching 0 is
// removed. A limit outside (0,1] means 1.
func (m *Machine) NudgeEmotion(name string, delta, limit float64) bool {
	n, ok := m.cat.Canonical(name)
	if !ok {
		m.log.Warn().Str("emotion", name).Msg("unknown emotion for slot")
		return false
	}
	if limit <= 0 || limit > 1 {
		limit = 1
	}
	i := m.slotIndex(n)
	if i < 0 {
		if delta <= 0 {
			return true
		}
		return m.PushEmotion(n, min(delta, limit))
	}
	v := m.slots[i].Intensity + delta
	if v > limit {
		v = limit
	}
	if v <= 1e-9 {
		m.removeSlot(i)
		return true
	}
	m.slots[i].Intensity = v
	return true
}

// ClearEmotions empties the slot set; the dominant emotion reverts to neutral.
func (m *Machine) ClearEmotions() {
	m.slots = m.slots[:0]
}

// Dominant returns the strongest slot's emotion, preferring the most
// recently pushed on ties, or neutral when no slots exist.
func (m *Machine) Dominant() string {
	best := -1
	for i, s := range m.slots {
		if best < 0 || s.Intensity > m.slots[best].Intensity ||
			(s.Intensity == m.slots[best].Intensity && s.seq > m.slots[best].seq) {
			best = i
		}
	}
	if best < 0 {
		return catalog.Neutral
	}
	return m.slots[best].Emotion
}

// EmotionalState returns the dominant emotion and a copy of the slots.
func (m *Machine) EmotionalState() EmotionalState {
	out := EmotionalState{Dominant: m.Dominant(), Slots: make([]Slot, len(m.slots))}
	copy(out.Slots, m.slots)
	sort.SliceStable(out.Slots, func(i, j int) bool {
		if out.Slots[i].Intensity != out.Slots[j].Intensity {
			return out.Slots[i].Intensity > out.Slots[j].Intensity
		}
		return out.Slots[i].seq > out.Slots[j].seq
	})
	return out
}

func (m *Machine) decaySlots(dt time.Duration) {
	if m.opts.SlotDecayPerSec <= 0 || dt <= 0 {
		return
	}
	step := m.opts.SlotDecayPerSec * dt.Seconds()
	kept := m.slots[:0]
	for _, s := range m.slots {
		s.Intensity -= step
		if s.Intensity > 1e-9 {
			kept = append(kept, s)
		}
	}
	m.slots = kept
}

func (m *Machine) slotIndex(name string) int {
	for i, s := range m.slots {
		if s.Emotion == name {
			return i
		}
	}
	return -1
}

func (m *Machine) weakestSlot() int {
	w := 0
	for i, s := range m.slots {
		if s.Intensity < m.slots[w].Intensity ||
			(s.Intensity == m.slots[w].Intensity && s.seq < m.slots[w].seq) {
			w = i
		}
	}
	return w
}

func (m *Machine) removeSlot(i int) {
	m.slots = append(m.slots[:i], m.slots[i+1:]...)
}
