package tests

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/funtimes-emotive/internal/diagnostics"
)

type target struct {
	calls []string
}

func (t *target) Emotions() []string { return []string{"joy", "bogus"} }
func (t *target) Gestures() []string { return []string{"nod", "spin", "wave"} }
func (t *target) Chains() []string   { return nil }
func (t *target) SetEmotion(n string) bool {
	t.calls = append(t.calls, "emotion:"+n)
	return n != "bogus"
}
func (t *target) TriggerGesture(n string) bool {
	t.calls = append(t.calls, "gesture:"+n)
	return true
}
func (t *target) Chain(n string) bool { return true }

func TestGestureSweepHoldsBetweenSteps(t *testing.T) {
	tg := &target{}
	r := NewRunner(Plan{Kind: GestureSweep, Hold: 2})
	frames := 0
	for r.Step(tg) {
		frames++
	}
	assert.Equal(t, []string{"gesture:nod", "gesture:spin", "gesture:wave"}, tg.calls)
	assert.Equal(t, 6, frames)
	done, total := r.Progress()
	assert.Equal(t, 3, done)
	assert.Equal(t, 3, total)
	assert.Equal(t, diagnostics.SelfTestDone, r.Report().Code)
}

func TestEmotionSweepReportsRejected(t *testing.T) {
	tg := &target{}
	r := NewRunner(Plan{Kind: EmotionSweep, Hold: 1})
	for r.Step(tg) {
	}
	d := r.Report()
	assert.Equal(t, diagnostics.Warn, d.Severity)
	assert.Equal(t, []string{"bogus"}, d.Evidence["rejected"])
}

func TestEmptyAndUnknownPlans(t *testing.T) {
	assert.False(t, NewRunner(Plan{Kind: ChainSweep}).Step(&target{}))
	assert.False(t, NewRunner(Plan{}).Step(&target{}))
}
