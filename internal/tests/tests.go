// Package tests holds scripted self-test plans the server can run against
// the live core, one step at a time from the frame loop.
package tests

import (
	"fmt"

	"github.com/coreman2200/funtimes-emotive/internal/diagnostics"
)

type Kind string

const (
	None         Kind = ""
	EmotionSweep Kind = "emotion_sweep"
	GestureSweep Kind = "gesture_sweep"
	ChainSweep   Kind = "chain_sweep"
)

// DefaultHold is the number of frames between steps.
const DefaultHold = 30

// Target is the part of the core a plan drives.
type Target interface {
	Emotions() []string
	Gestures() []string
	Chains() []string
	SetEmotion(name string) bool
	TriggerGesture(name string) bool
	Chain(name string) bool
}

type Plan struct {
	Kind Kind `json:"kind"`
	Hold int  `json:"hold,omitempty"`
}

// Runner walks one plan. Every Hold frames it applies the next item.
type Runner struct {
	plan   Plan
	items  []string
	frame  int
	step   int
	failed []string
}

func NewRunner(plan Plan) *Runner {
	if plan.Hold <= 0 {
		plan.Hold = DefaultHold
	}
	return &Runner{plan: plan}
}

func (r *Runner) Kind() Kind { return r.plan.Kind }

// Progress reports items applied and items total.
func (r *Runner) Progress() (int, int) { return r.step, len(r.items) }

// Step advances one frame; returns false when complete.
func (r *Runner) Step(t Target) bool {
	if r.frame == 0 {
		switch r.plan.Kind {
		case EmotionSweep:
			r.items = t.Emotions()
		case GestureSweep:
			r.items = t.Gestures()
		case ChainSweep:
			r.items = t.Chains()
		default:
			return false
		}
	}
	if r.step >= len(r.items) {
		return false
	}
	if r.frame%r.plan.Hold == 0 {
		name := r.items[r.step]
		var ok bool
		switch r.plan.Kind {
		case EmotionSweep:
			ok = t.SetEmotion(name)
		case GestureSweep:
			ok = t.TriggerGesture(name)
		case ChainSweep:
			ok = t.Chain(name)
		}
		if !ok {
			r.failed = append(r.failed, name)
		}
		r.step++
	}
	r.frame++
	return true
}

// Report summarizes the run.
func (r *Runner) Report() diagnostics.Diagnostic {
	if len(r.failed) > 0 {
		d := diagnostics.New(diagnostics.Warn, diagnostics.SelfTestFailed,
			fmt.Sprintf("%s: %d of %d items rejected", r.plan.Kind, len(r.failed), len(r.items)))
		d.LikelyCauses = []string{"catalog or chain table references a name the core does not know"}
		return d.With("rejected", r.failed)
	}
	return diagnostics.New(diagnostics.Info, diagnostics.SelfTestDone,
		fmt.Sprintf("%s: %d items ok", r.plan.Kind, len(r.items))).With("items", len(r.items))
}
