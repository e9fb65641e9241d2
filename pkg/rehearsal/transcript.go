package rehearsal

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Entry is one line of a transcript.
type Entry struct {
	At   time.Duration `json:"at"`
	Text string        `json:"text"`
}

// Transcript records what a rehearsal presented and changed.
type Transcript struct {
	Tour      string               `json:"tour"`
	Steps     int                  `json:"steps"`
	Entries   []Entry              `json:"entries"`
	Status    domain.SessionStatus `json:"status"`
	StepIndex int                  `json:"step_index"`
	Flags     map[string]any       `json:"flags,omitempty"`
}

func (t *Transcript) add(at time.Duration, text string) {
	t.Entries = append(t.Entries, Entry{At: at, Text: text})
}

// String renders the transcript as aligned text, one entry per line.
func (t *Transcript) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tour %s (%d steps)\n", t.Tour, t.Steps)
	for _, e := range t.Entries {
		fmt.Fprintf(&b, "%8s  %s\n", e.At, e.Text)
	}
	fmt.Fprintf(&b, "status %s at step %d\n", t.Status, t.StepIndex)
	if t.Flags != nil {
		keys := make([]string, 0, len(t.Flags))
		for k := range t.Flags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) == 0 {
			b.WriteString("flags (none)\n")
		} else {
			parts := make([]string, len(keys))
			for i, k := range keys {
				parts[i] = fmt.Sprintf("%s=%v", k, t.Flags[k])
			}
			fmt.Fprintf(&b, "flags %s\n", strings.Join(parts, " "))
		}
	}
	return b.String()
}

type clock interface {
	Now() time.Duration
}

// recorder is both the presenter and a set of lifecycle hooks.
type recorder struct {
	clock clock
	tr    *Transcript
}

func (r *recorder) note(format string, args ...any) {
	r.tr.add(r.clock.Now(), fmt.Sprintf(format, args...))
}

func (r *recorder) Present(index int, step domain.VisibleComponent, result domain.ResolutionResult) {
	if !result.Succeeded() {
		r.note("present %d unanchored", index)
		return
	}
	target := result.Window.ID()
	if result.Element != nil {
		target += "/" + result.Element.ID()
	}
	r.note("present %d at %s", index, target)
}

func (r *recorder) Dismiss() {
	r.note("dismiss")
}

func (r *recorder) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) {
			r.note("enter %d %s %q", e.Index, e.Kind, e.Title)
		},
		OnEffect: func(_ context.Context, e *domain.EffectEvent) {
			outcome := "ok"
			if !e.OK {
				outcome = "failed"
			}
			r.note("%s %q %s", e.Op, e.Description, outcome)
		},
		OnUnwind: func(_ context.Context, e *domain.UnwindEvent) {
			if e.Quit {
				r.note("unwind from %d: quit (undone %d, skipped %d)", e.From, e.Undone, e.Skipped)
				return
			}
			r.note("unwind from %d to %d (undone %d, skipped %d)", e.From, e.To, e.Undone, e.Skipped)
		},
		OnTourEnd: func(_ context.Context, e *domain.TourEvent) {
			r.note("end %s at %d", e.Status, e.Index)
		},
	}
}
