// Package reverter watches the anchor of the current walkthrough step and, when it
// disappears, unwinds the walkthrough to the last step that can still be resumed.
//
// Unwinding walks the steps backwards from the current position. Side-effect steps
// are always undone, even when the scan lands several positions further back, so the
// application state matches "positioned before this step". Anchor steps carry no side
// effect: they are either resumable (the scan stops there) or skipped.
package reverter

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ui"
)

// DefaultDelay lets the host toolkit finish re-dispatching within the same tick
// before an invalidation is acted upon.
const DefaultDelay = 50 * time.Millisecond

// Walkthrough is the navigation surface the reverter drives.
type Walkthrough interface {
	CurrentStepIndex() int
	StepAt(i int) domain.Step
	GoToStep(i int) error
	Quit()
}

// Executor undoes reversible actions.
type Executor interface {
	Undo(action domain.ReversibleAction) bool
}

// Option configures a Reverter.
type Option func(*Reverter)

// WithDelay sets the pause between an invalidation and the unwind.
func WithDelay(d time.Duration) Option {
	return func(r *Reverter) {
		r.delay = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reverter) {
		r.logger = logger
	}
}

// WithFallbackLocator re-runs loc at the start of every unwind, replacing the
// fallback window captured earlier.
func WithFallbackLocator(loc domain.WindowLocator) Option {
	return func(r *Reverter) {
		r.fallbackLocator = loc
	}
}

// WithLifecycleHooks registers observability hooks. Only OnUnwind is used.
func WithLifecycleHooks(ctx context.Context, hooks domain.LifecycleHooks, base domain.EventBase) Option {
	return func(r *Reverter) {
		r.ctx = ctx
		r.hooks = hooks
		r.base = base
	}
}

// Reverter watches one resolved anchor at a time.
type Reverter struct {
	tour     Walkthrough
	env      ui.Environment
	fallback ui.Window
	exec     Executor

	fallbackLocator domain.WindowLocator

	loop     ui.Loop
	delay    time.Duration
	logger   *slog.Logger

	ctx   context.Context
	hooks domain.LifecycleHooks
	base  domain.EventBase

	windowSub  ui.Subscription
	elementSub ui.Subscription
	pending    ui.Timer
}

// New creates a Reverter. fallback is the window used by anchor steps that declare
// no window locator; it may be nil.
func New(tour Walkthrough, env ui.Environment, fallback ui.Window, exec Executor, loop ui.Loop, opts ...Option) *Reverter {
	r := &Reverter{
		tour:     tour,
		env:      env,
		fallback: fallback,
		exec:     exec,
		loop:     loop,
		delay:    DefaultDelay,
		logger:   logging.NewNop(),
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetFallbackWindow replaces the fallback window.
func (r *Reverter) SetFallbackWindow(w ui.Window) {
	r.fallback = w
}

// Attach starts watching window and, when non-nil, element. Any previous watch is
// detached first.
func (r *Reverter) Attach(window ui.Window, element ui.Element) {
	r.Detach()
	r.windowSub = window.OnShowingChanged(func(showing bool) {
		if !showing {
			r.schedule("window closed")
		}
	})
	if element != nil {
		r.elementSub = element.OnVisibilityChanged(func(visible bool) {
			if !visible {
				r.schedule("element hidden")
			}
		})
	}
}

// Attached reports whether a watch is active.
func (r *Reverter) Attached() bool {
	return r.windowSub != nil
}

// Detach stops watching and discards a pending unwind. It is idempotent.
func (r *Reverter) Detach() {
	ui.CancelAll(r.windowSub, r.elementSub)
	r.windowSub = nil
	r.elementSub = nil
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
}

// FindAndUndo detaches and unwinds from the current step.
func (r *Reverter) FindAndUndo() {
	r.Detach()
	r.UndoTo(r.tour.CurrentStepIndex())
}

// UndoTo scans the steps before from, newest first. Side effects are undone; the
// first resumable anchor is navigated to. When none exists the walkthrough quits.
func (r *Reverter) UndoTo(from int) {
	if r.fallbackLocator != nil {
		r.fallback = domain.SafeWindow(r.fallbackLocator, r.env, r.logger)
	}
	undone, skipped := 0, 0
	for i := from - 1; i >= 0; i-- {
		switch step := r.tour.StepAt(i).(type) {
		case domain.VisibleComponent:
			if !r.resumable(step) {
				r.logger.Debug("skipping unresolvable anchor", "index", i, "title", step.Title)
				skipped++
				continue
			}
			r.logger.Info("unwound to resumable step", "from", from, "to", i, "undone", undone, "skipped", skipped)
			r.emit(from, i, undone, skipped, false)
			if err := r.tour.GoToStep(i); err != nil {
				r.logger.Error("failed to navigate to resumable step", "index", i, "err", err)
			}
			return
		case domain.SideEffect:
			if !r.exec.Undo(step.Effect) {
				r.logger.Warn("undo failed, continuing unwind", "index", i, "title", step.Title)
			}
			undone++
		default:
			r.logger.Error("unknown step kind during unwind", "index", i)
		}
	}

	r.logger.Info("no resumable step, quitting walkthrough", "from", from, "undone", undone, "skipped", skipped)
	r.emit(from, -1, undone, skipped, true)
	r.tour.Quit()
}

// RevertAll undoes every side effect from the current step down to the first,
// without any resumption logic.
func (r *Reverter) RevertAll() {
	r.Detach()
	for i := r.tour.CurrentStepIndex(); i >= 0; i-- {
		switch step := r.tour.StepAt(i).(type) {
		case domain.VisibleComponent:
		case domain.SideEffect:
			if !r.exec.Undo(step.Effect) {
				r.logger.Warn("undo failed during revert", "index", i, "title", step.Title)
			}
		default:
			r.logger.Error("unknown step kind during revert", "index", i)
		}
	}
}

func (r *Reverter) schedule(reason string) {
	r.logger.Debug("anchor invalidated", "reason", reason)
	if r.pending != nil {
		r.pending.Stop()
	}
	r.pending = r.loop.AfterFunc(r.delay, func() {
		r.pending = nil
		r.FindAndUndo()
	})
}

func (r *Reverter) resumable(step domain.VisibleComponent) bool {
	window := r.fallback
	if step.Window != nil {
		window = domain.SafeWindow(step.Window, r.env, r.logger)
	}
	if window == nil || !window.IsShowing() {
		return false
	}
	if step.Element == nil {
		return true
	}
	scene := window.Scene()
	if scene == nil {
		return false
	}
	return domain.SafeElement(step.Element, scene, r.logger) != nil
}

func (r *Reverter) emit(from, to, undone, skipped int, quit bool) {
	if r.hooks.OnUnwind == nil {
		return
	}
	base := r.base
	base.Timestamp = time.Now().UTC()
	base.Type = domain.EventUnwind
	r.hooks.OnUnwind(r.ctx, &domain.UnwindEvent{
		EventBase: base,
		From:      from,
		To:        to,
		Undone:    undone,
		Skipped:   skipped,
		Quit:      quit,
	})
}
