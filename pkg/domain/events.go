package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter EventType = "step_enter"
	EventResolve   EventType = "resolve"
	EventEffect    EventType = "effect"
	EventUnwind    EventType = "unwind"
	EventTourEnd   EventType = "tour_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	TourID    string    `json:"tour_id"`
}

// StepEvent reports entry into a step.
type StepEvent struct {
	EventBase
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Title string `json:"title"`
}

// ResolveEvent reports the completion of an anchor resolution.
type ResolveEvent struct {
	EventBase
	Index     int           `json:"index"`
	Succeeded bool          `json:"succeeded"`
	WindowID  string        `json:"window_id,omitempty"`
	ElementID string        `json:"element_id,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// EffectOp distinguishes applying from undoing a side effect.
type EffectOp string

const (
	EffectApply EffectOp = "apply"
	EffectUndo  EffectOp = "undo"
)

// EffectEvent reports one apply or undo of a ReversibleAction.
type EffectEvent struct {
	EventBase
	Op          EffectOp `json:"op"`
	Description string   `json:"description"`
	OK          bool     `json:"ok"`
}

// UnwindEvent reports the end of a backward unwind.
type UnwindEvent struct {
	EventBase
	From    int  `json:"from"`
	To      int  `json:"to"` // -1 when the unwind quit
	Undone  int  `json:"undone"`
	Skipped int  `json:"skipped"`
	Quit    bool `json:"quit"`
}

// TourEvent reports the end of a session.
type TourEvent struct {
	EventBase
	Status SessionStatus `json:"status"`
	Index  int           `json:"index"`
}

// LifecycleHooks defines callbacks for runtime observability.
// Every hook is optional and runs on the UI loop.
type LifecycleHooks struct {
	OnStepEnter func(context.Context, *StepEvent)
	OnResolve   func(context.Context, *ResolveEvent)
	OnEffect    func(context.Context, *EffectEvent)
	OnUnwind    func(context.Context, *UnwindEvent)
	OnTourEnd   func(context.Context, *TourEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStepEnter: chain(h.OnStepEnter, other.OnStepEnter),
		OnResolve:   chain(h.OnResolve, other.OnResolve),
		OnEffect:    chain(h.OnEffect, other.OnEffect),
		OnUnwind:    chain(h.OnUnwind, other.OnUnwind),
		OnTourEnd:   chain(h.OnTourEnd, other.OnTourEnd),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
