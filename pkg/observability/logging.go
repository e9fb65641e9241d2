package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/waypoint/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one record per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	with := func(b domain.EventBase) *slog.Logger {
		return logger.With("session", b.SessionID, "tour", b.TourID)
	}
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			with(e.EventBase).DebugContext(ctx, "step_enter", "step", e.Index, "kind", e.Kind, "title", e.Title)
		},
		OnResolve: func(ctx context.Context, e *domain.ResolveEvent) {
			l := with(e.EventBase)
			if !e.Succeeded {
				l.WarnContext(ctx, "resolve_failed", "step", e.Index, "duration", e.Duration)
				return
			}
			l.DebugContext(ctx, "resolve", "step", e.Index, "window", e.WindowID, "element", e.ElementID, "duration", e.Duration)
		},
		OnEffect: func(ctx context.Context, e *domain.EffectEvent) {
			l := with(e.EventBase)
			if !e.OK {
				l.WarnContext(ctx, "effect_failed", "op", e.Op, "action", e.Description)
				return
			}
			l.DebugContext(ctx, "effect", "op", e.Op, "action", e.Description)
		},
		OnUnwind: func(ctx context.Context, e *domain.UnwindEvent) {
			with(e.EventBase).InfoContext(ctx, "unwind",
				"from", e.From,
				"to", e.To,
				"undone", e.Undone,
				"skipped", e.Skipped,
				"quit", e.Quit,
			)
		},
		OnTourEnd: func(ctx context.Context, e *domain.TourEvent) {
			with(e.EventBase).InfoContext(ctx, "tour_end", "status", e.Status, "step", e.Index)
		},
	}
}
