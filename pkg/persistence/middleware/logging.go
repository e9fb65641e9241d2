package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.ProgressStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call at Debug and failures at Warn.
// A missing session on Load is not a failure.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.ProgressStore) ports.ProgressStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) Save(ctx context.Context, sessionID string, progress *domain.Progress) error {
	err := m.next.Save(ctx, sessionID, progress)
	m.log(ctx, "save", sessionID, err, "status", string(progress.Status), "step", progress.StepIndex)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, sessionID string) (*domain.Progress, error) {
	p, err := m.next.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		m.logger.DebugContext(ctx, "store load", "session", sessionID, "found", false)
		return p, err
	}
	m.log(ctx, "load", sessionID, err)
	return p, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, sessionID string) error {
	err := m.next.Delete(ctx, sessionID)
	m.log(ctx, "delete", sessionID, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	ids, err := m.next.List(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "store list failed", "err", err)
		return nil, err
	}
	m.logger.DebugContext(ctx, "store list", "sessions", len(ids))
	return ids, nil
}

func (m *loggingMiddleware) log(ctx context.Context, op, sessionID string, err error, attrs ...any) {
	attrs = append([]any{"session", sessionID}, attrs...)
	if err != nil {
		m.logger.WarnContext(ctx, "store "+op+" failed", append(attrs, "err", err)...)
		return
	}
	m.logger.DebugContext(ctx, "store "+op, attrs...)
}
