package ports

import (
	"context"

	"github.com/aretw0/waypoint/pkg/domain"
)

// ProgressStore defines the interface for persisting session progress.
// Progress is written after every transition so sessions can be inspected from
// another process, and resumed at their last position.
type ProgressStore interface {
	// Save persists the progress for a given session ID.
	Save(ctx context.Context, sessionID string, progress *domain.Progress) error

	// Load retrieves the progress for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Progress, error)

	// Delete removes the progress for a given session ID.
	// Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
