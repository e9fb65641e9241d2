package domain

import "time"

// SessionStatus describes where a walkthrough session is in its lifecycle.
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"    // Steps are being presented
	StatusCompleted SessionStatus = "completed" // The last step was passed
	StatusQuit      SessionStatus = "quit"      // Unwound past the first step or aborted
)

// Progress is the persisted snapshot of a walkthrough session.
type Progress struct {
	SessionID string        `json:"session_id"`
	TourID    string        `json:"tour_id"`
	StepIndex int           `json:"step_index"`
	StepTitle string        `json:"step_title,omitempty"`
	StepCount int           `json:"step_count"`
	Status    SessionStatus `json:"status"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewProgress creates the snapshot of a session positioned on its first step.
func NewProgress(sessionID string, tour *Tour) *Progress {
	p := &Progress{
		SessionID: sessionID,
		TourID:    tour.ID,
		StepCount: len(tour.Steps),
		Status:    StatusActive,
		UpdatedAt: time.Now().UTC(),
	}
	if len(tour.Steps) > 0 {
		p.StepTitle = tour.Steps[0].StepTitle()
	}
	return p
}

// Terminal reports whether the session has ended.
func (p *Progress) Terminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusQuit
}
