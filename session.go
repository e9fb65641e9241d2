package waypoint

import (
	"sync"
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/walkthrough"
)

// Session is one running walkthrough.
type Session struct {
	id     string
	tour   *domain.Tour
	state  *walkthrough.State
	driver *walkthrough.Driver

	mu       sync.RWMutex
	progress domain.Progress
	done     chan struct{}
	once     sync.Once
}

func newSession(id string, tour *domain.Tour) *Session {
	return &Session{
		id:       id,
		tour:     tour,
		state:    walkthrough.NewState(tour),
		progress: *domain.NewProgress(id, tour),
		done:     make(chan struct{}),
	}
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Tour returns the tour being run.
func (s *Session) Tour() *domain.Tour { return s.tour }

// State returns the walkthrough state. It must only be read on the UI loop.
func (s *Session) State() *walkthrough.State { return s.state }

// Next advances to the following step, completing the tour after the last one.
func (s *Session) Next() error { return s.driver.Next() }

// Back unwinds to the nearest earlier step that can still be shown.
func (s *Session) Back() error { return s.driver.Back() }

// Abort reverts every applied side effect and quits the tour.
func (s *Session) Abort() { s.driver.Abort() }

// Done is closed when the session completes or quits.
func (s *Session) Done() <-chan struct{} { return s.done }

// Progress returns the latest snapshot of the session.
func (s *Session) Progress() domain.Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

func (s *Session) snapshot() domain.Progress {
	p := domain.Progress{
		SessionID: s.id,
		TourID:    s.tour.ID,
		StepIndex: s.state.CurrentStepIndex(),
		StepCount: s.state.Len(),
		Status:    s.state.Status(),
		UpdatedAt: time.Now().UTC(),
	}
	if step := s.state.Current(); step != nil {
		p.StepTitle = step.StepTitle()
	}

	s.mu.Lock()
	s.progress = p
	s.mu.Unlock()
	return p
}

func (s *Session) finish() {
	s.once.Do(func() { close(s.done) })
}
