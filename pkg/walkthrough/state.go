package walkthrough

import (
	"fmt"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ui"
)

// ChangeKind tells listeners what happened to the State.
type ChangeKind int

const (
	ChangeStep ChangeKind = iota
	ChangeComplete
	ChangeQuit
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeStep:
		return "step"
	case ChangeComplete:
		return "complete"
	case ChangeQuit:
		return "quit"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// Change describes one transition of the State.
type Change struct {
	Kind  ChangeKind
	From  int
	Index int
}

// State holds the step list and the current position of a walkthrough.
// It is confined to the UI loop.
type State struct {
	tour      *domain.Tour
	index     int
	status    domain.SessionStatus
	listeners []*stateListener
}

type stateListener struct {
	fn      func(Change)
	removed bool
}

// NewState positions a walkthrough on its first step.
func NewState(tour *domain.Tour) *State {
	return &State{
		tour:   tour,
		status: domain.StatusActive,
	}
}

func (s *State) Tour() *domain.Tour           { return s.tour }
func (s *State) Len() int                     { return len(s.tour.Steps) }
func (s *State) CurrentStepIndex() int        { return s.index }
func (s *State) Status() domain.SessionStatus { return s.status }
func (s *State) Terminal() bool               { return s.status != domain.StatusActive }

// StepAt returns the step at i, or nil when i is out of range.
func (s *State) StepAt(i int) domain.Step {
	if i < 0 || i >= len(s.tour.Steps) {
		return nil
	}
	return s.tour.Steps[i]
}

// Current returns the current step.
func (s *State) Current() domain.Step {
	return s.StepAt(s.index)
}

// GoToStep moves to step i and notifies listeners.
func (s *State) GoToStep(i int) error {
	if s.Terminal() {
		return domain.ErrTourFinished
	}
	if i < 0 || i >= len(s.tour.Steps) {
		return fmt.Errorf("%w: %d of %d", domain.ErrStepOutOfRange, i, len(s.tour.Steps))
	}
	from := s.index
	s.index = i
	s.notify(Change{Kind: ChangeStep, From: from, Index: i})
	return nil
}

// Complete ends the walkthrough after its last step.
func (s *State) Complete() {
	s.end(domain.StatusCompleted, ChangeComplete)
}

// Quit ends the walkthrough early.
func (s *State) Quit() {
	s.end(domain.StatusQuit, ChangeQuit)
}

func (s *State) end(status domain.SessionStatus, kind ChangeKind) {
	if s.Terminal() {
		return
	}
	s.status = status
	s.notify(Change{Kind: kind, From: s.index, Index: s.index})
}

// OnChange registers fn for every transition.
func (s *State) OnChange(fn func(Change)) ui.Subscription {
	l := &stateListener{fn: fn}
	s.listeners = append(s.listeners, l)
	return ui.SubscriptionFunc(func() {
		l.removed = true
		for i, other := range s.listeners {
			if other == l {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	})
}

func (s *State) notify(c Change) {
	snapshot := append([]*stateListener(nil), s.listeners...)
	for _, l := range snapshot {
		if !l.removed {
			l.fn(c)
		}
	}
}
