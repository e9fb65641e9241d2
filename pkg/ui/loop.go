package ui

import "time"

// Loop is the single execution context that owns the user interface.
// Every callback registered through this package runs on it.
type Loop interface {
	// Post schedules fn to run on a later tick of the loop.
	Post(fn func())

	// AfterFunc schedules fn to run on the loop once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Clock is implemented by loops that keep their own time, such as a virtual test clock.
// Durations measured on the loop use it when available and wall time otherwise.
type Clock interface {
	Now() time.Duration
}

// Timer is a pending execution created by Loop.AfterFunc.
type Timer interface {
	// Stop prevents the timer from firing.
	// It returns false if the timer already fired or was stopped.
	Stop() bool
}

// Subscription is a registered listener. Cancel is idempotent.
type Subscription interface {
	Cancel()
}

// SubscriptionFunc adapts a plain function to Subscription.
// The function runs at most once regardless of how often Cancel is called.
func SubscriptionFunc(fn func()) Subscription {
	return &funcSubscription{fn: fn}
}

type funcSubscription struct {
	fn func()
}

func (s *funcSubscription) Cancel() {
	if s.fn == nil {
		return
	}
	fn := s.fn
	s.fn = nil
	fn()
}

// CancelAll cancels every non-nil subscription in subs.
func CancelAll(subs ...Subscription) {
	for _, s := range subs {
		if s != nil {
			s.Cancel()
		}
	}
}
