package uiloop

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/waypoint/pkg/ui"
)

// Loop is a ui.Loop backed by a dedicated goroutine and the wall clock.
// Post and AfterFunc are safe to call from any goroutine; callbacks always run on
// the goroutine executing Run.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
}

// New creates a loop. Nothing runs until Run is called.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post implements ui.Loop.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// AfterFunc implements ui.Loop.
func (l *Loop) AfterFunc(d time.Duration, fn func()) ui.Timer {
	t := &wallTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			// stopped is only touched on the loop goroutine.
			if t.stopped {
				return
			}
			t.fired = true
			fn()
		})
	})
	return t
}

// Run executes posted work until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.mu.Lock()
		batch := l.pending
		l.pending = nil
		l.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
		if len(batch) > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

type wallTimer struct {
	timer   *time.Timer
	stopped bool
	fired   bool
}

// Stop must be called on the loop goroutine, like every other ui call.
func (t *wallTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}
