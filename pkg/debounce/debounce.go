// Package debounce coalesces bursts of notifications into a single reaction.
//
// A Debouncer is not a throttle: every Call reschedules the pending reaction a full
// interval into the future, so a sustained burst delays the reaction until one
// quiet interval has passed.
package debounce

import (
	"time"

	"github.com/aretw0/waypoint/pkg/ui"
)

// Debouncer runs its reaction on the loop once calls have stopped for interval.
type Debouncer struct {
	loop     ui.Loop
	interval time.Duration
	reaction func()

	pending    ui.Timer
	generation uint64
}

// New creates a Debouncer. Nothing is scheduled until Call.
func New(loop ui.Loop, interval time.Duration, reaction func()) *Debouncer {
	return &Debouncer{loop: loop, interval: interval, reaction: reaction}
}

// Call (re)schedules the reaction interval from now, discarding any unfired
// earlier schedule.
func (d *Debouncer) Call() {
	d.stop()
	gen := d.generation
	d.pending = d.loop.AfterFunc(d.interval, func() {
		if gen != d.generation {
			return
		}
		d.pending = nil
		d.generation++
		d.reaction()
	})
}

// Cancel discards the pending reaction without running it.
func (d *Debouncer) Cancel() {
	d.stop()
}

// Pending reports whether a reaction is scheduled.
func (d *Debouncer) Pending() bool {
	return d.pending != nil
}

func (d *Debouncer) stop() {
	d.generation++
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
