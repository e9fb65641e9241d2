package memui

import (
	"slices"

	"github.com/aretw0/waypoint/pkg/ui"
)

type entry[T any] struct {
	fn      T
	removed bool
}

// listeners is an ordered listener list that tolerates cancellation during dispatch.
type listeners[T any] struct {
	entries []*entry[T]
}

func (l *listeners[T]) add(fn T) ui.Subscription {
	e := &entry[T]{fn: fn}
	l.entries = append(l.entries, e)
	return ui.SubscriptionFunc(func() {
		e.removed = true
		l.entries = slices.DeleteFunc(l.entries, func(x *entry[T]) bool { return x == e })
	})
}

func (l *listeners[T]) each(call func(T)) {
	for _, e := range slices.Clone(l.entries) {
		if !e.removed {
			call(e.fn)
		}
	}
}

func (l *listeners[T]) len() int {
	return len(l.entries)
}
