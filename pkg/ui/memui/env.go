package memui

import (
	"slices"

	"github.com/aretw0/waypoint/pkg/ui"
)

// Env is an in-memory window registry.
type Env struct {
	windows []*Window
	changed listeners[func()]
}

var _ ui.Environment = (*Env)(nil)

// New creates an empty environment.
func New() *Env {
	return &Env{}
}

// Windows implements ui.Environment.
func (e *Env) Windows() []ui.Window {
	out := make([]ui.Window, 0, len(e.windows))
	for _, w := range e.windows {
		out = append(out, w)
	}
	return out
}

// OnWindowsChanged implements ui.Environment.
func (e *Env) OnWindowsChanged(fn func()) ui.Subscription {
	return e.changed.add(fn)
}

// Window returns the open window with the given id, or nil.
func (e *Env) Window(id string) *Window {
	for _, w := range e.windows {
		if w.id == id {
			return w
		}
	}
	return nil
}

// Find returns the element with the given id in any open window's scene.
func (e *Env) Find(id string) *Element {
	for _, w := range e.windows {
		if el := w.Find(id); el != nil {
			return el
		}
	}
	return nil
}

// Open adds w to the registry and marks it showing.
func (e *Env) Open(w *Window) {
	if slices.Contains(e.windows, w) {
		return
	}
	before := captureLive(w.scene)
	e.windows = append(e.windows, w)
	w.showing = true

	e.changed.each(func(fn func()) { fn() })
	w.showingChanged.each(func(fn func(bool)) { fn(true) })
	fireLiveChanges(before)
}

// Close removes w from the registry and marks it hidden.
func (e *Env) Close(w *Window) {
	idx := slices.Index(e.windows, w)
	if idx < 0 {
		return
	}
	before := captureLive(w.scene)
	e.windows = slices.Delete(e.windows, idx, idx+1)
	w.showing = false

	e.changed.each(func(fn func()) { fn() })
	w.showingChanged.each(func(fn func(bool)) { fn(false) })
	fireLiveChanges(before)
}

// ListenerCount returns the number of live subscriptions across the registry, its
// windows and their scenes. Tests use it to detect leaked subscriptions.
func (e *Env) ListenerCount() int {
	n := e.changed.len()
	for _, w := range e.windows {
		n += w.ListenerCount()
	}
	return n
}
