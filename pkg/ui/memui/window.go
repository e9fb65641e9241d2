package memui

import "github.com/aretw0/waypoint/pkg/ui"

// Window is an in-memory top-level window.
type Window struct {
	id      string
	title   string
	main    bool
	focused bool
	showing bool
	scene   *Element

	sceneAttached  listeners[func()]
	showingChanged listeners[func(bool)]
}

var _ ui.Window = (*Window)(nil)

// NewWindow creates a closed window without a scene.
func NewWindow(id, title string) *Window {
	return &Window{id: id, title: title}
}

// SetMain marks the window as the application's main window.
func (w *Window) SetMain(main bool) *Window {
	w.main = main
	return w
}

// SetFocused marks the window as focused.
func (w *Window) SetFocused(focused bool) *Window {
	w.focused = focused
	return w
}

func (w *Window) ID() string      { return w.id }
func (w *Window) Title() string   { return w.title }
func (w *Window) IsMain() bool    { return w.main }
func (w *Window) IsShowing() bool { return w.showing }
func (w *Window) IsFocused() bool { return w.focused }

// Scene implements ui.Window.
func (w *Window) Scene() ui.Element {
	if w.scene == nil {
		return nil
	}
	return w.scene.self
}

// Root returns the attached scene root, or nil.
func (w *Window) Root() *Element {
	return w.scene
}

// OnSceneAttached implements ui.Window.
func (w *Window) OnSceneAttached(fn func()) ui.Subscription {
	return w.sceneAttached.add(fn)
}

// OnShowingChanged implements ui.Window.
func (w *Window) OnShowingChanged(fn func(bool)) ui.Subscription {
	return w.showingChanged.add(fn)
}

// AttachScene replaces the window's scene root with root.
func (w *Window) AttachScene(root *Element) {
	if root.parent != nil {
		root.parent.Remove(root)
	}
	before := captureLive(w.scene, root)
	if w.scene != nil {
		w.scene.window = nil
	}
	w.scene = root
	root.window = w

	w.sceneAttached.each(func(fn func()) { fn() })
	fireLiveChanges(before)
}

// Find returns the element with the given id in the scene, or nil.
func (w *Window) Find(id string) *Element {
	if w.scene == nil {
		return nil
	}
	return w.scene.Find(id)
}

// ListenerCount returns the number of live subscriptions on the window and its scene.
func (w *Window) ListenerCount() int {
	n := w.sceneAttached.len() + w.showingChanged.len()
	if w.scene != nil {
		n += w.scene.ListenerCount()
	}
	return n
}
