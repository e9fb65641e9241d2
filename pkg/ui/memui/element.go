package memui

import (
	"slices"

	"github.com/aretw0/waypoint/pkg/ui"
)

// Element is an in-memory scene graph node.
type Element struct {
	// self is the outermost value wrapping this element (a *ScrollPane or *ItemView
	// for containers). It is what Parent and Children hand out, so identity
	// comparisons through the ui interfaces stay consistent.
	self ui.Element

	id      string
	kind    string
	text    string
	classes []string
	visible bool
	bounds  ui.Bounds

	parent   *Element
	children []*Element
	window   *Window // set on scene roots only

	childrenChanged   listeners[func()]
	visibilityChanged listeners[func(bool)]
	boundsChanged     listeners[func()]
}

var _ ui.Element = (*Element)(nil)

// NewElement creates a detached, visible element.
func NewElement(id, kind string) *Element {
	e := &Element{id: id, kind: kind, visible: true}
	e.self = e
	return e
}

// WithText sets the element's text.
func (e *Element) WithText(text string) *Element {
	e.text = text
	return e
}

// WithClasses sets the element's style classes.
func (e *Element) WithClasses(classes ...string) *Element {
	e.classes = classes
	return e
}

// WithBounds sets the element's bounds without notifying listeners.
func (e *Element) WithBounds(b ui.Bounds) *Element {
	e.bounds = b
	return e
}

func (e *Element) ID() string        { return e.id }
func (e *Element) Kind() string      { return e.kind }
func (e *Element) Text() string      { return e.text }
func (e *Element) Classes() []string { return slices.Clone(e.classes) }
func (e *Element) Bounds() ui.Bounds { return e.bounds }

// Self returns the element as seen through the ui interfaces.
func (e *Element) Self() ui.Element {
	return e.self
}

// Parent implements ui.Element.
func (e *Element) Parent() ui.Element {
	if e.parent == nil {
		return nil
	}
	return e.parent.self
}

// Children implements ui.Element.
func (e *Element) Children() []ui.Element {
	out := make([]ui.Element, 0, len(e.children))
	for _, c := range e.children {
		out = append(out, c.self)
	}
	return out
}

// IsEffectivelyVisible implements ui.Element.
func (e *Element) IsEffectivelyVisible() bool {
	node := e
	for {
		if !node.visible {
			return false
		}
		if node.parent == nil {
			break
		}
		node = node.parent
	}
	w := node.window
	return w != nil && w.scene == node && w.showing
}

func (e *Element) OnChildrenChanged(fn func()) ui.Subscription {
	return e.childrenChanged.add(fn)
}

func (e *Element) OnVisibilityChanged(fn func(bool)) ui.Subscription {
	return e.visibilityChanged.add(fn)
}

func (e *Element) OnBoundsChanged(fn func()) ui.Subscription {
	return e.boundsChanged.add(fn)
}

// Add appends child, detaching it from any previous parent first.
func (e *Element) Add(child *Element) {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	before := captureLive(child)
	child.parent = e
	e.children = append(e.children, child)

	e.childrenChanged.each(func(fn func()) { fn() })
	fireLiveChanges(before)
}

// Remove detaches child. It is a no-op if child is not a direct child of e.
func (e *Element) Remove(child *Element) {
	idx := slices.Index(e.children, child)
	if idx < 0 {
		return
	}
	before := captureLive(child)
	e.children = slices.Delete(e.children, idx, idx+1)
	child.parent = nil

	e.childrenChanged.each(func(fn func()) { fn() })
	fireLiveChanges(before)
}

// Replace swaps old for replacement at the same position.
func (e *Element) Replace(old, replacement *Element) {
	idx := slices.Index(e.children, old)
	if idx < 0 {
		return
	}
	if replacement.parent != nil {
		replacement.parent.Remove(replacement)
	}
	before := captureLive(old, replacement)
	e.children[idx] = replacement
	old.parent = nil
	replacement.parent = e

	e.childrenChanged.each(func(fn func()) { fn() })
	fireLiveChanges(before)
}

// SetVisible changes the element's own visibility flag.
func (e *Element) SetVisible(visible bool) {
	if e.visible == visible {
		return
	}
	before := captureLive(e)
	e.visible = visible
	fireLiveChanges(before)
}

// SetText changes the element's text. Text changes do not notify.
func (e *Element) SetText(text string) {
	e.text = text
}

// SetBounds changes the element's bounds and notifies its bounds listeners.
func (e *Element) SetBounds(b ui.Bounds) {
	if e.bounds == b {
		return
	}
	e.bounds = b
	e.boundsChanged.each(func(fn func()) { fn() })
}

// Move translates the element and all of its descendants.
func (e *Element) Move(dx, dy float64) {
	e.walk(func(n *Element) {
		b := n.bounds
		b.X += dx
		b.Y += dy
		n.SetBounds(b)
	})
}

// Find returns the element with the given id in this subtree, or nil.
func (e *Element) Find(id string) *Element {
	var found *Element
	e.walkUntil(func(n *Element) bool {
		if n.id == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// ListenerCount returns the number of live subscriptions in this subtree.
func (e *Element) ListenerCount() int {
	n := 0
	e.walk(func(x *Element) {
		n += x.childrenChanged.len() + x.visibilityChanged.len() + x.boundsChanged.len()
	})
	return n
}

func (e *Element) walk(visit func(*Element)) {
	e.walkUntil(func(n *Element) bool {
		visit(n)
		return true
	})
}

func (e *Element) walkUntil(visit func(*Element) bool) bool {
	if !visit(e) {
		return false
	}
	for _, c := range slices.Clone(e.children) {
		if !c.walkUntil(visit) {
			return false
		}
	}
	return true
}

// captureLive records the effective visibility of every element under roots.
func captureLive(roots ...*Element) map[*Element]bool {
	state := make(map[*Element]bool)
	for _, r := range roots {
		if r == nil {
			continue
		}
		r.walk(func(n *Element) {
			state[n] = n.IsEffectivelyVisible()
		})
	}
	return state
}

// fireLiveChanges notifies every element whose effective visibility differs from before.
func fireLiveChanges(before map[*Element]bool) {
	for n, was := range before {
		now := n.IsEffectivelyVisible()
		if now == was {
			continue
		}
		n.visibilityChanged.each(func(fn func(bool)) { fn(now) })
	}
}
