package ui

// Environment is the host's global window registry.
type Environment interface {
	// Windows returns the currently open windows, in stacking order.
	Windows() []Window

	// OnWindowsChanged registers fn to run whenever a window is added or removed.
	OnWindowsChanged(fn func()) Subscription
}

// Window is a top-level host window.
type Window interface {
	ID() string
	Title() string
	IsMain() bool
	IsShowing() bool
	IsFocused() bool

	// Scene returns the content root, or nil while no scene is attached.
	Scene() Element

	// OnSceneAttached registers fn to run when a scene root is attached.
	OnSceneAttached(fn func()) Subscription

	// OnShowingChanged registers fn to run when the window opens or closes.
	OnShowingChanged(fn func(showing bool)) Subscription
}

// Element is a node of a window's scene graph.
type Element interface {
	ID() string
	Kind() string
	Text() string
	Classes() []string

	Parent() Element
	Children() []Element

	// IsEffectivelyVisible reports whether the element is attached to the scene of a
	// showing window and it and all of its ancestors are visible.
	IsEffectivelyVisible() bool

	// Bounds returns the element's bounds in screen coordinates.
	Bounds() Bounds

	OnChildrenChanged(fn func()) Subscription
	OnVisibilityChanged(fn func(visible bool)) Subscription
	OnBoundsChanged(fn func()) Subscription
}

// Walk visits root and its descendants depth-first in pre-order.
// It stops as soon as visit returns false.
func Walk(root Element, visit func(Element) bool) bool {
	if root == nil {
		return true
	}
	if !visit(root) {
		return false
	}
	for _, child := range root.Children() {
		if !Walk(child, visit) {
			return false
		}
	}
	return true
}
