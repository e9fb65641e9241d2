package domain

// Step is one entry of a walkthrough. The set of implementations is closed:
// VisibleComponent and SideEffect are the only step kinds.
type Step interface {
	StepTitle() string
	isStep()
}

// VisibleComponent is an anchor step. It points at a window and optionally an
// element inside it and carries no side effect.
type VisibleComponent struct {
	Title   string
	Content string

	// Window locates the target window. Nil means the tour's fallback window.
	Window WindowLocator

	// Element locates the target element inside the window's scene. Nil anchors the
	// step to the window itself.
	Element ElementLocator
}

func (s VisibleComponent) StepTitle() string { return s.Title }
func (VisibleComponent) isStep()             {}

// SideEffect is a step that mutates application state on entry.
type SideEffect struct {
	Title  string
	Effect ReversibleAction
}

func (s SideEffect) StepTitle() string { return s.Title }
func (SideEffect) isStep()             {}

// StepKind returns a stable label for logs and metrics.
func StepKind(s Step) string {
	switch s.(type) {
	case VisibleComponent:
		return "anchor"
	case SideEffect:
		return "effect"
	}
	return "unknown"
}

// Tour is a walkthrough definition ready to run.
type Tour struct {
	ID    string
	Title string
	Steps []Step

	// FallbackWindow locates the window used by anchor steps that declare none.
	// Nil means the first main window.
	FallbackWindow WindowLocator
}
