package domain

import "context"

// ReversibleAction is the application-state mutation behind a SideEffect step.
// Failure is reported through the return value, never raised.
type ReversibleAction interface {
	Apply(ctx context.Context) bool
	Undo(ctx context.Context) bool
	Description() string
}

// ActionFuncs adapts a pair of functions to ReversibleAction.
type ActionFuncs struct {
	Name    string
	ApplyFn func(ctx context.Context) bool
	UndoFn  func(ctx context.Context) bool
}

func (a ActionFuncs) Apply(ctx context.Context) bool {
	if a.ApplyFn == nil {
		return true
	}
	return a.ApplyFn(ctx)
}

func (a ActionFuncs) Undo(ctx context.Context) bool {
	if a.UndoFn == nil {
		return true
	}
	return a.UndoFn(ctx)
}

func (a ActionFuncs) Description() string { return a.Name }
