package effects

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/waypoint/pkg/domain"
)

// FlagStore is the application state mutated by the set-flag action.
type FlagStore interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Delete(key string)
}

// Flags is an in-memory FlagStore.
type Flags struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewFlags creates an empty flag set.
func NewFlags() *Flags {
	return &Flags{values: make(map[string]any)}
}

func (f *Flags) Get(key string) (any, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *Flags) Set(key string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
}

func (f *Flags) Delete(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
}

// Snapshot returns a copy of the current flags.
func (f *Flags) Snapshot() map[string]any {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]any, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Built-in action names.
const (
	ActionSetFlag = "set-flag"
	ActionNoop    = "noop"
	ActionStub    = "stub"
)

// RegisterBuiltins registers the built-in actions. set-flag mutates flags.
func RegisterBuiltins(r *Registry, flags FlagStore) {
	r.Register(ActionSetFlag, func(params map[string]any) (domain.ReversibleAction, error) {
		return newSetFlag(flags, params)
	})
	r.Register(ActionNoop, func(params map[string]any) (domain.ReversibleAction, error) {
		if len(params) > 0 {
			return nil, errors.New("noop takes no params")
		}
		return &stubAction{label: ActionNoop, apply: true, undo: true}, nil
	})
	r.Register(ActionStub, newStub)
}

type setFlagParams struct {
	Key   string `mapstructure:"key"`
	Value any    `mapstructure:"value"`
}

// setFlag sets one flag and restores the previous value, or absence, on undo.
type setFlag struct {
	flags FlagStore
	key   string
	value any

	applied bool
	prev    any
	had     bool
}

func newSetFlag(flags FlagStore, params map[string]any) (domain.ReversibleAction, error) {
	if flags == nil {
		return nil, errors.New("no flag store configured")
	}
	var p setFlagParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.Key == "" {
		return nil, errors.New("missing required param: key")
	}
	return &setFlag{flags: flags, key: p.Key, value: p.Value}, nil
}

func (a *setFlag) Apply(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	a.prev, a.had = a.flags.Get(a.key)
	a.flags.Set(a.key, a.value)
	a.applied = true
	return true
}

func (a *setFlag) Undo(ctx context.Context) bool {
	if !a.applied {
		return true
	}
	if a.had {
		a.flags.Set(a.key, a.prev)
	} else {
		a.flags.Delete(a.key)
	}
	a.applied = false
	return true
}

func (a *setFlag) Description() string {
	return fmt.Sprintf("set %s=%v", a.key, a.value)
}

type stubParams struct {
	Label string `mapstructure:"label"`
	Apply *bool  `mapstructure:"apply"`
	Undo  *bool  `mapstructure:"undo"`
}

// stubAction reports fixed outcomes. It is used to rehearse failure paths.
type stubAction struct {
	label string
	apply bool
	undo  bool
}

func newStub(params map[string]any) (domain.ReversibleAction, error) {
	var p stubParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	a := &stubAction{label: p.Label, apply: true, undo: true}
	if a.label == "" {
		a.label = ActionStub
	}
	if p.Apply != nil {
		a.apply = *p.Apply
	}
	if p.Undo != nil {
		a.undo = *p.Undo
	}
	return a, nil
}

func (a *stubAction) Apply(context.Context) bool { return a.apply }
func (a *stubAction) Undo(context.Context) bool  { return a.undo }
func (a *stubAction) Description() string        { return a.label }
