package effects

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
)

// DefaultTimeout bounds a single Apply or Undo.
const DefaultTimeout = 5 * time.Second

// Option configures an Executor.
type Option func(*Executor)

// WithTimeout sets the per-call timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(x *Executor) {
		x.timeout = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(x *Executor) {
		x.logger = logger
	}
}

// WithContext sets the parent context of every call.
func WithContext(ctx context.Context) Option {
	return func(x *Executor) {
		x.ctx = ctx
	}
}

// WithLifecycleHooks registers observability hooks. Only OnEffect is used.
func WithLifecycleHooks(hooks domain.LifecycleHooks, base domain.EventBase) Option {
	return func(x *Executor) {
		x.hooks = hooks
		x.base = base
	}
}

// Executor applies and undoes reversible actions.
type Executor struct {
	ctx     context.Context
	timeout time.Duration
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	base    domain.EventBase
}

// NewExecutor creates an Executor.
func NewExecutor(opts ...Option) *Executor {
	x := &Executor{
		ctx:     context.Background(),
		timeout: DefaultTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Apply performs the action's mutation and reports success.
func (x *Executor) Apply(action domain.ReversibleAction) bool {
	if action == nil {
		x.logger.Error("apply called without an action")
		return false
	}
	return x.run(domain.EffectApply, action, action.Apply)
}

// Undo reverses the action's mutation and reports success.
func (x *Executor) Undo(action domain.ReversibleAction) bool {
	if action == nil {
		x.logger.Error("undo called without an action")
		return false
	}
	return x.run(domain.EffectUndo, action, action.Undo)
}

func (x *Executor) run(op domain.EffectOp, action domain.ReversibleAction, fn func(context.Context) bool) (ok bool) {
	ctx := x.ctx
	if x.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, x.timeout)
		defer cancel()
	}

	desc := action.Description()
	defer func() {
		if r := recover(); r != nil {
			x.logger.Error("side effect panicked", "op", op, "action", desc, "err", fmt.Sprint(r))
			ok = false
		}
		x.emit(op, desc, ok)
	}()

	ok = fn(ctx)
	if !ok {
		x.logger.Warn("side effect failed", "op", op, "action", desc)
	} else {
		x.logger.Debug("side effect done", "op", op, "action", desc)
	}
	return ok
}

func (x *Executor) emit(op domain.EffectOp, desc string, ok bool) {
	if x.hooks.OnEffect == nil {
		return
	}
	base := x.base
	base.Timestamp = time.Now().UTC()
	base.Type = domain.EventEffect
	x.hooks.OnEffect(x.ctx, &domain.EffectEvent{
		EventBase:   base,
		Op:          op,
		Description: desc,
		OK:          ok,
	})
}
