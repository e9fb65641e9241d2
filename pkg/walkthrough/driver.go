package walkthrough

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/resolver"
	"github.com/aretw0/waypoint/pkg/reverter"
	"github.com/aretw0/waypoint/pkg/scroller"
	"github.com/aretw0/waypoint/pkg/ui"
)

// Presenter renders the current anchor step. result is empty when the anchor could
// not be resolved; the host then shows the step unanchored.
type Presenter interface {
	Present(index int, step domain.VisibleComponent, result domain.ResolutionResult)
	Dismiss()
}

// Effects applies and undoes side-effect steps.
type Effects interface {
	Apply(action domain.ReversibleAction) bool
	Undo(action domain.ReversibleAction) bool
}

// Timings groups the delays used by the runtime.
type Timings struct {
	ResolveTimeout   time.Duration
	SettleDelay      time.Duration
	DebounceInterval time.Duration
	RevertDelay      time.Duration
}

// DefaultTimings returns the stock delays.
func DefaultTimings() Timings {
	return Timings{
		ResolveTimeout:   resolver.DefaultTimeout,
		SettleDelay:      resolver.DefaultSettleDelay,
		DebounceInterval: resolver.DefaultDebounceInterval,
		RevertDelay:      reverter.DefaultDelay,
	}
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithTimings overrides the resolution and revert delays.
func WithTimings(t Timings) DriverOption {
	return func(d *Driver) {
		d.timings = t
	}
}

// WithLogger sets the structured logger shared with the resolver and reverter.
func WithLogger(logger *slog.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithPresenter sets the component that shows resolved steps.
func WithPresenter(p Presenter) DriverOption {
	return func(d *Driver) {
		d.presenter = p
	}
}

// WithLifecycleHooks registers observability hooks. base carries the session
// identity stamped on every event.
func WithLifecycleHooks(ctx context.Context, hooks domain.LifecycleHooks, base domain.EventBase) DriverOption {
	return func(d *Driver) {
		d.ctx = ctx
		d.hooks = hooks
		d.base = base
	}
}

// Driver runs one walkthrough session.
type Driver struct {
	state     *State
	env       ui.Environment
	loop      ui.Loop
	effects   Effects
	presenter Presenter
	timings   Timings
	logger    *slog.Logger

	ctx   context.Context
	hooks domain.LifecycleHooks
	base  domain.EventBase

	reverter  *reverter.Reverter
	resolver  *resolver.Resolver
	scroller  *scroller.Scroller
	stateSub  ui.Subscription
	presented bool
	started   bool
}

// NewDriver creates a Driver for state.
func NewDriver(state *State, env ui.Environment, loop ui.Loop, effects Effects, opts ...DriverOption) *Driver {
	d := &Driver{
		state:     state,
		env:       env,
		loop:      loop,
		effects:   effects,
		presenter: nopPresenter{},
		timings:   DefaultTimings(),
		logger:    logging.NewNop(),
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.reverter = reverter.New(state, env, nil, effects, loop,
		reverter.WithDelay(d.timings.RevertDelay),
		reverter.WithLogger(d.logger),
		reverter.WithFallbackLocator(d.fallbackLocator()),
		reverter.WithLifecycleHooks(d.ctx, d.hooks, d.base),
	)
	return d
}

// State returns the walkthrough state.
func (d *Driver) State() *State { return d.state }

// Start enters the current step. Calls after the first are ignored.
func (d *Driver) Start() {
	if d.started {
		return
	}
	d.started = true
	d.stateSub = d.state.OnChange(d.onChange)
	if d.state.Len() == 0 {
		d.state.Complete()
		return
	}
	d.enter(d.state.CurrentStepIndex())
}

// Next advances to the following step, completing the walkthrough after the last.
func (d *Driver) Next() error {
	if d.state.Terminal() {
		return domain.ErrTourFinished
	}
	next := d.state.CurrentStepIndex() + 1
	if next >= d.state.Len() {
		d.state.Complete()
		return nil
	}
	return d.state.GoToStep(next)
}

// Back unwinds from the current step as if its anchor had disappeared. It does
// nothing on the first step.
func (d *Driver) Back() error {
	if d.state.Terminal() {
		return domain.ErrTourFinished
	}
	if d.state.CurrentStepIndex() == 0 {
		return nil
	}
	d.teardown()
	d.reverter.FindAndUndo()
	return nil
}

// Abort reverts every applied side effect and quits.
func (d *Driver) Abort() {
	if d.state.Terminal() {
		return
	}
	d.teardown()
	d.reverter.RevertAll()
	d.state.Quit()
}

// Close releases every subscription without changing the state. It is idempotent.
func (d *Driver) Close() {
	d.teardown()
	if d.stateSub != nil {
		d.stateSub.Cancel()
		d.stateSub = nil
	}
}

func (d *Driver) onChange(c Change) {
	d.teardown()
	switch c.Kind {
	case ChangeStep:
		d.enter(c.Index)
	case ChangeComplete, ChangeQuit:
		d.logger.Info("walkthrough ended", "status", d.state.Status(), "index", c.Index)
		d.emitTourEnd(c.Index)
		// Listener lists must not change while they are being dispatched.
		d.loop.Post(d.Close)
	}
}

func (d *Driver) enter(i int) {
	step := d.state.StepAt(i)
	d.emitStepEnter(i, step)

	switch s := step.(type) {
	case domain.VisibleComponent:
		d.resolve(i, s)
	case domain.SideEffect:
		if d.effects.Apply(s.Effect) {
			if err := d.Next(); err != nil {
				d.logger.Error("failed to advance past side effect", "index", i, "err", err)
			}
			return
		}
		d.logger.Warn("side effect failed, unwinding", "index", i, "title", s.Title)
		d.reverter.UndoTo(i)
	default:
		d.logger.Error("unknown step kind", "index", i)
	}
}

func (d *Driver) resolve(i int, step domain.VisibleComponent) {
	loc := step.Window
	if loc == nil {
		loc = d.fallbackLocator()
	}

	var res *resolver.Resolver
	took := d.stopwatch()
	res = resolver.New(d.env, d.loop, loc, step.Element, func(result domain.ResolutionResult) {
		d.resolved(res, i, step, result, took())
	},
		resolver.WithTimeout(d.timings.ResolveTimeout),
		resolver.WithSettleDelay(d.timings.SettleDelay),
		resolver.WithDebounceInterval(d.timings.DebounceInterval),
		resolver.WithLogger(d.logger),
	)
	d.resolver = res
	res.Start()
}

func (d *Driver) resolved(res *resolver.Resolver, i int, step domain.VisibleComponent, result domain.ResolutionResult, took time.Duration) {
	if d.resolver != res {
		return
	}
	d.resolver = nil
	d.emitResolve(i, result, took)

	if result.Succeeded() {
		d.reverter.Attach(result.Window, result.Element)
		if result.Element != nil {
			d.scroller = scroller.New(result.Element, d.loop,
				scroller.WithInterval(d.timings.DebounceInterval),
				scroller.WithLogger(d.logger),
			)
		}
	} else {
		d.logger.Warn("anchor not resolved, presenting unanchored", "index", i, "title", step.Title)
	}

	d.presented = true
	d.presenter.Present(i, step, result)
}

func (d *Driver) teardown() {
	if d.resolver != nil {
		d.resolver.Cancel()
		d.resolver = nil
	}
	if d.scroller != nil {
		d.scroller.Cleanup()
		d.scroller = nil
	}
	d.reverter.Detach()
	if d.presented {
		d.presented = false
		d.presenter.Dismiss()
	}
}

func (d *Driver) fallbackLocator() domain.WindowLocator {
	if fb := d.state.Tour().FallbackWindow; fb != nil {
		return fb
	}
	return domain.MainWindow
}

func (d *Driver) event(t domain.EventType) domain.EventBase {
	base := d.base
	base.Timestamp = time.Now().UTC()
	base.Type = t
	return base
}

func (d *Driver) emitStepEnter(i int, step domain.Step) {
	if d.hooks.OnStepEnter == nil || step == nil {
		return
	}
	d.hooks.OnStepEnter(d.ctx, &domain.StepEvent{
		EventBase: d.event(domain.EventStepEnter),
		Index:     i,
		Kind:      domain.StepKind(step),
		Title:     step.StepTitle(),
	})
}

// stopwatch measures on the loop's clock when it has one, so virtual-time runs
// report virtual durations.
func (d *Driver) stopwatch() func() time.Duration {
	if c, ok := d.loop.(ui.Clock); ok {
		start := c.Now()
		return func() time.Duration { return c.Now() - start }
	}
	start := time.Now()
	return func() time.Duration { return time.Since(start) }
}

func (d *Driver) emitResolve(i int, result domain.ResolutionResult, took time.Duration) {
	if d.hooks.OnResolve == nil {
		return
	}
	e := &domain.ResolveEvent{
		EventBase: d.event(domain.EventResolve),
		Index:     i,
		Succeeded: result.Succeeded(),
		Duration:  took,
	}
	if result.Window != nil {
		e.WindowID = result.Window.ID()
	}
	if result.Element != nil {
		e.ElementID = result.Element.ID()
	}
	d.hooks.OnResolve(d.ctx, e)
}

func (d *Driver) emitTourEnd(i int) {
	if d.hooks.OnTourEnd == nil {
		return
	}
	d.hooks.OnTourEnd(d.ctx, &domain.TourEvent{
		EventBase: d.event(domain.EventTourEnd),
		Status:    d.state.Status(),
		Index:     i,
	})
}

type nopPresenter struct{}

func (nopPresenter) Present(int, domain.VisibleComponent, domain.ResolutionResult) {}
func (nopPresenter) Dismiss()                                                      {}
