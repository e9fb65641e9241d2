package resolver

import (
	"log/slog"
	"time"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/debounce"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ui"
)

const (
	// DefaultTimeout bounds a whole resolution run.
	DefaultTimeout = 2500 * time.Millisecond
	// DefaultSettleDelay is how long a matched element must stay put before it is reported.
	DefaultSettleDelay = 250 * time.Millisecond
	// DefaultDebounceInterval is the quiet period applied to scene mutations.
	DefaultDebounceInterval = 50 * time.Millisecond
)

type stage int

const (
	stageIdle stage = iota
	stageWindow
	stageScene
	stageElement
	stageDone
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout sets the global resolution deadline.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = d
	}
}

// WithSettleDelay sets how long a newly matched element must persist.
func WithSettleDelay(d time.Duration) Option {
	return func(r *Resolver) {
		r.settleDelay = d
	}
}

// WithDebounceInterval sets the quiet period applied to scene mutations.
func WithDebounceInterval(d time.Duration) Option {
	return func(r *Resolver) {
		r.debounceInterval = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// Resolver resolves one anchor. An instance is started at most once.
type Resolver struct {
	env            ui.Environment
	loop           ui.Loop
	windowLocator  domain.WindowLocator
	elementLocator domain.ElementLocator
	onComplete     func(domain.ResolutionResult)

	timeout          time.Duration
	settleDelay      time.Duration
	debounceInterval time.Duration
	logger           *slog.Logger

	stage       stage
	deadline    ui.Timer
	windowSub   ui.Subscription
	sceneSub    ui.Subscription
	attachSub   ui.Subscription
	tree        *subtree
	retry       *debounce.Debouncer
	settleTimer ui.Timer

	window    ui.Window
	scene     ui.Element
	candidate ui.Element
}

// New creates a Resolver. elementLocator may be nil, in which case the run completes
// as soon as the window is found.
func New(
	env ui.Environment,
	loop ui.Loop,
	windowLocator domain.WindowLocator,
	elementLocator domain.ElementLocator,
	onComplete func(domain.ResolutionResult),
	opts ...Option,
) *Resolver {
	r := &Resolver{
		env:              env,
		loop:             loop,
		windowLocator:    windowLocator,
		elementLocator:   elementLocator,
		onComplete:       onComplete,
		timeout:          DefaultTimeout,
		settleDelay:      DefaultSettleDelay,
		debounceInterval: DefaultDebounceInterval,
		logger:           logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins resolution. Calls after the first are ignored.
func (r *Resolver) Start() {
	if r.stage != stageIdle {
		r.logger.Debug("resolver already started")
		return
	}
	r.stage = stageWindow
	r.deadline = r.loop.AfterFunc(r.timeout, r.expire)

	if w := domain.SafeWindow(r.windowLocator, r.env, r.logger); w != nil {
		r.onWindow(w)
		return
	}
	r.windowSub = r.env.OnWindowsChanged(r.windowsChanged)
}

// Cancel stops resolution without invoking the completion callback.
// It is idempotent and a no-op after completion.
func (r *Resolver) Cancel() {
	if r.stage == stageDone {
		return
	}
	r.stage = stageDone
	r.release()
}

// Done reports whether the run completed or was cancelled.
func (r *Resolver) Done() bool {
	return r.stage == stageDone
}

func (r *Resolver) windowsChanged() {
	if r.stage != stageWindow {
		return
	}
	w := domain.SafeWindow(r.windowLocator, r.env, r.logger)
	if w == nil {
		return
	}
	// Leave the window stage now so later notifications in this dispatch are ignored;
	// the listener itself is removed on the next tick.
	r.stage = stageScene
	r.loop.Post(func() {
		r.cancelWindowSub()
		if r.stage == stageDone {
			return
		}
		r.onWindow(w)
	})
}

func (r *Resolver) onWindow(w ui.Window) {
	r.window = w
	if r.elementLocator == nil {
		r.finish(domain.ResolutionResult{Window: w})
		return
	}

	r.stage = stageScene
	if scene := w.Scene(); scene != nil {
		r.onScene(scene)
		return
	}
	r.sceneSub = w.OnSceneAttached(func() {
		if r.stage != stageScene {
			return
		}
		scene := w.Scene()
		if scene == nil {
			return
		}
		r.stage = stageElement
		r.loop.Post(func() {
			r.cancelSceneSub()
			if r.stage == stageDone {
				return
			}
			r.onScene(scene)
		})
	})
}

func (r *Resolver) onScene(scene ui.Element) {
	r.stage = stageElement
	r.scene = scene

	if el := domain.SafeElement(r.elementLocator, scene, r.logger); el != nil {
		r.finish(domain.ResolutionResult{Window: r.window, Element: el})
		return
	}

	r.retry = debounce.New(r.loop, r.debounceInterval, r.retryElement)
	r.tree = watchSubtree(r.loop, scene, r.retry.Call)
	r.attachSub = r.window.OnSceneAttached(r.sceneReplaced)
}

// sceneReplaced follows a new scene root even when the old one fired nothing on detach.
func (r *Resolver) sceneReplaced() {
	if r.stage != stageElement {
		return
	}
	r.loop.Post(func() {
		if r.stage != stageElement {
			return
		}
		if current := r.window.Scene(); current != nil && current != r.scene {
			r.scene = current
			r.tree.reset(current)
		}
		r.retry.Call()
	})
}

func (r *Resolver) retryElement() {
	if r.stage != stageElement {
		return
	}
	if current := r.window.Scene(); current != nil && current != r.scene {
		r.scene = current
		r.tree.reset(current)
	}

	el := domain.SafeElement(r.elementLocator, r.scene, r.logger)
	if el == nil || el == r.candidate {
		// A pending settle timer re-checks the candidate when it fires.
		return
	}
	r.candidate = el
	r.restartSettle()
}

func (r *Resolver) restartSettle() {
	if r.settleTimer != nil {
		r.settleTimer.Stop()
	}
	r.settleTimer = r.loop.AfterFunc(r.settleDelay, r.settled)
}

func (r *Resolver) settled() {
	r.settleTimer = nil
	if r.stage != stageElement {
		return
	}

	el := domain.SafeElement(r.elementLocator, r.scene, r.logger)
	switch {
	case el == nil:
		r.candidate = nil
	case el == r.candidate:
		r.finish(domain.ResolutionResult{Window: r.window, Element: el})
	default:
		r.candidate = el
		r.restartSettle()
	}
}

func (r *Resolver) expire() {
	r.deadline = nil
	if r.stage == stageDone {
		return
	}
	r.logger.Warn("anchor resolution timed out", "timeout", r.timeout, "window_found", r.window != nil)
	r.finish(domain.ResolutionResult{})
}

func (r *Resolver) finish(result domain.ResolutionResult) {
	if r.stage == stageDone {
		return
	}
	r.stage = stageDone
	r.release()
	r.onComplete(result)
}

func (r *Resolver) release() {
	if r.deadline != nil {
		r.deadline.Stop()
		r.deadline = nil
	}
	r.cancelWindowSub()
	r.cancelSceneSub()
	if r.attachSub != nil {
		r.attachSub.Cancel()
		r.attachSub = nil
	}
	if r.tree != nil {
		r.tree.close()
		r.tree = nil
	}
	if r.retry != nil {
		r.retry.Cancel()
		r.retry = nil
	}
	if r.settleTimer != nil {
		r.settleTimer.Stop()
		r.settleTimer = nil
	}
}

func (r *Resolver) cancelWindowSub() {
	if r.windowSub != nil {
		r.windowSub.Cancel()
		r.windowSub = nil
	}
}

func (r *Resolver) cancelSceneSub() {
	if r.sceneSub != nil {
		r.sceneSub.Cancel()
		r.sceneSub = nil
	}
}
