package waypoint

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/effects"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/aretw0/waypoint/pkg/ui"
	"github.com/aretw0/waypoint/pkg/walkthrough"
)

// Engine starts walkthrough sessions against one UI environment.
//
// Start and every Session method must be called on the UI loop. Sessions, Session.Progress
// and Close are safe from any goroutine.
type Engine struct {
	env           ui.Environment
	loop          ui.Loop
	store         ports.ProgressStore
	presenter     walkthrough.Presenter
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
	timings       walkthrough.Timings
	actionTimeout time.Duration

	writer *progressWriter

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore persists the progress of every session.
func WithStore(store ports.ProgressStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithPresenter sets the presenter shared by sessions that do not bring their own.
func WithPresenter(p walkthrough.Presenter) Option {
	return func(e *Engine) {
		e.presenter = p
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTimings overrides the runtime delays.
func WithTimings(t walkthrough.Timings) Option {
	return func(e *Engine) {
		e.timings = t
	}
}

// WithActionTimeout bounds every apply and undo of a side effect.
func WithActionTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.actionTimeout = d
	}
}

// New creates an Engine for env, scheduling all work on loop.
func New(env ui.Environment, loop ui.Loop, opts ...Option) *Engine {
	e := &Engine{
		env:           env,
		loop:          loop,
		logger:        logging.NewNop(),
		timings:       walkthrough.DefaultTimings(),
		actionTimeout: effects.DefaultTimeout,
		sessions:      make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store != nil {
		e.writer = newProgressWriter(e.store, e.logger)
	}
	return e
}

// SessionOption configures a single session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	id        string
	presenter walkthrough.Presenter
}

// WithSessionID sets the session ID instead of generating one.
func WithSessionID(id string) SessionOption {
	return func(c *sessionConfig) {
		c.id = id
	}
}

// WithSessionPresenter sets the presenter of this session.
func WithSessionPresenter(p walkthrough.Presenter) SessionOption {
	return func(c *sessionConfig) {
		c.presenter = p
	}
}

// Start begins a session of tour and enters its first step. ctx is handed to lifecycle
// hooks and side effects for the lifetime of the session.
//
// Tours hold the undo state of their side effects, so a Tour value must not be shared
// between sessions; compile a fresh one for each.
func (e *Engine) Start(ctx context.Context, tour *domain.Tour, opts ...SessionOption) (*Session, error) {
	if tour == nil {
		return nil, fmt.Errorf("tour is required")
	}

	cfg := sessionConfig{presenter: e.presenter}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session id: %w", err)
		}
		cfg.id = id.String()
	}

	e.mu.Lock()
	if _, exists := e.sessions[cfg.id]; exists {
		e.mu.Unlock()
		return nil, fmt.Errorf("session %q already running", cfg.id)
	}
	s := newSession(cfg.id, tour)
	e.sessions[cfg.id] = s
	e.mu.Unlock()

	logger := e.logger.With("session", s.id, "tour", tour.ID)
	base := domain.EventBase{SessionID: s.id, TourID: tour.ID}

	exec := effects.NewExecutor(
		effects.WithTimeout(e.actionTimeout),
		effects.WithLogger(logger),
		effects.WithContext(ctx),
		effects.WithLifecycleHooks(e.hooks, base),
	)

	driverOpts := []walkthrough.DriverOption{
		walkthrough.WithTimings(e.timings),
		walkthrough.WithLogger(logger),
		walkthrough.WithLifecycleHooks(ctx, e.hooks, base),
	}
	if cfg.presenter != nil {
		driverOpts = append(driverOpts, walkthrough.WithPresenter(cfg.presenter))
	}
	s.driver = walkthrough.NewDriver(s.state, e.env, e.loop, exec, driverOpts...)

	s.state.OnChange(func(walkthrough.Change) {
		e.record(s)
	})
	e.record(s)

	logger.Info("walkthrough started", "steps", len(tour.Steps))
	s.driver.Start()
	return s, nil
}

// Session returns the live session with the given ID.
func (e *Engine) Session(id string) (*Session, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.sessions[id]
	return s, ok
}

// Sessions returns the progress of every live session, ordered by session ID.
func (e *Engine) Sessions() []domain.Progress {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]domain.Progress, 0, len(e.sessions))
	for _, s := range e.sessions {
		out = append(out, s.Progress())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}

// Close stops the progress writer after flushing pending writes. Live sessions are
// left running; abort them first to revert their side effects.
func (e *Engine) Close() error {
	if e.writer == nil {
		return nil
	}
	return e.writer.Close()
}

// record snapshots the state of s after a transition.
func (e *Engine) record(s *Session) {
	p := s.snapshot()
	if p.Terminal() {
		e.mu.Lock()
		delete(e.sessions, s.id)
		e.mu.Unlock()
		s.finish()
	}
	if e.writer != nil {
		e.writer.Enqueue(p)
	}
}
