package rehearsal

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aretw0/waypoint"
	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/effects"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/aretw0/waypoint/pkg/ui/memui"
	"github.com/aretw0/waypoint/pkg/ui/uiloop"
	"github.com/aretw0/waypoint/pkg/walkthrough"
)

// DefaultSessionID identifies a rehearsal session unless WithSessionID is given.
const DefaultSessionID = "rehearsal"

// DefaultTail is how long a script without Until runs past its last event.
const DefaultTail = 5 * time.Second

// Option configures a rehearsal.
type Option func(*runner)

// WithLogger sets the structured logger used by the runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(r *runner) {
		r.logger = logger
	}
}

// WithTimings overrides the runtime delays.
func WithTimings(t walkthrough.Timings) Option {
	return func(r *runner) {
		r.timings = t
	}
}

// WithFlags reports the final content of flags in the transcript.
func WithFlags(flags *effects.Flags) Option {
	return func(r *runner) {
		r.flags = flags
	}
}

// WithStore persists the session progress to store while the script runs.
func WithStore(store ports.ProgressStore) Option {
	return func(r *runner) {
		r.store = store
	}
}

// WithSessionID names the rehearsal session. The default is DefaultSessionID.
func WithSessionID(id string) Option {
	return func(r *runner) {
		r.sessionID = id
	}
}

// WithLifecycleHooks adds hooks that run alongside the transcript recorder.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *runner) {
		r.hooks = hooks
	}
}

type runner struct {
	logger  *slog.Logger
	timings walkthrough.Timings
	flags   *effects.Flags
	hooks   domain.LifecycleHooks
	store   ports.ProgressStore

	sessionID string

	loop     *uiloop.Manual
	env      *memui.Env
	windows  map[string]*memui.Window
	elements map[string]*memui.Element
	parents  map[string]*memui.Element
	session  *waypoint.Session
	tr       *Transcript
}

// Run plays script against a fresh in-memory scene while tour runs over it.
func Run(ctx context.Context, tour *domain.Tour, script *Script, opts ...Option) (*Transcript, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}

	r := &runner{
		logger:    logging.NewNop(),
		timings:   walkthrough.DefaultTimings(),
		sessionID: DefaultSessionID,
		loop:      uiloop.NewManual(),
		env:       memui.New(),
		windows:   make(map[string]*memui.Window),
		elements:  make(map[string]*memui.Element),
		parents:   make(map[string]*memui.Element),
		tr:        &Transcript{Tour: tour.ID, Steps: len(tour.Steps)},
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, spec := range script.Windows {
		w := memui.NewWindow(spec.ID, spec.Title).SetMain(spec.Main).SetFocused(spec.Focused)
		if spec.Scene != nil {
			w.AttachScene(r.build(*spec.Scene, nil))
		}
		r.windows[spec.ID] = w
		if !spec.Closed {
			r.env.Open(w)
		}
	}

	rec := &recorder{clock: r.loop, tr: r.tr}
	engineOpts := []waypoint.Option{
		waypoint.WithLogger(r.logger),
		waypoint.WithTimings(r.timings),
		waypoint.WithPresenter(rec),
		waypoint.WithLifecycleHooks(rec.hooks().Merge(r.hooks)),
	}
	if r.store != nil {
		engineOpts = append(engineOpts, waypoint.WithStore(r.store))
	}
	eng := waypoint.New(r.env, r.loop, engineOpts...)

	session, err := eng.Start(ctx, tour, waypoint.WithSessionID(r.sessionID))
	if err != nil {
		eng.Close()
		return nil, err
	}
	r.session = session
	r.loop.Flush()

	events := append([]Event(nil), script.Timeline...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })

	var last time.Duration
	for _, ev := range events {
		r.advanceTo(ev.At)
		r.apply(ev)
		r.loop.Flush()
		last = ev.At
	}

	until := script.Until
	if until == 0 {
		until = last + DefaultTail
	}
	r.advanceTo(until)

	p := session.Progress()
	r.tr.Status = p.Status
	r.tr.StepIndex = p.StepIndex
	if r.flags != nil {
		r.tr.Flags = r.flags.Snapshot()
	}
	if err := eng.Close(); err != nil {
		return r.tr, fmt.Errorf("flush progress: %w", err)
	}
	return r.tr, nil
}

func (r *runner) advanceTo(at time.Duration) {
	if at > r.loop.Now() {
		r.loop.Advance(at - r.loop.Now())
	}
}

func (r *runner) build(spec ElementSpec, parent *memui.Element) *memui.Element {
	var el *memui.Element
	if spec.Content != nil {
		el = memui.NewScrollPane(spec.ID, spec.Bounds, *spec.Content).Element
	} else {
		kind := spec.Kind
		if kind == "" {
			kind = "node"
		}
		el = memui.NewElement(spec.ID, kind).WithBounds(spec.Bounds)
	}
	el.WithText(spec.Text).WithClasses(spec.Classes...)
	if spec.Hidden {
		el.SetVisible(false)
	}
	for _, child := range spec.Children {
		el.Add(r.build(child, el))
	}

	r.elements[spec.ID] = el
	if parent != nil {
		r.parents[spec.ID] = parent
	}
	return el
}

func (r *runner) apply(ev Event) {
	switch ev.Op {
	case OpOpenWindow:
		r.note("> open-window %s", ev.Window)
		r.env.Open(r.windows[ev.Window])
	case OpCloseWindow:
		r.note("> close-window %s", ev.Window)
		r.env.Close(r.windows[ev.Window])
	case OpAttachScene:
		r.note("> attach-scene %s to %s", ev.Element.ID, ev.Window)
		r.windows[ev.Window].AttachScene(r.build(*ev.Element, nil))
	case OpAdd:
		r.note("> add %s to %s", ev.Element.ID, ev.Parent)
		parent := r.elements[ev.Parent]
		parent.Add(r.build(*ev.Element, parent))
	case OpRemove:
		r.note("> remove %s", ev.Target)
		parent, ok := r.parents[ev.Target]
		if !ok {
			r.note("  remove %s: not attached to a parent", ev.Target)
			return
		}
		parent.Remove(r.elements[ev.Target])
		delete(r.parents, ev.Target)
	case OpHide:
		r.note("> hide %s", ev.Target)
		r.elements[ev.Target].SetVisible(false)
	case OpShow:
		r.note("> show %s", ev.Target)
		r.elements[ev.Target].SetVisible(true)
	case OpMove:
		r.note("> move %s by %g,%g", ev.Target, ev.DX, ev.DY)
		r.elements[ev.Target].Move(ev.DX, ev.DY)
	case OpNext:
		r.note("> next")
		if err := r.session.Next(); err != nil {
			r.note("  next: %v", err)
		}
	case OpBack:
		r.note("> back")
		if err := r.session.Back(); err != nil {
			r.note("  back: %v", err)
		}
	case OpAbort:
		r.note("> abort")
		r.session.Abort()
	}
}

func (r *runner) note(format string, args ...any) {
	r.tr.add(r.loop.Now(), fmt.Sprintf(format, args...))
}
