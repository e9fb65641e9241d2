// Package scroller keeps an anchored element visible inside its scroll containers.
//
// A Scroller collects the element's scroll-container ancestors once, at construction,
// and re-centres the element on a debounced tick whenever the element or one of those
// containers reports a bounds change. Structural changes to the ancestor chain
// require a new Scroller.
package scroller

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/debounce"
	"github.com/aretw0/waypoint/pkg/ui"
)

// DefaultInterval is the debounce applied to bounds notifications.
const DefaultInterval = 50 * time.Millisecond

// estimateRows caps the item count used to estimate a row height.
const estimateRows = 10

// Option configures a Scroller.
type Option func(*Scroller)

// WithInterval sets the debounce interval.
func WithInterval(d time.Duration) Option {
	return func(s *Scroller) {
		s.interval = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scroller) {
		s.logger = logger
	}
}

// Scroller keeps one element in view.
type Scroller struct {
	element    ui.Element
	containers []ui.ScrollContainer
	subs       []ui.Subscription
	tick       *debounce.Debouncer
	interval   time.Duration
	logger     *slog.Logger
	closed     bool
}

// New starts keeping element visible. An initial tick is scheduled so the element is
// brought into view without waiting for a layout change.
func New(element ui.Element, loop ui.Loop, opts ...Option) *Scroller {
	s := &Scroller{
		element:  element,
		interval: DefaultInterval,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for p := element.Parent(); p != nil; p = p.Parent() {
		if c, ok := p.(ui.ScrollContainer); ok {
			s.containers = append(s.containers, c)
		}
	}

	s.tick = debounce.New(loop, s.interval, s.update)
	s.subs = append(s.subs, element.OnBoundsChanged(s.tick.Call))
	for _, c := range s.containers {
		s.subs = append(s.subs, c.OnBoundsChanged(s.tick.Call))
	}
	s.tick.Call()
	return s
}

// Containers returns the scroll containers being managed, innermost first.
func (s *Scroller) Containers() []ui.ScrollContainer {
	return s.containers
}

// Cleanup releases every subscription and the pending tick. It is idempotent.
func (s *Scroller) Cleanup() {
	if s.closed {
		return
	}
	s.closed = true
	s.tick.Cancel()
	ui.CancelAll(s.subs...)
	s.subs = nil
}

func (s *Scroller) update() {
	if s.closed {
		return
	}
	for _, c := range s.containers {
		if err := s.scrollSafely(c); err != nil {
			s.logger.Warn("scroll container update failed",
				"container", c.ID(),
				"kind", c.ContainerKind().String(),
				"err", err,
			)
		}
	}
}

func (s *Scroller) scrollSafely(c ui.ScrollContainer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	switch c.ContainerKind() {
	case ui.ContainerPanel:
		pane, ok := c.(ui.ScrollPane)
		if !ok {
			return fmt.Errorf("panel %q does not implement ui.ScrollPane", c.ID())
		}
		return scrollPane(pane, s.element.Bounds())
	case ui.ContainerList, ui.ContainerTable, ui.ContainerTree:
		view, ok := c.(ui.ItemView)
		if !ok {
			return fmt.Errorf("%s %q does not implement ui.ItemView", c.ContainerKind(), c.ID())
		}
		return scrollItemView(view, s.element.Bounds())
	}
	return fmt.Errorf("unsupported container kind %d", c.ContainerKind())
}

// scrollPane centres target vertically inside the pane's viewport.
func scrollPane(pane ui.ScrollPane, target ui.Bounds) error {
	viewport := pane.Bounds()
	content := pane.ContentBounds()
	if content.Height <= viewport.Height || viewport.Contains(target) {
		return nil
	}

	centre := (target.Y - content.Y) + target.Height/2
	fraction := (centre - viewport.Height/2) / (content.Height - viewport.Height)
	return pane.SetVScroll(clamp(fraction, 0, 1))
}

// scrollItemView reveals the row under target unless target is already visible.
func scrollItemView(view ui.ItemView, target ui.Bounds) error {
	visible := view.Bounds()
	if visible.Contains(target) {
		return nil
	}
	count := view.ItemCount()
	if count <= 0 {
		return nil
	}

	rowHeight, fixed := view.FixedRowHeight()
	if !fixed || rowHeight <= 0 {
		content := view.ContentHeight()
		if content <= 0 {
			// Views that cannot report their content are estimated from what is shown.
			content = visible.Height
		}
		rowHeight = content / float64(min(count, estimateRows))
	}
	if rowHeight <= 0 {
		return nil
	}

	index := int(math.Floor((target.Y - visible.Y) / rowHeight))
	return view.ScrollTo(int(clamp(float64(index), 0, float64(count-1))))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
