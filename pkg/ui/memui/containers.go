package memui

import "github.com/aretw0/waypoint/pkg/ui"

// ScrollPane is an in-memory generic scrollable panel.
type ScrollPane struct {
	*Element

	content ui.Bounds
	vscroll float64
	failErr error

	// Scrolls records every fraction passed to SetVScroll.
	Scrolls []float64
}

var _ ui.ScrollPane = (*ScrollPane)(nil)

// NewScrollPane creates a pane whose own bounds are the viewport.
func NewScrollPane(id string, viewport, content ui.Bounds) *ScrollPane {
	el := NewElement(id, "scroll-pane").WithBounds(viewport)
	p := &ScrollPane{Element: el, content: content}
	el.self = p
	return p
}

func (p *ScrollPane) ContainerKind() ui.ContainerKind { return ui.ContainerPanel }
func (p *ScrollPane) ContentBounds() ui.Bounds        { return p.content }

// SetContentBounds changes the content bounds without notifying.
func (p *ScrollPane) SetContentBounds(b ui.Bounds) {
	p.content = b
}

// VScroll returns the current vertical scroll fraction.
func (p *ScrollPane) VScroll() float64 {
	return p.vscroll
}

// SetVScroll implements ui.ScrollPane.
func (p *ScrollPane) SetVScroll(fraction float64) error {
	if p.failErr != nil {
		return p.failErr
	}
	p.vscroll = fraction
	p.Scrolls = append(p.Scrolls, fraction)
	return nil
}

// FailWith makes every later scroll request return err. Pass nil to recover.
func (p *ScrollPane) FailWith(err error) {
	p.failErr = err
}

// ItemView is an in-memory list, table or tree.
type ItemView struct {
	*Element

	kind      ui.ContainerKind
	items     int
	rowHeight float64
	content   float64
	failErr   error

	// Revealed records every index passed to ScrollTo.
	Revealed []int
}

var _ ui.ItemView = (*ItemView)(nil)

// NewItemView creates a view of the given kind holding items rows.
func NewItemView(id string, kind ui.ContainerKind, bounds ui.Bounds, items int) *ItemView {
	el := NewElement(id, kind.String()).WithBounds(bounds)
	v := &ItemView{Element: el, kind: kind, items: items}
	el.self = v
	return v
}

// WithRowHeight fixes the row height.
func (v *ItemView) WithRowHeight(h float64) *ItemView {
	v.rowHeight = h
	return v
}

func (v *ItemView) ContainerKind() ui.ContainerKind { return v.kind }
func (v *ItemView) ItemCount() int                  { return v.items }

// SetItemCount changes the number of rows.
func (v *ItemView) SetItemCount(n int) {
	v.items = n
}

// WithContentHeight sets the laid-out height of all rows.
func (v *ItemView) WithContentHeight(h float64) *ItemView {
	v.content = h
	return v
}

// ContentHeight implements ui.ItemView.
func (v *ItemView) ContentHeight() float64 {
	return v.content
}

// FixedRowHeight implements ui.ItemView.
func (v *ItemView) FixedRowHeight() (float64, bool) {
	return v.rowHeight, v.rowHeight > 0
}

// ScrollTo implements ui.ItemView.
func (v *ItemView) ScrollTo(index int) error {
	if v.failErr != nil {
		return v.failErr
	}
	v.Revealed = append(v.Revealed, index)
	return nil
}

// FailWith makes every later scroll request return err. Pass nil to recover.
func (v *ItemView) FailWith(err error) {
	v.failErr = err
}
