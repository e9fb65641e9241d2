package ui

// ContainerKind is the closed set of scroll containers the viewport scroller handles.
type ContainerKind int

const (
	ContainerPanel ContainerKind = iota // generic scrollable panel
	ContainerList
	ContainerTable
	ContainerTree
)

func (k ContainerKind) String() string {
	switch k {
	case ContainerPanel:
		return "panel"
	case ContainerList:
		return "list"
	case ContainerTable:
		return "table"
	case ContainerTree:
		return "tree"
	}
	return "unknown"
}

// ScrollContainer is an element that can scroll its content.
type ScrollContainer interface {
	Element
	ContainerKind() ContainerKind
}

// ScrollPane is a generic scrollable panel (ContainerPanel).
type ScrollPane interface {
	ScrollContainer

	// ContentBounds returns the bounds of the whole scrollable content in screen
	// coordinates. Its origin moves as the pane scrolls.
	ContentBounds() Bounds

	// SetVScroll scrolls vertically to fraction, 0 being the top and 1 the bottom.
	SetVScroll(fraction float64) error
}

// ItemView is a virtualized list, table or tree.
type ItemView interface {
	ScrollContainer

	ItemCount() int

	// FixedRowHeight returns the row height when the view enforces one.
	FixedRowHeight() (float64, bool)

	// ContentHeight returns the height of all rows laid out, or 0 when unknown.
	ContentHeight() float64

	// ScrollTo reveals the row at index.
	ScrollTo(index int) error
}

// Bounds is an axis-aligned rectangle.
type Bounds struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// MaxX returns the right edge.
func (b Bounds) MaxX() float64 { return b.X + b.Width }

// MaxY returns the bottom edge.
func (b Bounds) MaxY() float64 { return b.Y + b.Height }

// Contains reports whether other lies fully inside b.
func (b Bounds) Contains(other Bounds) bool {
	return other.X >= b.X && other.Y >= b.Y && other.MaxX() <= b.MaxX() && other.MaxY() <= b.MaxY()
}
