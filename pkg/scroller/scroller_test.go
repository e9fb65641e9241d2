package scroller

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/pkg/ui"
	"github.com/aretw0/waypoint/pkg/ui/memui"
	"github.com/aretw0/waypoint/pkg/ui/uiloop"
)

func paneWithTarget(content ui.Bounds, target ui.Bounds) (*memui.ScrollPane, *memui.Element) {
	pane := memui.NewScrollPane("pane", ui.Bounds{Width: 100, Height: 100}, content)
	el := memui.NewElement("target", "label").WithBounds(target)
	pane.Add(el)
	return pane, el
}

func TestScrollPane_CentresTarget(t *testing.T) {
	loop := uiloop.NewManual()
	pane, el := paneWithTarget(
		ui.Bounds{Width: 100, Height: 400},
		ui.Bounds{Y: 250, Width: 50, Height: 20},
	)

	s := New(el, loop)
	defer s.Cleanup()
	assert.Empty(t, pane.Scrolls, "first tick is debounced")

	loop.Advance(DefaultInterval)
	require.Len(t, pane.Scrolls, 1)
	assert.InDelta(t, 0.7, pane.Scrolls[0], 1e-9)
}

func TestScrollPane_Clamps(t *testing.T) {
	cases := []struct {
		name   string
		target ui.Bounds
		want   float64
	}{
		{"Below Content", ui.Bounds{Y: 390, Height: 10}, 1},
		{"Above Content", ui.Bounds{Y: -50, Height: 10}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			loop := uiloop.NewManual()
			pane, el := paneWithTarget(ui.Bounds{Width: 100, Height: 400}, tc.target)
			New(el, loop)
			loop.Advance(DefaultInterval)
			require.Len(t, pane.Scrolls, 1)
			assert.Equal(t, tc.want, pane.Scrolls[0])
		})
	}
}

func TestScrollPane_NoOp(t *testing.T) {
	t.Run("Content Fits", func(t *testing.T) {
		loop := uiloop.NewManual()
		pane, el := paneWithTarget(ui.Bounds{Width: 100, Height: 80}, ui.Bounds{Y: 150, Height: 10})
		New(el, loop)
		loop.Advance(DefaultInterval)
		assert.Empty(t, pane.Scrolls)
	})

	t.Run("Target In View", func(t *testing.T) {
		loop := uiloop.NewManual()
		pane, el := paneWithTarget(ui.Bounds{Width: 100, Height: 400}, ui.Bounds{Y: 10, Width: 20, Height: 10})
		New(el, loop)
		loop.Advance(DefaultInterval)
		assert.Empty(t, pane.Scrolls)
	})
}

func TestItemView_RevealsRow(t *testing.T) {
	cases := []struct {
		name      string
		items     int
		rowHeight float64
		content   float64
		targetY   float64
		want      int
	}{
		{"Fixed Row Height", 50, 20, 0, 150, 7},
		{"Estimated Row Height", 50, 0, 0, 150, 15},
		{"Estimate Uses Content Height", 50, 0, 1000, 150, 1},
		{"Fixed Height Beats Content", 50, 20, 1000, 150, 7},
		{"Estimate Uses Item Count", 5, 0, 0, 150, 4},
		{"Clamped To Last", 5, 10, 0, 500, 4},
		{"Clamped To First", 50, 20, 0, -40, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			loop := uiloop.NewManual()
			list := memui.NewItemView("list", ui.ContainerTable, ui.Bounds{Width: 100, Height: 100}, tc.items).
				WithRowHeight(tc.rowHeight).
				WithContentHeight(tc.content)
			el := memui.NewElement("cell", "cell").WithBounds(ui.Bounds{Y: tc.targetY, Width: 10, Height: 10})
			list.Add(el)

			New(el, loop)
			loop.Advance(DefaultInterval)
			assert.Equal(t, []int{tc.want}, list.Revealed)
		})
	}
}

func TestItemView_SkipsVisibleTarget(t *testing.T) {
	loop := uiloop.NewManual()
	tree := memui.NewItemView("tree", ui.ContainerTree, ui.Bounds{Width: 100, Height: 100}, 50)
	el := memui.NewElement("node", "cell").WithBounds(ui.Bounds{Y: 40, Width: 10, Height: 10})
	tree.Add(el)

	New(el, loop)
	loop.Advance(DefaultInterval)
	assert.Empty(t, tree.Revealed)

	tree.SetItemCount(0)
	el.SetBounds(ui.Bounds{Y: 400, Width: 10, Height: 10})
	loop.Advance(DefaultInterval)
	assert.Empty(t, tree.Revealed, "empty views are skipped")
}

func TestScroller_ContainerErrorDoesNotAbortOthers(t *testing.T) {
	loop := uiloop.NewManual()
	list := memui.NewItemView("list", ui.ContainerList, ui.Bounds{Width: 100, Height: 100}, 50).WithRowHeight(20)
	pane, el := paneWithTarget(ui.Bounds{Width: 100, Height: 400}, ui.Bounds{Y: 250, Height: 20})
	list.Add(pane.Element)
	root := memui.NewElement("root", "pane")
	root.Add(list.Element)

	pane.FailWith(errors.New("layout pass in progress"))

	s := New(el, loop)
	require.Len(t, s.Containers(), 2)
	assert.Equal(t, "pane", s.Containers()[0].ID())
	assert.Equal(t, "list", s.Containers()[1].ID())

	loop.Advance(DefaultInterval)
	assert.Empty(t, pane.Scrolls)
	assert.Equal(t, []int{12}, list.Revealed)
}

func TestScroller_DebouncesBoundsChanges(t *testing.T) {
	loop := uiloop.NewManual()
	pane, el := paneWithTarget(ui.Bounds{Width: 100, Height: 400}, ui.Bounds{Y: 250, Height: 20})

	New(el, loop)
	loop.Advance(DefaultInterval)
	require.Len(t, pane.Scrolls, 1)

	for i := 0; i < 4; i++ {
		el.Move(0, 10)
		loop.Advance(DefaultInterval / 2)
	}
	assert.Len(t, pane.Scrolls, 1)

	loop.Advance(DefaultInterval)
	assert.Len(t, pane.Scrolls, 2)

	pane.SetBounds(ui.Bounds{Width: 100, Height: 120})
	loop.Advance(DefaultInterval)
	assert.Len(t, pane.Scrolls, 3, "container bounds changes also trigger a tick")
}

func TestScroller_CleanupIsIdempotent(t *testing.T) {
	loop := uiloop.NewManual()
	pane, el := paneWithTarget(ui.Bounds{Width: 100, Height: 400}, ui.Bounds{Y: 250, Height: 20})

	s := New(el, loop)
	assert.Equal(t, 2, pane.ListenerCount())

	s.Cleanup()
	s.Cleanup()
	assert.Zero(t, pane.ListenerCount())
	assert.Zero(t, loop.Pending())

	el.Move(0, 50)
	loop.Advance(time.Second)
	assert.Empty(t, pane.Scrolls)
}
