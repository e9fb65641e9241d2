package memui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/pkg/ui"
)

func TestEffectiveVisibility(t *testing.T) {
	env := New()
	w := NewWindow("main", "Main").SetMain(true)
	root := NewElement("root", "pane")
	button := NewElement("button", "button")
	root.Add(button)

	assert.False(t, button.IsEffectivelyVisible(), "detached scene")

	w.AttachScene(root)
	assert.False(t, button.IsEffectivelyVisible(), "window not open")

	env.Open(w)
	assert.True(t, button.IsEffectivelyVisible())

	root.SetVisible(false)
	assert.False(t, button.IsEffectivelyVisible(), "hidden ancestor")

	root.SetVisible(true)
	env.Close(w)
	assert.False(t, button.IsEffectivelyVisible(), "window closed")
}

func TestVisibilityNotifications(t *testing.T) {
	env := New()
	w := NewWindow("main", "Main")
	root := NewElement("root", "pane")
	panel := NewElement("panel", "pane")
	button := NewElement("button", "button")
	panel.Add(button)
	root.Add(panel)
	w.AttachScene(root)
	env.Open(w)

	var seen []bool
	sub := button.OnVisibilityChanged(func(v bool) { seen = append(seen, v) })

	panel.SetVisible(false)
	panel.SetVisible(true)
	root.Remove(panel)
	root.Add(panel)
	env.Close(w)

	assert.Equal(t, []bool{false, true, false, true, false}, seen)

	sub.Cancel()
	sub.Cancel()
	env.Open(w)
	assert.Len(t, seen, 5)
	assert.Zero(t, button.ListenerCount())
}

func TestStructureNotifications(t *testing.T) {
	root := NewElement("root", "pane")
	a := NewElement("a", "label")
	b := NewElement("b", "label")

	count := 0
	root.OnChildrenChanged(func() { count++ })

	root.Add(a)
	root.Replace(a, b)
	root.Remove(a)
	root.Remove(b)
	assert.Equal(t, 3, count)
	assert.Nil(t, a.Parent())
}

func TestCancelDuringDispatch(t *testing.T) {
	root := NewElement("root", "pane")
	calls := 0

	var first ui.Subscription
	first = root.OnChildrenChanged(func() {
		calls++
		first.Cancel()
	})
	root.OnChildrenChanged(func() { calls++ })

	root.Add(NewElement("a", "label"))
	root.Add(NewElement("b", "label"))
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, root.ListenerCount())
}

func TestEnvWindows(t *testing.T) {
	env := New()
	main := NewWindow("main", "Main").SetMain(true)
	dialog := NewWindow("dialog", "Dialog")

	changes := 0
	env.OnWindowsChanged(func() { changes++ })

	env.Open(main)
	env.Open(dialog)
	env.Open(dialog)
	require.Len(t, env.Windows(), 2)
	assert.Same(t, dialog, env.Window("dialog"))

	env.Close(dialog)
	assert.Nil(t, env.Window("dialog"))
	assert.False(t, dialog.IsShowing())
	assert.Equal(t, 3, changes)
}

func TestSceneAttach(t *testing.T) {
	env := New()
	w := NewWindow("main", "Main")
	env.Open(w)
	assert.Nil(t, w.Scene())

	attached := 0
	w.OnSceneAttached(func() { attached++ })

	first := NewElement("first", "pane")
	w.AttachScene(first)
	assert.True(t, first.IsEffectivelyVisible())

	second := NewElement("second", "pane")
	w.AttachScene(second)
	assert.False(t, first.IsEffectivelyVisible())
	assert.Equal(t, ui.Element(second), w.Scene())
	assert.Equal(t, 2, attached)
}

func TestContainersKeepIdentity(t *testing.T) {
	root := NewElement("root", "pane")
	pane := NewScrollPane("pane", ui.Bounds{Height: 100}, ui.Bounds{Height: 400})
	list := NewItemView("list", ui.ContainerList, ui.Bounds{Height: 100}, 20)
	row := NewElement("row", "cell")
	list.Add(row)
	pane.Add(list.Element)
	root.Add(pane.Element)

	parent := row.Parent()
	require.NotNil(t, parent)
	view, ok := parent.(ui.ItemView)
	require.True(t, ok)
	assert.Equal(t, ui.ContainerList, view.ContainerKind())

	_, ok = parent.Parent().(ui.ScrollPane)
	assert.True(t, ok)
	assert.Equal(t, "list", list.Kind())
}

func TestMoveShiftsSubtree(t *testing.T) {
	root := NewElement("root", "pane").WithBounds(ui.Bounds{X: 0, Y: 0, Width: 10, Height: 10})
	child := NewElement("child", "label").WithBounds(ui.Bounds{X: 1, Y: 2, Width: 3, Height: 4})
	root.Add(child)

	moved := 0
	child.OnBoundsChanged(func() { moved++ })
	root.Move(5, 10)

	assert.Equal(t, ui.Bounds{X: 6, Y: 12, Width: 3, Height: 4}, child.Bounds())
	assert.Equal(t, 1, moved)
}
