package reverter

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/locator"
	"github.com/aretw0/waypoint/pkg/ui/memui"
	"github.com/aretw0/waypoint/pkg/ui/uiloop"
)

// journal records navigation and undo calls in the order they happen.
type journal struct {
	entries []string
}

func (j *journal) add(format string, args ...any) {
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

type fakeTour struct {
	log   *journal
	steps []domain.Step
	index int
	quits int
}

func (f *fakeTour) CurrentStepIndex() int { return f.index }

func (f *fakeTour) StepAt(i int) domain.Step {
	if i < 0 || i >= len(f.steps) {
		return nil
	}
	return f.steps[i]
}

func (f *fakeTour) GoToStep(i int) error {
	f.log.add("goto %d", i)
	f.index = i
	return nil
}

func (f *fakeTour) Quit() {
	f.log.add("quit")
	f.quits++
}

type fakeExecutor struct {
	log *journal
}

func (x *fakeExecutor) Undo(a domain.ReversibleAction) bool {
	ok := a.Undo(context.Background())
	x.log.add("undo %s %v", a.Description(), ok)
	return ok
}

func effect(name string, undoOK bool) domain.SideEffect {
	return domain.SideEffect{
		Title: name,
		Effect: domain.ActionFuncs{
			Name:   name,
			UndoFn: func(context.Context) bool { return undoOK },
		},
	}
}

func anchor(title, windowID, elementID string) domain.VisibleComponent {
	vc := domain.VisibleComponent{Title: title, Window: locator.WindowByID(windowID)}
	if elementID != "" {
		vc.Element = locator.ElementByID(elementID)
	}
	return vc
}

type fixture struct {
	env  *memui.Env
	main *memui.Window
	loop *uiloop.Manual
	log  *journal
	tour *fakeTour
	r    *Reverter
}

func newFixture(index int, steps ...domain.Step) *fixture {
	env := memui.New()
	main := memui.NewWindow("main", "Main").SetMain(true)
	root := memui.NewElement("root", "pane")
	root.Add(memui.NewElement("toolbar", "toolbar"))
	main.AttachScene(root)
	env.Open(main)

	log := &journal{}
	tour := &fakeTour{log: log, steps: steps, index: index}
	loop := uiloop.NewManual()
	r := New(tour, env, main, &fakeExecutor{log: log}, loop)
	return &fixture{env: env, main: main, loop: loop, log: log, tour: tour, r: r}
}

func TestUndoTo_SkipRule(t *testing.T) {
	f := newFixture(3,
		anchor("resolvable", "main", "toolbar"),
		anchor("unresolvable", "main", "gone"),
		effect("open-panel", true),
		anchor("current", "main", "toolbar"),
	)

	f.r.FindAndUndo()

	assert.Equal(t, []string{"undo open-panel true", "goto 0"}, f.log.entries)
	assert.Zero(t, f.tour.quits)
}

func TestUndoTo_FailedUndoDoesNotStopScan(t *testing.T) {
	f := newFixture(3,
		anchor("first", "main", ""),
		effect("a", true),
		effect("b", false),
		anchor("current", "main", "toolbar"),
	)

	f.r.UndoTo(3)

	assert.Equal(t, []string{"undo b false", "undo a true", "goto 0"}, f.log.entries)
}

func TestUndoTo_ExhaustionQuitsOnce(t *testing.T) {
	f := newFixture(2,
		anchor("closed dialog", "dialog", "ok"),
		anchor("missing", "main", "gone"),
		anchor("current", "main", "toolbar"),
	)

	f.r.FindAndUndo()

	assert.Equal(t, []string{"quit"}, f.log.entries)
	assert.Equal(t, 1, f.tour.quits)
}

func TestUndoTo_FallbackWindow(t *testing.T) {
	steps := []domain.Step{
		domain.VisibleComponent{Title: "intro"},
		anchor("current", "main", "toolbar"),
	}

	f := newFixture(1, steps...)
	f.r.FindAndUndo()
	assert.Equal(t, []string{"goto 0"}, f.log.entries)

	f = newFixture(1, steps...)
	f.r.SetFallbackWindow(nil)
	f.r.FindAndUndo()
	assert.Equal(t, []string{"quit"}, f.log.entries)
}

func TestUndoTo_ClosedFallbackWindow(t *testing.T) {
	steps := []domain.Step{
		domain.VisibleComponent{Title: "intro"},
		anchor("current", "main", "toolbar"),
	}

	f := newFixture(1, steps...)
	f.env.Close(f.main)
	f.r.FindAndUndo()
	assert.Equal(t, []string{"quit"}, f.log.entries, "a closed fallback window is not resumable")

	f = newFixture(1, steps...)
	f.r = New(f.tour, f.env, f.main, &fakeExecutor{log: f.log}, f.loop, WithFallbackLocator(domain.MainWindow))
	f.env.Close(f.main)
	f.env.Open(memui.NewWindow("library", "Library").SetMain(true))
	f.r.FindAndUndo()
	assert.Equal(t, []string{"goto 0"}, f.log.entries, "the locator finds the replacement main window")
}

func TestUndoTo_AnchorElementInFallbackWindow(t *testing.T) {
	f := newFixture(1,
		domain.VisibleComponent{Title: "toolbar", Element: locator.ElementByID("toolbar")},
		effect("x", true),
	)
	f.r.FindAndUndo()
	assert.Equal(t, []string{"goto 0"}, f.log.entries)
}

func TestUndoTo_UnknownStepIsSkipped(t *testing.T) {
	f := newFixture(2,
		anchor("first", "main", ""),
		nil,
		anchor("current", "main", ""),
	)
	f.r.UndoTo(2)
	assert.Equal(t, []string{"goto 0"}, f.log.entries)
}

func TestUndoTo_ReportsUnwind(t *testing.T) {
	f := newFixture(3,
		anchor("first", "main", ""),
		anchor("gone", "main", "gone"),
		effect("e", true),
		anchor("current", "main", ""),
	)
	var got *domain.UnwindEvent
	f.r = New(f.tour, f.env, f.main, &fakeExecutor{log: f.log}, f.loop,
		WithLifecycleHooks(context.Background(), domain.LifecycleHooks{
			OnUnwind: func(_ context.Context, e *domain.UnwindEvent) { got = e },
		}, domain.EventBase{SessionID: "s"}),
	)

	f.r.FindAndUndo()

	require.NotNil(t, got)
	assert.Equal(t, 3, got.From)
	assert.Equal(t, 0, got.To)
	assert.Equal(t, 1, got.Undone)
	assert.Equal(t, 1, got.Skipped)
	assert.False(t, got.Quit)
	assert.Equal(t, "s", got.SessionID)
}

func TestRevertAll_UndoesEverySideEffect(t *testing.T) {
	f := newFixture(3,
		effect("a", true),
		anchor("first", "main", ""),
		effect("b", false),
		effect("c", true),
	)

	f.r.RevertAll()

	assert.Equal(t, []string{"undo c true", "undo b false", "undo a true"}, f.log.entries)
	assert.Zero(t, f.tour.quits, "reverting does not navigate")
}

func TestAttach_WindowCloseTriggersUnwind(t *testing.T) {
	f := newFixture(2,
		anchor("first", "main", ""),
		effect("e", true),
		anchor("current", "dialog", "ok"),
	)
	dialog := memui.NewWindow("dialog", "Dialog")
	root := memui.NewElement("dialog-root", "pane")
	ok := memui.NewElement("ok", "button")
	root.Add(ok)
	dialog.AttachScene(root)
	f.env.Open(dialog)

	f.r.Attach(dialog, ok)
	assert.True(t, f.r.Attached())

	f.env.Close(dialog)
	assert.Empty(t, f.log.entries, "unwind waits for the revert delay")

	f.loop.Advance(DefaultDelay)
	assert.Equal(t, []string{"undo e true", "goto 0"}, f.log.entries)
	assert.False(t, f.r.Attached())
	assert.Zero(t, dialog.ListenerCount())
}

func TestAttach_ElementHiddenRestartsDelay(t *testing.T) {
	f := newFixture(1,
		anchor("first", "main", ""),
		anchor("current", "main", "toolbar"),
	)
	toolbar := f.main.Find("toolbar")

	f.r.Attach(f.main, toolbar)
	toolbar.SetVisible(false)
	f.loop.Advance(DefaultDelay - 10*time.Millisecond)
	toolbar.SetVisible(true)
	toolbar.SetVisible(false)

	f.loop.Advance(DefaultDelay - time.Millisecond)
	assert.Empty(t, f.log.entries)
	f.loop.Advance(time.Millisecond)
	assert.Equal(t, []string{"goto 0"}, f.log.entries)
}

func TestDetach_IsIdempotentAndCancelsPending(t *testing.T) {
	f := newFixture(1,
		anchor("first", "main", ""),
		anchor("current", "main", "toolbar"),
	)
	toolbar := f.main.Find("toolbar")

	f.r.Attach(f.main, toolbar)
	assert.Equal(t, 2, f.main.ListenerCount())

	toolbar.SetVisible(false)
	f.r.Detach()
	f.r.Detach()
	f.loop.Advance(time.Second)

	assert.Empty(t, f.log.entries)
	assert.Zero(t, f.main.ListenerCount())
	assert.Zero(t, f.loop.Pending())
}

func TestAttach_ReplacesPreviousWatch(t *testing.T) {
	f := newFixture(1,
		anchor("first", "main", ""),
		anchor("current", "main", "toolbar"),
	)
	toolbar := f.main.Find("toolbar")

	f.r.Attach(f.main, toolbar)
	f.r.Attach(f.main, nil)
	assert.Equal(t, 1, f.main.ListenerCount())

	toolbar.SetVisible(false)
	f.loop.Advance(time.Second)
	assert.Empty(t, f.log.entries)
}
