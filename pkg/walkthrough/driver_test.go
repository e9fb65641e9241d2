package walkthrough_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/effects"
	"github.com/aretw0/waypoint/pkg/locator"
	"github.com/aretw0/waypoint/pkg/ui/memui"
	"github.com/aretw0/waypoint/pkg/ui/uiloop"
	"github.com/aretw0/waypoint/pkg/walkthrough"
)

type recordingPresenter struct {
	log []string
}

func (p *recordingPresenter) Present(i int, step domain.VisibleComponent, result domain.ResolutionResult) {
	if result.Succeeded() {
		p.log = append(p.log, fmt.Sprintf("present %d", i))
		return
	}
	p.log = append(p.log, fmt.Sprintf("present %d unanchored", i))
}

func (p *recordingPresenter) Dismiss() {
	p.log = append(p.log, "dismiss")
}

type app struct {
	env       *memui.Env
	main      *memui.Window
	dialog    *memui.Window
	loop      *uiloop.Manual
	flags     *effects.Flags
	registry  *effects.Registry
	presenter *recordingPresenter
	entered   []int
}

func newApp() *app {
	env := memui.New()

	main := memui.NewWindow("main", "Library").SetMain(true)
	root := memui.NewElement("main-root", "pane")
	root.Add(memui.NewElement("toolbar", "toolbar"))
	main.AttachScene(root)
	env.Open(main)

	dialog := memui.NewWindow("dialog", "Preferences")
	droot := memui.NewElement("dialog-root", "pane")
	droot.Add(memui.NewElement("ok", "button"))
	dialog.AttachScene(droot)

	flags := effects.NewFlags()
	registry := effects.NewRegistry()
	effects.RegisterBuiltins(registry, flags)

	return &app{
		env:       env,
		main:      main,
		dialog:    dialog,
		loop:      uiloop.NewManual(),
		flags:     flags,
		registry:  registry,
		presenter: &recordingPresenter{},
	}
}

func (a *app) action(t *testing.T, name string, params map[string]any) domain.ReversibleAction {
	t.Helper()
	action, err := a.registry.Build(name, params)
	require.NoError(t, err)
	return action
}

func (a *app) driver(tour *domain.Tour) *walkthrough.Driver {
	hooks := domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) { a.entered = append(a.entered, e.Index) },
	}
	exec := effects.NewExecutor()
	return walkthrough.NewDriver(walkthrough.NewState(tour), a.env, a.loop, exec,
		walkthrough.WithPresenter(a.presenter),
		walkthrough.WithLifecycleHooks(context.Background(), hooks, domain.EventBase{TourID: tour.ID}),
	)
}

func (a *app) assertNoListeners(t *testing.T) {
	t.Helper()
	a.loop.Flush()
	assert.Zero(t, a.env.ListenerCount())
	assert.Zero(t, a.main.ListenerCount())
	assert.Zero(t, a.dialog.ListenerCount())
}

func (a *app) tour(t *testing.T) *domain.Tour {
	t.Helper()
	return &domain.Tour{
		ID: "prefs",
		Steps: []domain.Step{
			domain.VisibleComponent{Title: "toolbar", Element: locator.ElementByID("toolbar")},
			domain.SideEffect{Title: "enable", Effect: a.action(t, effects.ActionSetFlag, map[string]any{"key": "advanced", "value": true})},
			domain.VisibleComponent{Title: "ok", Window: locator.WindowByID("dialog"), Element: locator.ElementByID("ok")},
		},
	}
}

func TestDriver_RunsToCompletion(t *testing.T) {
	a := newApp()
	a.env.Open(a.dialog)
	d := a.driver(a.tour(t))

	d.Start()
	require.NoError(t, d.Next())

	v, ok := a.flags.Get("advanced")
	require.True(t, ok)
	assert.Equal(t, true, v)
	assert.Equal(t, 2, d.State().CurrentStepIndex())

	require.NoError(t, d.Next())
	assert.Equal(t, domain.StatusCompleted, d.State().Status())
	assert.ErrorIs(t, d.Next(), domain.ErrTourFinished)

	assert.Equal(t, []string{"present 0", "dismiss", "present 2", "dismiss"}, a.presenter.log)
	assert.Equal(t, []int{0, 1, 2}, a.entered)
	a.assertNoListeners(t)
}

func TestDriver_AnchorLossUnwinds(t *testing.T) {
	a := newApp()
	a.env.Open(a.dialog)
	d := a.driver(a.tour(t))

	d.Start()
	require.NoError(t, d.Next())
	require.Equal(t, 2, d.State().CurrentStepIndex())

	a.env.Close(a.dialog)
	a.loop.Advance(walkthrough.DefaultTimings().RevertDelay)

	assert.Equal(t, 0, d.State().CurrentStepIndex())
	_, ok := a.flags.Get("advanced")
	assert.False(t, ok, "side effect undone on the way back")
	assert.Equal(t, []string{"present 0", "dismiss", "present 2", "dismiss", "present 0"}, a.presenter.log)
	assert.Equal(t, []int{0, 1, 2, 0}, a.entered)

	d.Abort()
	a.assertNoListeners(t)
}

func TestDriver_UnresolvedAnchorStalls(t *testing.T) {
	a := newApp()
	d := a.driver(a.tour(t))

	d.Start()
	require.NoError(t, d.Next())
	assert.Equal(t, []string{"present 0", "dismiss"}, a.presenter.log)

	// The dialog never opens: the step is shown without an anchor after the deadline.
	a.loop.Advance(walkthrough.DefaultTimings().ResolveTimeout)
	assert.Equal(t, "present 2 unanchored", a.presenter.log[len(a.presenter.log)-1])
	assert.Equal(t, domain.StatusActive, d.State().Status())

	require.NoError(t, d.Next())
	assert.Equal(t, domain.StatusCompleted, d.State().Status())
	a.assertNoListeners(t)
}

func TestDriver_ResolveDurationUsesLoopClock(t *testing.T) {
	a := newApp()
	var took []time.Duration
	hooks := domain.LifecycleHooks{
		OnResolve: func(_ context.Context, e *domain.ResolveEvent) { took = append(took, e.Duration) },
	}
	tour := &domain.Tour{
		ID: "t",
		Steps: []domain.Step{
			domain.VisibleComponent{Title: "ok", Window: locator.WindowByID("dialog"), Element: locator.ElementByID("ok")},
		},
	}
	d := walkthrough.NewDriver(walkthrough.NewState(tour), a.env, a.loop, effects.NewExecutor(),
		walkthrough.WithPresenter(a.presenter),
		walkthrough.WithLifecycleHooks(context.Background(), hooks, domain.EventBase{TourID: tour.ID}),
	)

	d.Start()
	a.loop.Advance(walkthrough.DefaultTimings().ResolveTimeout)

	require.Len(t, took, 1)
	assert.Equal(t, walkthrough.DefaultTimings().ResolveTimeout, took[0])
	d.Abort()
	a.loop.Flush()
}

func TestDriver_NextCancelsPendingResolution(t *testing.T) {
	a := newApp()
	tour := &domain.Tour{
		ID: "t",
		Steps: []domain.Step{
			domain.VisibleComponent{Title: "missing", Element: locator.ElementByID("missing")},
			domain.VisibleComponent{Title: "toolbar", Element: locator.ElementByID("toolbar")},
		},
	}
	d := a.driver(tour)

	d.Start()
	assert.Empty(t, a.presenter.log)
	require.NoError(t, d.Next())

	a.loop.Advance(time.Hour)
	assert.Equal(t, []string{"present 1"}, a.presenter.log)
}

func TestDriver_FailedEffectUnwinds(t *testing.T) {
	a := newApp()
	tour := &domain.Tour{
		ID: "t",
		Steps: []domain.Step{
			domain.VisibleComponent{Title: "toolbar", Element: locator.ElementByID("toolbar")},
			domain.SideEffect{Title: "set", Effect: a.action(t, effects.ActionSetFlag, map[string]any{"key": "k", "value": 1})},
			domain.SideEffect{Title: "broken", Effect: a.action(t, effects.ActionStub, map[string]any{"apply": false})},
			domain.VisibleComponent{Title: "never"},
		},
	}
	d := a.driver(tour)

	d.Start()
	require.NoError(t, d.Next())

	assert.Equal(t, 0, d.State().CurrentStepIndex())
	assert.Empty(t, a.flags.Snapshot())
	assert.Equal(t, []int{0, 1, 2, 0}, a.entered)
}

func TestDriver_FailedFirstEffectQuits(t *testing.T) {
	a := newApp()
	tour := &domain.Tour{
		ID: "t",
		Steps: []domain.Step{
			domain.SideEffect{Title: "broken", Effect: a.action(t, effects.ActionStub, map[string]any{"apply": false})},
			domain.VisibleComponent{Title: "never"},
		},
	}
	d := a.driver(tour)

	d.Start()
	assert.Equal(t, domain.StatusQuit, d.State().Status())
	a.assertNoListeners(t)
}

func TestDriver_Back(t *testing.T) {
	a := newApp()
	a.env.Open(a.dialog)
	d := a.driver(a.tour(t))

	d.Start()
	require.NoError(t, d.Back(), "back on the first step is a no-op")
	assert.Equal(t, 0, d.State().CurrentStepIndex())

	require.NoError(t, d.Next())
	require.NoError(t, d.Back())
	assert.Equal(t, 0, d.State().CurrentStepIndex())
	assert.Empty(t, a.flags.Snapshot())
}

func TestDriver_AbortRevertsEverything(t *testing.T) {
	a := newApp()
	a.env.Open(a.dialog)
	d := a.driver(a.tour(t))

	d.Start()
	require.NoError(t, d.Next())
	require.NotEmpty(t, a.flags.Snapshot())

	d.Abort()
	d.Abort()
	assert.Equal(t, domain.StatusQuit, d.State().Status())
	assert.Empty(t, a.flags.Snapshot())
	assert.Equal(t, "dismiss", a.presenter.log[len(a.presenter.log)-1])
	a.assertNoListeners(t)
}

func TestDriver_EmptyTourCompletes(t *testing.T) {
	a := newApp()
	d := a.driver(&domain.Tour{ID: "empty"})
	d.Start()
	assert.Equal(t, domain.StatusCompleted, d.State().Status())
	assert.Empty(t, a.presenter.log)
}
