package compiler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/internal/compiler"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/effects"
	"github.com/aretw0/waypoint/pkg/ui/memui"
)

const definition = `
id: intro
title: Intro
fallback_window: 'title == "Library"'
steps:
  - kind: anchor
    title: Toolbar
    content: Everything starts here.
    element: 'id == "toolbar"'
  - kind: effect
    title: Enable
    action: { name: set-flag, params: { key: intro.seen, value: true } }
`

func newCompiler() (*compiler.Compiler, *effects.Flags) {
	flags := effects.NewFlags()
	registry := effects.NewRegistry()
	effects.RegisterBuiltins(registry, flags)
	return compiler.New(registry), flags
}

func TestCompile(t *testing.T) {
	c, flags := newCompiler()

	tour, err := c.Parse([]byte(definition))
	require.NoError(t, err)
	assert.Equal(t, "intro", tour.ID)
	require.Len(t, tour.Steps, 2)

	anchor, ok := tour.Steps[0].(domain.VisibleComponent)
	require.True(t, ok)
	assert.Equal(t, "Everything starts here.", anchor.Content)
	assert.Nil(t, anchor.Window)
	require.NotNil(t, anchor.Element)

	env := memui.New()
	w := memui.NewWindow("w1", "Library")
	root := memui.NewElement("root", "pane")
	root.Add(memui.NewElement("toolbar", "toolbar"))
	w.AttachScene(root)
	env.Open(w)

	require.NotNil(t, tour.FallbackWindow)
	assert.Same(t, w, tour.FallbackWindow(env))
	assert.Equal(t, "toolbar", anchor.Element(w.Scene()).ID())

	effect, ok := tour.Steps[1].(domain.SideEffect)
	require.True(t, ok)
	require.True(t, effect.Effect.Apply(context.Background()))
	assert.Equal(t, map[string]any{"intro.seen": true}, flags.Snapshot())
}

func TestCompile_FreshActionsPerCall(t *testing.T) {
	c, _ := newCompiler()
	a, err := c.Parse([]byte(definition))
	require.NoError(t, err)
	b, err := c.Parse([]byte(definition))
	require.NoError(t, err)

	assert.NotSame(t, a.Steps[1].(domain.SideEffect).Effect, b.Steps[1].(domain.SideEffect).Effect)
}

func TestCompile_Errors(t *testing.T) {
	c, _ := newCompiler()

	_, err := c.Parse([]byte("id: x\nsteps:\n  - kind: effect\n    title: t\n    action: {name: launch-rockets}\n"))
	assert.ErrorIs(t, err, domain.ErrUnknownAction)

	_, err = c.Parse([]byte("id: x\nsteps: []\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)

	_, err = c.Parse([]byte("id: [not, a, string]\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)
}
