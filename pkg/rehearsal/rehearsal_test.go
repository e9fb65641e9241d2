package rehearsal_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/internal/compiler"
	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/effects"
	"github.com/aretw0/waypoint/pkg/rehearsal"
)

func compileTour(t *testing.T, name string) (*domain.Tour, *effects.Flags) {
	t.Helper()
	flags := effects.NewFlags()
	reg := effects.NewRegistry()
	effects.RegisterBuiltins(reg, flags)

	data, err := os.ReadFile(filepath.Join("testdata", "tours", name+".yaml"))
	require.NoError(t, err)
	tour, err := compiler.New(reg).Parse(data)
	require.NoError(t, err)
	return tour, flags
}

func TestRun_Golden(t *testing.T) {
	scenarios := []string{"happy-path", "anchor-lost", "stalled"}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, name := range scenarios {
		t.Run(name, func(t *testing.T) {
			tour, flags := compileTour(t, "prefs")
			script, err := rehearsal.LoadScript(filepath.Join("testdata", "scripts", name+".yaml"))
			require.NoError(t, err)

			tr, err := rehearsal.Run(context.Background(), tour, script, rehearsal.WithFlags(flags))
			require.NoError(t, err)
			g.Assert(t, name, []byte(tr.String()))
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	script, err := rehearsal.LoadScript(filepath.Join("testdata", "scripts", "anchor-lost.yaml"))
	require.NoError(t, err)

	var outputs []string
	for range 3 {
		tour, _ := compileTour(t, "prefs")
		tr, err := rehearsal.Run(context.Background(), tour, script)
		require.NoError(t, err)
		outputs = append(outputs, tr.String())
	}
	assert.Equal(t, outputs[0], outputs[1])
	assert.Equal(t, outputs[1], outputs[2])
}

func TestRun_PersistsProgress(t *testing.T) {
	tour, _ := compileTour(t, "prefs")
	script, err := rehearsal.LoadScript(filepath.Join("testdata", "scripts", "happy-path.yaml"))
	require.NoError(t, err)

	store := memory.NewStore()
	_, err = rehearsal.Run(context.Background(), tour, script,
		rehearsal.WithStore(store),
		rehearsal.WithSessionID("happy"),
	)
	require.NoError(t, err)

	p, err := store.Load(context.Background(), "happy")
	require.NoError(t, err)
	assert.Equal(t, "prefs", p.TourID)
	assert.Equal(t, domain.StatusCompleted, p.Status)
	assert.Equal(t, 2, p.StepIndex)
}

func TestRun_StructuralOps(t *testing.T) {
	tour, _ := compileTour(t, "prefs")
	script, err := rehearsal.ParseScript([]byte(`
windows:
  - id: main
    title: Editor
    main: true
    scene:
      id: main-root
      children:
        - id: prefs-button
          kind: button
        - id: status-bar
timeline:
  - at: 50ms
    op: hide
    target: status-bar
  - at: 60ms
    op: show
    target: status-bar
  - at: 70ms
    op: move
    target: prefs-button
    dx: 10
    dy: -5
  - at: 80ms
    op: remove
    target: main-root
  - at: 90ms
    op: back
until: 500ms
`))
	require.NoError(t, err)

	tr, err := rehearsal.Run(context.Background(), tour, script)
	require.NoError(t, err)

	var texts []string
	for _, e := range tr.Entries {
		texts = append(texts, e.Text)
	}
	assert.Contains(t, texts, "> move prefs-button by 10,-5")
	assert.Contains(t, texts, "  remove main-root: not attached to a parent")
	assert.Contains(t, texts, "> back")
	assert.Equal(t, domain.StatusActive, tr.Status)
	assert.Equal(t, 0, tr.StepIndex)
	assert.Nil(t, tr.Flags)
}

func TestParseScript_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "unknown field",
			src:  "windows: []\nbogus: 1\n",
			want: "bogus",
		},
		{
			name: "unknown op",
			src:  "timeline:\n  - op: explode\n",
			want: `unknown op "explode"`,
		},
		{
			name: "unknown window",
			src:  "timeline:\n  - op: open-window\n    window: ghost\n",
			want: `unknown window "ghost"`,
		},
		{
			name: "unknown target",
			src:  "timeline:\n  - op: hide\n    target: ghost\n",
			want: `unknown target "ghost"`,
		},
		{
			name: "duplicate element",
			src: `
windows:
  - id: w
    scene:
      id: a
      children:
        - id: a
`,
			want: `duplicate element id "a"`,
		},
		{
			name: "add without element",
			src: `
windows:
  - id: w
    scene:
      id: root
timeline:
  - op: add
    parent: root
`,
			want: "add needs an element",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rehearsal.ParseScript([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
