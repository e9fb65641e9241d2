package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/waypoint/internal/presentation/graph"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/schema"
)

func prefsDefinition() *schema.Definition {
	return &schema.Definition{
		ID: "prefs",
		Steps: []schema.StepDef{
			{Kind: schema.KindAnchor, Title: "Open preferences", Element: `id == "prefs-button"`},
			{Kind: schema.KindEffect, Title: "Enable dark theme", Action: &schema.ActionDef{Name: "set-flag"}},
			{Kind: schema.KindAnchor, Title: "Save", Window: `title == "Preferences"`},
		},
	}
}

func TestGenerateMermaid(t *testing.T) {
	got := graph.GenerateMermaid(prefsDefinition(), nil)

	for _, want := range []string{
		"graph TD\n",
		`start(("prefs"))`,
		`s0["0. Open preferences<br/>id == 'prefs-button'"]`,
		`s1[["1. Enable dark theme<br/>⚙ set-flag"]]`,
		`s2["2. Save<br/>title == 'Preferences'"]`,
		"start --> s0",
		"s0 --> s1",
		"s1 --> s2",
		`s2 --> done(("done"))`,
		`s0 -. "anchor lost" .-> quit`,
		`s1 -. "failed" .-> s0`,
		`s2 -. "anchor lost" .-> s0`,
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	tests := []struct {
		name     string
		overlay  *graph.Overlay
		visited  []string
		current  string
		excluded []string
	}{
		{
			name:     "active",
			overlay:  graph.OverlayFrom(&domain.Progress{StepIndex: 2, Status: domain.StatusActive}),
			visited:  []string{"start", "s0", "s1"},
			current:  "s2",
			excluded: []string{"class s2 visited"},
		},
		{
			name:    "completed",
			overlay: &graph.Overlay{StepIndex: 2, Status: domain.StatusCompleted},
			visited: []string{"start", "s0", "s1", "s2"},
			current: "done",
		},
		{
			name:     "quit",
			overlay:  &graph.Overlay{StepIndex: 0, Status: domain.StatusQuit},
			visited:  []string{"start"},
			current:  "quit",
			excluded: []string{"class s0 visited"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(prefsDefinition(), tt.overlay)
			for _, id := range tt.visited {
				assert.Contains(t, got, "class "+id+" visited;")
			}
			assert.Contains(t, got, "class "+tt.current+" current;")
			assert.Equal(t, 1, strings.Count(got, " current;"))
			for _, s := range tt.excluded {
				assert.NotContains(t, got, s)
			}
		})
	}
}
