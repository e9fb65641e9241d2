// Package graph renders walkthrough definitions as Mermaid flowcharts.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/schema"
)

// Overlay marks the position of a session on the diagram.
type Overlay struct {
	StepIndex int
	Status    domain.SessionStatus
}

// OverlayFrom builds an overlay from a progress snapshot.
func OverlayFrom(p *domain.Progress) *Overlay {
	return &Overlay{StepIndex: p.StepIndex, Status: p.Status}
}

const (
	startID = "start"
	doneID  = "done"
	quitID  = "quit"
)

// GenerateMermaid produces a Mermaid flowchart of def.
// It applies semantic styling:
// - Start, done and quit: ((Circle))
// - Anchor step: [Rectangle]
// - Effect step: [[Subroutine]]
//
// Solid edges follow Next. Dotted edges show where a lost anchor or a failed effect
// unwinds to: the nearest earlier anchor step, or quit when there is none. At run
// time the unwind also skips anchors that cannot be resolved, so the dotted edge is
// the best case.
func GenerateMermaid(def *schema.Definition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	fmt.Fprintf(&sb, "    %s((\"%s\"))\n", startID, escape(def.ID))

	prevAnchor := -1
	for i, step := range def.Steps {
		id := stepID(i)

		opener, closer := "[", "]"
		detail := step.Element
		if step.Kind == schema.KindEffect {
			opener, closer = "[[", "]]"
			if step.Action != nil {
				detail = "⚙ " + step.Action.Name
			}
		} else if detail == "" {
			detail = step.Window
		}

		label := escape(step.Title)
		if detail != "" {
			label += "<br/>" + escape(detail)
		}
		fmt.Fprintf(&sb, "    %s%s\"%d. %s\"%s\n", id, opener, i, label, closer)

		from := startID
		if i > 0 {
			from = stepID(i - 1)
		}
		fmt.Fprintf(&sb, "    %s --> %s\n", from, id)

		target, reason := quitID, "anchor lost"
		if prevAnchor >= 0 {
			target = stepID(prevAnchor)
		}
		if step.Kind == schema.KindEffect {
			reason = "failed"
		}
		fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", id, reason, target)

		if step.Kind != schema.KindEffect {
			prevAnchor = i
		}
	}

	last := startID
	if n := len(def.Steps); n > 0 {
		last = stepID(n - 1)
	}
	fmt.Fprintf(&sb, "    %s --> %s((\"done\"))\n", last, doneID)
	fmt.Fprintf(&sb, "    %s((\"quit\"))\n", quitID)

	if overlay != nil {
		writeOverlay(&sb, len(def.Steps), overlay)
	}
	return sb.String()
}

func writeOverlay(sb *strings.Builder, steps int, o *Overlay) {
	sb.WriteString("\n    %% Overlay Styles\n")
	// Force black text (color:#000) for high contrast regardless of theme
	sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

	current := stepID(o.StepIndex)
	visited := o.StepIndex
	switch o.Status {
	case domain.StatusCompleted:
		current, visited = doneID, steps
	case domain.StatusQuit:
		current = quitID
	}

	fmt.Fprintf(sb, "    class %s visited;\n", startID)
	for i := 0; i < visited && i < steps; i++ {
		fmt.Fprintf(sb, "    class %s visited;\n", stepID(i))
	}
	fmt.Fprintf(sb, "    class %s current;\n", current)
}

func stepID(i int) string {
	return fmt.Sprintf("s%d", i)
}

// escape keeps a label inside its double quotes.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
