package domain

import "github.com/aretw0/waypoint/pkg/ui"

// ResolutionResult is the outcome of resolving an anchor. It is produced once per
// resolver run.
type ResolutionResult struct {
	Window  ui.Window
	Element ui.Element
}

// Succeeded reports whether a window was found.
func (r ResolutionResult) Succeeded() bool {
	return r.Window != nil
}
