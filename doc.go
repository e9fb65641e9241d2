/*
Package waypoint runs guided walkthroughs over a live desktop UI.

A walkthrough is an ordered list of steps. Anchor steps point at a window, and
optionally an element inside it, that the host highlights while the step is shown.
Side-effect steps change application state on entry, and every change they make is
reverted when the user walks back past them or abandons the tour.

# Concept

The host toolkit is reached only through the ports in pkg/ui, so the same runtime
drives a real toolkit or the in-memory scene graph in pkg/ui/memui. All runtime work
happens on the host's single UI loop: there are no locks on the hot path, and every
delay is a timer posted back to that loop.

For each anchor step the engine resolves the target (pkg/resolver), keeps it in view
(pkg/scroller) and watches it; when the anchor disappears the tour unwinds to the
nearest earlier step that can still be shown, undoing side effects on the way
(pkg/reverter).

# Usage

	eng := waypoint.New(env, loop,
		waypoint.WithStore(file.New("")),
		waypoint.WithPresenter(myPresenter),
	)
	defer eng.Close()

	loop.Post(func() {
		session, err := eng.Start(ctx, tour)
		if err != nil {
			log.Fatal(err)
		}
		// Wire the presenter's "Next" button to session.Next().
	})

Tours are usually loaded from YAML definitions with pkg/catalog or
internal/compiler, and side-effect actions are looked up in a pkg/effects Registry.
*/
package waypoint
