/*
Package ui defines the ports through which Waypoint observes the host application's
user interface.

The host toolkit (windows, scene graph, scroll containers) is never referenced
directly. Instead, every runtime component receives an Environment and a Loop at
construction time. The Loop is the single UI-owning execution context: all
notifications and timers are delivered on it, so components need no locking.

# Key Types

  - Loop: posts work and timers onto the UI-owning context.
  - Environment: the window registry.
  - Window: a top-level window with an optional scene root.
  - Element: a node of the scene graph.
  - ScrollPane, ItemView: the scroll container kinds the viewport scroller understands.
*/
package ui
