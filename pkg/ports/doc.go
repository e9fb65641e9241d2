/*
Package ports defines the driven ports of the waypoint engine.

These interfaces decouple the walkthrough runtime from external implementations, so
the engine can persist session progress to different backends.

# Key Interfaces

  - ProgressStore: persists and loads the Progress snapshot of each session.
*/
package ports
