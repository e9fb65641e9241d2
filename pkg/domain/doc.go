/*
Package domain contains the core domain model of the Waypoint walkthrough runtime.

It defines what a walkthrough is made of and what the runtime reports about it. The
package holds no I/O and no timing logic; the resolver, reverter and scroller
packages operate on these types.

# Key Entities

  - Tour: an ordered sequence of Steps plus the fallback window locator.
  - Step: a closed sum type, either a VisibleComponent (anchor) or a SideEffect.
  - WindowLocator, ElementLocator: pure queries against the live UI.
  - ResolutionResult: the single outcome of resolving an anchor.
  - ReversibleAction: the state mutation behind a SideEffect step.
  - Progress: the persisted snapshot of a running walkthrough session.
*/
package domain
