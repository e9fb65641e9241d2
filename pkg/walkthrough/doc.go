// Package walkthrough ties the runtime together: the State holds the step list and
// the current position, and the Driver reacts to every position change by resolving
// the new anchor, applying side effects and arming the reverter.
//
// Everything in this package runs on the UI loop.
package walkthrough
