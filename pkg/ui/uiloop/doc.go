/*
Package uiloop provides ui.Loop implementations.

Loop is a goroutine-owned loop driven by the wall clock, suitable for hosts that do
not already have a UI thread to post to. Manual is a deterministic loop with a
virtual clock: nothing runs until Advance or Flush is called, which makes every
timing property of the runtime reproducible in tests and rehearsals.
*/
package uiloop
