// Package rehearsal runs a tour headlessly against a scripted scene.
//
// A Script declares the windows and element trees of an imaginary application and a
// timeline of changes to them, interleaved with user navigation. Run replays the
// timeline on a virtual clock over pkg/ui/memui, so a rehearsal of several seconds
// completes instantly and always yields the same Transcript.
package rehearsal
