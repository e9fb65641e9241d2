/*
Package memui is an in-memory, mutable scene graph implementing every port of package
ui.

It is used for headless rehearsals of walkthroughs and as the deterministic fake
environment in tests. Mutations (opening windows, attaching scenes, adding, removing,
hiding and moving elements) deliver notifications synchronously to registered
listeners, the way a host toolkit's property listeners would. Like the host toolkit,
it must only be touched from the UI-owning loop.
*/
package memui
