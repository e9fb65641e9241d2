/*
Package resolver finds the window and element a walkthrough step is anchored to.

A Resolver runs a strictly ordered pipeline on the UI loop:

 1. locate the window, retrying on every window add/remove;
 2. wait for the window to expose a scene;
 3. locate the element, retrying on every (debounced) mutation of the scene subtree;
 4. confirm that a newly matched element survives one settle interval.

A global deadline bounds the whole run. Each stage removes its listeners before the
next stage begins, which is what guarantees the completion callback fires at most
once. Every subscription and timer is released before the callback runs.
*/
package resolver
