package resolver

import "github.com/aretw0/waypoint/pkg/ui"

// subtree keeps a structure and visibility listener on every element under a root,
// re-indexing whenever the structure changes. Subscriptions are keyed by element
// identity, so host elements must be comparable.
type subtree struct {
	loop     ui.Loop
	onChange func()
	root     ui.Element
	subs     map[ui.Element][]ui.Subscription
	queued   bool
	closed   bool
}

func watchSubtree(loop ui.Loop, root ui.Element, onChange func()) *subtree {
	s := &subtree{
		loop:     loop,
		onChange: onChange,
		root:     root,
		subs:     make(map[ui.Element][]ui.Subscription),
	}
	s.sync()
	return s
}

// sync subscribes to elements that joined the tree and drops elements that left it.
func (s *subtree) sync() {
	seen := make(map[ui.Element]bool, len(s.subs))
	ui.Walk(s.root, func(el ui.Element) bool {
		seen[el] = true
		if _, ok := s.subs[el]; !ok {
			s.subs[el] = []ui.Subscription{
				el.OnChildrenChanged(s.structureChanged),
				el.OnVisibilityChanged(func(bool) { s.onChange() }),
			}
		}
		return true
	})
	for el, subs := range s.subs {
		if !seen[el] {
			ui.CancelAll(subs...)
			delete(s.subs, el)
		}
	}
}

func (s *subtree) structureChanged() {
	s.onChange()
	if s.queued {
		return
	}
	// Re-subscribing from inside a delivered notification would mutate the very
	// listener list being dispatched.
	s.queued = true
	s.loop.Post(func() {
		s.queued = false
		if s.closed {
			return
		}
		s.sync()
	})
}

func (s *subtree) reset(root ui.Element) {
	s.cancelAll()
	s.root = root
	s.sync()
}

func (s *subtree) close() {
	s.closed = true
	s.cancelAll()
}

func (s *subtree) cancelAll() {
	for el, subs := range s.subs {
		ui.CancelAll(subs...)
		delete(s.subs, el)
	}
}

func (s *subtree) size() int {
	return len(s.subs)
}
