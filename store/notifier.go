package store

import "sync"

// notifier fans a changed path out to every subscription whose watched
// path overlaps it. Delivery is synchronous and in-process; callbacks must
// not block.
type notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]subscription
}

type subscription struct {
	path string
	fn   func(changedPath string)
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]subscription)}
}

func (n *notifier) subscribe(path string, fn func(changedPath string)) func() {
	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = subscription{path: path, fn: fn}
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

func (n *notifier) notify(changedPath string) {
	n.mu.Lock()
	var matched []func(string)
	for _, sub := range n.subs {
		// A write inside the watched subtree fires, and so does a write
		// above it (replacing an ancestor replaces the watched value).
		if isUnder(sub.path, changedPath) || isUnder(changedPath, sub.path) {
			matched = append(matched, sub.fn)
		}
	}
	n.mu.Unlock()

	for _, fn := range matched {
		fn(changedPath)
	}
}
