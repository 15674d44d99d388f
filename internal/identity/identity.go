// Package identity wraps the third-party identity provider behind the
// IdentityBridge contract: interactive sign-in, sign-out, token mint and
// refresh, and a push subscription for principal changes.
package identity

import (
	"sync"

	"github.com/haipham/newsdeck/internal/models"
)

// notifier implements the principal-change subscription shared by bridge
// implementations. Callbacks run synchronously on the goroutine that
// triggered the transition, outside the registry lock.
type notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(*models.Principal)
}

// subscribe registers a callback and returns a function that removes it.
func (n *notifier) subscribe(fn func(*models.Principal)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs == nil {
		n.subs = make(map[int]func(*models.Principal))
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// notify delivers a principal transition to all subscribers.
func (n *notifier) notify(p *models.Principal) {
	n.mu.Lock()
	callbacks := make([]func(*models.Principal), 0, len(n.subs))
	for _, fn := range n.subs {
		callbacks = append(callbacks, fn)
	}
	n.mu.Unlock()

	for _, fn := range callbacks {
		fn(p)
	}
}
