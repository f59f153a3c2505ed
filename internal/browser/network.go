package browser

import (
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
)

// networkTracker counts in-flight requests of one tab. It is fed by
// chromedp.ListenTarget for the whole life of the page, so requests started
// before a wait began are still accounted for.
type networkTracker struct {
	mu           sync.Mutex
	inflight     map[network.RequestID]struct{}
	lastActivity time.Time
}

func newNetworkTracker() *networkTracker {
	return &networkTracker{
		inflight:     make(map[network.RequestID]struct{}),
		lastActivity: time.Now(),
	}
}

func (n *networkTracker) handle(ev any) {
	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		// Redirects reuse the request id, so the set stays balanced.
		n.mu.Lock()
		n.inflight[e.RequestID] = struct{}{}
		n.lastActivity = time.Now()
		n.mu.Unlock()
	case *network.EventLoadingFinished:
		n.done(e.RequestID)
	case *network.EventLoadingFailed:
		n.done(e.RequestID)
	}
}

func (n *networkTracker) done(id network.RequestID) {
	n.mu.Lock()
	delete(n.inflight, id)
	n.lastActivity = time.Now()
	n.mu.Unlock()
}

// touch records page activity that may start requests shortly (a click).
func (n *networkTracker) touch() {
	n.mu.Lock()
	n.lastActivity = time.Now()
	n.mu.Unlock()
}

// idle reports whether nothing is in flight and nothing happened for idleAfter.
func (n *networkTracker) idle(now time.Time, idleAfter time.Duration) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.inflight) == 0 && now.Sub(n.lastActivity) >= idleAfter
}

func (n *networkTracker) pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.inflight)
}
