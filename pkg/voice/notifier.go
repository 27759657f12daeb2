// ABOUTME: Named audio event fan-out
// ABOUTME: Subscribers are called in order outside the pool lock
package voice

import (
	"sync"

	"github.com/Resonate-Protocol/voicepool-go/pkg/audio"
	"github.com/google/uuid"
)

// Event is broadcast once for every successful Play
type Event struct {
	Name     string
	Position audio.Vec3
}

// Subscription identifies one observer; pass it back to Unsubscribe
type Subscription struct {
	id uuid.UUID
}

func (s Subscription) String() string { return s.id.String() }

type subscriber struct {
	id uuid.UUID
	fn func(Event)
}

// Notifier is the observer list for audio events.
// Subscribers are called in subscription order on the goroutine that called Play.
type Notifier struct {
	mu   sync.RWMutex
	subs []subscriber
}

// NewNotifier creates an empty notifier
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers fn. Every Subscribe must be paired with an Unsubscribe
// before the subscriber goes away.
func (n *Notifier) Subscribe(fn func(Event)) Subscription {
	s := subscriber{id: uuid.New(), fn: fn}

	n.mu.Lock()
	n.subs = append(n.subs, s)
	n.mu.Unlock()

	return Subscription{id: s.id}
}

// Unsubscribe removes a subscription, reporting whether it was registered
func (n *Notifier) Unsubscribe(sub Subscription) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, s := range n.subs {
		if s.id == sub.id {
			n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of subscribers
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}

// Broadcast delivers e to every subscriber
func (n *Notifier) Broadcast(e Event) {
	n.mu.RLock()
	subs := n.subs
	n.mu.RUnlock()

	for _, s := range subs {
		s.fn(e)
	}
}
