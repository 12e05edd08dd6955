// Package relay implements the process-wide fan-out channel that carries
// encoded envelopes between connection handlers. It is a best-effort
// broadcast, not a reliable multicast: publishing never blocks, and a
// subscriber whose buffer is full misses the item.
package relay

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// DefaultCapacity is the per-subscriber buffer size.
const DefaultCapacity = 16

// Item is one relayed line. Origin tags the peer address the line arrived
// from, or the local address for self-generated traffic; a link's writer uses
// it to avoid echoing a line back down the link that produced it.
type Item struct {
	Line   []byte // encoded envelope, trailing newline included
	Origin string
}

// Hub distributes every published Item to all current subscribers, in
// publication order. Subscribers registered after a publish do not see it.
type Hub struct {
	mu       sync.Mutex
	capacity int
	subs     map[*Subscription]struct{}
}

// Subscription is one subscriber's view of the hub.
type Subscription struct {
	hub  *Hub
	ch   chan Item
	once sync.Once
}

func NewHub() *Hub {
	return NewHubWithCapacity(DefaultCapacity)
}

func NewHubWithCapacity(capacity int) *Hub {
	return &Hub{
		capacity: capacity,
		subs:     make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a new subscriber. There is no replay of earlier items.
func (h *Hub) Subscribe() *Subscription {
	s := &Subscription{hub: h, ch: make(chan Item, h.capacity)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Publish hands the item to every subscriber without blocking the caller.
func (h *Hub) Publish(it Item) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		select {
		case s.ch <- it:
		default:
			log.Debugf("relay: subscriber buffer full, dropping item from %s", it.Origin)
		}
	}
}

// C is the subscriber's receive channel.
func (s *Subscription) C() <-chan Item {
	return s.ch
}

// Close unregisters the subscription. Items already buffered stay receivable.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		s.hub.mu.Unlock()
	})
}
