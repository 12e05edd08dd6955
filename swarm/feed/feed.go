// Package feed turns the relay stream into the de-duplicated, human-visible
// feed of messages that originated elsewhere in the mesh.
package feed

import (
	"context"
	"sync"
	"time"

	"meshcast/net/relay"
	"meshcast/swarm/protocol"

	log "github.com/sirupsen/logrus"
)

// RecencyWindow is the maximum age a message may have and still be surfaced.
// Older messages are treated as stale deliveries and dropped.
const RecencyWindow = 10 * time.Second

type seenKey struct {
	content   string
	timestamp uint64
}

// Feed surfaces each fresh, foreign message at most once, no matter how many
// mesh paths deliver it. Seen entries are swept once they fall outside the
// recency window so the cache does not grow without bound.
type Feed struct {
	self string
	sink func(protocol.Message)

	mu   sync.Mutex
	seen map[seenKey]time.Time

	now func() time.Time
}

func New(self string) *Feed {
	f := &Feed{
		self: self,
		seen: make(map[seenKey]time.Time),
		now:  time.Now,
	}
	f.sink = f.logMessage
	return f
}

// SetSink redirects surfaced messages, replacing the default log output.
func (f *Feed) SetSink(sink func(protocol.Message)) {
	f.sink = sink
}

func (f *Feed) logMessage(m protocol.Message) {
	log.Infof("Received message [%s] from %q", m.Content, m.From)
}

// Run drains the subscription until the context is cancelled, sweeping
// expired seen-set entries as it goes.
func (f *Feed) Run(ctx context.Context, sub *relay.Subscription) error {
	defer sub.Close()

	sweep := time.NewTicker(RecencyWindow)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case it := <-sub.C():
			f.Observe(it.Line)
		case <-sweep.C:
			f.expire()
		}
	}
}

// Observe runs one relayed line through the filter chain and reports whether
// it was surfaced. PeerInfo envelopes are structural, not user content, and
// never surface here.
func (f *Feed) Observe(line []byte) bool {
	env, err := protocol.Decode(line)
	if err != nil {
		log.Debugf("feed: skipping undecodable line: %v", err)
		return false
	}
	if env.Type != protocol.TypeMessage {
		return false
	}

	m := env.Message
	if m.From == f.self {
		return false
	}
	if !f.isRecent(m.Timestamp) {
		return false
	}

	key := seenKey{content: m.Content, timestamp: m.Timestamp}
	f.mu.Lock()
	if _, dup := f.seen[key]; dup {
		f.mu.Unlock()
		return false
	}
	f.seen[key] = f.now()
	f.mu.Unlock()

	f.sink(*m)
	return true
}

// isRecent reports whether ts is at most RecencyWindow in the past.
func (f *Feed) isRecent(ts uint64) bool {
	return uint64(f.now().Unix()) <= ts+uint64(RecencyWindow/time.Second)
}

// expire drops seen entries recorded more than a recency window ago; anything
// that old is rejected as stale before the seen-set is consulted.
func (f *Feed) expire() {
	f.mu.Lock()
	defer f.mu.Unlock()
	cutoff := f.now().Add(-RecencyWindow)
	for key, at := range f.seen {
		if at.Before(cutoff) {
			delete(f.seen, key)
		}
	}
}
