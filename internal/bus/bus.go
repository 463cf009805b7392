// Package bus provides the broadcast fan-out used for the global and
// per-lobby message scopes. Delivery is best-effort: a subscriber that cannot
// keep up misses messages rather than slowing the publisher down.
package bus

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"kingdoms/pkg/protocol"
)

// Broadcaster fans server messages out to every current subscriber. A late
// subscriber only sees messages published after it subscribed.
type Broadcaster struct {
	name    string
	buffer  int
	log     *logrus.Logger
	dropped atomic.Uint64

	mu     sync.RWMutex
	nextID int
	subs   map[int]chan protocol.ServerMessage
}

// New creates a broadcaster whose subscribers each get a channel holding up
// to buffer undelivered messages.
func New(name string, buffer int, log *logrus.Logger) *Broadcaster {
	return &Broadcaster{
		name:   name,
		buffer: buffer,
		log:    log,
		subs:   make(map[int]chan protocol.ServerMessage),
	}
}

// Subscription is one receiver's handle. Receive from C; Close when done.
type Subscription struct {
	C  <-chan protocol.ServerMessage
	id int
	b  *Broadcaster
}

// Subscribe registers a new receiver.
func (b *Broadcaster) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan protocol.ServerMessage, b.buffer)
	b.subs[id] = ch
	return &Subscription{C: ch, id: id, b: b}
}

// Close detaches the subscription. The channel is left to the collector so a
// racing Publish never sends on a closed channel.
func (s *Subscription) Close() {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	delete(s.b.subs, s.id)
}

// Publish delivers msg to every subscriber without blocking. Full subscriber
// buffers drop the message for that subscriber only.
func (b *Broadcaster) Publish(msg protocol.ServerMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- msg:
		default:
			b.dropped.Add(1)
			b.log.WithFields(logrus.Fields{
				"bus":  b.name,
				"verb": msg.Verb,
			}).Warn("subscriber lagging, message dropped")
		}
	}
}

// Subscribers returns the current receiver count.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many messages were lost to slow subscribers.
func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}
