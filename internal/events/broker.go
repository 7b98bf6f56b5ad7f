package events

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Collection string

const (
	Submissions Collection = "submissions"
	Withdrawals Collection = "withdrawals"
	Balances    Collection = "balances"
)

type Kind string

const (
	Created Kind = "created"
	Updated Kind = "updated"
)

type Event struct {
	Collection Collection `json:"collection"`
	Kind       Kind       `json:"kind"`
	UserID     int        `json:"user_id"`
	At         time.Time  `json:"at"`
}

type Publisher interface {
	Publish(e Event)
}

type subscription struct {
	ch          chan Event
	collections map[Collection]struct{}
}

func (s *subscription) wants(c Collection) bool {
	if len(s.collections) == 0 {
		return true
	}
	_, ok := s.collections[c]
	return ok
}

// Broker fans change notifications out to in-process subscribers. Events for
// one collection reach each subscriber in publish order; no ordering holds
// across collections.
type Broker struct {
	mu     sync.Mutex
	subs   map[int]*subscription
	nextID int
	buffer int
	closed bool
}

func NewBroker(buffer int) *Broker {
	return &Broker{
		subs:   make(map[int]*subscription),
		buffer: buffer,
	}
}

// Subscribe registers a listener for the given collections; no collections
// means all of them. The returned func cancels the subscription and closes
// the channel.
func (b *Broker) Subscribe(collections ...Collection) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscription{
		ch:          make(chan Event, b.buffer),
		collections: make(map[Collection]struct{}, len(collections)),
	}
	for _, c := range collections {
		sub.collections[c] = struct{}{}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = sub

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if s, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, cancel
}

// Publish never blocks: a subscriber that falls behind its buffer loses the
// event and must rebuild its view from the store on the next read.
func (b *Broker) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	for _, sub := range b.subs {
		if !sub.wants(e.Collection) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			zap.L().Warn("dropping change event for slow subscriber",
				zap.String("collection", string(e.Collection)),
				zap.Int("userID", e.UserID),
			)
		}
	}
}

func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}
}
