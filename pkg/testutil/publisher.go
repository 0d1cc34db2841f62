package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/strivelab/backend/pkg/pubsub"
)

// InMemoryBus is a process-local pubsub used in tests. Publish delivers
// synchronously to every attached subscriber, so tests can assert right
// after publishing.
type InMemoryBus struct {
	mutex       sync.Mutex
	subscribers []*busSubscriber
	packs       []*pubsub.Pack
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{}
}

func (b *InMemoryBus) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	b.mutex.Lock()
	subscribers := append([]*busSubscriber{}, b.subscribers...)
	b.packs = append(b.packs, pack)
	b.mutex.Unlock()

	for _, s := range subscribers {
		s.handler(ctx, pack, time.Now())
	}

	return nil
}

func (b *InMemoryBus) Stop(ctx context.Context) error {
	return nil
}

// Packs returns every pack published so far.
func (b *InMemoryBus) Packs() []*pubsub.Pack {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return append([]*pubsub.Pack{}, b.packs...)
}

// SubscriberCount reports how many subscribers are currently attached.
func (b *InMemoryBus) SubscriberCount() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.subscribers)
}

// Subscriber returns a pubsub.Subscriber attached to this bus. It matches
// the gateway SubscriberFactory signature.
func (b *InMemoryBus) Subscriber(handler pubsub.SubscribeHandler) pubsub.Subscriber {
	return &busSubscriber{bus: b, handler: handler}
}

type busSubscriber struct {
	bus     *InMemoryBus
	handler pubsub.SubscribeHandler
}

func (s *busSubscriber) Subscribe(ctx context.Context) {
	s.bus.mutex.Lock()
	defer s.bus.mutex.Unlock()
	s.bus.subscribers = append(s.bus.subscribers, s)
}

func (s *busSubscriber) Stop(ctx context.Context) error {
	s.bus.mutex.Lock()
	defer s.bus.mutex.Unlock()

	remaining := s.bus.subscribers[:0]
	for _, sub := range s.bus.subscribers {
		if sub != s {
			remaining = append(remaining, sub)
		}
	}
	s.bus.subscribers = remaining

	return nil
}
