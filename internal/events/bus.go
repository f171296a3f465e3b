package events

import (
	"context"
	"log/slog"
	"sync"
)

// Bus is an in-process publisher. Each subscriber owns a buffered channel;
// when a subscriber falls behind its events are dropped rather than blocking
// the publisher.
type Bus struct {
	mu      sync.RWMutex
	subs    map[int]chan Event
	nextID  int
	buffer  int
	dropped func(name string)
}

func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 1
	}

	return &Bus{
		subs:   make(map[int]chan Event),
		buffer: buffer,
	}
}

// OnDrop registers a hook called with the event name whenever a subscriber
// misses an event.
func (b *Bus) OnDrop(fn func(name string)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.dropped = fn
}

// Subscribe returns a channel of events and a cancel func that closes it.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan Event, b.buffer)
	b.subs[id] = ch

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			delete(b.subs, id)
			close(ch)
		})
	}
}

func (b *Bus) Publish(_ context.Context, e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			slog.Warn("dropping event for slow subscriber", "event", e.Name)

			if b.dropped != nil {
				b.dropped(e.Name)
			}
		}
	}
}

// Subscribers reports the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}

// Relay forwards everything published on b to pub until ctx is done. It lets
// slow transports such as AMQP sit behind the bus instead of on the request
// path.
func Relay(ctx context.Context, b *Bus, pub Publisher) error {
	stream, cancel := b.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-stream:
			if !ok {
				return nil
			}

			pub.Publish(ctx, e)
		}
	}
}
