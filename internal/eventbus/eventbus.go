// Package eventbus carries scheduling lifecycle events (run started, shift
// assigned, pair skipped, ...) from the core to in-process observers without
// coupling either side to the other.
package eventbus

import "sync"

// subscriberBuffer bounds how far a subscriber may lag before it starts
// missing events.
const subscriberBuffer = 8

// Event is any payload published on the bus.
type Event interface{}

// EventBus fans published events out to every subscriber.
type EventBus interface {
	Publish(Event)
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// Bus is the channel-backed EventBus used throughout the scheduler.
type Bus struct {
	mu       sync.RWMutex
	channels []chan Event
	closed   bool
}

// New returns an empty Bus ready for subscribers.
func New() *Bus { return &Bus{} }

// Publish delivers the event to every subscriber whose buffer has room.
// Delivery never blocks: a lagging subscriber drops the event instead of
// stalling the scheduling pass.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.channels {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe returns a channel receiving all events published after this
// call. On a closed bus the returned channel is already closed.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.channels = append(b.channels, ch)
	return ch
}

// Unsubscribe detaches the subscriber and closes its channel. Unknown
// channels are ignored.
func (b *Bus) Unsubscribe(sub <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.channels {
		if ch == sub {
			b.channels = append(b.channels[:i], b.channels[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close shuts the bus down; every subscriber channel is closed and further
// publishes are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.channels {
		close(ch)
	}
	b.channels = nil
}
