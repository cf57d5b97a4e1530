// Package events broadcasts change notifications. Events carry no data;
// listeners re-query the store they care about.
package events

import "sync"

type Topic string

const (
	TopicCart     Topic = "cart"
	TopicWishlist Topic = "wishlist"
	TopicSync     Topic = "sync"
)

// Event names the actor whose data changed. Partition is the device
// session the change was made from, if any, so listeners on that device
// hear about it even after the actor switched to a signed-in account.
type Event struct {
	Topic     Topic
	ActorID   string
	Partition string
}

// For reports whether e concerns the given actor or device partition.
func (e Event) For(actorID, partition string) bool {
	if actorID != "" && e.ActorID == actorID {
		return true
	}
	return partition != "" && e.Partition == partition
}

type Publisher interface {
	Publish(e Event)
}

type subscription struct {
	id int
	fn func(Event)
}

// Bus delivers every event synchronously to each subscriber in
// subscription order. Subscribers must not block.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns a func that removes it.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					break
				}
			}
		})
	}
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(e)
	}
}
