package events

import (
	"sync"
	"time"
)

// BookingUpdate is broadcast after a multi-step update fully succeeds.
// Subscribers see only confirmed state, never in-flight partials.
type BookingUpdate struct {
	BookingID     int       `json:"booking_id"`
	Kind          string    `json:"kind"`
	Status        string    `json:"status"`
	Discount      float64   `json:"discount"`
	TotalAmount   float64   `json:"total_amount"`
	PaymentStatus string    `json:"payment_status,omitempty"`
	Workers       []string  `json:"workers,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Bus is a best-effort fan-out of booking updates. Delivery is
// non-blocking: a subscriber with a full buffer misses the event rather
// than stalling the publisher.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan BookingUpdate
	next int
}

func NewBus() *Bus {
	return &Bus{subs: map[int]chan BookingUpdate{}}
}

// Subscribe registers a buffered listener and returns its id for
// Unsubscribe.
func (b *Bus) Subscribe(buffer int) (int, <-chan BookingUpdate) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan BookingUpdate, buffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.subs[id] = ch
	return id, ch
}

func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish fans the update out and reports how many subscribers took it.
func (b *Bus) Publish(u BookingUpdate) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	delivered := 0
	for _, ch := range b.subs {
		select {
		case ch <- u:
			delivered++
		default:
		}
	}
	return delivered
}
