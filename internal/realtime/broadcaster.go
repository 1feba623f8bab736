package realtime

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/classboard/rollcall-api/internal/models"
)

// Event is one successful submission, pushed to connected classroom boards.
type Event struct {
	StudentID    string        `json:"student_id"`
	Name         string        `json:"name"`
	Action       models.Action `json:"action"`
	AppliedDelta float64       `json:"applied_delta"`
	RandomEvent  bool          `json:"random_event"`
	NewScore     string        `json:"new_score"`
	At           time.Time     `json:"at"`
}

const subscriberBuffer = 16

// Broadcaster fans submission events out to subscribers. Publish never
// blocks: a subscriber whose buffer is full misses the event.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	logger      zerolog.Logger
}

// NewBroadcaster constructs an empty broadcaster.
func NewBroadcaster(logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[chan Event]struct{}),
		logger:      logger.With().Str("component", "broadcaster").Logger(),
	}
}

// Subscribe registers a listener and returns its channel plus a cancel
// function. Cancel must be called when the listener goes away.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber that can take it.
func (b *Broadcaster) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.logger.Debug().Str("student_id", event.StudentID).Msg("subscriber buffer full, event dropped")
		}
	}
}

// Subscribers reports the number of attached listeners.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
