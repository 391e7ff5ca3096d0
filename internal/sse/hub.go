package sse

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	// subscriberBufferSize bounds how far a slow reader may fall behind
	// before publishes to it start failing.
	subscriberBufferSize = 16
)

// Event is one server-sent frame. Timestamp is RFC3339.
type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

func NewEvent(eventType string, data any) Event {
	return Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Frame renders the event as a text/event-stream data frame.
func (e Event) Frame() ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshaling event: %w", err)
	}
	return []byte(fmt.Sprintf("data: %s\n\n", payload)), nil
}

// Subscriber is one open stream for a recipient. Frames arrive on Events;
// Done is closed when the hub evicts the subscriber (replaced by a newer
// connection, failed publish, or shutdown).
type Subscriber struct {
	userID string
	events chan []byte
	done   chan struct{}
	once   sync.Once
}

func (s *Subscriber) UserID() string        { return s.userID }
func (s *Subscriber) Events() <-chan []byte { return s.events }
func (s *Subscriber) Done() <-chan struct{} { return s.done }

func (s *Subscriber) close() {
	s.once.Do(func() { close(s.done) })
}

// Hub is a process-local registry of live notification streams, at most one
// per recipient id. Delivery is best effort: no buffering beyond the channel,
// no replay, no ordering across recipients. A recipient who is offline at
// publish time relies on the stored notification row.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]*Subscriber),
	}
}

// Subscribe registers a stream for the recipient. A newer connection silently
// replaces any prior handle for the same id.
func (h *Hub) Subscribe(userID string) *Subscriber {
	sub := &Subscriber{
		userID: userID,
		events: make(chan []byte, subscriberBufferSize),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	if old, ok := h.subscribers[userID]; ok {
		old.close()
	}
	h.subscribers[userID] = sub
	h.mu.Unlock()

	slog.Info("stream subscribed", "component", "sse", "user_id", userID)
	return sub
}

// Unsubscribe removes the stream if it is still the registered handle for its
// recipient. A replaced subscriber must not evict its replacement.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if current, ok := h.subscribers[sub.userID]; ok && current == sub {
		delete(h.subscribers, sub.userID)
	}
	h.mu.Unlock()

	sub.close()
	slog.Info("stream unsubscribed", "component", "sse", "user_id", sub.userID)
}

// Publish delivers an event to one recipient. Returns false without error if
// the recipient is not connected or its stream cannot accept the frame; a
// failed stream is evicted.
func (h *Hub) Publish(userID string, event Event) bool {
	frame, err := event.Frame()
	if err != nil {
		slog.Error("error framing event", "component", "sse", "error", err)
		return false
	}

	h.mu.RLock()
	sub, ok := h.subscribers[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	select {
	case sub.events <- frame:
		return true
	default:
		h.Unsubscribe(sub)
		slog.Warn("evicted unresponsive stream", "component", "sse", "user_id", userID)
		return false
	}
}

// Broadcast delivers an event to every connected recipient, evicting any
// stream that cannot accept it. Returns the number of successful deliveries.
func (h *Hub) Broadcast(event Event) int {
	frame, err := event.Frame()
	if err != nil {
		slog.Error("error framing event", "component", "sse", "error", err)
		return 0
	}

	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, sub := range subs {
		select {
		case sub.events <- frame:
			delivered++
		default:
			h.Unsubscribe(sub)
			slog.Warn("evicted unresponsive stream", "component", "sse", "user_id", sub.userID)
		}
	}

	return delivered
}

// Connected reports whether a recipient currently has an open stream.
func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.subscribers[userID]
	return ok
}

// Shutdown closes every stream and empties the registry.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	for userID, sub := range h.subscribers {
		sub.close()
		delete(h.subscribers, userID)
	}
	h.mu.Unlock()

	slog.Info("shutdown complete", "component", "sse")
}
