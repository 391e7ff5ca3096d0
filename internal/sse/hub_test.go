package sse

import (
	"strings"
	"testing"
)

func TestPublishToDisconnectedRecipient(t *testing.T) {
	hub := NewHub()

	if hub.Publish("usr_1", NewEvent("notification", nil)) {
		t.Fatal("Publish() = true for disconnected recipient, want false")
	}
}

func TestSubscribeAndPublishDeliversFrame(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("usr_1")

	if !hub.Publish("usr_1", NewEvent("notification", map[string]string{"title": "Team Approved!"})) {
		t.Fatal("Publish() = false for connected recipient, want true")
	}

	select {
	case frame := <-sub.Events():
		text := string(frame)
		if !strings.HasPrefix(text, "data: ") || !strings.HasSuffix(text, "\n\n") {
			t.Fatalf("frame = %q, want data: prefix and blank-line terminator", text)
		}
		if !strings.Contains(text, `"type":"notification"`) {
			t.Fatalf("frame = %q, want notification type", text)
		}
		if !strings.Contains(text, "Team Approved!") {
			t.Fatalf("frame = %q, want payload title", text)
		}
	default:
		t.Fatal("no frame delivered")
	}
}

func TestReconnectReplacesPriorSubscriber(t *testing.T) {
	hub := NewHub()
	first := hub.Subscribe("usr_1")
	second := hub.Subscribe("usr_1")

	select {
	case <-first.Done():
	default:
		t.Fatal("replaced subscriber not closed")
	}

	if !hub.Publish("usr_1", NewEvent("notification", nil)) {
		t.Fatal("Publish() = false after reconnect, want true")
	}
	select {
	case <-second.Events():
	default:
		t.Fatal("frame not delivered to replacement subscriber")
	}
	select {
	case <-first.Events():
		t.Fatal("frame delivered to replaced subscriber")
	default:
	}
}

func TestUnsubscribeOfReplacedSubscriberKeepsReplacement(t *testing.T) {
	hub := NewHub()
	first := hub.Subscribe("usr_1")
	hub.Subscribe("usr_1")

	// The stale connection's deferred cleanup must not evict the new one.
	hub.Unsubscribe(first)

	if !hub.Connected("usr_1") {
		t.Fatal("replacement subscriber evicted by stale unsubscribe")
	}
}

func TestSlowSubscriberIsEvicted(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("usr_1")

	for i := 0; i < subscriberBufferSize; i++ {
		if !hub.Publish("usr_1", NewEvent("notification", nil)) {
			t.Fatalf("Publish() = false at frame %d, want true", i)
		}
	}

	if hub.Publish("usr_1", NewEvent("notification", nil)) {
		t.Fatal("Publish() = true past buffer capacity, want false")
	}
	if hub.Connected("usr_1") {
		t.Fatal("unresponsive subscriber still registered")
	}
	select {
	case <-sub.Done():
	default:
		t.Fatal("evicted subscriber not closed")
	}
}

func TestBroadcastCountsDeliveries(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe("usr_a")
	b := hub.Subscribe("usr_b")

	if got := hub.Broadcast(NewEvent("announcement", nil)); got != 2 {
		t.Fatalf("Broadcast() = %d, want 2", got)
	}

	hub.Unsubscribe(a)
	if got := hub.Broadcast(NewEvent("announcement", nil)); got != 1 {
		t.Fatalf("Broadcast() after unsubscribe = %d, want 1", got)
	}

	select {
	case <-b.Events():
	default:
		t.Fatal("no frame delivered to remaining subscriber")
	}
}

func TestShutdownClosesAllSubscribers(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe("usr_a")
	b := hub.Subscribe("usr_b")

	hub.Shutdown()

	for _, sub := range []*Subscriber{a, b} {
		select {
		case <-sub.Done():
		default:
			t.Fatalf("subscriber %s not closed on shutdown", sub.UserID())
		}
	}
	if hub.Connected("usr_a") {
		t.Fatal("registry not emptied on shutdown")
	}
}
