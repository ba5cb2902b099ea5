package ws

import (
	"encoding/json"
	"testing"

	"peakform/trainer-hub/internal/service"
)

func TestHubRegisterUnregisterBookkeeping(t *testing.T) {
	hub := NewHub()

	first := hub.Register("user-1", nil)
	second := hub.Register("user-1", nil)
	other := hub.Register("user-2", nil)

	if got := hub.RoomSize("user-1"); got != 2 {
		t.Errorf("room user-1 has %d connections, want 2", got)
	}
	if got := hub.RoomSize("user-2"); got != 1 {
		t.Errorf("room user-2 has %d connections, want 1", got)
	}

	hub.Unregister(first)
	if got := hub.RoomSize("user-1"); got != 1 {
		t.Errorf("after unregister room user-1 has %d connections, want 1", got)
	}

	hub.Unregister(second)
	if got := hub.RoomSize("user-1"); got != 0 {
		t.Errorf("empty room not dropped, size %d", got)
	}

	// Unregistering twice is harmless.
	hub.Unregister(second)
	hub.Unregister(other)
}

func TestHubPublishReachesEveryRoomConnection(t *testing.T) {
	hub := NewHub()

	first := hub.Register("user-1", nil)
	second := hub.Register("user-1", nil)
	stranger := hub.Register("user-2", nil)

	hub.Publish("user-1", service.Event{Type: service.EventMessageNew, Payload: map[string]string{"content": "hi"}})

	for _, client := range []*Client{first, second} {
		select {
		case payload := <-client.send:
			var event service.Event
			if err := json.Unmarshal(payload, &event); err != nil {
				t.Fatalf("payload is not JSON: %v", err)
			}
			if event.Type != service.EventMessageNew {
				t.Errorf("event type %q, want %q", event.Type, service.EventMessageNew)
			}
		default:
			t.Error("connection did not receive the event")
		}
	}

	select {
	case <-stranger.send:
		t.Error("event leaked into another user's room")
	default:
	}
}

func TestHubPublishToAbsentRoomIsDropped(t *testing.T) {
	hub := NewHub()
	// Must not panic or block.
	hub.Publish("nobody", service.Event{Type: service.EventWorkoutMissed})
}

func TestHubPublishSkipsFullBuffers(t *testing.T) {
	hub := NewHub()
	client := hub.Register("user-1", nil)

	for i := 0; i < sendBufferSize; i++ {
		client.send <- []byte("x")
	}

	// The buffer is full; Publish must drop instead of blocking.
	done := make(chan struct{})
	go func() {
		hub.Publish("user-1", service.Event{Type: service.EventWorkoutStatus})
		close(done)
	}()
	<-done

	if got := len(client.send); got != sendBufferSize {
		t.Errorf("buffer length %d, want %d", got, sendBufferSize)
	}
}
