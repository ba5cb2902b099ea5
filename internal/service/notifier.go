package service

// Event names pushed over the real-time channel.
const (
	EventMessageNew    = "message.new"
	EventWorkoutMissed = "workout.missed"
	EventWorkoutStatus = "workout.status"
)

// Event is a real-time notification addressed to a single user's room.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Notifier pushes events to the room named by the recipient's user id.
// Delivery is best-effort: events to rooms with no subscriber are dropped and
// failures are never surfaced to the caller.
type Notifier interface {
	Publish(userID string, event Event)
}
