// internal/game/events.go
package game

import "github.com/jason-s-yu/gofish/internal/models"

// EventType names an outbound event.
type EventType string

const (
	EventJoined        EventType = "joined"
	EventUsernameTaken EventType = "username taken"
	EventUserJoined    EventType = "user joined"
	EventTake          EventType = "take"
	EventStatus        EventType = "status"
	EventNewMessage    EventType = "new message"
	EventTyping        EventType = "typing"
	EventStopTyping    EventType = "stop typing"
	EventUserLeft      EventType = "user left"
)

// Event is the single outbound payload shape, marshaled flat as
// {"type": ..., fields...}. Unused fields are omitted per event type.
type Event struct {
	Type     EventType `json:"type"`
	Username string    `json:"username,omitempty"`
	Message  string    `json:"message,omitempty"`
	Rank     string    `json:"rank,omitempty"`
	Suit     string    `json:"suit,omitempty"`
	Game     *Snapshot `json:"game,omitempty"`
}

// Snapshot is the serializable session view attached to most events:
// pile size, current turn index (null when no turn) and the roster.
type Snapshot struct {
	PileSize int              `json:"pile_size"`
	Turn     *int             `json:"turn"`
	Users    []*models.Player `json:"users"`
}
