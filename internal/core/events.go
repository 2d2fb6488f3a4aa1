package core

import (
	"encoding/json"

	"github.com/studycall/signaling/internal/domain"
)

// Client -> server event types.
const (
	EventJoinRoom    = "join-room"
	EventStateUpdate = "state-update"
	EventSignal      = "signal"
	EventChat        = "chat"
	EventLeaveRoom   = "leave-room"
	EventPing        = "ping"
)

// Server -> client event types. state-update, signal and chat are reused
// in both directions.
const (
	EventWelcome      = "welcome"
	EventUserJoined   = "user-joined"
	EventParticipants = "participants"
	EventUserLeft     = "user-left"
	EventPong         = "pong"
)

// WelcomeEvent tells a freshly accepted client its connection id.
type WelcomeEvent struct {
	Type         string `json:"type"`
	ConnectionID ConnID `json:"connectionId"`
}

// UserJoinedEvent announces a new member to the rest of its room.
type UserJoinedEvent struct {
	Type         string        `json:"type"`
	ConnectionID ConnID        `json:"connectionId"`
	UserID       domain.UserID `json:"userId"`
	Name         string        `json:"name,omitempty"`
}

// Participant is the read-only room-membership view of one connection.
type Participant struct {
	ConnectionID ConnID        `json:"connectionId"`
	UserID       domain.UserID `json:"userId"`
	Name         string        `json:"name,omitempty"`
	State        domain.State  `json:"state"`
}

// ParticipantsEvent carries the authoritative member list of a room,
// ordered by join time.
type ParticipantsEvent struct {
	Type         string        `json:"type"`
	Participants []Participant `json:"participants"`
}

// SignalEvent wraps a relayed payload with the sender's connection id.
// Data is never inspected; it is whatever the two peers' WebRTC
// negotiation produced (an SDP offer/answer or an ICE candidate).
type SignalEvent struct {
	Type             string          `json:"type"`
	FromConnectionID ConnID          `json:"fromConnectionId"`
	Data             json.RawMessage `json:"data"`
}

// UserLeftEvent announces a departed member to the rest of its room.
type UserLeftEvent struct {
	Type         string `json:"type"`
	ConnectionID ConnID `json:"connectionId"`
}
