package websocket

import (
	"encoding/json"
	"time"
)

// Client-to-server event names
const (
	EventJoinTeam    = "join_team"
	EventLeaveTeam   = "leave_team"
	EventSendMessage = "send_message"
	EventTyping      = "typing"
	EventStopTyping  = "stop_typing"
)

// Server-to-client event names
const (
	EventActiveUsers    = "active_users"
	EventUserJoined     = "user_joined"
	EventUserLeft       = "user_left"
	EventReceiveMessage = "receive_message"
	EventMessageSent    = "message_sent"
	EventUserTyping     = "user_typing"
	EventUserStopTyping = "user_stop_typing"
	EventMessageDeleted = "message_deleted"
	EventError          = "error"
)

// Envelope is the wire format for every event in both directions
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope serializes a payload into an event envelope
func NewEnvelope(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

// RoomPayload carries the team reference for join, leave and typing events
type RoomPayload struct {
	TeamID int64 `json:"teamId"`
}

// SendPayload carries a new message from a client
type SendPayload struct {
	TeamID int64  `json:"teamId"`
	Text   string `json:"text"`
}

// ActiveUsersPayload is the presence snapshot sent to a client after joining
type ActiveUsersPayload struct {
	TeamID int64   `json:"teamId"`
	Users  []int64 `json:"users"`
	Count  int     `json:"count"`
}

// PresencePayload announces a user joining or leaving a room
type PresencePayload struct {
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName"`
	Timestamp time.Time `json:"timestamp"`
}

// TypingPayload announces a user typing or stopping
type TypingPayload struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
}

// MessageSentPayload acknowledges a successful send to the sender only
type MessageSentPayload struct {
	Success   bool      `json:"success"`
	MessageID int64     `json:"messageId"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageDeletedPayload announces a message deletion to room members
type MessageDeletedPayload struct {
	MessageID int64 `json:"messageId"`
	TeamID    int64 `json:"teamId"`
}

// ErrorPayload carries a scoped error to the requesting connection only
type ErrorPayload struct {
	Message string `json:"message"`
}
