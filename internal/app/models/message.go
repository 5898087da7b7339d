package models

import "time"

// MaxMessageLength is the maximum number of characters in a chat message
const MaxMessageLength = 5000

// Attachment represents a file attached to a message
type Attachment struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Message represents a chat message in a team room
type Message struct {
	ID          int64        `json:"id" db:"id"`
	TeamID      int64        `json:"teamId" db:"team_id"`
	SenderID    int64        `json:"senderId" db:"sender_id"`
	Text        string       `json:"text" db:"text"`
	Attachments []Attachment `json:"attachments" db:"attachments"`
	IsDeleted   bool         `json:"isDeleted" db:"is_deleted"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`

	// Related entities
	Sender *User         `json:"sender,omitempty"`
	ReadBy []MessageRead `json:"readBy,omitempty"`
}

// MessageRead records that a user has read a message
type MessageRead struct {
	MessageID int64     `json:"messageId" db:"message_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	ReadAt    time.Time `json:"readAt" db:"read_at"`
}
