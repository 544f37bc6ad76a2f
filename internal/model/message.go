package model

import (
	"time"
)

// AuthorLocal is the sentinel author identity for the local user.
const AuthorLocal = "me"

// MessageType represents the kind of message content.
type MessageType string

const (
	TypeText  MessageType = "text"
	TypeVoice MessageType = "voice"
	TypeImage MessageType = "image"
)

// Message is a single entry in a conversation's log. Messages are immutable
// once appended except for the Read flag, which only the mutator touches.
type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversation_id"`
	AuthorID       string      `json:"author_id"`
	Text           string      `json:"text"`
	Type           MessageType `json:"type"`
	CreatedAt      time.Time   `json:"created_at"`
	Read           bool        `json:"read"`
}

// FromLocal reports whether the message was authored by the local user.
func (m Message) FromLocal() bool {
	return m.AuthorID == AuthorLocal
}

// TimestampLabel formats the creation time for display: clock time on the
// same day, "Yesterday" for the previous one, a relative label otherwise.
func (m Message) TimestampLabel(now time.Time) string {
	y1, d1 := m.CreatedAt.Year(), m.CreatedAt.YearDay()
	y2, d2 := now.Year(), now.YearDay()
	switch {
	case y1 == y2 && d1 == d2:
		return m.CreatedAt.Format("3:04 PM")
	case now.AddDate(0, 0, -1).Year() == y1 && now.AddDate(0, 0, -1).YearDay() == d1:
		return "Yesterday"
	default:
		return RelativeLabel(m.CreatedAt, now)
	}
}
