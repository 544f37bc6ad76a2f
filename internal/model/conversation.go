// Package model defines data structures for the messaging core.
package model

import (
	"time"
)

// Sentinel display values used when a caller starts a conversation knowing
// only the counterpart's identity. Registration always goes through the
// directory; there is no placeholder-id path for unknown counterparts.
const (
	CounterpartUnknownName   = "Unknown"
	CounterpartUnknownAvatar = ""
)

// Conversation is a thread between the local user and one counterpart.
// At most one live conversation exists per counterpart identity.
type Conversation struct {
	ID                 string    `json:"id"`
	CounterpartID      string    `json:"counterpart_id"`
	CounterpartName    string    `json:"counterpart_name"`
	CounterpartAvatar  string    `json:"counterpart_avatar,omitempty"`
	LastMessagePreview string    `json:"last_message_preview"`
	LastActivity       time.Time `json:"last_activity"`
	HasUnread          bool      `json:"has_unread"`
	Connected          bool      `json:"connected"`
	MessageCount       int       `json:"message_count,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	Deleted            bool      `json:"deleted,omitempty"`
}

// LastActivityLabel formats the last activity time for display.
func (c Conversation) LastActivityLabel(now time.Time) string {
	return RelativeLabel(c.LastActivity, now)
}
