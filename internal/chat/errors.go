package chat

import (
	"errors"
)

var (
	// ErrConversationNotFound is returned for an unknown (or deleted)
	// conversation id. Directory-validated ids never trigger it; hitting
	// it indicates a caller bug rather than a recoverable condition.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrDuplicateConversation is returned when creating a conversation
	// for a counterpart that already has a live one. Callers should use
	// ResolveOrCreateConversation instead of creating directly.
	ErrDuplicateConversation = errors.New("conversation already exists for counterpart")
)
