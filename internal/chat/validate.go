package chat

import (
	"errors"
	"unicode/utf8"
)

// ValidateMessageContent validates outgoing message text.
func ValidateMessageContent(text string) error {
	if len(text) == 0 {
		return errors.New("message text cannot be empty")
	}
	if len(text) > 100000 { // ~100KB limit
		return errors.New("message text exceeds maximum length")
	}
	if !utf8.ValidString(text) {
		return errors.New("message text must be valid UTF-8")
	}
	return nil
}

// ValidateCounterpartID validates a counterpart identity.
func ValidateCounterpartID(id string) error {
	if len(id) == 0 {
		return errors.New("counterpart ID cannot be empty")
	}
	if len(id) > 64 {
		return errors.New("counterpart ID exceeds maximum length")
	}
	return nil
}
