package chat

import (
	"fmt"
	"sync"

	"github.com/linkup-app/messaging-core/internal/model"
)

// messageLog holds each conversation's ordered message history in memory for
// the lifetime of the process. Entries are append-only; only the Read flag is
// ever rewritten, and only by the mutator.
type messageLog struct {
	mu             sync.RWMutex
	byConversation map[string][]model.Message
}

func newMessageLog() *messageLog {
	return &messageLog{
		byConversation: make(map[string][]model.Message),
	}
}

// register creates an empty log for a newly created conversation.
func (l *messageLog) register(conversationID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.byConversation[conversationID]; !ok {
		l.byConversation[conversationID] = nil
	}
}

// append inserts a message at the tail of its conversation's log.
func (l *messageLog) append(conversationID string, msg model.Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.byConversation[conversationID]; !ok {
		return fmt.Errorf("conversation %s: %w", conversationID, ErrConversationNotFound)
	}
	l.byConversation[conversationID] = append(l.byConversation[conversationID], msg)
	return nil
}

// listFor returns the conversation's messages in append order. An unknown or
// empty conversation yields an empty slice, not an error.
func (l *messageLog) listFor(conversationID string) []model.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	msgs := l.byConversation[conversationID]
	out := make([]model.Message, len(msgs))
	copy(out, msgs)
	return out
}

// markCounterpartRead flips the Read flag on all counterpart-authored
// messages in the conversation.
func (l *messageLog) markCounterpartRead(conversationID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msgs := l.byConversation[conversationID]
	for i := range msgs {
		if !msgs[i].FromLocal() {
			msgs[i].Read = true
		}
	}
}
