// Package chat implements the conversation directory, the per-conversation
// message log, and the mutator that keeps the two consistent. Directory and
// log internals are unexported so that all writes flow through the Mutator.
package chat

import (
	"fmt"
	"sync"
	"time"

	"github.com/linkup-app/messaging-core/internal/model"
)

// directory maps counterpart identities to conversations. Each counterpart
// has at most one live conversation; soft-deleted records stay in byID but
// drop out of the counterpart index and all lookups.
type directory struct {
	mu            sync.RWMutex
	byID          map[string]*model.Conversation
	byCounterpart map[string]string
}

func newDirectory() *directory {
	return &directory{
		byID:          make(map[string]*model.Conversation),
		byCounterpart: make(map[string]string),
	}
}

// findByCounterpart returns a copy of the live conversation for a
// counterpart, if any.
func (d *directory) findByCounterpart(counterpartID string) (model.Conversation, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.byCounterpart[counterpartID]
	if !ok {
		return model.Conversation{}, false
	}
	return *d.byID[id], true
}

// getByID returns a copy of a live conversation by id.
func (d *directory) getByID(id string) (model.Conversation, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	conv, ok := d.byID[id]
	if !ok || conv.Deleted {
		return model.Conversation{}, false
	}
	return *conv, true
}

// createFor registers a new conversation for a counterpart. The caller must
// have checked findByCounterpart first; the directory does not silently
// dedupe.
func (d *directory) createFor(id, counterpartID, name, avatar string, connected bool, now time.Time) (model.Conversation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byCounterpart[counterpartID]; exists {
		return model.Conversation{}, fmt.Errorf("counterpart %s: %w", counterpartID, ErrDuplicateConversation)
	}

	if name == "" {
		name = model.CounterpartUnknownName
	}

	conv := &model.Conversation{
		ID:                id,
		CounterpartID:     counterpartID,
		CounterpartName:   name,
		CounterpartAvatar: avatar,
		LastActivity:      now,
		Connected:         connected,
		CreatedAt:         now,
	}
	d.byID[id] = conv
	d.byCounterpart[counterpartID] = id

	return *conv, nil
}

// update applies fn to a live conversation under the write lock.
func (d *directory) update(id string, fn func(*model.Conversation)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	conv, ok := d.byID[id]
	if !ok || conv.Deleted {
		return fmt.Errorf("conversation %s: %w", id, ErrConversationNotFound)
	}
	fn(conv)
	return nil
}

// markDeleted soft-deletes a conversation and frees its counterpart slot.
func (d *directory) markDeleted(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	conv, ok := d.byID[id]
	if !ok || conv.Deleted {
		return fmt.Errorf("conversation %s: %w", id, ErrConversationNotFound)
	}
	conv.Deleted = true
	delete(d.byCounterpart, conv.CounterpartID)
	return nil
}

// list returns copies of all live conversations in unspecified order.
func (d *directory) list() []model.Conversation {
	d.mu.RLock()
	defer d.mu.RUnlock()

	convs := make([]model.Conversation, 0, len(d.byID))
	for _, conv := range d.byID {
		if !conv.Deleted {
			convs = append(convs, *conv)
		}
	}
	return convs
}
