package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/linkup-app/messaging-core/internal/model"
	"github.com/linkup-app/messaging-core/pkg/logger"
	"github.com/linkup-app/messaging-core/pkg/metrics"
)

// Mutator is the single write path for conversation state. It appends to the
// message log and updates the directory's denormalized preview fields under a
// per-conversation lock, so a local send and a simultaneously arriving
// simulated reply cannot interleave into inconsistent state.
type Mutator struct {
	dir   *directory
	log   *messageLog
	clock func() time.Time
	lg    *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newMutator(dir *directory, log *messageLog, clock func() time.Time, lg *logger.Logger) *Mutator {
	return &Mutator{
		dir:   dir,
		log:   log,
		clock: clock,
		lg:    lg,
		locks: make(map[string]*sync.Mutex),
	}
}

func (m *Mutator) lockFor(conversationID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.locks[conversationID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[conversationID] = l
	}
	return l
}

// AppendMessage appends msg to the conversation's log and updates the
// conversation's preview, activity time, message count, and unread flag.
// HasUnread becomes true iff the author is the counterpart; it is never true
// immediately after a local-authored append.
func (m *Mutator) AppendMessage(ctx context.Context, conversationID string, msg model.Message) error {
	l := m.lockFor(conversationID)
	l.Lock()
	defer l.Unlock()

	if _, ok := m.dir.getByID(conversationID); !ok {
		return fmt.Errorf("append message: conversation %s: %w", conversationID, ErrConversationNotFound)
	}

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = m.clock()
	}

	if err := m.log.append(conversationID, msg); err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	if err := m.dir.update(conversationID, func(c *model.Conversation) {
		c.LastMessagePreview = msg.Text
		c.LastActivity = msg.CreatedAt
		c.MessageCount++
		c.HasUnread = !msg.FromLocal()
	}); err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	author := "counterpart"
	if msg.FromLocal() {
		author = "local"
	}
	metrics.MessagesTotal.WithLabelValues(author).Inc()

	m.lg.Debug("message appended",
		zap.String("conversation_id", conversationID),
		zap.String("author", msg.AuthorID),
	)

	return nil
}

// MarkRead clears the conversation's unread flag and marks all
// counterpart-authored messages as read. Calling it on a conversation with
// no messages is a valid no-op.
func (m *Mutator) MarkRead(ctx context.Context, conversationID string) error {
	l := m.lockFor(conversationID)
	l.Lock()
	defer l.Unlock()

	if err := m.dir.update(conversationID, func(c *model.Conversation) {
		c.HasUnread = false
	}); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}

	m.log.markCounterpartRead(conversationID)
	return nil
}
