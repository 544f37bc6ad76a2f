package chat

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linkup-app/messaging-core/internal/model"
	"github.com/linkup-app/messaging-core/pkg/logger"
	"github.com/linkup-app/messaging-core/pkg/metrics"
)

// Responder reacts to locally authored messages with a delayed counterpart
// reply. Implemented by the responder package; wired in by the caller so the
// core never depends on it.
type Responder interface {
	// NotifyAppend is called after every successful append through the
	// service. The responder decides whether the message triggers a reply.
	NotifyAppend(ctx context.Context, conv model.Conversation, msg model.Message)

	// Responding reports whether a reply is pending for the conversation.
	Responding(conversationID string) bool

	// Cancel drops any pending reply for the conversation.
	Cancel(conversationID string)
}

// CounterpartInfo carries the display attributes known about a counterpart
// when starting a conversation. Zero values fall back to sentinel unknowns.
type CounterpartInfo struct {
	Name      string
	Avatar    string
	Connected bool
}

// Service is the operation surface screens consume. All mutation goes
// through the embedded mutator.
type Service struct {
	dir       *directory
	log       *messageLog
	mutator   *Mutator
	responder Responder
	lg        *logger.Logger
	clock     func() time.Time
	newID     func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// NewService creates the conversation core with empty state.
func NewService(lg *logger.Logger, opts ...Option) *Service {
	s := &Service{
		dir:   newDirectory(),
		log:   newMessageLog(),
		lg:    lg,
		clock: time.Now,
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mutator = newMutator(s.dir, s.log, s.clock, lg)
	return s
}

// SetResponder wires the simulated responder. Optional; without one, sends
// simply never receive replies.
func (s *Service) SetResponder(r Responder) {
	s.responder = r
}

// Mutator exposes the write path for collaborators that append on the
// service's behalf, such as the responder.
func (s *Service) Mutator() *Mutator {
	return s.mutator
}

// ResolveOrCreateConversation returns the existing conversation for a
// counterpart or creates one. This is the only creation entry point; a
// repeat call with the same counterpart returns the same conversation.
func (s *Service) ResolveOrCreateConversation(ctx context.Context, counterpartID string, info CounterpartInfo) (model.Conversation, error) {
	if err := ValidateCounterpartID(counterpartID); err != nil {
		return model.Conversation{}, fmt.Errorf("resolve conversation: %w", err)
	}

	if conv, ok := s.dir.findByCounterpart(counterpartID); ok {
		return conv, nil
	}

	conv, err := s.dir.createFor(s.newID(), counterpartID, info.Name, info.Avatar, info.Connected, s.clock())
	if err != nil {
		// Lost a race with a concurrent create for the same counterpart.
		if existing, ok := s.dir.findByCounterpart(counterpartID); ok {
			return existing, nil
		}
		return model.Conversation{}, fmt.Errorf("resolve conversation: %w", err)
	}

	s.log.register(conv.ID)
	metrics.ConversationsTotal.Inc()

	s.lg.Info("conversation created",
		zap.String("conversation_id", conv.ID),
		zap.String("counterpart_id", counterpartID),
	)

	return conv, nil
}

// GetConversation returns a conversation by id.
func (s *Service) GetConversation(ctx context.Context, conversationID string) (model.Conversation, error) {
	conv, ok := s.dir.getByID(conversationID)
	if !ok {
		return model.Conversation{}, fmt.Errorf("get conversation: %s: %w", conversationID, ErrConversationNotFound)
	}
	return conv, nil
}

// FindConversationWith returns the live conversation for a counterpart,
// if any.
func (s *Service) FindConversationWith(ctx context.Context, counterpartID string) (model.Conversation, bool) {
	return s.dir.findByCounterpart(counterpartID)
}

// SendMessage appends a local-authored text message and signals the
// responder pipeline.
func (s *Service) SendMessage(ctx context.Context, conversationID, text string) (model.Message, error) {
	if err := ValidateMessageContent(text); err != nil {
		return model.Message{}, fmt.Errorf("send message: %w", err)
	}

	msg := model.Message{
		ID:             s.newID(),
		ConversationID: conversationID,
		AuthorID:       model.AuthorLocal,
		Text:           text,
		Type:           model.TypeText,
		CreatedAt:      s.clock(),
		Read:           true,
	}

	if err := s.mutator.AppendMessage(ctx, conversationID, msg); err != nil {
		return model.Message{}, fmt.Errorf("send message: %w", err)
	}

	if s.responder != nil {
		if conv, ok := s.dir.getByID(conversationID); ok {
			s.responder.NotifyAppend(ctx, conv, msg)
		}
	}

	return msg, nil
}

// SendMessageTo resolves or creates the conversation for a counterpart and
// sends in one step, so starting a thread and continuing one share a single
// code path.
func (s *Service) SendMessageTo(ctx context.Context, counterpartID, text string, info CounterpartInfo) (model.Conversation, model.Message, error) {
	conv, err := s.ResolveOrCreateConversation(ctx, counterpartID, info)
	if err != nil {
		return model.Conversation{}, model.Message{}, err
	}

	msg, err := s.SendMessage(ctx, conv.ID, text)
	if err != nil {
		return model.Conversation{}, model.Message{}, err
	}

	conv, _ = s.dir.getByID(conv.ID)
	return conv, msg, nil
}

// ListMessages returns the conversation's messages in append order.
func (s *Service) ListMessages(ctx context.Context, conversationID string) []model.Message {
	return s.log.listFor(conversationID)
}

// ListConversations returns live conversations, most recent activity first.
func (s *Service) ListConversations(ctx context.Context) []model.Conversation {
	convs := s.dir.list()
	sort.Slice(convs, func(i, j int) bool {
		if !convs[i].LastActivity.Equal(convs[j].LastActivity) {
			return convs[i].LastActivity.After(convs[j].LastActivity)
		}
		return convs[i].CreatedAt.After(convs[j].CreatedAt)
	})
	return convs
}

// MarkRead clears the conversation's unread state.
func (s *Service) MarkRead(ctx context.Context, conversationID string) error {
	return s.mutator.MarkRead(ctx, conversationID)
}

// Responding reports whether a simulated reply is pending for the
// conversation. Per-conversation, so concurrent threads never show each
// other's typing state.
func (s *Service) Responding(conversationID string) bool {
	if s.responder == nil {
		return false
	}
	return s.responder.Responding(conversationID)
}

// DeleteConversation soft-deletes a conversation: it disappears from
// lookups and listings, its counterpart slot is freed, and any pending
// simulated reply is cancelled. Retention of the underlying log is left to
// a future policy.
func (s *Service) DeleteConversation(ctx context.Context, conversationID string) error {
	if s.responder != nil {
		s.responder.Cancel(conversationID)
	}

	if err := s.dir.markDeleted(conversationID); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}

	s.lg.Info("conversation deleted", zap.String("conversation_id", conversationID))
	return nil
}

// SeedMessage is a history entry for SeedConversation.
type SeedMessage struct {
	AuthorID string
	Text     string
	SentAt   time.Time
}

// SeedConversation creates a conversation pre-populated with history, for
// fixtures and demos. Seeded messages go through the mutator like any other
// append but never trigger the responder.
func (s *Service) SeedConversation(ctx context.Context, counterpartID string, info CounterpartInfo, history []SeedMessage) (model.Conversation, error) {
	conv, err := s.ResolveOrCreateConversation(ctx, counterpartID, info)
	if err != nil {
		return model.Conversation{}, err
	}

	for _, h := range history {
		msg := model.Message{
			ID:             s.newID(),
			ConversationID: conv.ID,
			AuthorID:       h.AuthorID,
			Text:           h.Text,
			Type:           model.TypeText,
			CreatedAt:      h.SentAt,
			Read:           h.AuthorID == model.AuthorLocal,
		}
		if err := s.mutator.AppendMessage(ctx, conv.ID, msg); err != nil {
			return model.Conversation{}, fmt.Errorf("seed conversation: %w", err)
		}
	}

	conv, _ = s.dir.getByID(conv.ID)
	return conv, nil
}
