package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkup-app/messaging-core/internal/model"
	"github.com/linkup-app/messaging-core/pkg/logger"
)

// fakeResponder records notifications so facade wiring can be asserted
// without the real pipeline.
type fakeResponder struct {
	mu        sync.Mutex
	notified  []model.Message
	pending   map[string]bool
	cancelled []string
}

func newFakeResponder() *fakeResponder {
	return &fakeResponder{pending: make(map[string]bool)}
}

func (f *fakeResponder) NotifyAppend(ctx context.Context, conv model.Conversation, msg model.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, msg)
}

func (f *fakeResponder) Responding(conversationID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending[conversationID]
}

func (f *fakeResponder) Cancel(conversationID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, conversationID)
}

func TestSendMessageNotifiesResponder(t *testing.T) {
	svc := NewService(logger.Nop())
	fake := newFakeResponder()
	svc.SetResponder(fake)
	ctx := context.Background()

	conv, err := svc.ResolveOrCreateConversation(ctx, "u1", CounterpartInfo{Name: "Ada"})
	require.NoError(t, err)

	msg, err := svc.SendMessage(ctx, conv.ID, "hello")
	require.NoError(t, err)

	require.Len(t, fake.notified, 1)
	assert.Equal(t, msg.ID, fake.notified[0].ID)
	assert.Equal(t, model.AuthorLocal, fake.notified[0].AuthorID)
}

func TestSendMessageValidation(t *testing.T) {
	svc := NewService(logger.Nop())
	ctx := context.Background()

	conv, err := svc.ResolveOrCreateConversation(ctx, "u1", CounterpartInfo{Name: "Ada"})
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, conv.ID, "")
	require.Error(t, err)
	assert.Empty(t, svc.ListMessages(ctx, conv.ID))
}

func TestSendMessageToCreatesExactlyOneConversation(t *testing.T) {
	svc := NewService(logger.Nop())
	ctx := context.Background()

	before := len(svc.ListConversations(ctx))

	// No display info known: sentinels are used, never a placeholder id.
	conv, msg, err := svc.SendMessageTo(ctx, "u99", "hi there", CounterpartInfo{})
	require.NoError(t, err)
	assert.Equal(t, model.CounterpartUnknownName, conv.CounterpartName)
	assert.Equal(t, "hi there", msg.Text)

	after := svc.ListConversations(ctx)
	assert.Len(t, after, before+1)

	// A second send reuses the same conversation.
	conv2, _, err := svc.SendMessageTo(ctx, "u99", "again", CounterpartInfo{})
	require.NoError(t, err)
	assert.Equal(t, conv.ID, conv2.ID)
	assert.Len(t, svc.ListConversations(ctx), before+1)
}

func TestListConversationsMostRecentFirst(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Minute)
		return current
	}

	svc := NewService(logger.Nop(), WithClock(clock))
	ctx := context.Background()

	a, err := svc.ResolveOrCreateConversation(ctx, "u1", CounterpartInfo{Name: "A"})
	require.NoError(t, err)
	b, err := svc.ResolveOrCreateConversation(ctx, "u2", CounterpartInfo{Name: "B"})
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, a.ID, "to a")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, b.ID, "to b")
	require.NoError(t, err)

	list := svc.ListConversations(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)

	// Activity on a moves it back to the front.
	_, err = svc.SendMessage(ctx, a.ID, "to a again")
	require.NoError(t, err)
	list = svc.ListConversations(ctx)
	assert.Equal(t, a.ID, list[0].ID)
}

func TestDeleteConversation(t *testing.T) {
	svc := NewService(logger.Nop())
	fake := newFakeResponder()
	svc.SetResponder(fake)
	ctx := context.Background()

	conv, err := svc.ResolveOrCreateConversation(ctx, "u1", CounterpartInfo{Name: "Ada"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConversation(ctx, conv.ID))
	assert.Contains(t, fake.cancelled, conv.ID)

	_, err = svc.GetConversation(ctx, conv.ID)
	require.ErrorIs(t, err, ErrConversationNotFound)
	assert.Empty(t, svc.ListConversations(ctx))

	err = svc.DeleteConversation(ctx, conv.ID)
	require.ErrorIs(t, err, ErrConversationNotFound)

	// The counterpart slot is free again.
	fresh, err := svc.ResolveOrCreateConversation(ctx, "u1", CounterpartInfo{Name: "Ada"})
	require.NoError(t, err)
	assert.NotEqual(t, conv.ID, fresh.ID)
}

func TestRespondingWithoutResponder(t *testing.T) {
	svc := NewService(logger.Nop())
	assert.False(t, svc.Responding("anything"))
}

func TestSeedConversation(t *testing.T) {
	svc := NewService(logger.Nop())
	fake := newFakeResponder()
	svc.SetResponder(fake)
	ctx := context.Background()

	now := time.Now()
	conv, err := svc.SeedConversation(ctx, "u1", CounterpartInfo{Name: "Ada", Connected: true}, []SeedMessage{
		{AuthorID: "u1", Text: "hello", SentAt: now.Add(-2 * time.Minute)},
		{AuthorID: model.AuthorLocal, Text: "hi", SentAt: now.Add(-1 * time.Minute)},
		{AuthorID: "u1", Text: "free to chat?", SentAt: now},
	})
	require.NoError(t, err)

	msgs := svc.ListMessages(ctx, conv.ID)
	require.Len(t, msgs, 3)
	assert.Equal(t, "free to chat?", conv.LastMessagePreview)
	assert.True(t, conv.HasUnread, "counterpart-authored tail marks the thread unread")
	assert.Empty(t, fake.notified, "seeding never triggers the responder")
}
