package responder

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/linkup-app/messaging-core/internal/chat"
	"github.com/linkup-app/messaging-core/internal/model"
	"github.com/linkup-app/messaging-core/pkg/logger"
	"github.com/linkup-app/messaging-core/pkg/metrics"
)

const (
	defaultMinDelay = 1 * time.Second
	defaultMaxDelay = 3 * time.Second

	// contextWindow is how many trailing messages feed the reply context.
	contextWindow = 3
)

// HistoryProvider supplies conversation history for context building.
// Satisfied by *chat.Service.
type HistoryProvider interface {
	ListMessages(ctx context.Context, conversationID string) []model.Message
}

// Pipeline runs at most one pending simulated reply per conversation. A
// conversation is Idle until a local-authored append arrives, Pending while
// the delay and generation run, and Idle again once the reply is delivered
// through the mutator. Pending runs are cancellable.
type Pipeline struct {
	mutator *chat.Mutator
	history HistoryProvider
	gen     Generator
	lg      *logger.Logger

	minDelay time.Duration
	maxDelay time.Duration

	mu      sync.Mutex
	pending map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithDelayBounds overrides the simulated latency range. Tests collapse it
// to near zero.
func WithDelayBounds(min, max time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.minDelay = min
		p.maxDelay = max
	}
}

// NewPipeline creates a responder pipeline.
func NewPipeline(mutator *chat.Mutator, history HistoryProvider, gen Generator, lg *logger.Logger, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		mutator:  mutator,
		history:  history,
		gen:      gen,
		lg:       lg,
		minDelay: defaultMinDelay,
		maxDelay: defaultMaxDelay,
		pending:  make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NotifyAppend implements chat.Responder. Only local-authored messages
// trigger a reply; a local append while a reply is already pending for the
// conversation does not start a second run.
func (p *Pipeline) NotifyAppend(ctx context.Context, conv model.Conversation, msg model.Message) {
	if !msg.FromLocal() {
		return
	}

	p.mu.Lock()
	if _, inFlight := p.pending[conv.ID]; inFlight {
		p.mu.Unlock()
		return
	}
	// Detached from the caller's context: the send returning does not
	// cancel the reply. Cancellation is explicit via Cancel.
	runCtx, cancel := context.WithCancel(context.Background())
	p.pending[conv.ID] = cancel
	p.mu.Unlock()

	metrics.ResponderPending.Inc()
	p.wg.Add(1)
	go p.run(runCtx, conv, msg)
}

// Responding implements chat.Responder.
func (p *Pipeline) Responding(conversationID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.pending[conversationID]
	return ok
}

// Cancel implements chat.Responder. Dropping a pending run means its reply
// is never appended.
func (p *Pipeline) Cancel(conversationID string) {
	p.mu.Lock()
	cancel, ok := p.pending[conversationID]
	p.mu.Unlock()
	if ok {
		cancel()
	}
}

// Shutdown cancels all pending runs and waits for them to finish, bounded
// by ctx.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	for _, cancel := range p.pending {
		cancel()
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pipeline) run(ctx context.Context, conv model.Conversation, msg model.Message) {
	start := time.Now()
	status := "success"

	defer func() {
		p.wg.Done()
		p.mu.Lock()
		if cancel, ok := p.pending[conv.ID]; ok {
			cancel()
			delete(p.pending, conv.ID)
		}
		p.mu.Unlock()
		metrics.ResponderPending.Dec()
		metrics.RecordReply(p.gen.Name(), status, time.Since(start).Seconds())
	}()

	// Emulated counterpart latency.
	delay := p.minDelay
	if span := p.maxDelay - p.minDelay; span > 0 {
		delay += time.Duration(rand.Int63n(int64(span)))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		status = "cancelled"
		p.lg.Debug("simulated reply cancelled during delay", zap.String("conversation_id", conv.ID))
		return
	case <-timer.C:
	}

	genCtx, genSpan := otel.Tracer("responder").Start(ctx, "responder.generate",
		trace.WithAttributes(
			attribute.String("conversation.id", conv.ID),
			attribute.String("generator", p.gen.Name()),
		))
	text, err := p.gen.Reply(genCtx, p.buildRequest(genCtx, conv, msg))
	genSpan.End()

	if err != nil {
		status = "fallback"
		metrics.ResponderFallbacksTotal.Inc()
		p.lg.Warn("reply generation failed, using fallback",
			zap.String("conversation_id", conv.ID),
			zap.Error(fmt.Errorf("%w: %w", ErrTransientGeneration, err)),
		)
		text = FallbackReply
	}

	select {
	case <-ctx.Done():
		status = "cancelled"
		p.lg.Debug("simulated reply cancelled after generation", zap.String("conversation_id", conv.ID))
		return
	default:
	}

	reply := model.Message{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conv.ID,
		AuthorID:       conv.CounterpartID,
		Text:           text,
		Type:           model.TypeText,
		CreatedAt:      time.Now(),
	}

	if err := p.mutator.AppendMessage(ctx, conv.ID, reply); err != nil {
		// Conversation was deleted mid-flight; the reply is dropped.
		status = "dropped"
		p.lg.Debug("simulated reply dropped",
			zap.String("conversation_id", conv.ID),
			zap.Error(err),
		)
	}
}

// buildRequest assembles the generation inputs: the last few messages plus a
// static profile blurb for the counterpart.
func (p *Pipeline) buildRequest(ctx context.Context, conv model.Conversation, msg model.Message) *Request {
	msgs := p.history.ListMessages(ctx, conv.ID)
	if len(msgs) > contextWindow {
		msgs = msgs[len(msgs)-contextWindow:]
	}

	texts := make([]string, len(msgs))
	for i, m := range msgs {
		texts[i] = m.Text
	}

	return &Request{
		UserMessage: msg.Text,
		ConversationContext: fmt.Sprintf("This is a conversation with %s. Previous messages: %s",
			conv.CounterpartName, strings.Join(texts, " | ")),
		Profile: fmt.Sprintf("Professional networking conversation with %s", conv.CounterpartName),
	}
}
