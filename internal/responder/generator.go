// Package responder simulates an asynchronous counterpart reaction to
// locally sent messages: a delayed, generated reply appended back through
// the chat mutator.
package responder

import (
	"context"
	"errors"
)

// FallbackReply is appended whenever reply generation fails. The pipeline
// has no externally visible error state; failures only show up here.
const FallbackReply = "Thanks for your message! I'll get back to you soon."

// ErrTransientGeneration wraps failures from a Generator. It never escapes
// the pipeline; it exists so logs and tests can identify the fallback path.
var ErrTransientGeneration = errors.New("transient generation error")

// Request carries the inputs for one reply generation.
type Request struct {
	UserMessage         string
	ConversationContext string
	Profile             string
}

// Generator produces counterpart reply text.
type Generator interface {
	Reply(ctx context.Context, req *Request) (string, error)
	Name() string
}

// Provider selects a Generator implementation.
type Provider string

const (
	ProviderCanned Provider = "canned"
	ProviderOpenAI Provider = "openai"
)

// NewGenerator creates a Generator for the provider. Canned is the default
// and needs no credentials.
func NewGenerator(provider Provider, apiKey string) (Generator, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIGenerator(apiKey)
	case ProviderCanned, "":
		return NewCannedGenerator(), nil
	default:
		return nil, errors.New("unknown responder provider: " + string(provider))
	}
}
