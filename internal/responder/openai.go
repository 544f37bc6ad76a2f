package responder

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const networkingSystemPrompt = "You are a professional networking assistant. Respond as a professional " +
	"who is interested in networking and collaboration. Keep responses conversational, professional, " +
	"and engaging. Show interest in the other person's work and suggest potential collaboration " +
	"opportunities. Keep responses under 100 words and make them feel natural and human-like."

// OpenAIGenerator produces replies with the OpenAI chat completion API.
// Errors propagate to the pipeline, which substitutes the fallback reply.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator creates an OpenAI-backed generator.
func NewOpenAIGenerator(apiKey string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  openai.GPT3Dot5Turbo,
	}, nil
}

// Name returns the provider name.
func (g *OpenAIGenerator) Name() string {
	return string(ProviderOpenAI)
}

// Reply sends a chat completion request.
func (g *OpenAIGenerator) Reply(ctx context.Context, req *Request) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: networkingSystemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(
					"Context: %s\nUser Profile: %s\nUser Message: %s\n\nRespond as a professional networking contact:",
					req.ConversationContext, req.Profile, req.UserMessage,
				),
			},
		},
		MaxTokens:   150,
		Temperature: 0.8,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
