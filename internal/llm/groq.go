package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/saarthi-labs/saarthi/internal/clients"
	"github.com/saarthi-labs/saarthi/internal/models"
)

// GroqTier is the secondary provider: one model, one attempt, through the
// OpenAI-compatible chat completion surface.
type GroqTier struct {
	client  *clients.GroqClient
	model   string
	enabled bool
}

func NewGroqTier(client *clients.GroqClient, model string, enabled bool) *GroqTier {
	return &GroqTier{client: client, model: model, enabled: enabled}
}

func (g *GroqTier) Name() string { return "groq" }

func (g *GroqTier) Generate(ctx context.Context, prompt string) (models.GenerationResult, error) {
	if !g.enabled || g.client == nil {
		return models.GenerationResult{}, fmt.Errorf("groq tier disabled")
	}

	resp, err := g.client.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   1024,
		TopP:        0.95,
	})
	if err != nil {
		return models.GenerationResult{}, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return models.GenerationResult{}, fmt.Errorf("chat completion returned no content")
	}

	return models.GenerationResult{
		Text:    resp.Choices[0].Message.Content,
		Model:   g.model,
		Success: true,
	}, nil
}
