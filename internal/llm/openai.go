package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"

	"github.com/saarthi-labs/saarthi/internal/clients"
	"github.com/saarthi-labs/saarthi/internal/models"
)

// OpenAITier is the optional last LLM stop before the canned responses. It
// only participates when a key was configured.
type OpenAITier struct {
	client *clients.OpenAIClient
	model  string
}

func NewOpenAITier(client *clients.OpenAIClient, model string) *OpenAITier {
	return &OpenAITier{client: client, model: model}
}

func (o *OpenAITier) Name() string { return "openai" }

func (o *OpenAITier) Generate(ctx context.Context, prompt string) (models.GenerationResult, error) {
	if o.client == nil {
		return models.GenerationResult{}, fmt.Errorf("openai tier not configured")
	}

	chatCompletion, err := o.client.Client.Chat.Completions.New(ctx,
		openai.ChatCompletionNewParams{
			Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			}),
			Model:       openai.F(o.model),
			Temperature: openai.Float(0.7),
		})
	if err != nil {
		return models.GenerationResult{}, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(chatCompletion.Choices) == 0 ||
		strings.TrimSpace(chatCompletion.Choices[0].Message.Content) == "" {
		return models.GenerationResult{}, fmt.Errorf("chat completion returned no content")
	}

	return models.GenerationResult{
		Text:    chatCompletion.Choices[0].Message.Content,
		Model:   o.model,
		Success: true,
	}, nil
}
