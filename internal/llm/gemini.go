package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saarthi-labs/saarthi/internal/clients"
	"github.com/saarthi-labs/saarthi/internal/models"
)

// geminiGenerator is satisfied by *clients.GeminiClient; narrowed for tests.
type geminiGenerator interface {
	GenerateContent(ctx context.Context, apiKey, model, prompt string) (string, error)
}

// GeminiTier tries every configured model name with one API key. Two keys
// become two consecutive tiers, so exhausting key one's models moves on to
// key two naturally.
type GeminiTier struct {
	client   geminiGenerator
	apiKey   string
	keyIndex int
	models   []string
}

func NewGeminiTier(client *clients.GeminiClient, apiKey string, keyIndex int, modelNames []string) *GeminiTier {
	return &GeminiTier{
		client:   client,
		apiKey:   apiKey,
		keyIndex: keyIndex,
		models:   modelNames,
	}
}

func (g *GeminiTier) Name() string {
	return fmt.Sprintf("gemini-key%d", g.keyIndex)
}

func (g *GeminiTier) Generate(ctx context.Context, prompt string) (models.GenerationResult, error) {
	if g.apiKey == "" {
		return models.GenerationResult{}, fmt.Errorf("no API key configured")
	}

	var lastErr error
	for _, model := range g.models {
		text, err := g.client.GenerateContent(ctx, g.apiKey, model, prompt)
		if err != nil {
			// Safety blocks and empty responses count as model failure;
			// the next model in the list gets its turn.
			slog.Warn("[GeminiTier] Model attempt failed",
				slog.Int("key_index", g.keyIndex),
				slog.String("model", model),
				slog.String("error", err.Error()))
			lastErr = err
			continue
		}

		return models.GenerationResult{
			Text:    text,
			Model:   fmt.Sprintf("%s (key %d)", model, g.keyIndex),
			Success: true,
		}, nil
	}

	return models.GenerationResult{}, fmt.Errorf("all models exhausted: %w", lastErr)
}
