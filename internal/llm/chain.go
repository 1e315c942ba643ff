package llm

import (
	"context"
	"log/slog"

	"github.com/saarthi-labs/saarthi/internal/models"
)

// Strategy is one tier of the generation chain. A tier either produces a
// usable result or returns an error; the chain then moves on.
type Strategy interface {
	Name() string
	Generate(ctx context.Context, prompt string) (models.GenerationResult, error)
}

// Chain evaluates its tiers in order and stops at the first success. It
// never fails: when every tier is exhausted the canned response for the
// request's emotion is returned. Adding, removing, or reordering tiers is a
// constructor-argument change only.
type Chain struct {
	tiers []Strategy
}

func NewChain(tiers ...Strategy) *Chain {
	return &Chain{tiers: tiers}
}

func (c *Chain) Generate(ctx context.Context, prompt, emotion string) models.GenerationResult {
	for _, tier := range c.tiers {
		result, err := tier.Generate(ctx, prompt)
		if err != nil {
			slog.Warn("[ResponseChain] Tier failed, continuing",
				slog.String("tier", tier.Name()),
				slog.String("error", err.Error()))
			continue
		}
		if result.Text == "" {
			slog.Warn("[ResponseChain] Tier returned empty text, continuing",
				slog.String("tier", tier.Name()))
			continue
		}

		slog.Info("[ResponseChain] Generation succeeded",
			slog.String("tier", tier.Name()),
			slog.String("model", result.Model))
		return result
	}

	slog.Warn("[ResponseChain] All tiers exhausted, using static response",
		slog.String("emotion", emotion))
	return StaticResponse(emotion)
}
