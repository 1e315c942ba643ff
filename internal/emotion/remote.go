package emotion

import (
	"context"
	"log/slog"

	"github.com/saarthi-labs/saarthi/internal/models"
)

const RemoteModelName = "huggingface"

// LabelScorer is the transformer behind the adapter: either the hosted
// inference API or the in-process hugot pipeline.
type LabelScorer interface {
	ScoreLabels(ctx context.Context, text string) ([]models.LabelScore, error)
}

// TransformerClassifier wraps a transformer LabelScorer with the emotion
// cache. Like the local adapter it never returns an error; failures become
// the degraded neutral result with the cause recorded for observability.
type TransformerClassifier struct {
	scorer LabelScorer
	cache  *Cache
}

func NewTransformerClassifier(scorer LabelScorer, cache *Cache) *TransformerClassifier {
	return &TransformerClassifier{scorer: scorer, cache: cache}
}

func (t *TransformerClassifier) Classify(ctx context.Context, text string) models.ClassificationResult {
	if cached, ok := t.cache.Get(text); ok {
		slog.Debug("[TransformerClassifier] Cache hit")
		return cached
	}

	ranked, err := t.scorer.ScoreLabels(ctx, text)
	if err != nil {
		slog.Warn("[TransformerClassifier] Classification failed, using fallback result",
			slog.String("error", err.Error()))
		return models.DegradedResult(RemoteModelName, err.Error())
	}
	if len(ranked) == 0 {
		return models.DegradedResult(RemoteModelName, "classifier returned no labels")
	}

	scores := make(map[string]float64, len(ranked))
	dominant := ranked[0]
	for _, entry := range ranked {
		scores[entry.Label] = entry.Score
		if entry.Score > dominant.Score {
			dominant = entry
		}
	}

	result := models.ClassificationResult{
		Emotion:    dominant.Label,
		Confidence: dominant.Score,
		Scores:     scores,
		Model:      RemoteModelName,
	}
	t.cache.Put(text, result)

	return result
}
