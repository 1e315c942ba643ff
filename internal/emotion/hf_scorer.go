package emotion

import (
	"context"

	"github.com/saarthi-labs/saarthi/internal/clients"
	"github.com/saarthi-labs/saarthi/internal/models"
)

// HostedScorer is the LabelScorer backed by the hosted inference API.
type HostedScorer struct {
	client *clients.HuggingFaceClient
	model  string
}

func NewHostedScorer(client *clients.HuggingFaceClient, model string) *HostedScorer {
	return &HostedScorer{client: client, model: model}
}

func (s *HostedScorer) ScoreLabels(ctx context.Context, text string) ([]models.LabelScore, error) {
	return s.client.ClassifyEmotion(ctx, s.model, text)
}
