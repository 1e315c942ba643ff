package emotion

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/saarthi-labs/saarthi/internal/models"
)

// HugotScorer runs the transformer emotion model in-process. It is the
// LabelScorer used when no hosted inference endpoint is configured. The
// session and pipeline initialize lazily on first use and live for the
// process lifetime.
type HugotScorer struct {
	modelID  string
	modelDir string

	initOnce sync.Once
	initErr  error
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
}

func NewHugotScorer(modelID, modelDir string) *HugotScorer {
	return &HugotScorer{modelID: modelID, modelDir: modelDir}
}

func (h *HugotScorer) init() error {
	h.initOnce.Do(func() {
		if err := os.MkdirAll(h.modelDir, os.ModePerm); err != nil {
			h.initErr = fmt.Errorf("[HugotScorer] failed to create model directory: %w", err)
			return
		}

		modelPath, err := hugot.DownloadModel(h.modelID, h.modelDir, hugot.NewDownloadOptions())
		if err != nil {
			h.initErr = fmt.Errorf("[HugotScorer] failed to download model: %w", err)
			return
		}

		session, err := hugot.NewORTSession()
		if err != nil {
			h.initErr = fmt.Errorf("[HugotScorer] failed to initialize session: %w", err)
			return
		}

		config := hugot.TextClassificationConfig{
			ModelPath: modelPath,
			Name:      "emotionClassificationPipeline",
		}
		pipeline, err := hugot.NewPipeline(session, config)
		if err != nil {
			session.Destroy()
			h.initErr = fmt.Errorf("[HugotScorer] failed to initialize pipeline: %w", err)
			return
		}

		h.session = session
		h.pipeline = pipeline
	})
	return h.initErr
}

func (h *HugotScorer) ScoreLabels(ctx context.Context, text string) ([]models.LabelScore, error) {
	if err := h.init(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	output, err := h.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("[HugotScorer] pipeline run failed: %w", err)
	}
	if len(output.ClassificationOutputs) == 0 || len(output.ClassificationOutputs[0]) == 0 {
		return nil, fmt.Errorf("[HugotScorer] pipeline returned no classifications")
	}

	ranked := make([]models.LabelScore, 0, len(output.ClassificationOutputs[0]))
	for _, c := range output.ClassificationOutputs[0] {
		ranked = append(ranked, models.LabelScore{Label: c.Label, Score: float64(c.Score)})
	}

	return ranked, nil
}
