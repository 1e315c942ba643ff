package emotion

import (
	"context"
	"log/slog"
	"sync"

	"github.com/saarthi-labs/saarthi/internal/models"
)

const LocalModelName = "bilstm-local"

// InferenceSession runs one tokenized sequence through the loaded model and
// returns the raw per-label scores.
type InferenceSession interface {
	Run(ctx context.Context, ids []int32) ([]float32, error)
}

// SessionFactory opens the model artifact. Split out so tests can stub the
// ONNX runtime entirely.
type SessionFactory func(modelPath string) (InferenceSession, error)

// LocalClassifier scores text with the exported BiLSTM. The vocabulary and
// model session load lazily on first use and are reused for the process
// lifetime. Classify never returns an error: any failure degrades to the
// neutral fallback result.
type LocalClassifier struct {
	modelPath  string
	vocabPath  string
	newSession SessionFactory

	initOnce sync.Once
	initErr  error
	vocab    *Vocabulary
	session  InferenceSession
}

func NewLocalClassifier(modelPath, vocabPath string, factory SessionFactory) *LocalClassifier {
	if factory == nil {
		factory = NewORTSession
	}
	return &LocalClassifier{
		modelPath:  modelPath,
		vocabPath:  vocabPath,
		newSession: factory,
	}
}

func (c *LocalClassifier) init() error {
	c.initOnce.Do(func() {
		vocab, err := LoadVocabulary(c.vocabPath)
		if err != nil {
			c.initErr = err
			return
		}

		session, err := c.newSession(c.modelPath)
		if err != nil {
			c.initErr = err
			return
		}

		c.vocab = vocab
		c.session = session
		slog.Info("[LocalClassifier] Model session initialized",
			slog.String("model_path", c.modelPath))
	})
	return c.initErr
}

func (c *LocalClassifier) Classify(ctx context.Context, text string) models.ClassificationResult {
	if err := c.init(); err != nil {
		slog.Warn("[LocalClassifier] Initialization failed, using fallback result",
			slog.String("error", err.Error()))
		return models.DegradedResult(LocalModelName, err.Error())
	}

	raw, err := c.session.Run(ctx, c.vocab.Encode(text))
	if err != nil {
		slog.Warn("[LocalClassifier] Inference failed, using fallback result",
			slog.String("error", err.Error()))
		return models.DegradedResult(LocalModelName, err.Error())
	}

	if len(raw) != len(LocalModelLabels) {
		slog.Warn("[LocalClassifier] Unexpected score vector length",
			slog.Int("got", len(raw)),
			slog.Int("want", len(LocalModelLabels)))
		return models.DegradedResult(LocalModelName, "unexpected score vector length")
	}

	scores := make(map[string]float64, len(LocalModelLabels))
	dominant := LocalModelLabels[0]
	best := float64(raw[0])
	for i, label := range LocalModelLabels {
		score := float64(raw[i])
		scores[label] = score
		if score > best {
			best = score
			dominant = label
		}
	}

	return models.ClassificationResult{
		Emotion:    dominant,
		Confidence: best,
		Scores:     scores,
		Model:      LocalModelName,
	}
}
