package emotion

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSession struct {
	scores  []float32
	err     error
	lastIDs []int32
	runs    int
}

func (s *stubSession) Run(_ context.Context, ids []int32) ([]float32, error) {
	s.runs++
	s.lastIDs = ids
	if s.err != nil {
		return nil, s.err
	}
	return s.scores, nil
}

func writeTestVocab(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.json")
	raw, err := json.Marshal(map[string]int32{"i": 2, "feel": 3, "sad": 4})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func newTestClassifier(t *testing.T, session *stubSession, factoryErr error) *LocalClassifier {
	t.Helper()
	factory := func(string) (InferenceSession, error) {
		if factoryErr != nil {
			return nil, factoryErr
		}
		return session, nil
	}
	return NewLocalClassifier("model.onnx", writeTestVocab(t), factory)
}

func TestLocalClassifier_Classify(t *testing.T) {
	// Order: angry, disgust, fear, happy, neutral, sad.
	session := &stubSession{scores: []float32{0.05, 0.02, 0.08, 0.1, 0.15, 0.6}}
	c := newTestClassifier(t, session, nil)

	result := c.Classify(context.Background(), "I feel sad!")

	assert.Equal(t, "sad", result.Emotion)
	assert.InDelta(t, 0.6, result.Confidence, 1e-6)
	assert.False(t, result.UsedFallback)
	assert.Equal(t, LocalModelName, result.Model)
	assert.Len(t, result.Scores, len(LocalModelLabels))
	assert.Equal(t, []int32{2, 3, 4}, session.lastIDs[:3], "punctuation stripped before lookup")
}

func TestLocalClassifier_InferenceErrorDegrades(t *testing.T) {
	session := &stubSession{err: errors.New("runtime blew up")}
	c := newTestClassifier(t, session, nil)

	result := c.Classify(context.Background(), "i feel sad")

	assert.True(t, result.UsedFallback)
	assert.Equal(t, "neutral", result.Emotion)
	assert.Equal(t, 0.5, result.Confidence)
	assert.Equal(t, map[string]float64{"neutral": 0.5}, result.Scores)
}

func TestLocalClassifier_WrongScoreLengthDegrades(t *testing.T) {
	session := &stubSession{scores: []float32{0.5, 0.5}}
	c := newTestClassifier(t, session, nil)

	result := c.Classify(context.Background(), "i feel sad")

	assert.True(t, result.UsedFallback)
	assert.Contains(t, result.Error, "score vector length")
}

func TestLocalClassifier_InitFailureDegrades(t *testing.T) {
	c := newTestClassifier(t, nil, errors.New("no such model file"))

	result := c.Classify(context.Background(), "i feel sad")

	assert.True(t, result.UsedFallback)
	assert.Equal(t, "neutral", result.Emotion)
}

func TestLocalClassifier_SessionLoadedOnce(t *testing.T) {
	session := &stubSession{scores: []float32{0.1, 0.1, 0.1, 0.1, 0.5, 0.1}}
	factoryCalls := 0
	c := NewLocalClassifier("model.onnx", writeTestVocab(t), func(string) (InferenceSession, error) {
		factoryCalls++
		return session, nil
	})

	for i := 0; i < 5; i++ {
		c.Classify(context.Background(), "hello there")
	}

	assert.Equal(t, 1, factoryCalls, "model session initializes once per process")
	assert.Equal(t, 5, session.runs)
}
