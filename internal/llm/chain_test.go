package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saarthi-labs/saarthi/internal/models"
)

type stubTier struct {
	name   string
	result models.GenerationResult
	err    error
	calls  int
}

func (s *stubTier) Name() string { return s.name }

func (s *stubTier) Generate(context.Context, string) (models.GenerationResult, error) {
	s.calls++
	if s.err != nil {
		return models.GenerationResult{}, s.err
	}
	return s.result, nil
}

func failing(name string) *stubTier {
	return &stubTier{name: name, err: errors.New(name + " unavailable")}
}

func succeeding(name, text string) *stubTier {
	return &stubTier{name: name, result: models.GenerationResult{Text: text, Model: name, Success: true}}
}

func TestChain_FirstSuccessShortCircuits(t *testing.T) {
	first := succeeding("gemini-key1", "hello from gemini")
	second := succeeding("groq", "hello from groq")
	chain := NewChain(first, second)

	result := chain.Generate(context.Background(), "prompt", "sad")

	assert.Equal(t, "hello from gemini", result.Text)
	assert.False(t, result.IsFallback)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "later tiers must not run after a success")
}

func TestChain_AdvancesPastFailures(t *testing.T) {
	first := failing("gemini-key1")
	second := failing("gemini-key2")
	third := succeeding("groq", "hello from groq")
	chain := NewChain(first, second, third)

	result := chain.Generate(context.Background(), "prompt", "sad")

	assert.Equal(t, "hello from groq", result.Text)
	assert.Equal(t, "groq", result.Model)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestChain_EmptyTextTreatedAsFailure(t *testing.T) {
	empty := &stubTier{name: "gemini-key1", result: models.GenerationResult{Text: "", Success: true}}
	next := succeeding("groq", "real text")
	chain := NewChain(empty, next)

	result := chain.Generate(context.Background(), "prompt", "happy")

	assert.Equal(t, "real text", result.Text)
}

func TestChain_AllTiersFailFallsBackPerEmotion(t *testing.T) {
	emotions := []string{"angry", "disgust", "fear", "happy", "neutral", "sad", "surprise"}

	for _, emotion := range emotions {
		t.Run(emotion, func(t *testing.T) {
			chain := NewChain(failing("gemini-key1"), failing("groq"))

			result := chain.Generate(context.Background(), "prompt", emotion)

			require.True(t, result.Success, "chain must always produce a usable result")
			assert.True(t, result.IsFallback)
			assert.Equal(t, FallbackModelName, result.Model)
			assert.NotEmpty(t, result.Text)
		})
	}
}

func TestChain_NoTiersStillSucceeds(t *testing.T) {
	chain := NewChain()

	result := chain.Generate(context.Background(), "prompt", "sad")

	assert.True(t, result.Success)
	assert.True(t, result.IsFallback)
}

func TestStaticResponse_UnknownEmotionUsesNeutral(t *testing.T) {
	unknown := StaticResponse("bewildered")
	neutral := StaticResponse("neutral")

	assert.Equal(t, neutral.Text, unknown.Text)
}

func TestGeminiTier_TriesEveryModelWithOneKey(t *testing.T) {
	gen := &recordingGenerator{failUntil: 2}
	tier := &GeminiTier{
		client:   gen,
		apiKey:   "key-1",
		keyIndex: 1,
		models:   []string{"gemini-2.0-flash", "gemini-1.5-flash", "gemini-1.5-flash-8b"},
	}

	result, err := tier.Generate(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, []string{"gemini-2.0-flash", "gemini-1.5-flash", "gemini-1.5-flash-8b"}, gen.attempted)
	assert.Contains(t, result.Model, "gemini-1.5-flash-8b")
	assert.Contains(t, result.Model, "key 1")
}

func TestGeminiTier_NoKeyFailsImmediately(t *testing.T) {
	gen := &recordingGenerator{}
	tier := &GeminiTier{client: gen, keyIndex: 2, models: []string{"gemini-2.0-flash"}}

	_, err := tier.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.Empty(t, gen.attempted)
}

type recordingGenerator struct {
	attempted []string
	failUntil int
}

func (r *recordingGenerator) GenerateContent(_ context.Context, _, model, _ string) (string, error) {
	r.attempted = append(r.attempted, model)
	if len(r.attempted) <= r.failUntil {
		return "", errors.New("model overloaded")
	}
	return "a kind reply from " + model, nil
}
