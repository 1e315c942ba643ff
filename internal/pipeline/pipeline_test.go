package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saarthi-labs/saarthi/internal/emotion"
	"github.com/saarthi-labs/saarthi/internal/llm"
	"github.com/saarthi-labs/saarthi/internal/models"
	"github.com/saarthi-labs/saarthi/internal/prompt"
	"github.com/saarthi-labs/saarthi/internal/scope"
)

type fixedClassifier struct {
	result models.ClassificationResult
	calls  int
	seen   string
}

func (f *fixedClassifier) Classify(_ context.Context, text string) models.ClassificationResult {
	f.calls++
	f.seen = text
	return f.result
}

type fixedResponder struct {
	calls       int
	lastPrompt  string
	lastEmotion string
}

func (f *fixedResponder) Generate(_ context.Context, promptText, emotionLabel string) models.GenerationResult {
	f.calls++
	f.lastPrompt = promptText
	f.lastEmotion = emotionLabel
	return models.GenerationResult{Text: "I'm here with you.", Model: "test-model", Success: true}
}

type memoryHistory struct {
	turns   map[string][]models.ConversationTurn
	readErr error
}

func newMemoryHistory() *memoryHistory {
	return &memoryHistory{turns: map[string][]models.ConversationTurn{}}
}

func (m *memoryHistory) RecentTurns(_ context.Context, sessionID string, n int) ([]models.ConversationTurn, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	turns := m.turns[sessionID]
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	return turns, nil
}

func (m *memoryHistory) AppendTurn(_ context.Context, sessionID string, turn models.ConversationTurn) {
	m.turns[sessionID] = append(m.turns[sessionID], turn)
}

func newTestPipeline(local, remote *fixedClassifier, responder *fixedResponder, hist *memoryHistory, record RecordFunc) *Pipeline {
	return New(
		local, remote,
		emotion.NewFuser(emotion.DefaultFusionConfig()),
		scope.NewGuard(),
		prompt.NewComposer("You are a support companion."),
		responder,
		hist,
		record,
	)
}

func classification(model, label string, confidence float64) models.ClassificationResult {
	return models.ClassificationResult{
		Emotion:    label,
		Confidence: confidence,
		Scores:     map[string]float64{label: confidence},
		Model:      model,
	}
}

func TestRespond_HappyPath(t *testing.T) {
	local := &fixedClassifier{result: classification(emotion.LocalModelName, "sad", 0.9)}
	remote := &fixedClassifier{result: classification(emotion.RemoteModelName, "sad", 0.8)}
	responder := &fixedResponder{}
	hist := newMemoryHistory()

	p := newTestPipeline(local, remote, responder, hist, nil)
	reply := p.Respond(context.Background(), "sess-1", "I feel so alone since I moved cities")

	assert.Equal(t, "I'm here with you.", reply.Text)
	assert.Equal(t, "sad", reply.Emotion)
	assert.Equal(t, models.StrategyWeighted, reply.Strategy)
	assert.False(t, reply.Blocked)
	assert.Equal(t, 1, local.calls)
	assert.Equal(t, 1, remote.calls)
	assert.Equal(t, "sad", responder.lastEmotion)
	assert.Contains(t, responder.lastPrompt, "I feel so alone")

	// Both sides of the exchange land in history.
	turns := hist.turns["sess-1"]
	require.Len(t, turns, 2)
	assert.Equal(t, models.RoleUser, turns[0].Role)
	assert.Equal(t, "sad", turns[0].EmotionDetected)
	assert.Equal(t, models.RoleAssistant, turns[1].Role)
}

func TestRespond_OutOfScopeShortCircuits(t *testing.T) {
	local := &fixedClassifier{result: classification(emotion.LocalModelName, "neutral", 0.5)}
	remote := &fixedClassifier{result: classification(emotion.RemoteModelName, "neutral", 0.5)}
	responder := &fixedResponder{}
	hist := newMemoryHistory()

	p := newTestPipeline(local, remote, responder, hist, nil)
	reply := p.Respond(context.Background(), "sess-1", "What's the capital of France?")

	assert.True(t, reply.Blocked)
	assert.NotEmpty(t, reply.Text)
	assert.Equal(t, 0, local.calls, "no classification when blocked")
	assert.Equal(t, 0, remote.calls)
	assert.Equal(t, 0, responder.calls, "no generation when blocked")
}

func TestRespond_SanitizesBeforeClassification(t *testing.T) {
	local := &fixedClassifier{result: classification(emotion.LocalModelName, "sad", 0.9)}
	remote := &fixedClassifier{result: classification(emotion.RemoteModelName, "sad", 0.8)}
	hist := newMemoryHistory()

	p := newTestPipeline(local, remote, &fixedResponder{}, hist, nil)
	p.Respond(context.Background(), "sess-1", "I feel **awful** today, see https://example.com/post")

	assert.NotContains(t, local.seen, "https://")
	assert.NotContains(t, local.seen, "**")
	assert.Contains(t, local.seen, "awful")
}

func TestRespond_HistoryFailureDoesNotFailRequest(t *testing.T) {
	local := &fixedClassifier{result: classification(emotion.LocalModelName, "happy", 0.9)}
	remote := &fixedClassifier{result: classification(emotion.RemoteModelName, "happy", 0.9)}
	hist := newMemoryHistory()
	hist.readErr = errors.New("valkey down")

	p := newTestPipeline(local, remote, &fixedResponder{}, hist, nil)
	reply := p.Respond(context.Background(), "sess-1", "Finally got the offer letter today!")

	assert.False(t, reply.Blocked)
	assert.Equal(t, "I'm here with you.", reply.Text)
}

func TestRespond_RecorderReceivesBothTurns(t *testing.T) {
	local := &fixedClassifier{result: classification(emotion.LocalModelName, "fear", 0.7)}
	remote := &fixedClassifier{result: classification(emotion.RemoteModelName, "fear", 0.8)}
	hist := newMemoryHistory()

	var recorded []models.ConversationTurn
	record := func(_ context.Context, sessionID string, turn models.ConversationTurn) error {
		assert.Equal(t, "sess-1", sessionID)
		recorded = append(recorded, turn)
		return nil
	}

	p := newTestPipeline(local, remote, &fixedResponder{}, hist, record)
	p.Respond(context.Background(), "sess-1", "I'm scared about the biopsy report")

	require.Len(t, recorded, 2)
	assert.Equal(t, models.RoleUser, recorded[0].Role)
	assert.Equal(t, models.RoleAssistant, recorded[1].Role)
}

type downTier struct{}

func (downTier) Name() string { return "down" }

func (downTier) Generate(context.Context, string) (models.GenerationResult, error) {
	return models.GenerationResult{}, errors.New("provider unreachable")
}

func TestRespond_JobLossScenario(t *testing.T) {
	local := &fixedClassifier{result: models.ClassificationResult{
		Emotion:    "sad",
		Confidence: 0.6,
		Scores:     map[string]float64{"sad": 0.6, "neutral": 0.3},
		Model:      emotion.LocalModelName,
	}}
	remote := &fixedClassifier{result: models.ClassificationResult{
		Emotion:    "sad",
		Confidence: 0.85,
		Scores:     map[string]float64{"sad": 0.85, "fear": 0.1},
		Model:      emotion.RemoteModelName,
	}}
	responder := &fixedResponder{}
	hist := newMemoryHistory()

	p := newTestPipeline(local, remote, responder, hist, nil)
	message := "I just lost my job and don't know how I'll pay rent"
	reply := p.Respond(context.Background(), "sess-1", message)

	assert.Equal(t, "sad", reply.Emotion)
	assert.Equal(t, models.StrategyWeighted, reply.Strategy)
	assert.Contains(t, responder.lastPrompt, "financial hardship")
	assert.Contains(t, responder.lastPrompt, "EMIs", "finance guidance block should be injected")

	// Same request with every generation tier down still yields the canned
	// reply for the fused emotion.
	p = newTestPipeline(local, remote, &fixedResponder{}, newMemoryHistory(), nil)
	p.chain = llm.NewChain(downTier{})
	reply = p.Respond(context.Background(), "sess-1", message)

	require.NotEmpty(t, reply.Text)
	assert.Equal(t, llm.FallbackModelName, reply.Model)
	assert.Equal(t, llm.StaticResponse("sad").Text, reply.Text)
}

func TestRespond_DisagreementReportsIndividualVotes(t *testing.T) {
	local := &fixedClassifier{result: classification(emotion.LocalModelName, "angry", 0.9)}
	remote := &fixedClassifier{result: classification(emotion.RemoteModelName, "sad", 0.8)}
	hist := newMemoryHistory()

	p := newTestPipeline(local, remote, &fixedResponder{}, hist, nil)
	reply := p.Respond(context.Background(), "sess-1", "My brother took the loan money and vanished")

	require.NotNil(t, reply.Individual)
	assert.Equal(t, "angry", reply.Individual.Local.Emotion)
	assert.Equal(t, "sad", reply.Individual.Remote.Emotion)
	assert.Equal(t, models.StrategyWeighted, reply.Strategy)
}
