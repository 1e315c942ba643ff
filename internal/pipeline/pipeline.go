package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/saarthi-labs/saarthi/internal/emotion"
	"github.com/saarthi-labs/saarthi/internal/models"
	"github.com/saarthi-labs/saarthi/internal/prompt"
	"github.com/saarthi-labs/saarthi/internal/scope"
	"github.com/saarthi-labs/saarthi/internal/textutil"
)

// historyWindow is how many prior turns feed the scope guard, the topic
// scan, and the prompt.
const historyWindow = 12

// Classifier is either emotion adapter. Both degrade internally, so a
// Classify call never fails outright.
type Classifier interface {
	Classify(ctx context.Context, text string) models.ClassificationResult
}

// Responder is the generation chain.
type Responder interface {
	Generate(ctx context.Context, prompt, emotion string) models.GenerationResult
}

// HistoryStore is the session-history backend.
type HistoryStore interface {
	RecentTurns(ctx context.Context, sessionID string, n int) ([]models.ConversationTurn, error)
	AppendTurn(ctx context.Context, sessionID string, turn models.ConversationTurn)
}

// RecordFunc persists a turn durably for the nightly journal. A nil
// RecordFunc disables durable recording.
type RecordFunc func(ctx context.Context, sessionID string, turn models.ConversationTurn) error

// Pipeline runs one user message through sanitization, the scope guard,
// both emotion models, fusion, prompt composition, and the response chain.
type Pipeline struct {
	local    Classifier
	remote   Classifier
	fuser    *emotion.Fuser
	guard    *scope.Guard
	composer *prompt.Composer
	chain    Responder
	history  HistoryStore
	record   RecordFunc
}

func New(local, remote Classifier, fuser *emotion.Fuser, guard *scope.Guard, composer *prompt.Composer, chain Responder, history HistoryStore, record RecordFunc) *Pipeline {
	return &Pipeline{
		local:    local,
		remote:   remote,
		fuser:    fuser,
		guard:    guard,
		composer: composer,
		chain:    chain,
		history:  history,
		record:   record,
	}
}

// Respond produces the assistant reply for one user message. It always
// returns a usable Reply: classification degrades, generation falls back,
// and history failures only cost context, never the request.
func (p *Pipeline) Respond(ctx context.Context, sessionID, message string) models.Reply {
	transcript := textutil.Flatten(textutil.RemoveLinks(message))

	history, err := p.history.RecentTurns(ctx, sessionID, historyWindow)
	if err != nil {
		slog.Warn("[Pipeline] Proceeding without history",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()))
		history = nil
	}

	if decision := p.guard.Check(transcript, history); decision.Blocked {
		reply := models.Reply{
			Text:    decision.Message,
			Emotion: "neutral",
			Blocked: true,
		}
		p.persistExchange(ctx, sessionID, transcript, reply)
		return reply
	}

	fused := p.classifyBoth(ctx, transcript)

	promptText := p.composer.BuildReplyPrompt(prompt.Context{
		Emotion:    fused.Emotion,
		Confidence: fused.Confidence,
		Transcript: transcript,
		History:    history,
	})

	generated := p.chain.Generate(ctx, promptText, fused.Emotion)

	reply := models.Reply{
		Text:       generated.Text,
		Emotion:    fused.Emotion,
		Confidence: fused.Confidence,
		Model:      generated.Model,
		Strategy:   fused.Strategy,
		Individual: fused.Individual,
	}
	p.persistExchange(ctx, sessionID, transcript, reply)
	return reply
}

// classifyBoth runs the two adapters concurrently and fuses their votes.
func (p *Pipeline) classifyBoth(ctx context.Context, transcript string) models.FusedResult {
	var local, remote models.ClassificationResult

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		local = p.local.Classify(ctx, transcript)
	}()
	go func() {
		defer wg.Done()
		remote = p.remote.Classify(ctx, transcript)
	}()
	wg.Wait()

	fused := p.fuser.Combine(local, remote)
	slog.Info("[Pipeline] Emotion fused",
		slog.String("emotion", fused.Emotion),
		slog.Float64("confidence", fused.Confidence),
		slog.String("strategy", fused.Strategy))
	return fused
}

func (p *Pipeline) persistExchange(ctx context.Context, sessionID, transcript string, reply models.Reply) {
	now := time.Now().UTC()
	userTurn := models.ConversationTurn{
		Role:            models.RoleUser,
		Message:         transcript,
		EmotionDetected: reply.Emotion,
		CreatedAt:       now,
	}
	assistantTurn := models.ConversationTurn{
		Role:      models.RoleAssistant,
		Message:   reply.Text,
		CreatedAt: now,
	}

	p.history.AppendTurn(ctx, sessionID, userTurn)
	p.history.AppendTurn(ctx, sessionID, assistantTurn)

	if p.record == nil {
		return
	}
	for _, turn := range []models.ConversationTurn{userTurn, assistantTurn} {
		if err := p.record(ctx, sessionID, turn); err != nil {
			slog.Warn("[Pipeline] Failed to record turn",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()))
		}
	}
}
