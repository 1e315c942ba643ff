package scope

import (
	"log/slog"
	"strings"

	"github.com/jonreiter/govader"

	"github.com/saarthi-labs/saarthi/internal/models"
)

// priorTurnWindow is how many previous user turns are re-checked when the
// current message looks clean. A user who pivoted into tech support two
// turns ago should not ride along on earlier emotional context.
const priorTurnWindow = 4

// Guard decides whether a message belongs in an emotional-support
// conversation before any model or LLM is invoked.
type Guard struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewGuard() *Guard {
	return &Guard{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Check evaluates the current message first, then the recent prior user
// turns. A blocked decision carries the synthesized boundary reply. The
// current message's valence is logged with the decision so blocks on
// emotionally charged but off-topic messages can be reviewed later.
func (g *Guard) Check(message string, history []models.ConversationTurn) models.ScopeDecision {
	if category, keyword, ok := violates(message); ok {
		slog.Info("[ScopeGuard] Message blocked",
			slog.String("category", category),
			slog.String("keyword", keyword),
			slog.Float64("valence", g.analyzer.PolarityScores(message).Compound))
		return blockedDecision(category, keyword)
	}

	for _, turn := range lastUserTurns(history, priorTurnWindow) {
		if category, keyword, ok := violates(turn.Message); ok {
			slog.Info("[ScopeGuard] Message blocked by prior turn",
				slog.String("category", category),
				slog.String("keyword", keyword))
			return blockedDecision(category, keyword)
		}
	}

	return models.ScopeDecision{Blocked: false}
}

// violates reports whether text is a non-emotional out-of-scope request. An
// emotional keyword keeps the message in scope even when a category keyword
// also matches; a category keyword with no emotional keyword always blocks.
func violates(text string) (category, keyword string, ok bool) {
	lowered := strings.ToLower(text)

	if containsEmotionalKeyword(lowered) {
		return "", "", false
	}

	return matchCategory(lowered)
}

func containsEmotionalKeyword(lowered string) bool {
	for _, kw := range emotionalKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

func matchCategory(lowered string) (category, keyword string, ok bool) {
	for _, cat := range outOfScopeCategories {
		for _, kw := range cat.Keywords {
			if strings.Contains(lowered, kw) {
				return cat.Name, kw, true
			}
		}
	}
	return "", "", false
}

func lastUserTurns(history []models.ConversationTurn, n int) []models.ConversationTurn {
	var turns []models.ConversationTurn
	for i := len(history) - 1; i >= 0 && len(turns) < n; i-- {
		if history[i].Role == models.RoleUser {
			turns = append(turns, history[i])
		}
	}
	return turns
}

func blockedDecision(category, keyword string) models.ScopeDecision {
	return models.ScopeDecision{
		Blocked:  true,
		Category: category,
		Keyword:  keyword,
		Message:  BoundaryMessage(category),
	}
}

// BoundaryMessage synthesizes the reply sent instead of calling the LLM:
// an empathetic framing, a category-specific redirect, and an invitation
// back into scope.
func BoundaryMessage(category string) string {
	redirect, ok := categoryRedirects[category]
	if !ok {
		redirect = "That kind of question sits outside what I can help with well."
	}

	var b strings.Builder
	b.WriteString("I hear you, and I wish I could help with everything, but I'm here specifically to support you emotionally. ")
	b.WriteString(redirect)
	b.WriteString(" If anything is weighing on you though, how you're feeling, what's on your mind, I'm right here for that.")
	return b.String()
}
