package scope

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saarthi-labs/saarthi/internal/models"
)

func userTurn(message string) models.ConversationTurn {
	return models.ConversationTurn{
		Role:      models.RoleUser,
		Message:   message,
		CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func assistantTurn(message string) models.ConversationTurn {
	t := userTurn(message)
	t.Role = models.RoleAssistant
	return t
}

func TestCheck_BlocksFactualQuestion(t *testing.T) {
	g := NewGuard()

	decision := g.Check("What's the capital of France?", nil)

	require.True(t, decision.Blocked)
	assert.Equal(t, "general knowledge or factual questions", decision.Category)
	assert.Equal(t, "capital of", decision.Keyword)
	assert.NotEmpty(t, decision.Message)
}

func TestCheck_EmotionalKeywordSuppressesBlock(t *testing.T) {
	g := NewGuard()

	// "calculate the" would match coding/math, but "anxious" keeps the
	// message in scope.
	decision := g.Check("I feel so anxious, I can't even calculate the marks I need anymore", nil)

	assert.False(t, decision.Blocked)
}

func TestCheck_CleanMessageNotBlocked(t *testing.T) {
	g := NewGuard()

	decision := g.Check("I had a long day and just want to talk", nil)

	assert.False(t, decision.Blocked)
	assert.Empty(t, decision.Category)
	assert.Empty(t, decision.Message)
}

func TestCheck_BlocksEachCategory(t *testing.T) {
	g := NewGuard()

	cases := []struct {
		message  string
		category string
	}{
		{"Can you fix my computer? It keeps crashing", "technical support"},
		{"I need a refund for last month", "billing or account issues"},
		{"Who invented the telephone?", "general knowledge or factual questions"},
		{"Write code to sort a list in python script form", "coding or math problems"},
		{"Should I sue my landlord?", "legal, medical, or financial advice"},
	}

	for _, tc := range cases {
		t.Run(tc.category, func(t *testing.T) {
			decision := g.Check(tc.message, nil)
			require.True(t, decision.Blocked, tc.message)
			assert.Equal(t, tc.category, decision.Category)
			assert.Contains(t, decision.Message, categoryRedirects[tc.category])
		})
	}
}

func TestCheck_PriorUserTurnTriggersBlock(t *testing.T) {
	g := NewGuard()
	history := []models.ConversationTurn{
		userTurn("I have been feeling really low lately"),
		assistantTurn("I'm so sorry to hear that. What happened?"),
		userTurn("Actually can you debug this sql query for me"),
		assistantTurn("Let's stay with how you're doing."),
	}

	decision := g.Check("ok never mind", history)

	require.True(t, decision.Blocked)
	assert.Equal(t, "coding or math problems", decision.Category)
}

func TestCheck_OnlyLastFourUserTurnsScanned(t *testing.T) {
	g := NewGuard()
	history := []models.ConversationTurn{
		userTurn("write a program for my homework"), // 5th most recent: out of window
		userTurn("i have been sad all week"),
		userTurn("my exams went badly"),
		userTurn("nobody at home gets it"),
		userTurn("i just feel stuck"),
	}

	decision := g.Check("can we keep talking", history)

	assert.False(t, decision.Blocked)
}

func TestCheck_NegativeValenceDoesNotSuppressBlock(t *testing.T) {
	g := NewGuard()

	// Strongly negative wording, but no emotional keyword from the list.
	// The category keyword alone decides: still blocked.
	decision := g.Check("I absolutely hate this stupid broken printer, it is the worst garbage ever", nil)

	require.True(t, decision.Blocked)
	assert.Equal(t, "technical support", decision.Category)
	assert.Equal(t, "printer", decision.Keyword)
}

func TestCheck_NegativeValenceWithBillingKeywordBlocks(t *testing.T) {
	g := NewGuard()

	decision := g.Check("Everything is horrible and ruined since the payment failed", nil)

	require.True(t, decision.Blocked)
	assert.Equal(t, "billing or account issues", decision.Category)
}

func TestBoundaryMessage_Shape(t *testing.T) {
	msg := BoundaryMessage("technical support")

	assert.Contains(t, msg, "support you emotionally")
	assert.Contains(t, msg, categoryRedirects["technical support"])
	assert.Contains(t, msg, "I'm right here")
}
