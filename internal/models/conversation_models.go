package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one message in a session's history. The store owns
// these; the pipeline only reads the most recent N turns.
type ConversationTurn struct {
	Role            string    `json:"role"`
	Message         string    `json:"message"`
	EmotionDetected string    `json:"emotion_detected,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ScopeDecision is computed per request by the intent scope guard. When
// Blocked is set, Message carries the synthesized boundary reply and no LLM
// call is made.
type ScopeDecision struct {
	Blocked  bool   `json:"blocked"`
	Category string `json:"category,omitempty"`
	Keyword  string `json:"keyword,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Reply is what the pipeline hands back to the transport layer.
type Reply struct {
	Text       string             `json:"text"`
	Emotion    string             `json:"emotion"`
	Confidence float64            `json:"confidence"`
	Model      string             `json:"model"`
	Strategy   string             `json:"strategy,omitempty"`
	Blocked    bool               `json:"blocked"`
	Individual *IndividualResults `json:"individual_results,omitempty"`
}
