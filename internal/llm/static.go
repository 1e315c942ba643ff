package llm

import "github.com/saarthi-labs/saarthi/internal/models"

const FallbackModelName = "fallback"

// cannedResponses are the last line of defense: one empathetic reply per
// canonical emotion, used when every LLM tier has failed. The user must
// never see a raw error.
var cannedResponses = map[string]string{
	"angry":    "It sounds like something really got under your skin, and that anger makes sense. I'm here, tell me what happened, in your own time.",
	"disgust":  "Something clearly crossed a line for you, and that reaction is worth taking seriously. I'm listening if you want to talk through it.",
	"fear":     "That sounds frightening, and it's okay to feel shaken. You're not facing it alone right now, I'm here with you. What feels most worrying?",
	"happy":    "I can feel the lightness in that, and I'm genuinely glad for you! What made today feel this good?",
	"neutral":  "I'm here with you. Whatever is on your mind, big or small, feel free to share it. We can take it at your pace.",
	"sad":      "I'm really sorry it's been this heavy. You don't have to carry it alone. I'm here, and we can sit with this together for as long as you need.",
	"surprise": "That sounds like a lot to take in at once. Take a breath, I'm here while you make sense of it. What's going through your mind?",
}

// StaticResponse returns the canned reply for an emotion, defaulting to the
// neutral line for anything unrecognized. Always succeeds.
func StaticResponse(emotion string) models.GenerationResult {
	text, ok := cannedResponses[emotion]
	if !ok {
		text = cannedResponses["neutral"]
	}
	return models.GenerationResult{
		Text:       text,
		Model:      FallbackModelName,
		Success:    true,
		IsFallback: true,
	}
}
