package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/saarthi-labs/saarthi/internal/models"
)

// Composer assembles the generation prompt. It is pure string assembly:
// identical inputs must produce byte-identical output.
type Composer struct {
	preamble string
}

func NewComposer(preamble string) *Composer {
	return &Composer{preamble: preamble}
}

// Context is everything the reply prompt folds in for one request.
type Context struct {
	Emotion    string
	Confidence float64
	Transcript string
	History    []models.ConversationTurn
}

const closingDirectives = `Response style:
- Reply in 2-4 warm, natural sentences, like a close friend who listens well.
- Match their language register; simple words over clinical ones.
- Be culturally aware of Indian family, academic, and workplace realities without stereotyping.
- Continue the conversation naturally from the history above; never restart it.
- Do not: lecture, diagnose, prescribe medication, quote statistics, use bullet points, or mention that you detected their emotion with a model.`

// BuildReplyPrompt assembles the empathetic-reply prompt: preamble, inferred
// topic, current emotion and transcript, guidance blocks, the full rendered
// history, and the closing directives, in that fixed order.
func (c *Composer) BuildReplyPrompt(ctx Context) string {
	topic, topicGuidance := InferTopic(ctx.Transcript, ctx.History)

	var b strings.Builder

	b.WriteString(c.preamble)
	b.WriteString("\n\n")

	b.WriteString("Underlying topic of this conversation: ")
	b.WriteString(topic)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "The user's current message (detected emotion: %s, confidence %.2f):\n%s\n\n",
		ctx.Emotion, ctx.Confidence, ctx.Transcript)

	b.WriteString("Emotional guidance: ")
	b.WriteString(guidanceFor(ctx.Emotion))
	b.WriteString("\n\n")

	if topicGuidance != "" {
		b.WriteString("Context to keep in mind: ")
		b.WriteString(topicGuidance)
		b.WriteString("\n\n")
	}

	b.WriteString("Conversation so far:\n")
	b.WriteString(renderHistory(ctx.History))
	b.WriteString("\n")

	b.WriteString(closingDirectives)

	return b.String()
}

// renderHistory writes each turn as role, emotion tag, timestamp, and text.
// The caller decides how much history to supply; nothing is truncated here.
func renderHistory(history []models.ConversationTurn) string {
	if len(history) == 0 {
		return "(no prior conversation)\n"
	}

	var b strings.Builder
	for _, turn := range history {
		emotion := turn.EmotionDetected
		if emotion == "" {
			emotion = "-"
		}
		fmt.Fprintf(&b, "[%s | %s | %s] %s\n",
			turn.Role,
			emotion,
			turn.CreatedAt.UTC().Format(time.RFC3339),
			turn.Message)
	}
	return b.String()
}
