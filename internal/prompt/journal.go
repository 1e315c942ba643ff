package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/saarthi-labs/saarthi/internal/models"
)

const journalSampleMaxLen = 160

// The generated entry is rendered to the user verbatim, with no validation
// between the model and the screen. This contract is the only correctness
// mechanism, so it is spelled out in full and anchored with a worked
// example.
const journalFormatContract = `STRICT OUTPUT FORMAT, follow exactly:
- Begin directly with the 🌅 section. No greeting, no "Here is", no preamble of any kind.
- Sections in this exact order, each starting with its emoji marker:
  🌅 How the day felt
  💭 What was on their mind
  🌱 A small step forward
- Use "•" as the only bullet character, never "-" or "*".
- Write in second person ("you"), warm and plain.
- Total length must be between 180 and 250 words.
- No markdown headings, no bold, no links, no emojis other than the three section markers.

Example of the expected shape:
🌅 How the day felt
Today carried a heavy morning that slowly loosened its grip. You woke up anxious about the results, and by evening there was more steadiness in how you spoke.
💭 What was on their mind
• The exam results and what your parents will say
• Feeling behind compared to your batchmates
🌱 A small step forward
You named the fear out loud instead of carrying it silently, and that took courage. Tomorrow, one honest conversation at home could make the waiting lighter.`

// BuildJournalPrompt assembles the daily-journal generation prompt from one
// session-day's summary. Deterministic, like the reply prompt.
func BuildJournalPrompt(data models.JournalData) string {
	var b strings.Builder

	b.WriteString("Write today's private journal entry for a user of an emotional-support companion, based on their conversations.\n\n")

	fmt.Fprintf(&b, "Date: %s\n", data.Date)
	fmt.Fprintf(&b, "Dominant emotion of the day: %s\n", data.DominantEmotion)
	fmt.Fprintf(&b, "Emotion counts: %s\n", formatCounts(data.EmotionCounts))
	fmt.Fprintf(&b, "Overall valence trend: %s\n\n", data.ValenceTrend)

	b.WriteString("How the day moved:\n")
	for _, seg := range data.Segments {
		fmt.Fprintf(&b, "- %s: mostly %s (%d messages)\n", seg.Segment, seg.Emotion, seg.Turns)
	}
	b.WriteString("\n")

	if len(data.TopTopics) > 0 {
		fmt.Fprintf(&b, "What they talked about most: %s\n", strings.Join(data.TopTopics, ", "))
	}
	if len(data.Improvements) > 0 {
		fmt.Fprintf(&b, "Moments of improvement worth highlighting: %s\n", strings.Join(data.Improvements, "; "))
	}
	b.WriteString("\n")

	samples := data.Samples
	if len(samples) > 2 {
		samples = samples[:2]
	}
	if len(samples) > 0 {
		b.WriteString("Short excerpts from their day (for tone only, do not quote directly):\n")
		for _, sample := range samples {
			fmt.Fprintf(&b, "> %s\n", truncateSample(sample))
		}
		b.WriteString("\n")
	}

	b.WriteString(journalFormatContract)

	return b.String()
}

// formatCounts renders the emotion histogram in sorted label order so the
// prompt stays byte-identical across runs.
func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none recorded"
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, fmt.Sprintf("%s=%d", label, counts[label]))
	}
	return strings.Join(parts, ", ")
}

func truncateSample(sample string) string {
	if len(sample) <= journalSampleMaxLen {
		return sample
	}
	return sample[:journalSampleMaxLen] + "…"
}
