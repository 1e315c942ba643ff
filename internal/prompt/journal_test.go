package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saarthi-labs/saarthi/internal/models"
)

func sampleJournalData() models.JournalData {
	return models.JournalData{
		SessionID:       "session-1",
		Date:            "2025-06-01",
		DominantEmotion: "sad",
		EmotionCounts:   map[string]int{"sad": 5, "neutral": 2, "happy": 1},
		Segments: []models.SegmentSummary{
			{Segment: "morning", Emotion: "sad", Turns: 4},
			{Segment: "evening", Emotion: "neutral", Turns: 3},
		},
		TopTopics:    []string{"work stress", "financial hardship"},
		Improvements: []string{"opened up about the layoff for the first time"},
		Samples: []string{
			"i keep replaying the meeting where they let me go",
			"maybe tomorrow i will tell my parents",
			"this third sample should be dropped",
		},
		ValenceTrend: "improving",
	}
}

func TestBuildJournalPrompt_Deterministic(t *testing.T) {
	data := sampleJournalData()

	first := BuildJournalPrompt(data)
	second := BuildJournalPrompt(data)

	assert.Equal(t, first, second, "map-backed sections must render in a fixed order")
}

func TestBuildJournalPrompt_CarriesSummary(t *testing.T) {
	prompt := BuildJournalPrompt(sampleJournalData())

	assert.Contains(t, prompt, "Date: 2025-06-01")
	assert.Contains(t, prompt, "Dominant emotion of the day: sad")
	assert.Contains(t, prompt, "happy=1, neutral=2, sad=5")
	assert.Contains(t, prompt, "- morning: mostly sad (4 messages)")
	assert.Contains(t, prompt, "work stress, financial hardship")
	assert.Contains(t, prompt, "opened up about the layoff")
	assert.Contains(t, prompt, "Overall valence trend: improving")
}

func TestBuildJournalPrompt_AtMostTwoSamples(t *testing.T) {
	prompt := BuildJournalPrompt(sampleJournalData())

	assert.Contains(t, prompt, "replaying the meeting")
	assert.Contains(t, prompt, "maybe tomorrow")
	assert.NotContains(t, prompt, "third sample")
}

func TestBuildJournalPrompt_TruncatesLongSamples(t *testing.T) {
	data := sampleJournalData()
	data.Samples = []string{strings.Repeat("a", 500)}

	prompt := BuildJournalPrompt(data)

	assert.Contains(t, prompt, strings.Repeat("a", journalSampleMaxLen)+"…")
	assert.NotContains(t, prompt, strings.Repeat("a", journalSampleMaxLen+1))
}

func TestBuildJournalPrompt_FormatContract(t *testing.T) {
	prompt := BuildJournalPrompt(sampleJournalData())

	assert.Contains(t, prompt, "🌅 How the day felt")
	assert.Contains(t, prompt, "💭 What was on their mind")
	assert.Contains(t, prompt, "🌱 A small step forward")
	assert.Contains(t, prompt, `"•" as the only bullet character`)
	assert.Contains(t, prompt, "between 180 and 250 words")
	assert.Contains(t, prompt, "no preamble")
	assert.Contains(t, prompt, "Example of the expected shape:")
}
