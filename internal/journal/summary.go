package journal

import (
	"sort"
	"strings"

	"github.com/jonreiter/govader"

	"github.com/saarthi-labs/saarthi/internal/emotion"
	"github.com/saarthi-labs/saarthi/internal/models"
	"github.com/saarthi-labs/saarthi/internal/prompt"
)

const (
	maxTopTopics = 3
	maxSamples   = 4

	// Half-day compound averages further apart than this count as a real
	// shift rather than sentiment noise.
	trendThreshold = 0.15
)

// daySegments partition a calendar day by local hour. Boundaries follow
// common usage, with night wrapping past midnight.
var daySegments = []struct {
	Name  string
	Start int // inclusive hour
	End   int // exclusive hour
}{
	{"morning", 5, 12},
	{"afternoon", 12, 17},
	{"evening", 17, 21},
	{"night", 21, 24}, // hours 0-5 fold into night too
}

// Summarizer aggregates one session-day of turns into the structured
// summary the journal prompt is built from. Pure computation; fetching the
// turns and generating the entry happen around it.
type Summarizer struct {
	sentiment *govader.SentimentIntensityAnalyzer
}

func NewSummarizer() *Summarizer {
	return &Summarizer{sentiment: govader.NewSentimentIntensityAnalyzer()}
}

func (s *Summarizer) Summarize(sessionID, date string, turns []models.ConversationTurn) models.JournalData {
	data := models.JournalData{
		SessionID:     sessionID,
		Date:          date,
		EmotionCounts: map[string]int{},
		ValenceTrend:  "steady",
	}

	userTurns := make([]models.ConversationTurn, 0, len(turns))
	for _, turn := range turns {
		if turn.Role == models.RoleUser {
			userTurns = append(userTurns, turn)
		}
	}
	if len(userTurns) == 0 {
		data.DominantEmotion = "neutral"
		return data
	}

	for _, turn := range userTurns {
		label := turn.EmotionDetected
		if label == "" {
			label = "neutral"
		}
		data.EmotionCounts[label]++
	}
	data.DominantEmotion = dominantEmotion(data.EmotionCounts)
	data.Segments = segmentSummaries(userTurns)
	data.TopTopics = topTopics(userTurns)
	data.ValenceTrend = s.valenceTrend(userTurns)
	data.Improvements = improvements(userTurns, data.ValenceTrend)
	data.Samples = sampleMessages(userTurns)

	return data
}

// dominantEmotion picks the most frequent label, breaking count ties in
// canonical label order so the same day always summarizes the same way.
func dominantEmotion(counts map[string]int) string {
	best, bestCount := "neutral", 0
	for _, label := range emotion.CanonicalLabels {
		if counts[label] > bestCount {
			best, bestCount = label, counts[label]
		}
	}
	// Non-canonical labels can still win outright.
	extras := make([]string, 0)
	for label := range counts {
		if !emotion.IsCanonical(label) {
			extras = append(extras, label)
		}
	}
	sort.Strings(extras)
	for _, label := range extras {
		if counts[label] > bestCount {
			best, bestCount = label, counts[label]
		}
	}
	return best
}

func segmentSummaries(userTurns []models.ConversationTurn) []models.SegmentSummary {
	var summaries []models.SegmentSummary
	for _, seg := range daySegments {
		counts := map[string]int{}
		total := 0
		for _, turn := range userTurns {
			hour := turn.CreatedAt.Hour()
			inSegment := hour >= seg.Start && hour < seg.End
			if seg.Name == "night" {
				inSegment = hour >= seg.Start || hour < 5
			}
			if !inSegment {
				continue
			}
			label := turn.EmotionDetected
			if label == "" {
				label = "neutral"
			}
			counts[label]++
			total++
		}
		if total == 0 {
			continue
		}
		summaries = append(summaries, models.SegmentSummary{
			Segment: seg.Name,
			Emotion: dominantEmotion(counts),
			Turns:   total,
		})
	}
	return summaries
}

// topTopics counts cluster matches per message and returns the most
// frequent ones. The default topic never makes the list; a day of small
// talk just gets no topic line in the prompt.
func topTopics(userTurns []models.ConversationTurn) []string {
	counts := map[string]int{}
	order := []string{}
	for _, turn := range userTurns {
		name, _ := prompt.InferTopic(turn.Message, nil)
		if name == prompt.DefaultTopic {
			continue
		}
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxTopTopics {
		order = order[:maxTopTopics]
	}
	return order
}

// valenceTrend compares the average sentiment of the first and second half
// of the day's user messages.
func (s *Summarizer) valenceTrend(userTurns []models.ConversationTurn) string {
	if len(userTurns) < 2 {
		return "steady"
	}

	mid := len(userTurns) / 2
	first := s.averageCompound(userTurns[:mid])
	second := s.averageCompound(userTurns[mid:])

	switch {
	case second-first > trendThreshold:
		return "improving"
	case first-second > trendThreshold:
		return "declining"
	default:
		return "steady"
	}
}

func (s *Summarizer) averageCompound(turns []models.ConversationTurn) float64 {
	if len(turns) == 0 {
		return 0
	}
	var sum float64
	for _, turn := range turns {
		sum += s.sentiment.PolarityScores(turn.Message).Compound
	}
	return sum / float64(len(turns))
}

// improvements surfaces concrete positive signals the journal can
// highlight: a day that ended better than it started, or late messages
// carrying positive emotion after a difficult stretch.
func improvements(userTurns []models.ConversationTurn, trend string) []string {
	var notes []string
	if trend == "improving" {
		notes = append(notes, "their messages grew noticeably lighter as the day went on")
	}

	if len(userTurns) >= 3 {
		lastThird := userTurns[len(userTurns)*2/3:]
		for _, turn := range lastThird {
			if turn.EmotionDetected == "happy" {
				notes = append(notes, "the day closed on a genuinely positive note")
				break
			}
		}
	}
	return notes
}

// sampleMessages picks evenly spaced user messages across the day so the
// excerpts cover its span instead of clustering at the start.
func sampleMessages(userTurns []models.ConversationTurn) []string {
	n := len(userTurns)
	if n == 0 {
		return nil
	}
	count := maxSamples
	if n < count {
		count = n
	}

	samples := make([]string, 0, count)
	seen := map[int]bool{}
	for i := 0; i < count; i++ {
		idx := i * (n - 1) / max(count-1, 1)
		if seen[idx] {
			continue
		}
		seen[idx] = true
		msg := strings.TrimSpace(userTurns[idx].Message)
		if msg != "" {
			samples = append(samples, msg)
		}
	}
	return samples
}
