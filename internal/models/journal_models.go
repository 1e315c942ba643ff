package models

// JournalRequest is the message consumed from the journal-requests topic.
// The scheduler that enqueues these lives outside this service.
type JournalRequest struct {
	RequestID string `json:"request_id"`
	SessionID string `json:"session_id"`
	Date      string `json:"date"` // YYYY-MM-DD
}

// SegmentSummary is the dominant emotion for one part of the day.
type SegmentSummary struct {
	Segment string `json:"segment"` // morning/afternoon/evening/night
	Emotion string `json:"emotion"`
	Turns   int    `json:"turns"`
}

// JournalData is everything the journal prompt needs for one session-day.
type JournalData struct {
	SessionID       string           `json:"session_id"`
	Date            string           `json:"date"`
	DominantEmotion string           `json:"dominant_emotion"`
	EmotionCounts   map[string]int   `json:"emotion_counts"`
	Segments        []SegmentSummary `json:"segments"`
	TopTopics       []string         `json:"top_topics"`
	Improvements    []string         `json:"improvements"`
	Samples         []string         `json:"samples"`
	ValenceTrend    string           `json:"valence_trend"` // improving/steady/declining
}

// JournalEntry is the generated journal text persisted for the user.
type JournalEntry struct {
	SessionID string `json:"session_id"`
	Date      string `json:"date"`
	Content   string `json:"content"`
	Emotion   string `json:"emotion"`
	Model     string `json:"model"`
}
