package models

// ClassificationResult is the uniform output shape shared by both emotion
// classifiers. Scores are per-label and each lies in [0,1]; they are not
// required to sum to 1 across models.
type ClassificationResult struct {
	Emotion      string             `json:"emotion"`
	Confidence   float64            `json:"confidence"`
	Scores       map[string]float64 `json:"scores"`
	Model        string             `json:"model"`
	UsedFallback bool               `json:"used_fallback"`
	Error        string             `json:"error,omitempty"`
}

// DegradedResult is what an adapter returns when it cannot classify. The
// pipeline never sees an error from a classifier, only this shape.
func DegradedResult(model, reason string) ClassificationResult {
	return ClassificationResult{
		Emotion:      "neutral",
		Confidence:   0.5,
		Scores:       map[string]float64{"neutral": 0.5},
		Model:        model,
		UsedFallback: true,
		Error:        reason,
	}
}

type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Fusion strategies.
const (
	StrategySingleModel = "single_model"
	StrategyWeighted    = "weighted_hf_dominant"
	StrategyFallback    = "fallback"
)

// ModelVote records one classifier's contribution to a fused decision, kept
// for UI display alongside the fused result.
type ModelVote struct {
	Model      string  `json:"model"`
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

type IndividualResults struct {
	Local  ModelVote `json:"local"`
	Remote ModelVote `json:"remote"`
}

// FusedResult is the single decision produced by combining both classifiers.
// Lifetime is one request; it is never persisted.
type FusedResult struct {
	Emotion    string             `json:"emotion"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores"`
	ModelsUsed []string           `json:"models_used"`
	Strategy   string             `json:"strategy"`
	Individual *IndividualResults `json:"individual_results,omitempty"`
}
