package models

// GenerationResult is the outcome of one pass through the response chain.
// The chain always succeeds: worst case is the canned fallback response.
type GenerationResult struct {
	Text       string `json:"text"`
	Model      string `json:"model"`
	Success    bool   `json:"success"`
	IsFallback bool   `json:"is_fallback"`
}
