package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	geminiBaseURL        = "https://generativelanguage.googleapis.com/v1beta/models"
	geminiRequestTimeout = 60 * time.Second
)

// ErrContentBlocked marks a safety rejection. The response chain treats it
// like any other generation failure and moves to the next model.
var ErrContentBlocked = errors.New("generation blocked by safety settings")

var (
	geminiInstance *GeminiClient
	geminiOnce     sync.Once
)

type GeminiClient struct {
	Client  *http.Client
	BaseURL string
}

func GetGeminiClient() *GeminiClient {
	geminiOnce.Do(func() {
		slog.Info("[GeminiClient] Initializing Client",
			slog.Duration("timeout", geminiRequestTimeout))
		geminiInstance = &GeminiClient{
			Client:  &http.Client{Timeout: geminiRequestTimeout},
			BaseURL: geminiBaseURL,
		}
	})
	return geminiInstance
}

type geminiRequest struct {
	Contents         []geminiContent       `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
	SafetySettings   []geminiSafetySetting  `json:"safetySettings"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Support conversations routinely name distressing feelings, so the safety
// categories run at BLOCK_ONLY_HIGH rather than the stricter defaults.
func defaultSafetySettings() []geminiSafetySetting {
	categories := []string{
		"HARM_CATEGORY_HARASSMENT",
		"HARM_CATEGORY_HATE_SPEECH",
		"HARM_CATEGORY_SEXUALLY_EXPLICIT",
		"HARM_CATEGORY_DANGEROUS_CONTENT",
	}
	settings := make([]geminiSafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, geminiSafetySetting{Category: c, Threshold: "BLOCK_ONLY_HIGH"})
	}
	return settings
}

// GenerateContent runs one generation attempt against one model with one
// key. Empty text and safety blocks surface as errors so the caller's
// fallback chain can advance.
func (g *GeminiClient) GenerateContent(ctx context.Context, apiKey, model, prompt string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 1024,
		},
		SafetySettings: defaultSafetySettings(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.BaseURL, model, apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)

	start := time.Now()
	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Warn("[GeminiClient] Generation returned non-200",
			slog.String("model", model),
			slog.Int("status", resp.StatusCode),
			slog.String("message", parsed.Error.Message))
		return "", fmt.Errorf("generation failed with status %d: %s", resp.StatusCode, parsed.Error.Message)
	}

	if parsed.PromptFeedback.BlockReason != "" {
		slog.Warn("[GeminiClient] Prompt blocked",
			slog.String("model", model),
			slog.String("block_reason", parsed.PromptFeedback.BlockReason))
		return "", ErrContentBlocked
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("generation returned no candidates")
	}
	if parsed.Candidates[0].FinishReason == "SAFETY" {
		return "", ErrContentBlocked
	}

	var text string
	for _, part := range parsed.Candidates[0].Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", fmt.Errorf("generation returned empty text")
	}

	slog.Info("[GeminiClient] Generation successful",
		slog.String("model", model),
		slog.Duration("elapsed", time.Since(start)))

	return text, nil
}

// HealthCheck verifies the API answers with the given key.
func (g *GeminiClient) HealthCheck(ctx context.Context, apiKey string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?key="+apiKey, nil)
	if err != nil {
		return false
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
