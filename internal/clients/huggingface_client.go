package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/saarthi-labs/saarthi/internal/models"
)

// The hosted classifier must answer well inside one chat round trip.
const hfRequestTimeout = 15 * time.Second

var (
	huggingFaceInstance *HuggingFaceClient
	huggingFaceOnce     sync.Once
)

// HuggingFaceClient talks to the hosted inference API. One instance per
// process; the underlying http.Client carries the request timeout.
type HuggingFaceClient struct {
	Client  *http.Client
	BaseURL string
	APIKey  string
}

func NewHuggingFaceClient(baseURL, apiKey string) *HuggingFaceClient {
	return &HuggingFaceClient{
		Client:  &http.Client{Timeout: hfRequestTimeout},
		BaseURL: baseURL,
		APIKey:  apiKey,
	}
}

func GetHuggingFaceClient(baseURL, apiKey string) *HuggingFaceClient {
	huggingFaceOnce.Do(func() {
		slog.Info("[HuggingFaceClient] Initializing Client",
			slog.Duration("timeout", hfRequestTimeout),
			slog.String("base_url", baseURL))
		huggingFaceInstance = NewHuggingFaceClient(baseURL, apiKey)
	})
	return huggingFaceInstance
}

func (h *HuggingFaceClient) DoWithRetry(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := INITIAL_BACKOFF

	for attempt := 0; attempt < MAX_RETRIES; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			if body, bodyErr := req.GetBody(); bodyErr == nil {
				req.Body = body
			}
		}

		resp, err = h.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if resp != nil {
			resp.Body.Close()
		}

		slog.Warn("[HuggingFaceClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		time.Sleep(backoff)
		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}
	}

	return resp, err
}

// ClassifyEmotion posts raw text to the hosted model and returns its ranked
// label/score list. The API wraps results in an extra list level.
func (h *HuggingFaceClient) ClassifyEmotion(ctx context.Context, model, text string) ([]models.LabelScore, error) {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	endpoint := h.BaseURL + "/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.APIKey)
	req.Header.Set("User-Agent", USER_AGENT)

	start := time.Now()
	resp, err := h.DoWithRetry(req)
	if err != nil {
		slog.Error("[HuggingFaceClient] Classification request failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("[HuggingFaceClient] Classification returned non-200",
			slog.Int("status", resp.StatusCode),
			getPreview(respBody))
		return nil, fmt.Errorf("classification failed with status %d", resp.StatusCode)
	}

	var parsed [][]models.LabelScore
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("error", err.Error()),
			getPreview(respBody))
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(parsed) == 0 || len(parsed[0]) == 0 {
		return nil, fmt.Errorf("classification returned no scores")
	}

	slog.Info("[HuggingFaceClient] Classification request successful",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("labels", len(parsed[0])))

	return parsed[0], nil
}

// HealthCheck probes the model endpoint; non-5xx counts as reachable (the
// API answers 200 or 503 while a model spins up).
func (h *HuggingFaceClient) HealthCheck(ctx context.Context, model string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.BaseURL+"/"+model, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+h.APIKey)

	resp, err := h.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < 500
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
