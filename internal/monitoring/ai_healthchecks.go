package monitoring

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/saarthi-labs/saarthi/internal/clients"
)

const HEALTHCHECK_TIMER = 15

// MonitorClassifierHealth probes the hosted emotion classifier. While the
// flag is false the pipeline leans on the local model and fusion degrades
// to single_model, so the flag flips back as soon as the API recovers.
func MonitorClassifierHealth(ctx context.Context, healthy *atomic.Bool) {
	model := os.Getenv("HF_EMOTION_MODEL")
	hf := clients.GetHuggingFaceClient(os.Getenv("HF_API_BASE"), os.Getenv("HF_API_KEY"))
	ticker := time.NewTicker(time.Second * HEALTHCHECK_TIMER)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := hf.HealthCheck(ctx, model)
			healthy.Store(isHealthy)
			if !isHealthy {
				slog.Warn("[HealthCheck] Hosted emotion classifier is unhealthy")
			}
		}
	}
}

// MonitorGeminiHealth probes the primary Gemini key. Groq and the static
// tier keep replies flowing either way; the flag feeds /healthz only.
func MonitorGeminiHealth(ctx context.Context, healthy *atomic.Bool) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	ticker := time.NewTicker(time.Second * HEALTHCHECK_TIMER)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := clients.GetGeminiClient().HealthCheck(ctx, apiKey)
			healthy.Store(isHealthy)
			if !isHealthy {
				slog.Warn("[HealthCheck] Gemini is unhealthy")
			}
		}
	}
}
