package clients

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	groqBaseURL        = "https://api.groq.com/openai/v1"
	groqRequestTimeout = 30 * time.Second
)

var (
	groqClientInstance *GroqClient
	groqOnce           sync.Once
)

// GroqClient is the secondary LLM provider, reached through its
// OpenAI-compatible surface.
type GroqClient struct {
	Client *openai.Client
}

func GetGroqClient(apiKey string) *GroqClient {
	groqOnce.Do(func() {
		config := openai.DefaultConfig(apiKey)
		config.BaseURL = groqBaseURL
		config.HTTPClient = &http.Client{Timeout: groqRequestTimeout}

		groqClientInstance = &GroqClient{
			Client: openai.NewClientWithConfig(config),
		}
		slog.Info("[GroqClient] Groq client initialized",
			slog.Duration("timeout", groqRequestTimeout))
	})
	return groqClientInstance
}
