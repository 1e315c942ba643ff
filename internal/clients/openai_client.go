package clients

import (
	"log/slog"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var (
	openAIClientInstance *OpenAIClient
	openAIOnce           sync.Once
)

// OpenAIClient backs the optional tertiary generation tier.
type OpenAIClient struct {
	Client *openai.Client
}

func GetOpenAIClient(apiKey string) *OpenAIClient {
	openAIOnce.Do(func() {
		openAIClientInstance = &OpenAIClient{
			Client: openai.NewClient(option.WithAPIKey(apiKey)),
		}
		slog.Info("[OpenAIClient] OpenAI client initialized")
	})
	return openAIClientInstance
}
