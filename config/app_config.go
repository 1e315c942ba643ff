package config

import (
	"os"
	"strconv"
	"strings"
)

// AppConfig collects every tunable the response pipeline consumes. All values
// come from the environment so the same binary runs dev and prod unchanged.
type AppConfig struct {
	// Primary LLM (Gemini). Up to two keys tried in order, each across the
	// full model list.
	GeminiAPIKeys []string
	GeminiModels  []string

	// Secondary LLM (Groq, OpenAI-compatible).
	GroqEnabled bool
	GroqAPIKey  string
	GroqModel   string

	// Optional tertiary OpenAI tier; active only when a key is present.
	OpenAIAPIKey string
	OpenAIModel  string

	// Hosted transformer classifier. When HFAPIKey is empty the classifier
	// runs in-process instead.
	HFAPIKey       string
	HFEmotionModel string
	HFAPIBase      string
	HugotModelDir  string

	// Local BiLSTM artifact.
	EmotionModelPath string
	EmotionVocabPath string

	// Emotion cache.
	CacheTTLMillis int
	CacheMaxSize   int

	// Fusion weights.
	FusionLocalWeight         float64
	FusionRemoteWeight        float64
	FusionDisagreementPenalty float64

	// Conversation preamble handed to the prompt composer.
	SystemPreamble string
}

func Load() AppConfig {
	cfg := AppConfig{
		GeminiModels:              splitList(getEnv("GEMINI_MODELS", "gemini-2.0-flash,gemini-1.5-flash,gemini-1.5-flash-8b")),
		GroqEnabled:               getEnv("GROQ_ENABLED", "false") == "true",
		GroqAPIKey:                os.Getenv("GROQ_API_KEY"),
		GroqModel:                 getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		OpenAIAPIKey:              os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:               getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		HFAPIKey:                  os.Getenv("HF_API_KEY"),
		HFEmotionModel:            getEnv("HF_EMOTION_MODEL", "j-hartmann/emotion-english-distilroberta-base"),
		HFAPIBase:                 getEnv("HF_API_BASE", "https://api-inference.huggingface.co/models"),
		HugotModelDir:             getEnv("HUGOT_MODEL_DIR", "./models/transformers"),
		EmotionModelPath:          getEnv("EMOTION_MODEL_PATH", "./models/emotion_bilstm.onnx"),
		EmotionVocabPath:          getEnv("EMOTION_VOCAB_PATH", "./models/emotion_vocab.json"),
		CacheTTLMillis:            getEnvInt("EMOTION_CACHE_TTL_MS", 300000),
		CacheMaxSize:              getEnvInt("EMOTION_CACHE_MAX", 1000),
		FusionLocalWeight:         getEnvFloat("FUSION_LOCAL_WEIGHT", 0.2),
		FusionRemoteWeight:        getEnvFloat("FUSION_REMOTE_WEIGHT", 0.8),
		FusionDisagreementPenalty: getEnvFloat("FUSION_DISAGREEMENT_PENALTY", 0.1),
		SystemPreamble: getEnv("SYSTEM_PREAMBLE",
			"You are Saarthi, a warm and emotionally attuned support companion for users in India."),
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.GeminiAPIKeys = append(cfg.GeminiAPIKeys, key)
	}
	if key := os.Getenv("GEMINI_API_KEY_2"); key != "" {
		cfg.GeminiAPIKeys = append(cfg.GeminiAPIKeys, key)
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
