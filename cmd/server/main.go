package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/saarthi-labs/saarthi/config"
	"github.com/saarthi-labs/saarthi/internal/clients"
	"github.com/saarthi-labs/saarthi/internal/db"
	"github.com/saarthi-labs/saarthi/internal/emotion"
	"github.com/saarthi-labs/saarthi/internal/history"
	"github.com/saarthi-labs/saarthi/internal/llm"
	"github.com/saarthi-labs/saarthi/internal/logging"
	"github.com/saarthi-labs/saarthi/internal/monitoring"
	"github.com/saarthi-labs/saarthi/internal/pipeline"
	"github.com/saarthi-labs/saarthi/internal/prompt"
	"github.com/saarthi-labs/saarthi/internal/scope"
)

var (
	classifierHealthy atomic.Bool
	geminiHealthy     atomic.Bool
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clients.InitValkey()
	defer clients.CloseValkey()

	record := pipeline.RecordFunc(nil)
	if err := db.InitDB(); err != nil {
		slog.Warn("[Main] Running without durable message store",
			slog.String("error", err.Error()))
	} else {
		defer db.CloseDB()
		record = db.SaveMessage
	}

	p := buildPipeline(cfg, record)

	classifierHealthy.Store(true)
	geminiHealthy.Store(true)
	go monitoring.MonitorClassifierHealth(ctx, &classifierHealthy)
	go monitoring.MonitorGeminiHealth(ctx, &geminiHealthy)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/respond", handleRespond(p))
	mux.HandleFunc("GET /healthz", handleHealthz)

	srv := &http.Server{
		Addr:              getAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("[Main] Server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Server failed", slog.String("error", err.Error()))
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		slog.Warn("[Main] Received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed", slog.String("error", err.Error()))
	}
	slog.Info("[Main] Server stopped")
}

// buildPipeline wires every stage from configuration. The transformer
// classifier runs against the hosted API when a key is configured and falls
// back to the in-process pipeline otherwise.
func buildPipeline(cfg config.AppConfig, record pipeline.RecordFunc) *pipeline.Pipeline {
	local := emotion.NewLocalClassifier(cfg.EmotionModelPath, cfg.EmotionVocabPath, emotion.NewORTSession)

	var scorer emotion.LabelScorer
	if cfg.HFAPIKey != "" {
		hf := clients.GetHuggingFaceClient(cfg.HFAPIBase, cfg.HFAPIKey)
		scorer = emotion.NewHostedScorer(hf, cfg.HFEmotionModel)
	} else {
		slog.Info("[Main] No hosted API key, running transformer in-process")
		scorer = emotion.NewHugotScorer(cfg.HFEmotionModel, cfg.HugotModelDir)
	}
	cache := emotion.NewCache(time.Duration(cfg.CacheTTLMillis)*time.Millisecond, cfg.CacheMaxSize)
	remote := emotion.NewTransformerClassifier(scorer, cache)

	fuser := emotion.NewFuser(emotion.FusionConfig{
		LocalWeight:         cfg.FusionLocalWeight,
		RemoteWeight:        cfg.FusionRemoteWeight,
		DisagreementPenalty: cfg.FusionDisagreementPenalty,
	})

	return pipeline.New(
		local, remote, fuser,
		scope.NewGuard(),
		prompt.NewComposer(cfg.SystemPreamble),
		buildChain(cfg),
		history.NewStore(clients.GetValkeyClient()),
		record,
	)
}

// buildChain assembles the generation tiers in priority order. Tiers with
// no credentials are simply not added; the static fallback needs none.
func buildChain(cfg config.AppConfig) *llm.Chain {
	var tiers []llm.Strategy
	for i, key := range cfg.GeminiAPIKeys {
		tiers = append(tiers, llm.NewGeminiTier(clients.GetGeminiClient(), key, i+1, cfg.GeminiModels))
	}
	if cfg.GroqEnabled && cfg.GroqAPIKey != "" {
		tiers = append(tiers, llm.NewGroqTier(clients.GetGroqClient(cfg.GroqAPIKey), cfg.GroqModel, true))
	}
	if cfg.OpenAIAPIKey != "" {
		tiers = append(tiers, llm.NewOpenAITier(clients.GetOpenAIClient(cfg.OpenAIAPIKey), cfg.OpenAIModel))
	}
	return llm.NewChain(tiers...)
}

type respondRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func handleRespond(p *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req respondRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		req.SessionID = strings.TrimSpace(req.SessionID)
		if req.SessionID == "" || strings.TrimSpace(req.Message) == "" {
			writeError(w, http.StatusBadRequest, "session_id and message are required")
			return
		}

		reply := p.Respond(r.Context(), req.SessionID, req.Message)
		writeJSON(w, http.StatusOK, reply)
	}
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	status := map[string]any{
		"status":            "ok",
		"hosted_classifier": classifierHealthy.Load(),
		"gemini":            geminiHealthy.Load(),
	}
	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("[Main] Failed to encode response", slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func getAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":8080"
}
