package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saarthi-labs/saarthi/config"
	"github.com/saarthi-labs/saarthi/internal/clients"
	"github.com/saarthi-labs/saarthi/internal/clients/kafka_client"
	"github.com/saarthi-labs/saarthi/internal/consumers"
	"github.com/saarthi-labs/saarthi/internal/db"
	"github.com/saarthi-labs/saarthi/internal/llm"
	"github.com/saarthi-labs/saarthi/internal/logging"
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

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		slog.Warn("[Main] Received shutdown signal", slog.String("signal", sig.String()))
		cancel()
	}()

	clients.InitValkey()
	defer clients.CloseValkey()

	if err := db.InitDB(); err != nil {
		slog.Error("[Main] Journal worker cannot run without the message store",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.CloseDB()

	kafkaCfg := kafka_client.GetKafkaConfig()

	if err := initUntilReady(ctx, func() error { return kafka_client.InitKafkaProducer(kafkaCfg) }); err != nil {
		slog.Warn("[Main] Shutting down before Kafka became available")
		return
	}
	defer kafka_client.CloseKafkaProducer()

	consumer, err := kafka_client.NewKafkaConsumer(kafkaCfg)
	if err != nil {
		slog.Error("[Main] Failed to create consumer",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer consumer.Close()

	chain := buildChain(cfg)

	consumers.StartJournalConsumer(ctx, consumer, chain)
}

// initUntilReady retries init every 5s until it succeeds or the worker is
// asked to shut down. A broker outage must not make SIGTERM hang.
func initUntilReady(ctx context.Context, init func() error) error {
	for {
		err := init()
		if err == nil {
			return nil
		}

		slog.Warn("Kafka init failed, retrying...", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
}

// buildChain mirrors the server's tier order; the worker simply never adds
// the static tier's emotions to a journal, so a full outage skips the day.
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
