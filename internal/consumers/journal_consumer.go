package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/saarthi-labs/saarthi/internal/clients"
	"github.com/saarthi-labs/saarthi/internal/clients/kafka_client"
	"github.com/saarthi-labs/saarthi/internal/db"
	"github.com/saarthi-labs/saarthi/internal/journal"
	"github.com/saarthi-labs/saarthi/internal/llm"
	"github.com/saarthi-labs/saarthi/internal/models"
	"github.com/saarthi-labs/saarthi/internal/prompt"
)

// StartJournalConsumer drains the journal-requests topic: each message asks
// for one session-day's journal entry. Requests are deduplicated in Valkey
// because a crash between generation and commit causes redelivery.
func StartJournalConsumer(ctx context.Context, consumer *kafka.Consumer, chain *llm.Chain) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
	committer := kafka_client.NewCommitHandler(ctx, consumer)
	summarizer := journal.NewSummarizer()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[JournalConsumer] Consumer shutting down...")
			return
		default:
			msg, err := iterator.Next()
			if err != nil {
				slog.Error("[JournalConsumer] Failed to read message",
					slog.String("error", err.Error()))
				continue
			}

			var request models.JournalRequest
			if err := json.Unmarshal(msg.Value, &request); err != nil {
				slog.Error("[JournalConsumer] Failed to deserialize request, skipping",
					slog.String("error", err.Error()))
				commit(committer, msg)
				continue
			}

			if request.RequestID == "" || request.SessionID == "" || request.Date == "" {
				slog.Warn("[JournalConsumer] Incomplete request, skipping",
					slog.String("request_id", request.RequestID))
				commit(committer, msg)
				continue
			}

			if clients.GetValkeyClient().IsJournalProcessed(ctx, request.RequestID) {
				slog.Info("[JournalConsumer] Request already processed, skipping",
					slog.String("request_id", request.RequestID))
				commit(committer, msg)
				continue
			}

			if err := processRequest(ctx, summarizer, chain, request); err != nil {
				slog.Error("[JournalConsumer] Failed to process request, leaving uncommitted",
					slog.String("request_id", request.RequestID),
					slog.String("error", err.Error()))
				continue
			}

			if err := clients.GetValkeyClient().MarkJournalProcessed(ctx, request.RequestID); err != nil {
				slog.Warn("[JournalConsumer] Failed to mark request processed",
					slog.String("request_id", request.RequestID),
					slog.String("error", err.Error()))
			}
			commit(committer, msg)
		}
	}
}

func processRequest(ctx context.Context, summarizer *journal.Summarizer, chain *llm.Chain, request models.JournalRequest) error {
	turns, err := db.GetTurnsForDay(ctx, request.SessionID, request.Date)
	if err != nil {
		return err
	}
	if len(turns) == 0 {
		slog.Info("[JournalConsumer] No turns for day, nothing to journal",
			slog.String("session_id", request.SessionID),
			slog.String("date", request.Date))
		return nil
	}

	data := summarizer.Summarize(request.SessionID, request.Date, turns)
	journalPrompt := prompt.BuildJournalPrompt(data)

	result := chain.Generate(ctx, journalPrompt, data.DominantEmotion)
	if result.IsFallback {
		// A canned chat reply is not a journal; leave the request unmarked
		// so redelivery retries generation.
		return fmt.Errorf("all generation tiers failed for session %s on %s", request.SessionID, request.Date)
	}

	entry := models.JournalEntry{
		SessionID: request.SessionID,
		Date:      request.Date,
		Content:   result.Text,
		Emotion:   data.DominantEmotion,
		Model:     result.Model,
	}
	if err := db.UpsertJournalEntry(ctx, entry); err != nil {
		return err
	}

	if err := kafka_client.PublishJSON(kafka_client.KAFKA_TOPIC_JOURNAL_RESULTS, request.SessionID, entry); err != nil {
		slog.Warn("[JournalConsumer] Failed to publish journal result",
			slog.String("session_id", request.SessionID),
			slog.String("error", err.Error()))
	}

	slog.Info("[JournalConsumer] Journal entry generated",
		slog.String("session_id", request.SessionID),
		slog.String("date", request.Date),
		slog.String("model", result.Model))
	return nil
}

func commit(committer *kafka_client.KafkaCommitHandler, msg *kafka.Message) {
	if err := committer.Commit(msg); err != nil {
		slog.Warn("[JournalConsumer] Failed to commit offset",
			slog.String("error", err.Error()))
	}
}
