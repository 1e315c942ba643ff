package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saarthi-labs/saarthi/internal/models"
)

// UpsertJournalEntry writes the generated journal for a session-day,
// replacing any earlier version. Kafka redelivery can regenerate an entry;
// last write wins and the content is equivalent either way.
func UpsertJournalEntry(ctx context.Context, entry models.JournalEntry) error {
	if DB == nil {
		return fmt.Errorf("[DB] database not initialized")
	}

	_, err := DB.Exec(ctx, `
		INSERT INTO journal_entries (session_id, entry_date, content, dominant_emotion, model, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (session_id, entry_date)
		DO UPDATE SET content = EXCLUDED.content,
		              dominant_emotion = EXCLUDED.dominant_emotion,
		              model = EXCLUDED.model,
		              updated_at = NOW()`,
		entry.SessionID, entry.Date, entry.Content, entry.Emotion, entry.Model)
	if err != nil {
		return fmt.Errorf("[DB] Failed to upsert journal entry: %w", err)
	}

	slog.Info("[DB] Journal entry stored",
		slog.String("session_id", entry.SessionID),
		slog.String("date", entry.Date))
	return nil
}

// GetJournalEntry fetches the stored journal for a session-day, if any.
func GetJournalEntry(ctx context.Context, sessionID, date string) (*models.JournalEntry, error) {
	if DB == nil {
		return nil, fmt.Errorf("[DB] database not initialized")
	}

	var entry models.JournalEntry
	err := DB.QueryRow(ctx, `
		SELECT session_id, entry_date, content, dominant_emotion, model
		FROM journal_entries
		WHERE session_id = $1 AND entry_date = $2`,
		sessionID, date).Scan(&entry.SessionID, &entry.Date, &entry.Content, &entry.Emotion, &entry.Model)
	if err != nil {
		return nil, fmt.Errorf("[DB] Failed to fetch journal entry: %w", err)
	}

	return &entry, nil
}
