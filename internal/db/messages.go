package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/saarthi-labs/saarthi/internal/models"
)

// SaveMessage persists one conversation turn. History reads during a live
// request come from Valkey; this table is the durable record behind the
// nightly journal.
func SaveMessage(ctx context.Context, sessionID string, turn models.ConversationTurn) error {
	if DB == nil {
		return fmt.Errorf("[DB] database not initialized")
	}

	_, err := DB.Exec(ctx, `
		INSERT INTO messages (session_id, role, message, emotion_detected, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		sessionID, turn.Role, turn.Message, turn.EmotionDetected, turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("[DB] Failed to save message: %w", err)
	}

	return nil
}

// GetTurnsForDay returns every turn for a session on one calendar day,
// oldest first. Timestamps are compared in UTC; the scheduler that requests
// journals uses the same convention.
func GetTurnsForDay(ctx context.Context, sessionID string, date string) ([]models.ConversationTurn, error) {
	if DB == nil {
		return nil, fmt.Errorf("[DB] database not initialized")
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("[DB] Invalid date %q: %w", date, err)
	}
	start := day.UTC()
	end := start.Add(24 * time.Hour)

	rows, err := DB.Query(ctx, `
		SELECT role, message, COALESCE(emotion_detected, ''), created_at
		FROM messages
		WHERE session_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC`,
		sessionID, start, end)
	if err != nil {
		return nil, fmt.Errorf("[DB] Failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []models.ConversationTurn
	for rows.Next() {
		var turn models.ConversationTurn
		if err := rows.Scan(&turn.Role, &turn.Message, &turn.EmotionDetected, &turn.CreatedAt); err != nil {
			slog.Error("[DB] Failed to scan message row",
				slog.String("error", err.Error()))
			return nil, err
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("[DB] Row iteration failed: %w", err)
	}

	slog.Info("[DB] Retrieved turns for day",
		slog.String("session_id", sessionID),
		slog.String("date", date),
		slog.Int("count", len(turns)))
	return turns, nil
}
