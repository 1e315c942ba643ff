package history

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/saarthi-labs/saarthi/internal/clients"
	"github.com/saarthi-labs/saarthi/internal/models"
)

// Store keeps per-session conversation history in Valkey. Turns are stored
// newest-first in a capped list; readers get them back oldest-first so
// prompts read top to bottom chronologically.
type Store struct {
	valkey *clients.ValkeyClient
}

func NewStore(vc *clients.ValkeyClient) *Store {
	return &Store{valkey: vc}
}

// AppendTurn records one turn for the session. Failures are logged, not
// returned: losing a history entry must never fail the request itself.
func (s *Store) AppendTurn(ctx context.Context, sessionID string, turn models.ConversationTurn) {
	payload, err := json.Marshal(turn)
	if err != nil {
		slog.Error("[HistoryStore] Failed to marshal turn",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()))
		return
	}

	if err := s.valkey.AppendSessionTurn(ctx, sessionID, string(payload)); err != nil {
		slog.Warn("[HistoryStore] Failed to append turn",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()))
	}
}

// RecentTurns returns up to n turns for the session, oldest first. Entries
// that fail to decode are skipped rather than aborting the whole read.
func (s *Store) RecentTurns(ctx context.Context, sessionID string, n int) ([]models.ConversationTurn, error) {
	raw, err := s.valkey.RecentSessionTurns(ctx, sessionID, n)
	if err != nil {
		return nil, err
	}

	turns := make([]models.ConversationTurn, 0, len(raw))
	// LRANGE returns newest first; walk backwards to restore chronology.
	for i := len(raw) - 1; i >= 0; i-- {
		var turn models.ConversationTurn
		if err := json.Unmarshal([]byte(raw[i]), &turn); err != nil {
			slog.Warn("[HistoryStore] Skipping undecodable turn",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()))
			continue
		}
		turns = append(turns, turn)
	}

	return turns, nil
}
