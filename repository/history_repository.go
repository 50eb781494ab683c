package repository

import (
	"context"
	"fmt"

	"timeclock/database"
	"timeclock/models"
)

// HistoryRepository implements the service.HistoryRepository interface
type HistoryRepository struct {
	q queryable
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *database.DB) *HistoryRepository {
	return &HistoryRepository{q: db.Pool}
}

// newHistoryRepositoryWithTx creates a new history repository with a transaction
func newHistoryRepositoryWithTx(tx queryable) *HistoryRepository {
	return &HistoryRepository{q: tx}
}

// Append inserts a closed-session record
func (r *HistoryRepository) Append(ctx context.Context, record *models.HistoryRecord) error {
	query := `
		INSERT INTO session_history (member_id, guild_id, started_at, ended_at, duration_seconds, coins)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		record.MemberID,
		record.GuildID,
		record.StartedAt,
		record.EndedAt,
		record.DurationSeconds,
		record.Coins,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append history for member %d in guild %d: %w", record.MemberID, record.GuildID, err)
	}
	return nil
}

// BackfillSettlement stamps the settlement id onto the account's unsettled
// records and returns how many were stamped
func (r *HistoryRepository) BackfillSettlement(ctx context.Context, memberID, guildID int64, settlementID string) (int64, error) {
	query := `
		UPDATE session_history
		SET settlement_id = $3
		WHERE member_id = $1 AND guild_id = $2 AND settlement_id IS NULL
	`

	tag, err := r.q.Exec(ctx, query, memberID, guildID, settlementID)
	if err != nil {
		return 0, fmt.Errorf("failed to backfill settlement for member %d in guild %d: %w", memberID, guildID, err)
	}
	return tag.RowsAffected(), nil
}
