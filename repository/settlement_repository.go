package repository

import (
	"context"
	"fmt"

	"timeclock/database"
	"timeclock/models"
)

// SettlementRepository implements the service.SettlementRepository interface
type SettlementRepository struct {
	q queryable
}

// NewSettlementRepository creates a new settlement repository
func NewSettlementRepository(db *database.DB) *SettlementRepository {
	return &SettlementRepository{q: db.Pool}
}

// newSettlementRepositoryWithTx creates a new settlement repository with a transaction
func newSettlementRepositoryWithTx(tx queryable) *SettlementRepository {
	return &SettlementRepository{q: tx}
}

// Record inserts a confirmed settlement. The unique constraint on
// settlement_id rejects double-recording the same transfer.
func (r *SettlementRepository) Record(ctx context.Context, record *models.SettlementRecord) error {
	query := `
		INSERT INTO settlements (member_id, guild_id, amount, settlement_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		record.MemberID,
		record.GuildID,
		record.Amount,
		record.SettlementID,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record settlement %s for member %d: %w", record.SettlementID, record.MemberID, err)
	}
	return nil
}
