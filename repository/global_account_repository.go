package repository

import (
	"context"
	"fmt"

	"timeclock/database"
	"timeclock/models"
)

// GlobalAccountRepository implements the service.GlobalAccountRepository interface
type GlobalAccountRepository struct {
	q queryable
}

// NewGlobalAccountRepository creates a new global account repository
func NewGlobalAccountRepository(db *database.DB) *GlobalAccountRepository {
	return &GlobalAccountRepository{q: db.Pool}
}

// newGlobalAccountRepositoryWithTx creates a new global account repository with a transaction
func newGlobalAccountRepositoryWithTx(tx queryable) *GlobalAccountRepository {
	return &GlobalAccountRepository{q: tx}
}

// GetOrCreate retrieves the member's aggregate row, inserting zeros on first access
func (r *GlobalAccountRepository) GetOrCreate(ctx context.Context, memberID int64) (*models.GlobalAccount, error) {
	query := `
		INSERT INTO global_accounts (member_id)
		VALUES ($1)
		ON CONFLICT (member_id) DO UPDATE SET member_id = EXCLUDED.member_id
		RETURNING member_id, total_seconds, total_received, total_pending
	`

	var account models.GlobalAccount
	err := r.q.QueryRow(ctx, query, memberID).Scan(
		&account.MemberID,
		&account.TotalSeconds,
		&account.TotalReceived,
		&account.TotalPending,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create global account for member %d: %w", memberID, err)
	}
	return &account, nil
}

// Update writes the aggregate's mutable fields
func (r *GlobalAccountRepository) Update(ctx context.Context, account *models.GlobalAccount) error {
	query := `
		UPDATE global_accounts
		SET total_seconds = $2, total_received = $3, total_pending = $4
		WHERE member_id = $1
	`

	tag, err := r.q.Exec(ctx, query,
		account.MemberID,
		account.TotalSeconds,
		account.TotalReceived,
		account.TotalPending,
	)
	if err != nil {
		return fmt.Errorf("failed to update global account for member %d: %w", account.MemberID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("global account for member %d not found", account.MemberID)
	}
	return nil
}
