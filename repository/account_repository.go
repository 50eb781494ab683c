package repository

import (
	"context"
	"fmt"

	"timeclock/database"
	"timeclock/models"
)

// AccountRepository implements the service.AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

const accountColumns = `member_id, guild_id, total_seconds, current_seconds, pending_coins, total_received, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.MemberID,
		&account.GuildID,
		&account.TotalSeconds,
		&account.CurrentSeconds,
		&account.PendingCoins,
		&account.TotalReceived,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetOrCreate retrieves the account, inserting a zeroed row on first access.
// The no-op conflict update makes the insert return the existing row in a
// single round trip.
func (r *AccountRepository) GetOrCreate(ctx context.Context, memberID, guildID int64) (*models.Account, error) {
	query := `
		INSERT INTO accounts (member_id, guild_id)
		VALUES ($1, $2)
		ON CONFLICT (member_id, guild_id) DO UPDATE SET member_id = EXCLUDED.member_id
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, memberID, guildID))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create account for member %d in guild %d: %w", memberID, guildID, err)
	}
	return account, nil
}

// Update writes the account's mutable fields
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET total_seconds = $3, current_seconds = $4, pending_coins = $5, total_received = $6, updated_at = NOW()
		WHERE member_id = $1 AND guild_id = $2
	`

	tag, err := r.q.Exec(ctx, query,
		account.MemberID,
		account.GuildID,
		account.TotalSeconds,
		account.CurrentSeconds,
		account.PendingCoins,
		account.TotalReceived,
	)
	if err != nil {
		return fmt.Errorf("failed to update account for member %d in guild %d: %w", account.MemberID, account.GuildID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account for member %d in guild %d not found", account.MemberID, account.GuildID)
	}
	return nil
}

// ListByMember returns all of a member's guild accounts
func (r *AccountRepository) ListByMember(ctx context.Context, memberID int64) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE member_id = $1 ORDER BY guild_id`

	rows, err := r.q.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for member %d: %w", memberID, err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// ListTopByCurrentSeconds returns accounts holding unpaid time, most first
func (r *AccountRepository) ListTopByCurrentSeconds(ctx context.Context, limit int) ([]*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE current_seconds > 0
		ORDER BY current_seconds DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}
