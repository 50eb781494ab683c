package repository

import (
	"context"
	"fmt"

	"timeclock/database"
	"timeclock/models"
)

// RoleRateRepository implements the service.RoleRateRepository interface
type RoleRateRepository struct {
	q queryable
}

// NewRoleRateRepository creates a new role rate repository
func NewRoleRateRepository(db *database.DB) *RoleRateRepository {
	return &RoleRateRepository{q: db.Pool}
}

// newRoleRateRepositoryWithTx creates a new role rate repository with a transaction
func newRoleRateRepositoryWithTx(tx queryable) *RoleRateRepository {
	return &RoleRateRepository{q: tx}
}

// Upsert stores a role's hourly rate
func (r *RoleRateRepository) Upsert(ctx context.Context, rate *models.RoleRate) error {
	query := `
		INSERT INTO role_rates (guild_id, role_id, hourly_rate)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, role_id) DO UPDATE SET hourly_rate = EXCLUDED.hourly_rate
	`
	if _, err := r.q.Exec(ctx, query, rate.GuildID, rate.RoleID, rate.HourlyRate); err != nil {
		return fmt.Errorf("failed to upsert rate for role %d in guild %d: %w", rate.RoleID, rate.GuildID, err)
	}
	return nil
}

// RatesForRoles returns the configured rates for the given roles. Roles
// without a row are simply absent from the map.
func (r *RoleRateRepository) RatesForRoles(ctx context.Context, guildID int64, roleIDs []int64) (map[int64]models.Amount, error) {
	query := `SELECT role_id, hourly_rate FROM role_rates WHERE guild_id = $1 AND role_id = ANY($2)`

	rows, err := r.q.Query(ctx, query, guildID, roleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query role rates for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	rates := make(map[int64]models.Amount)
	for rows.Next() {
		var roleID int64
		var rate models.Amount
		if err := rows.Scan(&roleID, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan role rate: %w", err)
		}
		rates[roleID] = rate
	}
	return rates, rows.Err()
}

// ListConfigured returns roles with a positive rate, highest first
func (r *RoleRateRepository) ListConfigured(ctx context.Context, guildID int64) ([]*models.RoleRate, error) {
	query := `
		SELECT guild_id, role_id, hourly_rate
		FROM role_rates
		WHERE guild_id = $1 AND hourly_rate > 0
		ORDER BY hourly_rate DESC, role_id
	`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list role rates for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var rates []*models.RoleRate
	for rows.Next() {
		var rate models.RoleRate
		if err := rows.Scan(&rate.GuildID, &rate.RoleID, &rate.HourlyRate); err != nil {
			return nil, fmt.Errorf("failed to scan role rate: %w", err)
		}
		rates = append(rates, &rate)
	}
	return rates, rows.Err()
}
