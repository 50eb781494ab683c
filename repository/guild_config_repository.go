package repository

import (
	"context"
	"fmt"

	"timeclock/database"
	"timeclock/models"
)

// GuildConfigRepository implements the service.GuildConfigRepository interface
type GuildConfigRepository struct {
	q queryable
}

// NewGuildConfigRepository creates a new guild config repository
func NewGuildConfigRepository(db *database.DB) *GuildConfigRepository {
	return &GuildConfigRepository{q: db.Pool}
}

// newGuildConfigRepositoryWithTx creates a new guild config repository with a transaction
func newGuildConfigRepositoryWithTx(tx queryable) *GuildConfigRepository {
	return &GuildConfigRepository{q: tx}
}

// GetOrCreate retrieves guild settings, inserting an empty row on first access
func (r *GuildConfigRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	query := `
		INSERT INTO guild_configs (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING guild_id, coin_card, log_channel_id, panel_channel_id
	`

	var cfg models.GuildConfig
	err := r.q.QueryRow(ctx, query, guildID).Scan(
		&cfg.GuildID,
		&cfg.CoinCard,
		&cfg.LogChannelID,
		&cfg.PanelChannelID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create guild config for guild %d: %w", guildID, err)
	}
	return &cfg, nil
}

// SetCoinCard stores the guild's payment card reference
func (r *GuildConfigRepository) SetCoinCard(ctx context.Context, guildID int64, card string) error {
	query := `
		INSERT INTO guild_configs (guild_id, coin_card)
		VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET coin_card = EXCLUDED.coin_card
	`
	if _, err := r.q.Exec(ctx, query, guildID, card); err != nil {
		return fmt.Errorf("failed to set coin card for guild %d: %w", guildID, err)
	}
	return nil
}

// SetLogChannel stores the guild's audit channel
func (r *GuildConfigRepository) SetLogChannel(ctx context.Context, guildID, channelID int64) error {
	query := `
		INSERT INTO guild_configs (guild_id, log_channel_id)
		VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET log_channel_id = EXCLUDED.log_channel_id
	`
	if _, err := r.q.Exec(ctx, query, guildID, channelID); err != nil {
		return fmt.Errorf("failed to set log channel for guild %d: %w", guildID, err)
	}
	return nil
}

// SetPanelChannel stores the guild's timeclock panel channel
func (r *GuildConfigRepository) SetPanelChannel(ctx context.Context, guildID, channelID int64) error {
	query := `
		INSERT INTO guild_configs (guild_id, panel_channel_id)
		VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET panel_channel_id = EXCLUDED.panel_channel_id
	`
	if _, err := r.q.Exec(ctx, query, guildID, channelID); err != nil {
		return fmt.Errorf("failed to set panel channel for guild %d: %w", guildID, err)
	}
	return nil
}

// AddStaffRole marks a role as staff
func (r *GuildConfigRepository) AddStaffRole(ctx context.Context, guildID, roleID int64) error {
	query := `
		INSERT INTO staff_roles (guild_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (guild_id, role_id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, query, guildID, roleID); err != nil {
		return fmt.Errorf("failed to add staff role %d for guild %d: %w", roleID, guildID, err)
	}
	return nil
}

// RemoveStaffRole unmarks a role as staff
func (r *GuildConfigRepository) RemoveStaffRole(ctx context.Context, guildID, roleID int64) error {
	query := `DELETE FROM staff_roles WHERE guild_id = $1 AND role_id = $2`
	if _, err := r.q.Exec(ctx, query, guildID, roleID); err != nil {
		return fmt.Errorf("failed to remove staff role %d for guild %d: %w", roleID, guildID, err)
	}
	return nil
}

// HasStaffRole reports whether any of the given roles is staff
func (r *GuildConfigRepository) HasStaffRole(ctx context.Context, guildID int64, roleIDs []int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM staff_roles WHERE guild_id = $1 AND role_id = ANY($2))`

	var staff bool
	if err := r.q.QueryRow(ctx, query, guildID, roleIDs).Scan(&staff); err != nil {
		return false, fmt.Errorf("failed to check staff roles for guild %d: %w", guildID, err)
	}
	return staff, nil
}
