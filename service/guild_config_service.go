package service

import (
	"context"
	"fmt"

	"timeclock/models"
)

type guildConfigService struct {
	uowFactory UnitOfWorkFactory
}

// NewGuildConfigService creates a new guild config service
func NewGuildConfigService(uowFactory UnitOfWorkFactory) GuildConfigService {
	return &guildConfigService{uowFactory: uowFactory}
}

func (s *guildConfigService) GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	cfg, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return cfg, nil
}

func (s *guildConfigService) SetCoinCard(ctx context.Context, guildID int64, card string) error {
	return s.write(ctx, func(ctx context.Context, uow UnitOfWork) error {
		return uow.GuildConfigRepository().SetCoinCard(ctx, guildID, card)
	})
}

func (s *guildConfigService) SetLogChannel(ctx context.Context, guildID, channelID int64) error {
	return s.write(ctx, func(ctx context.Context, uow UnitOfWork) error {
		return uow.GuildConfigRepository().SetLogChannel(ctx, guildID, channelID)
	})
}

func (s *guildConfigService) SetPanelChannel(ctx context.Context, guildID, channelID int64) error {
	return s.write(ctx, func(ctx context.Context, uow UnitOfWork) error {
		return uow.GuildConfigRepository().SetPanelChannel(ctx, guildID, channelID)
	})
}

func (s *guildConfigService) AddStaffRole(ctx context.Context, guildID, roleID int64) error {
	return s.write(ctx, func(ctx context.Context, uow UnitOfWork) error {
		return uow.GuildConfigRepository().AddStaffRole(ctx, guildID, roleID)
	})
}

func (s *guildConfigService) RemoveStaffRole(ctx context.Context, guildID, roleID int64) error {
	return s.write(ctx, func(ctx context.Context, uow UnitOfWork) error {
		return uow.GuildConfigRepository().RemoveStaffRole(ctx, guildID, roleID)
	})
}

func (s *guildConfigService) IsStaff(ctx context.Context, guildID int64, roleIDs []int64) (bool, error) {
	if len(roleIDs) == 0 {
		return false, nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	staff, err := uow.GuildConfigRepository().HasStaffRole(ctx, guildID, roleIDs)
	if err != nil {
		return false, fmt.Errorf("failed to check staff roles: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return staff, nil
}

func (s *guildConfigService) write(ctx context.Context, fn func(context.Context, UnitOfWork) error) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(ctx, uow); err != nil {
		return fmt.Errorf("failed to update guild config: %w", err)
	}

	return uow.Commit()
}
