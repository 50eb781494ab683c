package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"timeclock/models"
)

type rateService struct {
	uowFactory UnitOfWorkFactory
	roles      RoleProvider
}

// NewRateService creates a new rate service
func NewRateService(uowFactory UnitOfWorkFactory, roles RoleProvider) RateService {
	return &rateService{
		uowFactory: uowFactory,
		roles:      roles,
	}
}

// HourlyRate sums the configured rates over the member's deduplicated role
// set. A failed role lookup is treated as an empty role set, so the member
// accrues at rate zero rather than blocking the operation.
func (s *rateService) HourlyRate(ctx context.Context, guildID, memberID int64) (models.Amount, error) {
	roleIDs, err := s.roles.MemberRoles(ctx, guildID, memberID)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"guildID":  guildID,
			"memberID": memberID,
		}).Warn("Role lookup failed, using rate 0")
		return models.ZeroAmount(), nil
	}

	seen := make(map[int64]bool, len(roleIDs))
	unique := roleIDs[:0]
	for _, id := range roleIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return models.ZeroAmount(), nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.ZeroAmount(), fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	rates, err := uow.RoleRateRepository().RatesForRoles(ctx, guildID, unique)
	if err != nil {
		return models.ZeroAmount(), fmt.Errorf("failed to look up role rates: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return models.ZeroAmount(), fmt.Errorf("failed to commit transaction: %w", err)
	}

	total := models.ZeroAmount()
	for _, rate := range rates {
		total = total.Add(rate)
	}
	return total, nil
}

func (s *rateService) SetRoleRate(ctx context.Context, guildID, roleID int64, rate models.Amount) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	err := uow.RoleRateRepository().Upsert(ctx, &models.RoleRate{
		GuildID:    guildID,
		RoleID:     roleID,
		HourlyRate: rate,
	})
	if err != nil {
		return fmt.Errorf("failed to store role rate: %w", err)
	}

	return uow.Commit()
}

func (s *rateService) ConfiguredRates(ctx context.Context, guildID int64) ([]*models.RoleRate, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	rates, err := uow.RoleRateRepository().ListConfigured(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list role rates: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return rates, nil
}
