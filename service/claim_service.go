package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"timeclock/events"
	"timeclock/models"
)

type claimService struct {
	uowFactory UnitOfWorkFactory
	payments   PaymentClient
	locks      *MemberLocks
}

// NewClaimService creates a new claim service
func NewClaimService(uowFactory UnitOfWorkFactory, payments PaymentClient, locks *MemberLocks) ClaimService {
	return &claimService{
		uowFactory: uowFactory,
		payments:   payments,
		locks:      locks,
	}
}

// Claim settles the account's pending coins through the payment service.
// The ledger is only mutated after a confirmed success; any payment failure
// leaves the account untouched and claimable again. The member lock is
// released for the external call so a slow payment service cannot stall the
// member's other operations.
func (s *claimService) Claim(ctx context.Context, memberID, guildID int64) (*models.ClaimResult, error) {
	pending, cardCode, err := s.snapshotClaim(ctx, memberID, guildID)
	if err != nil {
		return nil, err
	}

	settlementID, synthesized, err := s.payments.Transfer(ctx, cardCode, memberID, pending)
	if err != nil {
		return nil, err
	}
	if synthesized {
		log.WithFields(log.Fields{
			"memberID":     memberID,
			"guildID":      guildID,
			"settlementID": settlementID,
		}).Warn("Payment service confirmed transfer without a transaction id, recorded synthesized id")
	}

	if err := s.commitClaim(ctx, memberID, guildID, pending, settlementID); err != nil {
		// The transfer went through but the ledger write failed. Surface
		// loudly so the books can be corrected by hand.
		log.WithError(err).WithFields(log.Fields{
			"memberID":     memberID,
			"guildID":      guildID,
			"amount":       pending.String(),
			"settlementID": settlementID,
		}).Error("Settlement confirmed but ledger commit failed")
		return nil, err
	}

	return &models.ClaimResult{
		Amount:       pending,
		SettlementID: settlementID,
		Synthesized:  synthesized,
	}, nil
}

// snapshotClaim reads the pending balance and payment destination under the
// member lock. A zero balance or missing coin card fails before any external
// call is made.
func (s *claimService) snapshotClaim(ctx context.Context, memberID, guildID int64) (models.Amount, string, error) {
	unlock := s.locks.Lock(memberID)
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.ZeroAmount(), "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetOrCreate(ctx, memberID, guildID)
	if err != nil {
		return models.ZeroAmount(), "", fmt.Errorf("failed to get account: %w", err)
	}
	if !account.PendingCoins.IsPositive() {
		return models.ZeroAmount(), "", ErrNothingToClaim
	}

	cfg, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return models.ZeroAmount(), "", fmt.Errorf("failed to get guild config: %w", err)
	}
	if cfg.CoinCard == nil || *cfg.CoinCard == "" {
		return models.ZeroAmount(), "", ErrNoPaymentDestination
	}

	if err := uow.Commit(); err != nil {
		return models.ZeroAmount(), "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return account.PendingCoins, *cfg.CoinCard, nil
}

// commitClaim applies the confirmed settlement: zeroes the claimed balance,
// credits lifetime received, stamps unsettled history, and records the
// settlement.
func (s *claimService) commitClaim(ctx context.Context, memberID, guildID int64, amount models.Amount, settlementID string) error {
	unlock := s.locks.Lock(memberID)
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetOrCreate(ctx, memberID, guildID)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	account.CurrentSeconds = 0
	account.PendingCoins = models.ZeroAmount()
	account.TotalReceived = account.TotalReceived.Add(amount)
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	global, err := uow.GlobalAccountRepository().GetOrCreate(ctx, memberID)
	if err != nil {
		return fmt.Errorf("failed to get global account: %w", err)
	}
	global.TotalPending = global.TotalPending.SubClamped(amount)
	global.TotalReceived = global.TotalReceived.Add(amount)
	if err := uow.GlobalAccountRepository().Update(ctx, global); err != nil {
		return fmt.Errorf("failed to update global account: %w", err)
	}

	stamped, err := uow.HistoryRepository().BackfillSettlement(ctx, memberID, guildID, settlementID)
	if err != nil {
		return fmt.Errorf("failed to stamp history: %w", err)
	}
	log.WithFields(log.Fields{
		"memberID":     memberID,
		"guildID":      guildID,
		"settlementID": settlementID,
		"stamped":      stamped,
	}).Debug("Stamped settlement onto history")

	if err := uow.SettlementRepository().Record(ctx, &models.SettlementRecord{
		MemberID:     memberID,
		GuildID:      guildID,
		Amount:       amount,
		SettlementID: settlementID,
	}); err != nil {
		return fmt.Errorf("failed to record settlement: %w", err)
	}

	uow.EventBus().Publish(events.SettlementAppliedEvent{
		MemberID:     memberID,
		GuildID:      guildID,
		Amount:       amount,
		SettlementID: settlementID,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
