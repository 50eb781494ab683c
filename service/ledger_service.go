package service

import (
	"context"
	"fmt"

	"timeclock/events"
	"timeclock/models"
)

type ledgerService struct {
	uowFactory UnitOfWorkFactory
	rates      RateService
	locks      *MemberLocks
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory, rates RateService, locks *MemberLocks) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
		rates:      rates,
		locks:      locks,
	}
}

// applyAccrual credits seconds and coins to the guild account and mirrors the
// delta onto the member's global aggregate. Caller holds the member lock and
// the transaction.
func applyAccrual(ctx context.Context, uow UnitOfWork, memberID, guildID, seconds int64, coins models.Amount) (*models.Account, error) {
	account, err := uow.AccountRepository().GetOrCreate(ctx, memberID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	account.TotalSeconds += seconds
	account.CurrentSeconds += seconds
	account.PendingCoins = account.PendingCoins.Add(coins)
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	global, err := uow.GlobalAccountRepository().GetOrCreate(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get global account: %w", err)
	}
	global.TotalSeconds += seconds
	global.TotalPending = global.TotalPending.Add(coins)
	if err := uow.GlobalAccountRepository().Update(ctx, global); err != nil {
		return nil, fmt.Errorf("failed to update global account: %w", err)
	}

	return account, nil
}

func (s *ledgerService) AddTime(ctx context.Context, memberID, guildID, seconds int64) (*models.TimeAdjustment, error) {
	if seconds < 0 {
		return nil, ErrInvalidTimeLiteral
	}

	rate, err := s.rates.HourlyRate(ctx, guildID, memberID)
	if err != nil {
		return nil, err
	}
	coins := models.AmountFromRate(rate, seconds)

	unlock := s.locks.Lock(memberID)
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := applyAccrual(ctx, uow, memberID, guildID, seconds, coins); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.TimeAdjustedEvent{
		MemberID:     memberID,
		GuildID:      guildID,
		DeltaSeconds: seconds,
		Coins:        coins,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TimeAdjustment{Seconds: seconds, Coins: coins}, nil
}

func (s *ledgerService) RemoveTime(ctx context.Context, memberID, guildID, seconds int64) (*models.TimeAdjustment, error) {
	if seconds < 0 {
		return nil, ErrInvalidTimeLiteral
	}

	rate, err := s.rates.HourlyRate(ctx, guildID, memberID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(memberID)
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetOrCreate(ctx, memberID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	// Never debit more time than the account currently holds, and price the
	// debit at what was actually removed.
	removed := seconds
	if removed > account.CurrentSeconds {
		removed = account.CurrentSeconds
	}
	coins := models.AmountFromRate(rate, removed)

	account.CurrentSeconds -= removed
	account.TotalSeconds -= removed
	if account.TotalSeconds < 0 {
		account.TotalSeconds = 0
	}
	account.PendingCoins = account.PendingCoins.SubClamped(coins)
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	global, err := uow.GlobalAccountRepository().GetOrCreate(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get global account: %w", err)
	}
	global.TotalSeconds -= removed
	if global.TotalSeconds < 0 {
		global.TotalSeconds = 0
	}
	global.TotalPending = global.TotalPending.SubClamped(coins)
	if err := uow.GlobalAccountRepository().Update(ctx, global); err != nil {
		return nil, fmt.Errorf("failed to update global account: %w", err)
	}

	uow.EventBus().Publish(events.TimeAdjustedEvent{
		MemberID:     memberID,
		GuildID:      guildID,
		DeltaSeconds: -removed,
		Coins:        coins,
		CoinsRemoved: true,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TimeAdjustment{Seconds: removed, Coins: coins, Removed: true}, nil
}

func (s *ledgerService) SetTime(ctx context.Context, memberID, guildID, seconds int64) (*models.TimeAdjustment, error) {
	if seconds < 0 {
		return nil, ErrInvalidTimeLiteral
	}

	rate, err := s.rates.HourlyRate(ctx, guildID, memberID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(memberID)
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetOrCreate(ctx, memberID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	delta := seconds - account.CurrentSeconds
	magnitude := delta
	if magnitude < 0 {
		magnitude = -magnitude
	}
	coins := models.AmountFromRate(rate, magnitude)

	account.CurrentSeconds = seconds
	// Lifetime time only grows on a positive correction; shrinking current
	// time does not rewrite history.
	if delta > 0 {
		account.TotalSeconds += delta
	}
	if delta >= 0 {
		account.PendingCoins = account.PendingCoins.Add(coins)
	} else {
		account.PendingCoins = account.PendingCoins.SubClamped(coins)
	}
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	global, err := uow.GlobalAccountRepository().GetOrCreate(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get global account: %w", err)
	}
	if delta > 0 {
		global.TotalSeconds += delta
	}
	if delta >= 0 {
		global.TotalPending = global.TotalPending.Add(coins)
	} else {
		global.TotalPending = global.TotalPending.SubClamped(coins)
	}
	if err := uow.GlobalAccountRepository().Update(ctx, global); err != nil {
		return nil, fmt.Errorf("failed to update global account: %w", err)
	}

	uow.EventBus().Publish(events.TimeAdjustedEvent{
		MemberID:     memberID,
		GuildID:      guildID,
		DeltaSeconds: delta,
		Coins:        coins,
		CoinsRemoved: delta < 0,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TimeAdjustment{Seconds: magnitude, Coins: coins, Removed: delta < 0}, nil
}

func (s *ledgerService) ResetCurrent(ctx context.Context, memberID, guildID int64) error {
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
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	return uow.Commit()
}

func (s *ledgerService) Clear(ctx context.Context, memberID, guildID, clearedByID int64, clearedByName string) (models.Amount, error) {
	unlock := s.locks.Lock(memberID)
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.ZeroAmount(), fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetOrCreate(ctx, memberID, guildID)
	if err != nil {
		return models.ZeroAmount(), fmt.Errorf("failed to get account: %w", err)
	}

	cleared := account.PendingCoins
	account.CurrentSeconds = 0
	account.PendingCoins = models.ZeroAmount()
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return models.ZeroAmount(), fmt.Errorf("failed to update account: %w", err)
	}

	global, err := uow.GlobalAccountRepository().GetOrCreate(ctx, memberID)
	if err != nil {
		return models.ZeroAmount(), fmt.Errorf("failed to get global account: %w", err)
	}
	global.TotalPending = global.TotalPending.SubClamped(cleared)
	if err := uow.GlobalAccountRepository().Update(ctx, global); err != nil {
		return models.ZeroAmount(), fmt.Errorf("failed to update global account: %w", err)
	}

	uow.EventBus().Publish(events.AccountClearedEvent{
		MemberID:      memberID,
		GuildID:       guildID,
		ClearedCoins:  cleared,
		ClearedByID:   clearedByID,
		ClearedByName: clearedByName,
	})

	if err := uow.Commit(); err != nil {
		return models.ZeroAmount(), fmt.Errorf("failed to commit transaction: %w", err)
	}

	return cleared, nil
}

func (s *ledgerService) Snapshot(ctx context.Context, memberID, guildID int64) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetOrCreate(ctx, memberID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return account, nil
}

func (s *ledgerService) GlobalSnapshot(ctx context.Context, memberID int64) (*models.GlobalAccount, []*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	global, err := uow.GlobalAccountRepository().GetOrCreate(ctx, memberID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get global account: %w", err)
	}
	accounts, err := uow.AccountRepository().ListByMember(ctx, memberID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return global, accounts, nil
}

func (s *ledgerService) TopByCurrentSeconds(ctx context.Context, limit int) ([]*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	accounts, err := uow.AccountRepository().ListTopByCurrentSeconds(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top accounts: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return accounts, nil
}

// ReconcileGlobal rebuilds the member's aggregate row from their guild
// accounts. The aggregate is normally maintained by deltas, so this only
// matters after manual database surgery or a historical bug.
func (s *ledgerService) ReconcileGlobal(ctx context.Context, memberID int64) (*models.GlobalAccount, error) {
	unlock := s.locks.Lock(memberID)
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	accounts, err := uow.AccountRepository().ListByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	global, err := uow.GlobalAccountRepository().GetOrCreate(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get global account: %w", err)
	}

	global.TotalSeconds = 0
	global.TotalPending = models.ZeroAmount()
	global.TotalReceived = models.ZeroAmount()
	for _, account := range accounts {
		global.TotalSeconds += account.TotalSeconds
		global.TotalPending = global.TotalPending.Add(account.PendingCoins)
		global.TotalReceived = global.TotalReceived.Add(account.TotalReceived)
	}
	if err := uow.GlobalAccountRepository().Update(ctx, global); err != nil {
		return nil, fmt.Errorf("failed to update global account: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return global, nil
}
