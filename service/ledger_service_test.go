package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"timeclock/events"
	"timeclock/models"
)

func amount(t *testing.T, s string) models.Amount {
	t.Helper()
	a, err := models.NewAmountFromString(s)
	assert.NoError(t, err)
	return a
}

func TestLedgerService_AddTime_AccruesGuildAndGlobal(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockGlobalRepo := new(MockGlobalAccountRepository)
	mockRates := new(MockRateService)
	published := &RecordingPublisher{}

	mockUoW.SetRepositories(mockAccountRepo, mockGlobalRepo, nil, nil, nil, nil, nil)
	mockUoW.SetEventBus(published)

	svc := NewLedgerService(mockFactory, mockRates, NewMemberLocks())

	account := &models.Account{MemberID: 1, GuildID: 10}
	global := &models.GlobalAccount{MemberID: 1}

	mockRates.On("HourlyRate", ctx, int64(10), int64(1)).Return(amount(t, "10"), nil)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetOrCreate", ctx, int64(1), int64(10)).Return(account, nil)
	mockAccountRepo.On("Update", ctx, account).Return(nil)
	mockGlobalRepo.On("GetOrCreate", ctx, int64(1)).Return(global, nil)
	mockGlobalRepo.On("Update", ctx, global).Return(nil)

	adj, err := svc.AddTime(ctx, 1, 10, 3600)

	assert.NoError(t, err)
	assert.Equal(t, int64(3600), adj.Seconds)
	assert.Equal(t, "10", adj.Coins.String())
	assert.False(t, adj.Removed)

	assert.Equal(t, int64(3600), account.TotalSeconds)
	assert.Equal(t, int64(3600), account.CurrentSeconds)
	assert.Equal(t, "10", account.PendingCoins.String())
	assert.Equal(t, int64(3600), global.TotalSeconds)
	assert.Equal(t, "10", global.TotalPending.String())

	assert.Len(t, published.Events, 1)
	event := published.Events[0].(events.TimeAdjustedEvent)
	assert.Equal(t, int64(3600), event.DeltaSeconds)
	assert.False(t, event.CoinsRemoved)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
	mockGlobalRepo.AssertExpectations(t)
}

func TestLedgerService_RemoveTime_ClampsToHeldTime(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockGlobalRepo := new(MockGlobalAccountRepository)
	mockRates := new(MockRateService)

	mockUoW.SetRepositories(mockAccountRepo, mockGlobalRepo, nil, nil, nil, nil, nil)

	svc := NewLedgerService(mockFactory, mockRates, NewMemberLocks())

	// Only one hour held; the debit asks for two.
	account := &models.Account{
		MemberID:       1,
		GuildID:        10,
		TotalSeconds:   3600,
		CurrentSeconds: 3600,
		PendingCoins:   amount(t, "10"),
	}
	global := &models.GlobalAccount{MemberID: 1, TotalSeconds: 3600, TotalPending: amount(t, "10")}

	mockRates.On("HourlyRate", ctx, int64(10), int64(1)).Return(amount(t, "10"), nil)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetOrCreate", ctx, int64(1), int64(10)).Return(account, nil)
	mockAccountRepo.On("Update", ctx, account).Return(nil)
	mockGlobalRepo.On("GetOrCreate", ctx, int64(1)).Return(global, nil)
	mockGlobalRepo.On("Update", ctx, global).Return(nil)

	adj, err := svc.RemoveTime(ctx, 1, 10, 7200)

	assert.NoError(t, err)
	assert.Equal(t, int64(3600), adj.Seconds)
	assert.Equal(t, "10", adj.Coins.String())
	assert.True(t, adj.Removed)

	assert.Equal(t, int64(0), account.CurrentSeconds)
	assert.Equal(t, int64(0), account.TotalSeconds)
	assert.True(t, account.PendingCoins.IsZero())
	assert.Equal(t, int64(0), global.TotalSeconds)
	assert.True(t, global.TotalPending.IsZero())
}

func TestLedgerService_SetTime_NegativeDeltaDebitsCoinsOnly(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockGlobalRepo := new(MockGlobalAccountRepository)
	mockRates := new(MockRateService)

	mockUoW.SetRepositories(mockAccountRepo, mockGlobalRepo, nil, nil, nil, nil, nil)

	svc := NewLedgerService(mockFactory, mockRates, NewMemberLocks())

	account := &models.Account{
		MemberID:       1,
		GuildID:        10,
		TotalSeconds:   7200,
		CurrentSeconds: 7200,
		PendingCoins:   amount(t, "20"),
	}
	global := &models.GlobalAccount{MemberID: 1, TotalSeconds: 7200, TotalPending: amount(t, "20")}

	mockRates.On("HourlyRate", ctx, int64(10), int64(1)).Return(amount(t, "10"), nil)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetOrCreate", ctx, int64(1), int64(10)).Return(account, nil)
	mockAccountRepo.On("Update", ctx, account).Return(nil)
	mockGlobalRepo.On("GetOrCreate", ctx, int64(1)).Return(global, nil)
	mockGlobalRepo.On("Update", ctx, global).Return(nil)

	adj, err := svc.SetTime(ctx, 1, 10, 3600)

	assert.NoError(t, err)
	assert.Equal(t, int64(3600), adj.Seconds)
	assert.True(t, adj.Removed)

	assert.Equal(t, int64(3600), account.CurrentSeconds)
	// Lifetime time never shrinks from a downward correction.
	assert.Equal(t, int64(7200), account.TotalSeconds)
	assert.Equal(t, "10", account.PendingCoins.String())
	assert.Equal(t, int64(7200), global.TotalSeconds)
	assert.Equal(t, "10", global.TotalPending.String())
}

func TestLedgerService_Clear_ReturnsDroppedCoins(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockGlobalRepo := new(MockGlobalAccountRepository)
	published := &RecordingPublisher{}

	mockUoW.SetRepositories(mockAccountRepo, mockGlobalRepo, nil, nil, nil, nil, nil)
	mockUoW.SetEventBus(published)

	svc := NewLedgerService(mockFactory, new(MockRateService), NewMemberLocks())

	account := &models.Account{
		MemberID:       1,
		GuildID:        10,
		CurrentSeconds: 1800,
		PendingCoins:   amount(t, "5.5"),
	}
	// Global pending is lower than the guild's; the mirror must clamp at
	// zero instead of going negative.
	global := &models.GlobalAccount{MemberID: 1, TotalPending: amount(t, "3")}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetOrCreate", ctx, int64(1), int64(10)).Return(account, nil)
	mockAccountRepo.On("Update", ctx, account).Return(nil)
	mockGlobalRepo.On("GetOrCreate", ctx, int64(1)).Return(global, nil)
	mockGlobalRepo.On("Update", ctx, global).Return(nil)

	cleared, err := svc.Clear(ctx, 1, 10, 99, "admin")

	assert.NoError(t, err)
	assert.Equal(t, "5.5", cleared.String())
	assert.Equal(t, int64(0), account.CurrentSeconds)
	assert.True(t, account.PendingCoins.IsZero())
	assert.True(t, global.TotalPending.IsZero())

	assert.Len(t, published.Events, 1)
	event := published.Events[0].(events.AccountClearedEvent)
	assert.Equal(t, "5.5", event.ClearedCoins.String())
	assert.Equal(t, "admin", event.ClearedByName)
}

func TestLedgerService_ReconcileGlobal_RecomputesFromAccounts(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockGlobalRepo := new(MockGlobalAccountRepository)

	mockUoW.SetRepositories(mockAccountRepo, mockGlobalRepo, nil, nil, nil, nil, nil)

	svc := NewLedgerService(mockFactory, new(MockRateService), NewMemberLocks())

	accounts := []*models.Account{
		{MemberID: 1, GuildID: 10, TotalSeconds: 100, PendingCoins: amount(t, "1.5"), TotalReceived: amount(t, "2")},
		{MemberID: 1, GuildID: 20, TotalSeconds: 200, PendingCoins: amount(t, "0.5"), TotalReceived: amount(t, "3")},
	}
	// Drifted aggregate that the reconcile should overwrite.
	global := &models.GlobalAccount{MemberID: 1, TotalSeconds: 999, TotalPending: amount(t, "42")}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("ListByMember", ctx, int64(1)).Return(accounts, nil)
	mockGlobalRepo.On("GetOrCreate", ctx, int64(1)).Return(global, nil)
	mockGlobalRepo.On("Update", ctx, global).Return(nil)

	got, err := svc.ReconcileGlobal(ctx, 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(300), got.TotalSeconds)
	assert.Equal(t, "2", got.TotalPending.String())
	assert.Equal(t, "5", got.TotalReceived.String())
}

func TestLedgerService_AddTime_RejectsNegativeSeconds(t *testing.T) {
	svc := NewLedgerService(new(MockUnitOfWorkFactory), new(MockRateService), NewMemberLocks())

	_, err := svc.AddTime(context.Background(), 1, 10, -1)
	assert.ErrorIs(t, err, ErrInvalidTimeLiteral)
}

func TestLedgerService_TopByCurrentSeconds(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, nil, nil, nil, nil)

	svc := NewLedgerService(mockFactory, new(MockRateService), NewMemberLocks())

	top := []*models.Account{
		{MemberID: 2, CurrentSeconds: 500},
		{MemberID: 1, CurrentSeconds: 100},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("ListTopByCurrentSeconds", ctx, 10).Return(top, nil)

	got, err := svc.TopByCurrentSeconds(ctx, 10)

	assert.NoError(t, err)
	assert.Equal(t, top, got)
	mockAccountRepo.AssertCalled(t, "ListTopByCurrentSeconds", ctx, mock.Anything)
}
