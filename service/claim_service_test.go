package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"timeclock/events"
	"timeclock/models"
)

func cardRef(s string) *string { return &s }

func TestClaimService_Claim_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockGlobalRepo := new(MockGlobalAccountRepository)
	mockHistoryRepo := new(MockHistoryRepository)
	mockSettlementRepo := new(MockSettlementRepository)
	mockGuildConfigRepo := new(MockGuildConfigRepository)
	mockPayments := new(MockPaymentClient)
	published := &RecordingPublisher{}

	mockUoW.SetRepositories(mockAccountRepo, mockGlobalRepo, nil, mockHistoryRepo, mockSettlementRepo, mockGuildConfigRepo, nil)
	mockUoW.SetEventBus(published)

	svc := NewClaimService(mockFactory, mockPayments, NewMemberLocks())

	pending, err := models.NewAmountFromString("12.5")
	assert.NoError(t, err)
	account := &models.Account{MemberID: 1, GuildID: 10, CurrentSeconds: 4500, PendingCoins: pending}
	global := &models.GlobalAccount{MemberID: 1, TotalPending: pending}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetOrCreate", ctx, int64(1), int64(10)).Return(account, nil)
	mockGuildConfigRepo.On("GetOrCreate", ctx, int64(10)).Return(&models.GuildConfig{GuildID: 10, CoinCard: cardRef("CARD-1")}, nil)
	mockPayments.On("Transfer", ctx, "CARD-1", int64(1), pending).Return("tx-abc", false, nil)
	mockAccountRepo.On("Update", ctx, account).Return(nil)
	mockGlobalRepo.On("GetOrCreate", ctx, int64(1)).Return(global, nil)
	mockGlobalRepo.On("Update", ctx, global).Return(nil)
	mockHistoryRepo.On("BackfillSettlement", ctx, int64(1), int64(10), "tx-abc").Return(int64(2), nil)
	mockSettlementRepo.On("Record", ctx, mock.AnythingOfType("*models.SettlementRecord")).Return(nil)

	result, err := svc.Claim(ctx, 1, 10)

	assert.NoError(t, err)
	assert.Equal(t, "12.5", result.Amount.String())
	assert.Equal(t, "tx-abc", result.SettlementID)
	assert.False(t, result.Synthesized)

	assert.Equal(t, int64(0), account.CurrentSeconds)
	assert.True(t, account.PendingCoins.IsZero())
	assert.Equal(t, "12.5", account.TotalReceived.String())
	assert.True(t, global.TotalPending.IsZero())
	assert.Equal(t, "12.5", global.TotalReceived.String())

	assert.Len(t, published.Events, 1)
	event := published.Events[0].(events.SettlementAppliedEvent)
	assert.Equal(t, "tx-abc", event.SettlementID)

	mockPayments.AssertExpectations(t)
	mockSettlementRepo.AssertExpectations(t)
}

func TestClaimService_Claim_NothingPending_NoPaymentCall(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockPayments := new(MockPaymentClient)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, nil, nil, new(MockGuildConfigRepository), nil)

	svc := NewClaimService(mockFactory, mockPayments, NewMemberLocks())

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetOrCreate", ctx, int64(1), int64(10)).Return(&models.Account{MemberID: 1, GuildID: 10}, nil)

	_, err := svc.Claim(ctx, 1, 10)

	assert.ErrorIs(t, err, ErrNothingToClaim)
	mockPayments.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestClaimService_Claim_NoCardConfigured(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockGuildConfigRepo := new(MockGuildConfigRepository)
	mockPayments := new(MockPaymentClient)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, nil, nil, mockGuildConfigRepo, nil)

	svc := NewClaimService(mockFactory, mockPayments, NewMemberLocks())

	pending, err := models.NewAmountFromString("1")
	assert.NoError(t, err)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetOrCreate", ctx, int64(1), int64(10)).Return(&models.Account{MemberID: 1, GuildID: 10, PendingCoins: pending}, nil)
	mockGuildConfigRepo.On("GetOrCreate", ctx, int64(10)).Return(&models.GuildConfig{GuildID: 10}, nil)

	_, err = svc.Claim(ctx, 1, 10)

	assert.ErrorIs(t, err, ErrNoPaymentDestination)
	mockPayments.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestClaimService_Claim_PaymentFailureLeavesLedgerUntouched(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockGuildConfigRepo := new(MockGuildConfigRepository)
	mockPayments := new(MockPaymentClient)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, nil, nil, mockGuildConfigRepo, nil)

	svc := NewClaimService(mockFactory, mockPayments, NewMemberLocks())

	pending, err := models.NewAmountFromString("7")
	assert.NoError(t, err)
	account := &models.Account{MemberID: 1, GuildID: 10, CurrentSeconds: 100, PendingCoins: pending}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetOrCreate", ctx, int64(1), int64(10)).Return(account, nil)
	mockGuildConfigRepo.On("GetOrCreate", ctx, int64(10)).Return(&models.GuildConfig{GuildID: 10, CoinCard: cardRef("CARD-1")}, nil)
	mockPayments.On("Transfer", ctx, "CARD-1", int64(1), pending).
		Return("", false, &SettlementError{Reason: SettlementReasonRejected, Status: 402, Message: "insufficient funds"})

	_, err = svc.Claim(ctx, 1, 10)

	var settlement *SettlementError
	assert.ErrorAs(t, err, &settlement)
	assert.Equal(t, SettlementReasonRejected, settlement.Reason)

	// Snapshot state survives: nothing was zeroed or credited.
	assert.Equal(t, int64(100), account.CurrentSeconds)
	assert.Equal(t, "7", account.PendingCoins.String())
	assert.True(t, account.TotalReceived.IsZero())
	mockAccountRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestClaimService_Claim_SynthesizedSettlementID(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockGlobalRepo := new(MockGlobalAccountRepository)
	mockHistoryRepo := new(MockHistoryRepository)
	mockSettlementRepo := new(MockSettlementRepository)
	mockGuildConfigRepo := new(MockGuildConfigRepository)
	mockPayments := new(MockPaymentClient)

	mockUoW.SetRepositories(mockAccountRepo, mockGlobalRepo, nil, mockHistoryRepo, mockSettlementRepo, mockGuildConfigRepo, nil)

	svc := NewClaimService(mockFactory, mockPayments, NewMemberLocks())

	pending, err := models.NewAmountFromString("3")
	assert.NoError(t, err)
	account := &models.Account{MemberID: 1, GuildID: 10, PendingCoins: pending}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetOrCreate", ctx, int64(1), int64(10)).Return(account, nil)
	mockGuildConfigRepo.On("GetOrCreate", ctx, int64(10)).Return(&models.GuildConfig{GuildID: 10, CoinCard: cardRef("CARD-1")}, nil)
	mockPayments.On("Transfer", ctx, "CARD-1", int64(1), pending).Return("tx:generated", true, nil)
	mockAccountRepo.On("Update", ctx, account).Return(nil)
	mockGlobalRepo.On("GetOrCreate", ctx, int64(1)).Return(&models.GlobalAccount{MemberID: 1, TotalPending: pending}, nil)
	mockGlobalRepo.On("Update", ctx, mock.Anything).Return(nil)
	mockHistoryRepo.On("BackfillSettlement", ctx, int64(1), int64(10), "tx:generated").Return(int64(0), nil)
	mockSettlementRepo.On("Record", ctx, mock.Anything).Return(nil)

	result, err := svc.Claim(ctx, 1, 10)

	assert.NoError(t, err)
	assert.True(t, result.Synthesized)
	assert.Equal(t, "tx:generated", result.SettlementID)
}
