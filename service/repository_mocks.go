package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"timeclock/models"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetOrCreate(ctx context.Context, memberID, guildID int64) (*models.Account, error) {
	args := m.Called(ctx, memberID, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) ListByMember(ctx context.Context, memberID int64) ([]*models.Account, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

func (m *MockAccountRepository) ListTopByCurrentSeconds(ctx context.Context, limit int) ([]*models.Account, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

// MockGlobalAccountRepository is a mock implementation of GlobalAccountRepository
type MockGlobalAccountRepository struct {
	mock.Mock
}

func (m *MockGlobalAccountRepository) GetOrCreate(ctx context.Context, memberID int64) (*models.GlobalAccount, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GlobalAccount), args.Error(1)
}

func (m *MockGlobalAccountRepository) Update(ctx context.Context, account *models.GlobalAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockSessionRepository is a mock implementation of SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) GetByMember(ctx context.Context, memberID int64) (*models.OpenSession, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OpenSession), args.Error(1)
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.OpenSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, memberID int64) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

func (m *MockSessionRepository) ListStale(ctx context.Context, cutoff time.Time) ([]*models.OpenSession, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OpenSession), args.Error(1)
}

// MockHistoryRepository is a mock implementation of HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, record *models.HistoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistoryRepository) BackfillSettlement(ctx context.Context, memberID, guildID int64, settlementID string) (int64, error) {
	args := m.Called(ctx, memberID, guildID, settlementID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSettlementRepository is a mock implementation of SettlementRepository
type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) Record(ctx context.Context, record *models.SettlementRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockGuildConfigRepository is a mock implementation of GuildConfigRepository
type MockGuildConfigRepository struct {
	mock.Mock
}

func (m *MockGuildConfigRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigRepository) SetCoinCard(ctx context.Context, guildID int64, card string) error {
	args := m.Called(ctx, guildID, card)
	return args.Error(0)
}

func (m *MockGuildConfigRepository) SetLogChannel(ctx context.Context, guildID, channelID int64) error {
	args := m.Called(ctx, guildID, channelID)
	return args.Error(0)
}

func (m *MockGuildConfigRepository) SetPanelChannel(ctx context.Context, guildID, channelID int64) error {
	args := m.Called(ctx, guildID, channelID)
	return args.Error(0)
}

func (m *MockGuildConfigRepository) AddStaffRole(ctx context.Context, guildID, roleID int64) error {
	args := m.Called(ctx, guildID, roleID)
	return args.Error(0)
}

func (m *MockGuildConfigRepository) RemoveStaffRole(ctx context.Context, guildID, roleID int64) error {
	args := m.Called(ctx, guildID, roleID)
	return args.Error(0)
}

func (m *MockGuildConfigRepository) HasStaffRole(ctx context.Context, guildID int64, roleIDs []int64) (bool, error) {
	args := m.Called(ctx, guildID, roleIDs)
	return args.Bool(0), args.Error(1)
}

// MockRoleRateRepository is a mock implementation of RoleRateRepository
type MockRoleRateRepository struct {
	mock.Mock
}

func (m *MockRoleRateRepository) Upsert(ctx context.Context, rate *models.RoleRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockRoleRateRepository) RatesForRoles(ctx context.Context, guildID int64, roleIDs []int64) (map[int64]models.Amount, error) {
	args := m.Called(ctx, guildID, roleIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]models.Amount), args.Error(1)
}

func (m *MockRoleRateRepository) ListConfigured(ctx context.Context, guildID int64) ([]*models.RoleRate, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RoleRate), args.Error(1)
}

// MockRoleProvider is a mock implementation of RoleProvider
type MockRoleProvider struct {
	mock.Mock
}

func (m *MockRoleProvider) MemberRoles(ctx context.Context, guildID, memberID int64) ([]int64, error) {
	args := m.Called(ctx, guildID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockPaymentClient is a mock implementation of PaymentClient
type MockPaymentClient struct {
	mock.Mock
}

func (m *MockPaymentClient) Transfer(ctx context.Context, cardCode string, toMemberID int64, amount models.Amount) (string, bool, error) {
	args := m.Called(ctx, cardCode, toMemberID, amount)
	return args.String(0), args.Bool(1), args.Error(2)
}

// MockRateService is a mock implementation of RateService
type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) HourlyRate(ctx context.Context, guildID, memberID int64) (models.Amount, error) {
	args := m.Called(ctx, guildID, memberID)
	return args.Get(0).(models.Amount), args.Error(1)
}

func (m *MockRateService) SetRoleRate(ctx context.Context, guildID, roleID int64, rate models.Amount) error {
	args := m.Called(ctx, guildID, roleID, rate)
	return args.Error(0)
}

func (m *MockRateService) ConfiguredRates(ctx context.Context, guildID int64) ([]*models.RoleRate, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RoleRate), args.Error(1)
}

// MockSessionService is a mock implementation of SessionService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Open(ctx context.Context, memberID, guildID int64) (*models.OpenSession, error) {
	args := m.Called(ctx, memberID, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OpenSession), args.Error(1)
}

func (m *MockSessionService) Close(ctx context.Context, memberID int64) (*models.ClosedSession, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClosedSession), args.Error(1)
}

func (m *MockSessionService) ForceClose(ctx context.Context, memberID int64) (*models.ClosedSession, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClosedSession), args.Error(1)
}
