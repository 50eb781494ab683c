package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"timeclock/events"
)

// RecordingPublisher collects published events for test assertions
type RecordingPublisher struct {
	Events []events.Event
}

func (p *RecordingPublisher) Publish(event events.Event) {
	p.Events = append(p.Events, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// return whatever SetRepositories stored rather than going through testify,
// keeping the test setup readable.
type MockUnitOfWork struct {
	mock.Mock

	accountRepo     AccountRepository
	globalRepo      GlobalAccountRepository
	sessionRepo     SessionRepository
	historyRepo     HistoryRepository
	settlementRepo  SettlementRepository
	guildConfigRepo GuildConfigRepository
	roleRateRepo    RoleRateRepository
	eventBus        EventPublisher
}

// SetRepositories stores the repositories returned by the getters. Nil is
// fine for repositories the test never touches.
func (m *MockUnitOfWork) SetRepositories(
	account AccountRepository,
	global GlobalAccountRepository,
	session SessionRepository,
	history HistoryRepository,
	settlement SettlementRepository,
	guildConfig GuildConfigRepository,
	roleRate RoleRateRepository,
) {
	m.accountRepo = account
	m.globalRepo = global
	m.sessionRepo = session
	m.historyRepo = history
	m.settlementRepo = settlement
	m.guildConfigRepo = guildConfig
	m.roleRateRepo = roleRate
}

// SetEventBus stores the publisher returned by EventBus
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository { return m.accountRepo }

func (m *MockUnitOfWork) GlobalAccountRepository() GlobalAccountRepository { return m.globalRepo }

func (m *MockUnitOfWork) SessionRepository() SessionRepository { return m.sessionRepo }

func (m *MockUnitOfWork) HistoryRepository() HistoryRepository { return m.historyRepo }

func (m *MockUnitOfWork) SettlementRepository() SettlementRepository { return m.settlementRepo }

func (m *MockUnitOfWork) GuildConfigRepository() GuildConfigRepository { return m.guildConfigRepo }

func (m *MockUnitOfWork) RoleRateRepository() RoleRateRepository { return m.roleRateRepo }

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		m.eventBus = &RecordingPublisher{}
	}
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
