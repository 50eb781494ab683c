package service

import (
	"context"
	"time"

	"timeclock/events"
	"timeclock/models"
)

// AccountRepository defines the interface for guild account data access
type AccountRepository interface {
	// GetOrCreate retrieves the account row, creating it with zeros on first access
	GetOrCreate(ctx context.Context, memberID, guildID int64) (*models.Account, error)

	// Update writes the account's mutable fields
	Update(ctx context.Context, account *models.Account) error

	// ListByMember returns all guild accounts for a member
	ListByMember(ctx context.Context, memberID int64) ([]*models.Account, error)

	// ListTopByCurrentSeconds returns accounts with unpaid time, highest first
	ListTopByCurrentSeconds(ctx context.Context, limit int) ([]*models.Account, error)
}

// GlobalAccountRepository defines the interface for cross-guild aggregate data access
type GlobalAccountRepository interface {
	// GetOrCreate retrieves the aggregate row, creating it with zeros on first access
	GetOrCreate(ctx context.Context, memberID int64) (*models.GlobalAccount, error)

	// Update writes the aggregate's mutable fields
	Update(ctx context.Context, account *models.GlobalAccount) error
}

// SessionRepository defines the interface for open session data access
type SessionRepository interface {
	// GetByMember returns the member's open session, or nil if none exists
	GetByMember(ctx context.Context, memberID int64) (*models.OpenSession, error)

	// Create inserts a new open session
	Create(ctx context.Context, session *models.OpenSession) error

	// Delete removes the member's open session
	Delete(ctx context.Context, memberID int64) error

	// ListStale returns sessions started at or before the cutoff
	ListStale(ctx context.Context, cutoff time.Time) ([]*models.OpenSession, error)
}

// HistoryRepository defines the interface for the append-only session history
type HistoryRepository interface {
	// Append inserts a closed-session record
	Append(ctx context.Context, record *models.HistoryRecord) error

	// BackfillSettlement stamps the settlement id onto the account's
	// unsettled records, returning how many were updated
	BackfillSettlement(ctx context.Context, memberID, guildID int64, settlementID string) (int64, error)
}

// SettlementRepository defines the interface for the confirmed-settlement log
type SettlementRepository interface {
	// Record inserts a confirmed settlement
	Record(ctx context.Context, record *models.SettlementRecord) error
}

// GuildConfigRepository defines the interface for guild settings data access
type GuildConfigRepository interface {
	// GetOrCreate retrieves guild settings, creating empty ones if absent
	GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// SetCoinCard stores the guild's payment card reference
	SetCoinCard(ctx context.Context, guildID int64, card string) error

	// SetLogChannel stores the guild's audit channel
	SetLogChannel(ctx context.Context, guildID, channelID int64) error

	// SetPanelChannel stores the guild's timeclock panel channel
	SetPanelChannel(ctx context.Context, guildID, channelID int64) error

	// AddStaffRole marks a role as staff
	AddStaffRole(ctx context.Context, guildID, roleID int64) error

	// RemoveStaffRole unmarks a role as staff
	RemoveStaffRole(ctx context.Context, guildID, roleID int64) error

	// HasStaffRole reports whether any of the given roles is staff
	HasStaffRole(ctx context.Context, guildID int64, roleIDs []int64) (bool, error)
}

// RoleRateRepository defines the interface for per-role hourly rates
type RoleRateRepository interface {
	// Upsert stores a role's hourly rate
	Upsert(ctx context.Context, rate *models.RoleRate) error

	// RatesForRoles returns the configured rates for the given roles;
	// roles without a row are absent from the map
	RatesForRoles(ctx context.Context, guildID int64, roleIDs []int64) (map[int64]models.Amount, error)

	// ListConfigured returns roles with a positive rate, highest first
	ListConfigured(ctx context.Context, guildID int64) ([]*models.RoleRate, error)
}

// RoleProvider supplies a member's current role set. It is an external
// collaborator capability; the core never queries membership itself.
type RoleProvider interface {
	// MemberRoles returns the member's role ids in the guild
	MemberRoles(ctx context.Context, guildID, memberID int64) ([]int64, error)
}

// PaymentClient wraps the external payment service
type PaymentClient interface {
	// Transfer sends amount from the card to the member. It returns the
	// service-issued settlement id, or a locally synthesized one (flagged)
	// when the success response lacks a usable identifier. Failures are
	// reported as *SettlementError.
	Transfer(ctx context.Context, cardCode string, toMemberID int64, amount models.Amount) (settlementID string, synthesized bool, err error)
}

// LedgerService exposes atomic account mutations. All mutations for a given
// member are serialized; distinct members proceed in parallel.
type LedgerService interface {
	// AddTime accrues seconds and rate-proportional pending coins
	AddTime(ctx context.Context, memberID, guildID, seconds int64) (*models.TimeAdjustment, error)

	// RemoveTime debits up to the requested seconds and proportional coins,
	// returning what was actually removed
	RemoveTime(ctx context.Context, memberID, guildID, seconds int64) (*models.TimeAdjustment, error)

	// SetTime sets current unpaid time, adjusting pending coins by the
	// rate-proportional delta
	SetTime(ctx context.Context, memberID, guildID, seconds int64) (*models.TimeAdjustment, error)

	// ResetCurrent zeroes current unpaid time, leaving coins untouched
	ResetCurrent(ctx context.Context, memberID, guildID int64) error

	// Clear zeroes current time and pending coins, returning the cleared amount
	Clear(ctx context.Context, memberID, guildID, clearedByID int64, clearedByName string) (models.Amount, error)

	// Snapshot returns the latest committed account state
	Snapshot(ctx context.Context, memberID, guildID int64) (*models.Account, error)

	// GlobalSnapshot returns the member's aggregate and per-guild breakdown
	GlobalSnapshot(ctx context.Context, memberID int64) (*models.GlobalAccount, []*models.Account, error)

	// TopByCurrentSeconds returns the accounts with the most unpaid time
	TopByCurrentSeconds(ctx context.Context, limit int) ([]*models.Account, error)

	// ReconcileGlobal recomputes the member's aggregate from guild accounts.
	// Intended for out-of-band repair of delta drift.
	ReconcileGlobal(ctx context.Context, memberID int64) (*models.GlobalAccount, error)
}

// SessionService enforces at most one open work session per member
type SessionService interface {
	// Open starts a session; fails if the member already has one anywhere
	Open(ctx context.Context, memberID, guildID int64) (*models.OpenSession, error)

	// Close ends the member's session, accruing its duration and coins
	Close(ctx context.Context, memberID int64) (*models.ClosedSession, error)

	// ForceClose is the sweep path; bookkeeping is identical to Close
	ForceClose(ctx context.Context, memberID int64) (*models.ClosedSession, error)
}

// ClaimService settles pending coins through the external payment service
type ClaimService interface {
	// Claim pays out the account's pending coins. The ledger is mutated only
	// after the payment service confirms success.
	Claim(ctx context.Context, memberID, guildID int64) (*models.ClaimResult, error)
}

// RateService computes hourly rates from configured role rates
type RateService interface {
	// HourlyRate resolves the member's rate: the sum of configured rates over
	// the member's deduplicated role set. Collaborator lookup failures
	// degrade to rate zero.
	HourlyRate(ctx context.Context, guildID, memberID int64) (models.Amount, error)

	// SetRoleRate stores a role's hourly rate
	SetRoleRate(ctx context.Context, guildID, roleID int64, rate models.Amount) error

	// ConfiguredRates lists roles with a positive rate
	ConfiguredRates(ctx context.Context, guildID int64) ([]*models.RoleRate, error)
}

// GuildConfigService manages per-guild settings and the staff gate
type GuildConfigService interface {
	GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error)
	SetCoinCard(ctx context.Context, guildID int64, card string) error
	SetLogChannel(ctx context.Context, guildID, channelID int64) error
	SetPanelChannel(ctx context.Context, guildID, channelID int64) error
	AddStaffRole(ctx context.Context, guildID, roleID int64) error
	RemoveStaffRole(ctx context.Context, guildID, roleID int64) error

	// IsStaff reports whether any of the given roles is configured as staff
	IsStaff(ctx context.Context, guildID int64, roleIDs []int64) (bool, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	GlobalAccountRepository() GlobalAccountRepository
	SessionRepository() SessionRepository
	HistoryRepository() HistoryRepository
	SettlementRepository() SettlementRepository
	GuildConfigRepository() GuildConfigRepository
	RoleRateRepository() RoleRateRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
