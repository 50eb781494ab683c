package service

import (
	"context"
	"fmt"
	"time"

	"timeclock/events"
	"timeclock/models"
)

type sessionService struct {
	uowFactory UnitOfWorkFactory
	rates      RateService
	locks      *MemberLocks
}

// NewSessionService creates a new session service
func NewSessionService(uowFactory UnitOfWorkFactory, rates RateService, locks *MemberLocks) SessionService {
	return &sessionService{
		uowFactory: uowFactory,
		rates:      rates,
		locks:      locks,
	}
}

// Open starts a work session. A member may hold at most one open session
// across all guilds, so an existing session anywhere blocks the open.
func (s *sessionService) Open(ctx context.Context, memberID, guildID int64) (*models.OpenSession, error) {
	unlock := s.locks.Lock(memberID)
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.SessionRepository().GetByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to check open session: %w", err)
	}
	if existing != nil {
		if existing.GuildID == guildID {
			return nil, ErrSessionAlreadyOpen
		}
		return nil, &SessionOpenElsewhereError{GuildID: existing.GuildID}
	}

	session := &models.OpenSession{
		MemberID:  memberID,
		GuildID:   guildID,
		StartedAt: time.Now().UTC(),
	}
	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	uow.EventBus().Publish(events.SessionOpenedEvent{
		MemberID:  memberID,
		GuildID:   guildID,
		StartedAt: session.StartedAt,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return session, nil
}

func (s *sessionService) Close(ctx context.Context, memberID int64) (*models.ClosedSession, error) {
	return s.close(ctx, memberID, false)
}

// ForceClose is the sweep path for stale sessions. Bookkeeping is identical
// to a manual close; only the emitted event is marked.
func (s *sessionService) ForceClose(ctx context.Context, memberID int64) (*models.ClosedSession, error) {
	return s.close(ctx, memberID, true)
}

func (s *sessionService) close(ctx context.Context, memberID int64, forced bool) (*models.ClosedSession, error) {
	unlock := s.locks.Lock(memberID)
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	session, err := uow.SessionRepository().GetByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}
	if session == nil {
		return nil, ErrNoOpenSession
	}

	now := time.Now().UTC()
	duration := int64(now.Sub(session.StartedAt).Seconds())
	if duration < 0 {
		duration = 0
	}

	// Rate is resolved at close, so a role change mid-session prices the
	// whole session at the closing rate.
	rate, err := s.rates.HourlyRate(ctx, session.GuildID, memberID)
	if err != nil {
		return nil, err
	}
	coins := models.AmountFromRate(rate, duration)

	if err := uow.SessionRepository().Delete(ctx, memberID); err != nil {
		return nil, fmt.Errorf("failed to delete session: %w", err)
	}

	if _, err := applyAccrual(ctx, uow, memberID, session.GuildID, duration, coins); err != nil {
		return nil, err
	}

	if err := uow.HistoryRepository().Append(ctx, &models.HistoryRecord{
		MemberID:        memberID,
		GuildID:         session.GuildID,
		StartedAt:       session.StartedAt,
		EndedAt:         now,
		DurationSeconds: duration,
		Coins:           coins,
	}); err != nil {
		return nil, fmt.Errorf("failed to append history: %w", err)
	}

	uow.EventBus().Publish(events.SessionClosedEvent{
		MemberID:        memberID,
		GuildID:         session.GuildID,
		DurationSeconds: duration,
		Coins:           coins,
		Forced:          forced,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.ClosedSession{
		GuildID:         session.GuildID,
		StartedAt:       session.StartedAt,
		EndedAt:         now,
		DurationSeconds: duration,
		Coins:           coins,
	}, nil
}
