package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"timeclock/models"
)

func TestSweeper_SweepForceClosesStaleSessions(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockSessionRepo := new(MockSessionRepository)
	mockSessions := new(MockSessionService)

	mockUoW.SetRepositories(nil, nil, mockSessionRepo, nil, nil, nil, nil)

	sweeper := NewSweeper(mockFactory, mockSessions, 5*time.Minute, 24*time.Hour)

	stale := []*models.OpenSession{
		{MemberID: 1, GuildID: 10, StartedAt: time.Now().UTC().Add(-30 * time.Hour)},
		{MemberID: 2, GuildID: 10, StartedAt: time.Now().UTC().Add(-25 * time.Hour)},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockSessionRepo.On("ListStale", ctx, mock.AnythingOfType("time.Time")).Return(stale, nil)
	mockSessions.On("ForceClose", ctx, int64(1)).Return(&models.ClosedSession{GuildID: 10}, nil)
	// The second member clocked out between the listing and the close; the
	// sweep must move on without failing the pass.
	mockSessions.On("ForceClose", ctx, int64(2)).Return(nil, ErrNoOpenSession)

	sweeper.sweep(ctx)

	mockSessions.AssertExpectations(t)
}

func TestSweeper_SweepUsesStaleAgeCutoff(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockSessionRepo := new(MockSessionRepository)
	mockSessions := new(MockSessionService)

	mockUoW.SetRepositories(nil, nil, mockSessionRepo, nil, nil, nil, nil)

	sweeper := NewSweeper(mockFactory, mockSessions, 5*time.Minute, 24*time.Hour)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockSessionRepo.On("ListStale", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
		expected := time.Now().UTC().Add(-24 * time.Hour)
		diff := cutoff.Sub(expected)
		return diff > -time.Minute && diff < time.Minute
	})).Return([]*models.OpenSession{}, nil)

	sweeper.sweep(ctx)

	mockSessions.AssertNotCalled(t, "ForceClose", mock.Anything, mock.Anything)
}
