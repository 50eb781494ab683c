package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeclock/repository/testutil"
)

func TestSessionRepository_OneSessionPerMember(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSessionRepository(testDB.DB)
	ctx := context.Background()

	session := testutil.CreateTestSession(1, 10, time.Hour)
	require.NoError(t, repo.Create(ctx, session))

	// A second session for the same member, even in another guild, hits the
	// primary key.
	err := repo.Create(ctx, testutil.CreateTestSession(1, 20, time.Minute))
	assert.Error(t, err)

	got, err := repo.GetByMember(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(10), got.GuildID)
	assert.Equal(t, session.StartedAt, got.StartedAt.UTC())
}

func TestSessionRepository_GetByMember_NoSession(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSessionRepository(testDB.DB)

	got, err := repo.GetByMember(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepository_Delete(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSessionRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.CreateTestSession(1, 10, time.Hour)))
	require.NoError(t, repo.Delete(ctx, 1))

	got, err := repo.GetByMember(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again reports the missing session
	assert.Error(t, repo.Delete(ctx, 1))
}

func TestSessionRepository_ListStale(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSessionRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.CreateTestSession(1, 10, 30*time.Hour)))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestSession(2, 10, 25*time.Hour)))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestSession(3, 10, time.Hour)))

	stale, err := repo.ListStale(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 2)

	// Oldest first
	assert.Equal(t, int64(1), stale[0].MemberID)
	assert.Equal(t, int64(2), stale[1].MemberID)
}
