package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeclock/repository/testutil"
)

func TestAccountRepository_GetOrCreate(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("creates zeroed account on first access", func(t *testing.T) {
		account, err := repo.GetOrCreate(ctx, 100, 10)
		require.NoError(t, err)

		assert.Equal(t, int64(100), account.MemberID)
		assert.Equal(t, int64(10), account.GuildID)
		assert.Equal(t, int64(0), account.TotalSeconds)
		assert.Equal(t, int64(0), account.CurrentSeconds)
		assert.True(t, account.PendingCoins.IsZero())
		assert.True(t, account.TotalReceived.IsZero())
		assert.False(t, account.CreatedAt.IsZero())
	})

	t.Run("returns existing account on second access", func(t *testing.T) {
		account, err := repo.GetOrCreate(ctx, 100, 10)
		require.NoError(t, err)
		account.TotalSeconds = 3600
		account.CurrentSeconds = 3600
		account.PendingCoins = testutil.MustAmount("12.5")
		require.NoError(t, repo.Update(ctx, account))

		again, err := repo.GetOrCreate(ctx, 100, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(3600), again.TotalSeconds)
		assert.Equal(t, "12.5", again.PendingCoins.String())
	})

	t.Run("accounts are scoped per guild", func(t *testing.T) {
		other, err := repo.GetOrCreate(ctx, 100, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(0), other.TotalSeconds)
	})
}

func TestAccountRepository_Update_PreservesScale(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	account, err := repo.GetOrCreate(ctx, 1, 10)
	require.NoError(t, err)

	// Smallest representable quantity survives a write-read round trip.
	account.PendingCoins = testutil.MustAmount("0.00000001")
	account.TotalReceived = testutil.MustAmount("1234.56789012")
	require.NoError(t, repo.Update(ctx, account))

	got, err := repo.GetOrCreate(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "0.00000001", got.PendingCoins.String())
	assert.Equal(t, "1234.56789012", got.TotalReceived.String())
}

func TestAccountRepository_ListTopByCurrentSeconds(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	seed := []struct {
		memberID int64
		guildID  int64
		current  int64
	}{
		{1, 10, 100},
		{2, 10, 500},
		{3, 20, 300},
		{4, 10, 0}, // no unpaid time, must be excluded
	}
	for _, s := range seed {
		account, err := repo.GetOrCreate(ctx, s.memberID, s.guildID)
		require.NoError(t, err)
		account.CurrentSeconds = s.current
		account.TotalSeconds = s.current
		require.NoError(t, repo.Update(ctx, account))
	}

	top, err := repo.ListTopByCurrentSeconds(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, int64(2), top[0].MemberID)
	assert.Equal(t, int64(3), top[1].MemberID)
	assert.Equal(t, int64(1), top[2].MemberID)

	limited, err := repo.ListTopByCurrentSeconds(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestAccountRepository_ListByMember(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, 1, 30)
	require.NoError(t, err)
	_, err = repo.GetOrCreate(ctx, 1, 10)
	require.NoError(t, err)
	_, err = repo.GetOrCreate(ctx, 2, 10)
	require.NoError(t, err)

	accounts, err := repo.ListByMember(ctx, 1)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, int64(10), accounts[0].GuildID)
	assert.Equal(t, int64(30), accounts[1].GuildID)
}
