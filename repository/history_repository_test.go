package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeclock/models"
	"timeclock/repository/testutil"
)

func TestHistoryRepository_BackfillSettlement(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewHistoryRepository(testDB.DB)
	ctx := context.Background()

	// Two unsettled sessions for member 1, one for member 2.
	require.NoError(t, repo.Append(ctx, testutil.CreateTestHistoryRecord(1, 10, 3600, testutil.MustAmount("10"))))
	require.NoError(t, repo.Append(ctx, testutil.CreateTestHistoryRecord(1, 10, 1800, testutil.MustAmount("5"))))
	require.NoError(t, repo.Append(ctx, testutil.CreateTestHistoryRecord(2, 10, 600, testutil.MustAmount("1"))))

	stamped, err := repo.BackfillSettlement(ctx, 1, 10, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stamped)

	// Already settled records are untouched by the next claim.
	stamped, err = repo.BackfillSettlement(ctx, 1, 10, "tx-2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), stamped)

	// The other member's record is still unsettled.
	stamped, err = repo.BackfillSettlement(ctx, 2, 10, "tx-3")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stamped)
}

func TestSettlementRepository_Record(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSettlementRepository(testDB.DB)
	ctx := context.Background()

	record := &models.SettlementRecord{
		MemberID:     1,
		GuildID:      10,
		Amount:       testutil.MustAmount("12.5"),
		SettlementID: "tx-abc",
	}
	require.NoError(t, repo.Record(ctx, record))
	assert.NotZero(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())

	// The same settlement id cannot be recorded twice.
	dup := &models.SettlementRecord{
		MemberID:     1,
		GuildID:      10,
		Amount:       testutil.MustAmount("1"),
		SettlementID: "tx-abc",
	}
	assert.Error(t, repo.Record(ctx, dup))
}

func TestGuildConfigRepository_StaffRoles(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildConfigRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.AddStaffRole(ctx, 10, 100))
	require.NoError(t, repo.AddStaffRole(ctx, 10, 100)) // idempotent

	staff, err := repo.HasStaffRole(ctx, 10, []int64{100, 999})
	require.NoError(t, err)
	assert.True(t, staff)

	staff, err = repo.HasStaffRole(ctx, 10, []int64{999})
	require.NoError(t, err)
	assert.False(t, staff)

	// Staff roles are per guild.
	staff, err = repo.HasStaffRole(ctx, 20, []int64{100})
	require.NoError(t, err)
	assert.False(t, staff)

	require.NoError(t, repo.RemoveStaffRole(ctx, 10, 100))
	staff, err = repo.HasStaffRole(ctx, 10, []int64{100})
	require.NoError(t, err)
	assert.False(t, staff)
}

func TestGuildConfigRepository_Settings(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildConfigRepository(testDB.DB)
	ctx := context.Background()

	cfg, err := repo.GetOrCreate(ctx, 10)
	require.NoError(t, err)
	assert.Nil(t, cfg.CoinCard)
	assert.Nil(t, cfg.LogChannelID)

	require.NoError(t, repo.SetCoinCard(ctx, 10, "CARD-1"))
	require.NoError(t, repo.SetLogChannel(ctx, 10, 555))
	require.NoError(t, repo.SetPanelChannel(ctx, 10, 777))

	cfg, err = repo.GetOrCreate(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, cfg.CoinCard)
	assert.Equal(t, "CARD-1", *cfg.CoinCard)
	require.NotNil(t, cfg.LogChannelID)
	assert.Equal(t, int64(555), *cfg.LogChannelID)
	require.NotNil(t, cfg.PanelChannelID)
	assert.Equal(t, int64(777), *cfg.PanelChannelID)
}

func TestRoleRateRepository_RatesForRoles(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRoleRateRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.RoleRate{GuildID: 10, RoleID: 100, HourlyRate: testutil.MustAmount("10")}))
	require.NoError(t, repo.Upsert(ctx, &models.RoleRate{GuildID: 10, RoleID: 200, HourlyRate: testutil.MustAmount("2.5")}))

	// Upsert overwrites
	require.NoError(t, repo.Upsert(ctx, &models.RoleRate{GuildID: 10, RoleID: 100, HourlyRate: testutil.MustAmount("12")}))

	rates, err := repo.RatesForRoles(ctx, 10, []int64{100, 200, 300})
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "12", rates[100].String())
	assert.Equal(t, "2.5", rates[200].String())

	configured, err := repo.ListConfigured(ctx, 10)
	require.NoError(t, err)
	require.Len(t, configured, 2)
	assert.Equal(t, int64(100), configured[0].RoleID)
}
