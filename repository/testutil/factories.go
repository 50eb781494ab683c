package testutil

import (
	"time"

	"timeclock/models"
)

// CreateTestSession creates an open session started the given duration ago
func CreateTestSession(memberID, guildID int64, age time.Duration) *models.OpenSession {
	return &models.OpenSession{
		MemberID:  memberID,
		GuildID:   guildID,
		StartedAt: time.Now().UTC().Add(-age).Truncate(time.Microsecond),
	}
}

// CreateTestHistoryRecord creates a closed-session record for the member
func CreateTestHistoryRecord(memberID, guildID int64, durationSeconds int64, coins models.Amount) *models.HistoryRecord {
	ended := time.Now().UTC().Truncate(time.Microsecond)
	return &models.HistoryRecord{
		MemberID:        memberID,
		GuildID:         guildID,
		StartedAt:       ended.Add(-time.Duration(durationSeconds) * time.Second),
		EndedAt:         ended,
		DurationSeconds: durationSeconds,
		Coins:           coins,
	}
}

// MustAmount parses a decimal literal, panicking on invalid input. Only for
// fixtures with constant values.
func MustAmount(s string) models.Amount {
	a, err := models.NewAmountFromString(s)
	if err != nil {
		panic(err)
	}
	return a
}
