package models

import (
	"time"
)

// OpenSession is an in-progress work interval. At most one exists per member,
// regardless of guild.
type OpenSession struct {
	MemberID  int64     `db:"member_id"`
	GuildID   int64     `db:"guild_id"`
	StartedAt time.Time `db:"started_at"`
}

// ClosedSession is the result of closing a session, returned for display.
type ClosedSession struct {
	GuildID         int64
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int64
	Coins           Amount
}
