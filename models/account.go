package models

import (
	"time"
)

// Account is a member's per-guild ledger row. Created on first access with
// zeros; never deleted.
type Account struct {
	MemberID       int64     `db:"member_id"`
	GuildID        int64     `db:"guild_id"`
	TotalSeconds   int64     `db:"total_seconds"`
	CurrentSeconds int64     `db:"current_seconds"`
	PendingCoins   Amount    `db:"pending_coins"`
	TotalReceived  Amount    `db:"total_received"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// GlobalAccount aggregates a member's ledger across all guilds. It is
// maintained by the same deltas applied to the owning guild accounts, not
// recomputed from scratch.
type GlobalAccount struct {
	MemberID      int64  `db:"member_id"`
	TotalSeconds  int64  `db:"total_seconds"`
	TotalReceived Amount `db:"total_received"`
	TotalPending  Amount `db:"total_pending"`
}

// TimeAdjustment reports the effect of a manual ledger edit. Seconds and
// Coins are the magnitudes actually applied, which may be less than
// requested when a debit is clamped at zero.
type TimeAdjustment struct {
	Seconds int64
	Coins   Amount
	Removed bool
}
