package models

import (
	"time"
)

// HistoryRecord is an immutable, append-only record of a closed session.
// SettlementID stays nil until the accrued coins are claimed.
type HistoryRecord struct {
	ID              int64     `db:"id"`
	MemberID        int64     `db:"member_id"`
	GuildID         int64     `db:"guild_id"`
	StartedAt       time.Time `db:"started_at"`
	EndedAt         time.Time `db:"ended_at"`
	DurationSeconds int64     `db:"duration_seconds"`
	Coins           Amount    `db:"coins"`
	SettlementID    *string   `db:"settlement_id"`
	CreatedAt       time.Time `db:"created_at"`
}

// SettlementRecord is written only after the external payment service
// confirms a transfer. Its SettlementID is never reused.
type SettlementRecord struct {
	ID           int64     `db:"id"`
	MemberID     int64     `db:"member_id"`
	GuildID      int64     `db:"guild_id"`
	Amount       Amount    `db:"amount"`
	SettlementID string    `db:"settlement_id"`
	CreatedAt    time.Time `db:"created_at"`
}

// ClaimResult describes a confirmed settlement.
type ClaimResult struct {
	Amount       Amount
	SettlementID string
	// Synthesized is set when the payment service confirmed success without
	// returning a usable identifier and one was generated locally.
	Synthesized bool
}
