package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNoOpenSession indicates a close was attempted with no session open
	ErrNoOpenSession = errors.New("no open session")

	// ErrSessionAlreadyOpen indicates the member already clocked in here
	ErrSessionAlreadyOpen = errors.New("session already open in this guild")

	// ErrInvalidTimeLiteral indicates unparseable duration input
	ErrInvalidTimeLiteral = errors.New("invalid time literal")

	// ErrNoPaymentDestination indicates the guild has no coin card configured
	ErrNoPaymentDestination = errors.New("no payment card configured")

	// ErrNothingToClaim indicates a claim with zero pending coins
	ErrNothingToClaim = errors.New("nothing to claim")
)

// SessionOpenElsewhereError is returned when a member tries to clock in while
// holding an open session in a different guild. Sessions are exclusive per
// member across all guilds.
type SessionOpenElsewhereError struct {
	GuildID int64
}

func (e *SessionOpenElsewhereError) Error() string {
	return fmt.Sprintf("session already open in guild %d", e.GuildID)
}

// SettlementReason classifies why a settlement attempt failed
type SettlementReason string

const (
	// SettlementReasonTransport covers network and protocol failures
	SettlementReasonTransport SettlementReason = "transport"

	// SettlementReasonRejected covers explicit refusals from the payment service
	SettlementReasonRejected SettlementReason = "rejected"

	// SettlementReasonTimeout covers deadline expiry before a response
	SettlementReasonTimeout SettlementReason = "timeout"
)

// SettlementError reports a failed payment attempt. The ledger is never
// mutated when one of these is returned.
type SettlementError struct {
	Reason  SettlementReason
	Status  int
	Message string
}

func (e *SettlementError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("settlement failed (%s, status %d): %s", e.Reason, e.Status, e.Message)
	}
	return fmt.Sprintf("settlement failed (%s): %s", e.Reason, e.Message)
}
