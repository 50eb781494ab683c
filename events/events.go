package events

import (
	"context"
	"sync"
	"time"

	"timeclock/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeSessionOpened     EventType = "session_opened"
	EventTypeSessionClosed     EventType = "session_closed"
	EventTypeTimeAdjusted      EventType = "time_adjusted"
	EventTypeAccountCleared    EventType = "account_cleared"
	EventTypeSettlementApplied EventType = "settlement_applied"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Guild() int64
}

// SessionOpenedEvent is emitted when a member opens a work session
type SessionOpenedEvent struct {
	MemberID  int64
	GuildID   int64
	StartedAt time.Time
}

func (e SessionOpenedEvent) Type() EventType { return EventTypeSessionOpened }
func (e SessionOpenedEvent) Guild() int64    { return e.GuildID }

// SessionClosedEvent is emitted when a session is closed, manually or by the
// sweeper
type SessionClosedEvent struct {
	MemberID        int64
	GuildID         int64
	DurationSeconds int64
	Coins           models.Amount
	Forced          bool
}

func (e SessionClosedEvent) Type() EventType { return EventTypeSessionClosed }
func (e SessionClosedEvent) Guild() int64    { return e.GuildID }

// TimeAdjustedEvent is emitted on manual accrue/debit/set operations
type TimeAdjustedEvent struct {
	MemberID     int64
	GuildID      int64
	DeltaSeconds int64 // signed
	Coins        models.Amount
	CoinsRemoved bool // true when Coins were debited rather than accrued
}

func (e TimeAdjustedEvent) Type() EventType { return EventTypeTimeAdjusted }
func (e TimeAdjustedEvent) Guild() int64    { return e.GuildID }

// AccountClearedEvent is emitted when an account's unpaid time and pending
// coins are wiped
type AccountClearedEvent struct {
	MemberID      int64
	GuildID       int64
	ClearedCoins  models.Amount
	ClearedByID   int64
	ClearedByName string
}

func (e AccountClearedEvent) Type() EventType { return EventTypeAccountCleared }
func (e AccountClearedEvent) Guild() int64    { return e.GuildID }

// SettlementAppliedEvent is emitted after a claim is confirmed by the payment
// service and committed to the ledger
type SettlementAppliedEvent struct {
	MemberID     int64
	GuildID      int64
	Amount       models.Amount
	SettlementID string
}

func (e SettlementAppliedEvent) Type() EventType { return EventTypeSettlementApplied }
func (e SettlementAppliedEvent) Guild() int64    { return e.GuildID }

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and flushes
// them to the underlying bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Use background context for event emission so handlers are not cut off
	// by transaction context expiration
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
