package service

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

// Sweeper force-closes sessions left open past the stale age. Members who
// forget to clock out still get their time accrued and banked.
type Sweeper struct {
	uowFactory UnitOfWorkFactory
	sessions   SessionService
	interval   time.Duration
	staleAge   time.Duration
}

// NewSweeper creates a new stale session sweeper
func NewSweeper(uowFactory UnitOfWorkFactory, sessions SessionService, interval, staleAge time.Duration) *Sweeper {
	return &Sweeper{
		uowFactory: uowFactory,
		sessions:   sessions,
		interval:   interval,
		staleAge:   staleAge,
	}
}

// Start runs the sweep loop in a background goroutine and returns a cleanup
// function to stop it gracefully
func (s *Sweeper) Start(ctx context.Context) func() {
	ticker := time.NewTicker(s.interval)
	stopChan := make(chan struct{})

	go func() {
		log.WithFields(log.Fields{
			"interval": s.interval,
			"staleAge": s.staleAge,
		}).Info("Stale session sweeper started")

		// Run immediately on startup
		s.sweep(ctx)

		for {
			select {
			case <-ctx.Done():
				log.Info("Stale session sweeper shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Stale session sweeper shutting down (stop requested)...")
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}

// sweep closes every session older than the stale age. Failures on one
// session never block the rest of the pass.
func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.staleAge)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction to list stale sessions: %v", err)
		return
	}
	stale, err := uow.SessionRepository().ListStale(ctx, cutoff)
	uow.Rollback()
	if err != nil {
		log.Errorf("Error listing stale sessions: %v", err)
		return
	}

	for _, session := range stale {
		closed, err := s.sessions.ForceClose(ctx, session.MemberID)
		if err != nil {
			// Already closed by the member between listing and closing.
			if errors.Is(err, ErrNoOpenSession) {
				continue
			}
			log.Errorf("Error force-closing session for member %d: %v", session.MemberID, err)
			continue
		}
		log.WithFields(log.Fields{
			"memberID": session.MemberID,
			"guildID":  closed.GuildID,
			"duration": closed.DurationSeconds,
			"coins":    closed.Coins.String(),
		}).Info("Force-closed stale session")
	}
}
