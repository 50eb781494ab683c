package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"timeclock/database"
	"timeclock/models"
)

// SessionRepository implements the service.SessionRepository interface
type SessionRepository struct {
	q queryable
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{q: db.Pool}
}

// newSessionRepositoryWithTx creates a new session repository with a transaction
func newSessionRepositoryWithTx(tx queryable) *SessionRepository {
	return &SessionRepository{q: tx}
}

// GetByMember returns the member's open session, or nil if none exists
func (r *SessionRepository) GetByMember(ctx context.Context, memberID int64) (*models.OpenSession, error) {
	query := `SELECT member_id, guild_id, started_at FROM open_sessions WHERE member_id = $1`

	var session models.OpenSession
	err := r.q.QueryRow(ctx, query, memberID).Scan(
		&session.MemberID,
		&session.GuildID,
		&session.StartedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open session for member %d: %w", memberID, err)
	}
	return &session, nil
}

// Create inserts a new open session. The primary key on member_id rejects a
// second session for the same member.
func (r *SessionRepository) Create(ctx context.Context, session *models.OpenSession) error {
	query := `INSERT INTO open_sessions (member_id, guild_id, started_at) VALUES ($1, $2, $3)`

	_, err := r.q.Exec(ctx, query, session.MemberID, session.GuildID, session.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create session for member %d: %w", session.MemberID, err)
	}
	return nil
}

// Delete removes the member's open session
func (r *SessionRepository) Delete(ctx context.Context, memberID int64) error {
	query := `DELETE FROM open_sessions WHERE member_id = $1`

	tag, err := r.q.Exec(ctx, query, memberID)
	if err != nil {
		return fmt.Errorf("failed to delete session for member %d: %w", memberID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no open session for member %d", memberID)
	}
	return nil
}

// ListStale returns sessions started at or before the cutoff, oldest first
func (r *SessionRepository) ListStale(ctx context.Context, cutoff time.Time) ([]*models.OpenSession, error) {
	query := `
		SELECT member_id, guild_id, started_at
		FROM open_sessions
		WHERE started_at <= $1
		ORDER BY started_at
	`

	rows, err := r.q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.OpenSession
	for rows.Next() {
		var session models.OpenSession
		if err := rows.Scan(&session.MemberID, &session.GuildID, &session.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, &session)
	}
	return sessions, rows.Err()
}
