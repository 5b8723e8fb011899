package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/planday-app/organizer_backend/internal/apperrors"
	"github.com/planday-app/organizer_backend/internal/core/domain"
	portsrepo "github.com/planday-app/organizer_backend/internal/core/ports/repositories"
)

type PgxImportSessionRepository struct {
	pool *pgxpool.Pool
}

func newPgxImportSessionRepository(pool *pgxpool.Pool) portsrepo.ImportSessionRepository {
	return &PgxImportSessionRepository{pool: pool}
}

var _ portsrepo.ImportSessionRepository = (*PgxImportSessionRepository)(nil)

func (r *PgxImportSessionRepository) SaveSession(ctx context.Context, session domain.ImportSession) error {
	query := `
		INSERT INTO import_sessions (session_id, imported_at, file_name, transaction_count,
			suggestion_count, templates_created, duplicates_found, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		session.SessionID,
		session.ImportedAt,
		session.FileName,
		session.TransactionCount,
		session.SuggestionCount,
		session.TemplatesCreated,
		session.DuplicatesFound,
		session.IsDeleted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert import session %s: %w", session.SessionID, err)
	}
	return nil
}

// ListSessions returns sessions newest first.
func (r *PgxImportSessionRepository) ListSessions(ctx context.Context, includeDeleted bool) ([]domain.ImportSession, error) {
	query := `
		SELECT session_id, imported_at, file_name, transaction_count,
			suggestion_count, templates_created, duplicates_found, is_deleted
		FROM import_sessions`
	if !includeDeleted {
		query += ` WHERE is_deleted = FALSE`
	}
	query += ` ORDER BY imported_at DESC;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query import sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.ImportSession
	for rows.Next() {
		var s domain.ImportSession
		err := rows.Scan(
			&s.SessionID,
			&s.ImportedAt,
			&s.FileName,
			&s.TransactionCount,
			&s.SuggestionCount,
			&s.TemplatesCreated,
			&s.DuplicatesFound,
			&s.IsDeleted,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating import session rows: %w", err)
	}
	return sessions, nil
}

func (r *PgxImportSessionRepository) SoftDeleteSession(ctx context.Context, sessionID string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE import_sessions SET is_deleted = TRUE WHERE session_id = $1;`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to soft-delete import session %s: %w", sessionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxImportSessionRepository) IncrementTemplatesCreated(ctx context.Context, sessionID string) error {
	query := `UPDATE import_sessions SET templates_created = templates_created + 1 WHERE session_id = $1;`
	tag, err := r.pool.Exec(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to increment templates_created for session %s: %w", sessionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxImportSessionRepository) HardDeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM import_sessions WHERE imported_at < $1;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to hard-delete old import sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
