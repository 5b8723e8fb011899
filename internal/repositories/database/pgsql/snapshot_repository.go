package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/planday-app/organizer_backend/internal/apperrors"
	"github.com/planday-app/organizer_backend/internal/core/domain"
	portsrepo "github.com/planday-app/organizer_backend/internal/core/ports/repositories"
)

// PgxSnapshotRepository is the single-level undo store: one jsonb snapshot
// list per template id. An upsert keyed on template_id gives the
// single-slot-per-key overwrite policy directly.
type PgxSnapshotRepository struct {
	pool *pgxpool.Pool
}

func newPgxSnapshotRepository(pool *pgxpool.Pool) portsrepo.SnapshotRepository {
	return &PgxSnapshotRepository{pool: pool}
}

var _ portsrepo.SnapshotRepository = (*PgxSnapshotRepository)(nil)

func (r *PgxSnapshotRepository) PutSnapshot(ctx context.Context, templateID string, snapshots []domain.ExpenseSnapshot) error {
	payload, err := json.Marshal(snapshots)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot for template %s: %w", templateID, err)
	}

	query := `
		INSERT INTO undo_snapshots (template_id, snapshots, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (template_id) DO UPDATE SET snapshots = $2, created_at = $3;
	`
	if _, err := r.pool.Exec(ctx, query, templateID, payload, time.Now()); err != nil {
		return fmt.Errorf("failed to store snapshot for template %s: %w", templateID, err)
	}
	return nil
}

func (r *PgxSnapshotRepository) GetSnapshot(ctx context.Context, templateID string) ([]domain.ExpenseSnapshot, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `SELECT snapshots FROM undo_snapshots WHERE template_id = $1;`, templateID).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot for template %s: %w", templateID, err)
	}

	var snapshots []domain.ExpenseSnapshot
	if err := json.Unmarshal(payload, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot for template %s: %w", templateID, err)
	}
	return snapshots, nil
}

func (r *PgxSnapshotRepository) ClearSnapshot(ctx context.Context, templateID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM undo_snapshots WHERE template_id = $1;`, templateID); err != nil {
		return fmt.Errorf("failed to clear snapshot for template %s: %w", templateID, err)
	}
	return nil
}
