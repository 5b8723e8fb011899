package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/planday-app/organizer_backend/internal/apperrors"
	"github.com/planday-app/organizer_backend/internal/core/domain"
	portsrepo "github.com/planday-app/organizer_backend/internal/core/ports/repositories"
)

type PgxTemplateRepository struct {
	pool *pgxpool.Pool
}

func newPgxTemplateRepository(pool *pgxpool.Pool) portsrepo.TemplateRepository {
	return &PgxTemplateRepository{pool: pool}
}

var _ portsrepo.TemplateRepository = (*PgxTemplateRepository)(nil)

const templateColumns = `template_id, title, amount, amount_tolerance, categories, payment_method,
	currency_code, merchant, notes, frequency, start_date, last_generated_date,
	is_active, is_paused, paused_until, occurrence_count, created_at, last_updated_at`

func scanTemplate(row pgx.Row) (*domain.RecurringTemplate, error) {
	var t domain.RecurringTemplate
	err := row.Scan(
		&t.TemplateID,
		&t.Title,
		&t.Amount,
		&t.AmountTolerance,
		&t.Categories,
		&t.PaymentMethod,
		&t.CurrencyCode,
		&t.Merchant,
		&t.Notes,
		&t.Frequency,
		&t.StartDate,
		&t.LastGeneratedDate,
		&t.IsActive,
		&t.IsPaused,
		&t.PausedUntil,
		&t.OccurrenceCount,
		&t.CreatedAt,
		&t.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgxTemplateRepository) SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	query := `
		INSERT INTO recurring_templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.pool.Exec(ctx, query,
		template.TemplateID,
		template.Title,
		template.Amount,
		template.AmountTolerance,
		template.Categories,
		template.PaymentMethod,
		template.CurrencyCode,
		template.Merchant,
		template.Notes,
		template.Frequency,
		template.StartDate,
		template.LastGeneratedDate,
		template.IsActive,
		template.IsPaused,
		template.PausedUntil,
		template.OccurrenceCount,
		template.CreatedAt,
		template.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert template %s: %w", template.TemplateID, err)
	}
	return nil
}

func (r *PgxTemplateRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM recurring_templates WHERE template_id = $1;`

	tmpl, err := scanTemplate(r.pool.QueryRow(ctx, query, templateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}
	return tmpl, nil
}

func (r *PgxTemplateRepository) ListTemplates(ctx context.Context, includeInactive bool) ([]domain.RecurringTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM recurring_templates`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC;`

	return r.queryTemplates(ctx, query)
}

func (r *PgxTemplateRepository) ListGenerationCandidates(ctx context.Context) ([]domain.RecurringTemplate, error) {
	query := `SELECT ` + templateColumns + `
		FROM recurring_templates
		WHERE is_active = TRUE AND frequency != $1
		ORDER BY created_at;`

	return r.queryTemplates(ctx, query, string(domain.OneTime))
}

func (r *PgxTemplateRepository) queryTemplates(ctx context.Context, query string, args ...any) ([]domain.RecurringTemplate, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []domain.RecurringTemplate
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		templates = append(templates, *tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template rows: %w", err)
	}
	return templates, nil
}

func (r *PgxTemplateRepository) UpdateTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	query := `
		UPDATE recurring_templates SET
			title = $2, amount = $3, amount_tolerance = $4, categories = $5,
			payment_method = $6, currency_code = $7, merchant = $8, notes = $9,
			frequency = $10, start_date = $11, last_generated_date = $12,
			is_active = $13, is_paused = $14, paused_until = $15,
			occurrence_count = $16, last_updated_at = $17
		WHERE template_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		template.TemplateID,
		template.Title,
		template.Amount,
		template.AmountTolerance,
		template.Categories,
		template.PaymentMethod,
		template.CurrencyCode,
		template.Merchant,
		template.Notes,
		template.Frequency,
		template.StartDate,
		template.LastGeneratedDate,
		template.IsActive,
		template.IsPaused,
		template.PausedUntil,
		template.OccurrenceCount,
		template.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update template %s: %w", template.TemplateID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTemplateRepository) UpdateTemplates(ctx context.Context, templates []domain.RecurringTemplate) error {
	if len(templates) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, template := range templates {
		query := `
			UPDATE recurring_templates SET
				last_generated_date = $2, occurrence_count = $3, last_updated_at = $4
			WHERE template_id = $1;
		`
		if _, err := tx.Exec(ctx, query,
			template.TemplateID,
			template.LastGeneratedDate,
			template.OccurrenceCount,
			template.LastUpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to update template %s in batch: %w", template.TemplateID, err)
		}
	}
	return tx.Commit(ctx)
}

// DeleteTemplate removes only the template row. Expenses referencing it
// keep their template_id; the link is a lookup key, not a foreign key with
// cascade.
func (r *PgxTemplateRepository) DeleteTemplate(ctx context.Context, templateID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM recurring_templates WHERE template_id = $1;`, templateID)
	if err != nil {
		return fmt.Errorf("failed to delete template %s: %w", templateID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
