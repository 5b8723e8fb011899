package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/planday-app/organizer_backend/internal/apperrors"
	"github.com/planday-app/organizer_backend/internal/core/domain"
	portsrepo "github.com/planday-app/organizer_backend/internal/core/ports/repositories"
)

type PgxExpenseRepository struct {
	pool *pgxpool.Pool
}

func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepository {
	return &PgxExpenseRepository{pool: pool}
}

var _ portsrepo.ExpenseRepository = (*PgxExpenseRepository)(nil)

const expenseColumns = `expense_id, title, amount, date, categories, payment_method, currency_code,
	merchant, notes, template_id, is_generated, is_manually_edited, is_income,
	template_snapshot_hash, created_at, last_updated_at`

func scanExpense(row pgx.Row) (*domain.ExpenseRecord, error) {
	var e domain.ExpenseRecord
	err := row.Scan(
		&e.ExpenseID,
		&e.Title,
		&e.Amount,
		&e.Date,
		&e.Categories,
		&e.PaymentMethod,
		&e.CurrencyCode,
		&e.Merchant,
		&e.Notes,
		&e.TemplateID,
		&e.IsGenerated,
		&e.IsManuallyEdited,
		&e.IsIncome,
		&e.TemplateSnapshotHash,
		&e.CreatedAt,
		&e.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.ExpenseRecord) error {
	return r.SaveExpenses(ctx, []domain.ExpenseRecord{expense})
}

// SaveExpenses inserts all records in one transaction; the batch is the
// atomicity boundary for generation.
func (r *PgxExpenseRepository) SaveExpenses(ctx context.Context, expenses []domain.ExpenseRecord) error {
	if len(expenses) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	for _, e := range expenses {
		if _, err := tx.Exec(ctx, query,
			e.ExpenseID,
			e.Title,
			e.Amount,
			e.Date,
			e.Categories,
			e.PaymentMethod,
			e.CurrencyCode,
			e.Merchant,
			e.Notes,
			e.TemplateID,
			e.IsGenerated,
			e.IsManuallyEdited,
			e.IsIncome,
			e.TemplateSnapshotHash,
			e.CreatedAt,
			e.LastUpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert expense %s: %w", e.ExpenseID, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.ExpenseRecord, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`

	expense, err := scanExpense(r.pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	return expense, nil
}

func (r *PgxExpenseRepository) ListExpensesByDateRange(ctx context.Context, from, to time.Time) ([]domain.ExpenseRecord, error) {
	query := `SELECT ` + expenseColumns + `
		FROM expenses
		WHERE date >= $1 AND date < $2
		ORDER BY date;`

	return r.queryExpenses(ctx, query, from, to)
}

func (r *PgxExpenseRepository) ListExpensesByTemplate(ctx context.Context, templateID string, from time.Time) ([]domain.ExpenseRecord, error) {
	query := `SELECT ` + expenseColumns + `
		FROM expenses
		WHERE template_id = $1 AND date >= $2
		ORDER BY date;`

	return r.queryExpenses(ctx, query, templateID, from)
}

func (r *PgxExpenseRepository) ListGeneratedByTemplate(ctx context.Context, templateID string, from time.Time) ([]domain.ExpenseRecord, error) {
	query := `SELECT ` + expenseColumns + `
		FROM expenses
		WHERE template_id = $1 AND is_generated = TRUE AND date >= $2
		ORDER BY date;`

	return r.queryExpenses(ctx, query, templateID, from)
}

func (r *PgxExpenseRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]domain.ExpenseRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.ExpenseRecord
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", err)
	}
	return expenses, nil
}

func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.ExpenseRecord) error {
	return r.UpdateExpenses(ctx, []domain.ExpenseRecord{expense})
}

// UpdateExpenses applies all updates in one transaction; sync and undo
// passes rely on the batch being all-or-nothing.
func (r *PgxExpenseRepository) UpdateExpenses(ctx context.Context, expenses []domain.ExpenseRecord) error {
	if len(expenses) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := `
		UPDATE expenses SET
			title = $2, amount = $3, date = $4, categories = $5, payment_method = $6,
			currency_code = $7, merchant = $8, notes = $9, is_manually_edited = $10,
			is_income = $11, template_snapshot_hash = $12, last_updated_at = $13
		WHERE expense_id = $1;
	`
	for _, e := range expenses {
		tag, err := tx.Exec(ctx, query,
			e.ExpenseID,
			e.Title,
			e.Amount,
			e.Date,
			e.Categories,
			e.PaymentMethod,
			e.CurrencyCode,
			e.Merchant,
			e.Notes,
			e.IsManuallyEdited,
			e.IsIncome,
			e.TemplateSnapshotHash,
			e.LastUpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to update expense %s: %w", e.ExpenseID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("expense %s: %w", e.ExpenseID, apperrors.ErrNotFound)
		}
	}
	return tx.Commit(ctx)
}
