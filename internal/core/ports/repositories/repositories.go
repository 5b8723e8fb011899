package ports

import (
	"context"
	"time"

	"github.com/planday-app/organizer_backend/internal/core/domain"
)

// TemplateRepository defines persistence operations for recurring templates.
type TemplateRepository interface {
	SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error
	FindTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error)
	ListTemplates(ctx context.Context, includeInactive bool) ([]domain.RecurringTemplate, error)
	// ListGenerationCandidates returns active templates whose frequency is
	// not one-time. Pause state is evaluated by the caller because it
	// depends on "now".
	ListGenerationCandidates(ctx context.Context) ([]domain.RecurringTemplate, error)
	UpdateTemplate(ctx context.Context, template domain.RecurringTemplate) error
	UpdateTemplates(ctx context.Context, templates []domain.RecurringTemplate) error
	// DeleteTemplate removes the template only. Expenses generated from it
	// keep their weak back-reference and are never cascade-deleted.
	DeleteTemplate(ctx context.Context, templateID string) error
}

// ExpenseRepository defines persistence operations for expense records.
type ExpenseRepository interface {
	SaveExpense(ctx context.Context, expense domain.ExpenseRecord) error
	SaveExpenses(ctx context.Context, expenses []domain.ExpenseRecord) error
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.ExpenseRecord, error)
	ListExpensesByDateRange(ctx context.Context, from, to time.Time) ([]domain.ExpenseRecord, error)
	// ListExpensesByTemplate returns expenses carrying the template's id
	// with date on or after from, ordered by date ascending.
	ListExpensesByTemplate(ctx context.Context, templateID string, from time.Time) ([]domain.ExpenseRecord, error)
	// ListGeneratedByTemplate is ListExpensesByTemplate restricted to
	// generated records.
	ListGeneratedByTemplate(ctx context.Context, templateID string, from time.Time) ([]domain.ExpenseRecord, error)
	UpdateExpense(ctx context.Context, expense domain.ExpenseRecord) error
	UpdateExpenses(ctx context.Context, expenses []domain.ExpenseRecord) error
}

// ImportSessionRepository defines persistence operations for import audit
// sessions, including the retention policy primitives.
type ImportSessionRepository interface {
	SaveSession(ctx context.Context, session domain.ImportSession) error
	ListSessions(ctx context.Context, includeDeleted bool) ([]domain.ImportSession, error)
	SoftDeleteSession(ctx context.Context, sessionID string) error
	HardDeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	// IncrementTemplatesCreated bumps the session's templates-created
	// audit counter when a suggestion from that import is confirmed.
	IncrementTemplatesCreated(ctx context.Context, sessionID string) error
}

// SnapshotRepository is the single-level undo store: one snapshot list per
// template id, single slot, overwritten on every sync pass.
type SnapshotRepository interface {
	// PutSnapshot stores the list, replacing any previous snapshot for the
	// same template.
	PutSnapshot(ctx context.Context, templateID string, snapshots []domain.ExpenseSnapshot) error
	// GetSnapshot returns apperrors.ErrNotFound when no snapshot is stored.
	GetSnapshot(ctx context.Context, templateID string) ([]domain.ExpenseSnapshot, error)
	ClearSnapshot(ctx context.Context, templateID string) error
}

// RepositoryProvider bundles all repositories for service wiring.
type RepositoryProvider struct {
	TemplateRepo TemplateRepository
	ExpenseRepo  ExpenseRepository
	SessionRepo  ImportSessionRepository
	SnapshotRepo SnapshotRepository
}
