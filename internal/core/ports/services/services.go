package ports

import (
	"context"
	"time"

	"github.com/planday-app/organizer_backend/internal/core/domain"
	"github.com/planday-app/organizer_backend/internal/dto"
)

// ImporterSvc runs the full import workflow: parse, duplicate-filter,
// detect patterns, record the audit session.
type ImporterSvc interface {
	ImportStatement(ctx context.Context, req dto.ImportStatementRequest) (*dto.ImportResult, error)
	ListSessions(ctx context.Context) ([]dto.ImportSessionResponse, error)
}

// DetectionSvc clusters transactions and infers recurring-payment
// suggestions. Pure over its inputs; persistence never happens here.
type DetectionSvc interface {
	DetectPatterns(ctx context.Context, txns []domain.TransactionRecord, now time.Time) []domain.TemplateSuggestion
}

// GenerationSvc materializes future expenses from confirmed templates.
type GenerationSvc interface {
	// GenerateUpcoming is idempotent: a second run with the same inputs
	// creates nothing new.
	GenerateUpcoming(ctx context.Context, now time.Time) (*dto.GenerationSummary, error)
	MissedTemplates(ctx context.Context, now time.Time) ([]dto.MissedTemplate, error)
}

// TemplateSyncSvc propagates template edits to generated expenses and
// supports single-level undo of the last sync pass per template.
type TemplateSyncSvc interface {
	UpdateGeneratedExpenses(ctx context.Context, templateID string, applyFrom time.Time) (*dto.SyncResult, error)
	// UndoLastTemplateUpdate returns false when no snapshot exists or
	// persistence fails; true on full restore.
	UndoLastTemplateUpdate(ctx context.Context, templateID string) (bool, error)
}

// TemplateSvc manages recurring templates.
type TemplateSvc interface {
	CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest) (*domain.RecurringTemplate, error)
	GetTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error)
	ListTemplates(ctx context.Context, includeInactive bool) ([]domain.RecurringTemplate, error)
	UpdateTemplate(ctx context.Context, templateID string, req dto.UpdateTemplateRequest) (*domain.RecurringTemplate, error)
	PauseTemplate(ctx context.Context, templateID string, pausedUntil *time.Time) (*domain.RecurringTemplate, error)
	ResumeTemplate(ctx context.Context, templateID string) (*domain.RecurringTemplate, error)
	// DeleteTemplate removes the template; generated expenses survive.
	DeleteTemplate(ctx context.Context, templateID string) error
}

// ExpenseSvc provides expense queries and manual edits.
type ExpenseSvc interface {
	ListExpensesByMonth(ctx context.Context, year int, month time.Month) ([]domain.ExpenseRecord, error)
	ListUpcoming(ctx context.Context, now time.Time, days int) ([]domain.ExpenseRecord, error)
	UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest) (*domain.ExpenseRecord, error)
}

// ServiceContainer bundles initialized services for route registration.
type ServiceContainer struct {
	Importer   ImporterSvc
	Detection  DetectionSvc
	Generation GenerationSvc
	Sync       TemplateSyncSvc
	Template   TemplateSvc
	Expense    ExpenseSvc
}
