package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/planday-app/organizer_backend/internal/core/domain"
	portsrepo "github.com/planday-app/organizer_backend/internal/core/ports/repositories"
	portssvc "github.com/planday-app/organizer_backend/internal/core/ports/services"
	"github.com/planday-app/organizer_backend/internal/dto"
	"github.com/planday-app/organizer_backend/internal/platform/config"
)

// generationService materializes concrete expense records from confirmed
// recurring templates on a rolling forward window. Safe to run repeatedly:
// a candidate day that already has a generated expense for the template is
// left untouched.
type generationService struct {
	BaseService
	templateRepo portsrepo.TemplateRepository
	expenseRepo  portsrepo.ExpenseRepository
	downstream   *downstreamSync
	cfg          config.EngineConfig
}

// NewGenerationService creates the recurrence generator.
func NewGenerationService(templateRepo portsrepo.TemplateRepository, expenseRepo portsrepo.ExpenseRepository, notifier portssvc.NotificationScheduler, widget portssvc.WidgetSync, cfg config.EngineConfig) portssvc.GenerationSvc {
	return &generationService{
		templateRepo: templateRepo,
		expenseRepo:  expenseRepo,
		downstream:   newDownstreamSync(expenseRepo, notifier, widget, cfg),
		cfg:          cfg,
	}
}

var _ portssvc.GenerationSvc = (*generationService)(nil)

func (s *generationService) GenerateUpcoming(ctx context.Context, now time.Time) (*dto.GenerationSummary, error) {
	templates, err := s.templateRepo.ListGenerationCandidates(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list templates for generation")
		return nil, fmt.Errorf("listing generation candidates: %w", err)
	}

	horizon := now.AddDate(0, 0, s.cfg.GenerationHorizonDays)

	summary := &dto.GenerationSummary{}
	var createdAll []domain.ExpenseRecord
	var changedTemplates []domain.RecurringTemplate

	for _, tmpl := range templates {
		if domain.IsCurrentlyPaused(tmpl, now) {
			continue
		}
		summary.TemplatesProcessed++

		created, progressed, err := s.generateForTemplate(ctx, tmpl, now, horizon)
		if err != nil {
			return nil, err
		}

		createdAll = append(createdAll, created...)
		if progressed != nil {
			changedTemplates = append(changedTemplates, *progressed)
		}
	}

	if len(createdAll) > 0 {
		if err := s.expenseRepo.SaveExpenses(ctx, createdAll); err != nil {
			s.LogError(ctx, err, "Failed to save generated expenses", slog.Int("count", len(createdAll)))
			return nil, fmt.Errorf("saving generated expenses: %w", err)
		}
	}
	if len(changedTemplates) > 0 {
		if err := s.templateRepo.UpdateTemplates(ctx, changedTemplates); err != nil {
			s.LogError(ctx, err, "Failed to update template generation markers")
			return nil, fmt.Errorf("updating templates after generation: %w", err)
		}
	}

	if err := s.downstream.Run(ctx, now); err != nil {
		// Reminders and the widget are advisory surfaces; the generated
		// records are already persisted.
		s.LogError(ctx, err, "Downstream sync after generation failed")
	}

	summary.ExpensesCreated = len(createdAll)
	summary.Created = make([]dto.ExpenseResponse, 0, len(createdAll))
	for i := range createdAll {
		summary.Created = append(summary.Created, dto.ToExpenseResponse(&createdAll[i]))
	}

	s.LogInfo(ctx, "Recurrence generation completed",
		slog.Int("templates_processed", summary.TemplatesProcessed),
		slog.Int("expenses_created", summary.ExpensesCreated))
	return summary, nil
}

// generateForTemplate walks forward from the template's original start date
// in whole periods. Candidate dates are always computed off the start date,
// never off the previously generated date, so day-of-month and anniversary
// alignment survive short months.
func (s *generationService) generateForTemplate(ctx context.Context, tmpl domain.RecurringTemplate, now, horizon time.Time) ([]domain.ExpenseRecord, *domain.RecurringTemplate, error) {
	existing, err := s.expenseRepo.ListExpensesByTemplate(ctx, tmpl.TemplateID, tmpl.StartDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to load expenses for template", slog.String("template_id", tmpl.TemplateID))
		return nil, nil, fmt.Errorf("loading expenses for template %s: %w", tmpl.TemplateID, err)
	}

	startOfToday := domain.StartOfDay(now)
	snapshotHash := domain.SnapshotHash(tmpl)

	var created []domain.ExpenseRecord
	var latestOccurred time.Time

	for n := 0; n < domain.GenerationIterationCap; n++ {
		candidate := domain.AddPeriods(tmpl.StartDate, tmpl.Frequency, n)
		if candidate.After(horizon) {
			break
		}
		// A start date that is already in the past is history, not a gap
		// to fill. Later multipliers are generated even when past, so a
		// lapsed window catches up on the next run.
		if n == 0 && candidate.Before(startOfToday) {
			continue
		}

		if !candidate.After(now) && candidate.After(latestOccurred) {
			latestOccurred = candidate
		}

		if hasExpenseOnDay(existing, candidate) || hasExpenseOnDay(created, candidate) {
			continue
		}

		created = append(created, domain.ExpenseRecord{
			ExpenseID:            uuid.NewString(),
			Title:                tmpl.Title,
			Amount:               tmpl.Amount,
			Date:                 candidate,
			Categories:           append([]string(nil), tmpl.Categories...),
			PaymentMethod:        tmpl.PaymentMethod,
			CurrencyCode:         tmpl.CurrencyCode,
			Merchant:             tmpl.Merchant,
			Notes:                tmpl.Notes,
			TemplateID:           tmpl.TemplateID,
			IsGenerated:          true,
			TemplateSnapshotHash: snapshotHash,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		})
	}

	changed := false
	tmpl.OccurrenceCount += len(created)
	if len(created) > 0 {
		changed = true
	}

	// Only commit progress through dates that have actually occurred.
	// Future-dated records never move the marker past "now", so a later
	// run can still detect and fill any gap before them.
	if !latestOccurred.IsZero() && (tmpl.LastGeneratedDate == nil || latestOccurred.After(*tmpl.LastGeneratedDate)) {
		tmpl.LastGeneratedDate = &latestOccurred
		changed = true
	}

	if !changed {
		return created, nil, nil
	}
	tmpl.LastUpdatedAt = now
	return created, &tmpl, nil
}

func hasExpenseOnDay(expenses []domain.ExpenseRecord, day time.Time) bool {
	for _, e := range expenses {
		if domain.SameCalendarDay(e.Date, day) {
			return true
		}
	}
	return false
}

// MissedTemplates flags active, unpaused recurring templates whose next due
// date is more than the grace period in the past with no expense recorded
// for that day. Flag only; nothing is auto-created.
func (s *generationService) MissedTemplates(ctx context.Context, now time.Time) ([]dto.MissedTemplate, error) {
	templates, err := s.templateRepo.ListGenerationCandidates(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list templates for missed-payment check")
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	grace := time.Duration(s.cfg.MissedPaymentGraceDays) * 24 * time.Hour

	var missed []dto.MissedTemplate
	for _, tmpl := range templates {
		if domain.IsCurrentlyPaused(tmpl, now) {
			continue
		}
		due, ok := domain.NextDueDate(tmpl)
		if !ok || now.Sub(due) <= grace {
			continue
		}

		expenses, err := s.expenseRepo.ListExpensesByTemplate(ctx, tmpl.TemplateID, domain.StartOfDay(due))
		if err != nil {
			return nil, fmt.Errorf("loading expenses for template %s: %w", tmpl.TemplateID, err)
		}
		if hasExpenseOnDay(expenses, due) {
			continue
		}

		missed = append(missed, dto.MissedTemplate{
			TemplateID: tmpl.TemplateID,
			Title:      tmpl.Title,
			Merchant:   tmpl.Merchant,
			Amount:     tmpl.Amount,
			Frequency:  tmpl.Frequency,
			DueDate:    due,
			DaysLate:   int(now.Sub(due).Hours() / 24),
		})
	}
	return missed, nil
}
