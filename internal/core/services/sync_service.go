package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/planday-app/organizer_backend/internal/apperrors"
	"github.com/planday-app/organizer_backend/internal/core/domain"
	portsrepo "github.com/planday-app/organizer_backend/internal/core/ports/repositories"
	portssvc "github.com/planday-app/organizer_backend/internal/core/ports/services"
	"github.com/planday-app/organizer_backend/internal/dto"
	"github.com/planday-app/organizer_backend/internal/platform/config"
)

// syncService propagates template edits to already-generated future
// expenses and supports reverting the most recent sync pass. One undo
// snapshot is retained per template; a new pass overwrites the old one.
type syncService struct {
	BaseService
	templateRepo portsrepo.TemplateRepository
	expenseRepo  portsrepo.ExpenseRepository
	snapshotRepo portsrepo.SnapshotRepository
	downstream   *downstreamSync
}

// NewSyncService creates the template sync/undo manager.
func NewSyncService(templateRepo portsrepo.TemplateRepository, expenseRepo portsrepo.ExpenseRepository, snapshotRepo portsrepo.SnapshotRepository, notifier portssvc.NotificationScheduler, widget portssvc.WidgetSync, cfg config.EngineConfig) portssvc.TemplateSyncSvc {
	return &syncService{
		templateRepo: templateRepo,
		expenseRepo:  expenseRepo,
		snapshotRepo: snapshotRepo,
		downstream:   newDownstreamSync(expenseRepo, notifier, widget, cfg),
	}
}

var _ portssvc.TemplateSyncSvc = (*syncService)(nil)

// UpdateGeneratedExpenses overwrites the template-owned fields of every
// generated, non-manually-edited expense of the template from applyFrom
// onwards. Pre-update values are captured into the template's undo slot
// before anything is written.
func (s *syncService) UpdateGeneratedExpenses(ctx context.Context, templateID string, applyFrom time.Time) (*dto.SyncResult, error) {
	tmpl, err := s.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find template for sync", slog.String("template_id", templateID))
		}
		return nil, err
	}

	expenses, err := s.expenseRepo.ListGeneratedByTemplate(ctx, templateID, applyFrom)
	if err != nil {
		s.LogError(ctx, err, "Failed to load generated expenses for sync", slog.String("template_id", templateID))
		return nil, fmt.Errorf("loading generated expenses for template %s: %w", templateID, err)
	}

	now := time.Now()
	snapshotHash := domain.SnapshotHash(*tmpl)

	result := &dto.SyncResult{}
	var snapshots []domain.ExpenseSnapshot
	var updated []domain.ExpenseRecord

	for _, expense := range expenses {
		if expense.IsManuallyEdited {
			result.SkippedManualCount++
			continue
		}

		snapshots = append(snapshots, domain.ExpenseSnapshot{
			ExpenseID:            expense.ExpenseID,
			Title:                expense.Title,
			Amount:               expense.Amount,
			Merchant:             expense.Merchant,
			Notes:                expense.Notes,
			PaymentMethod:        expense.PaymentMethod,
			CurrencyCode:         expense.CurrencyCode,
			IsIncome:             expense.IsIncome,
			TemplateSnapshotHash: expense.TemplateSnapshotHash,
			Categories:           append([]string(nil), expense.Categories...),
			HasCategories:        true,
		})

		expense.Title = tmpl.Title
		expense.Amount = tmpl.Amount
		expense.Merchant = tmpl.Merchant
		expense.Notes = tmpl.Notes
		expense.PaymentMethod = tmpl.PaymentMethod
		expense.CurrencyCode = tmpl.CurrencyCode
		expense.IsIncome = false
		expense.Categories = append([]string(nil), tmpl.Categories...)
		expense.TemplateSnapshotHash = snapshotHash
		expense.LastUpdatedAt = now

		updated = append(updated, expense)
		result.UpdatedCount++
	}

	// The snapshot slot is written even when the pass touched nothing, so
	// an undo after a no-op sync is a clean no-op too.
	if err := s.snapshotRepo.PutSnapshot(ctx, templateID, snapshots); err != nil {
		s.LogError(ctx, err, "Failed to store undo snapshot", slog.String("template_id", templateID))
		return nil, fmt.Errorf("storing undo snapshot for template %s: %w", templateID, err)
	}

	if len(updated) > 0 {
		if err := s.expenseRepo.UpdateExpenses(ctx, updated); err != nil {
			s.LogError(ctx, err, "Failed to persist synced expenses", slog.String("template_id", templateID))
			return nil, fmt.Errorf("saving synced expenses for template %s: %w", templateID, err)
		}
	}

	if err := s.downstream.Run(ctx, now); err != nil {
		s.LogError(ctx, err, "Downstream sync after template update failed", slog.String("template_id", templateID))
	}

	s.LogInfo(ctx, "Generated expenses synced to template",
		slog.String("template_id", templateID),
		slog.Int("updated", result.UpdatedCount),
		slog.Int("skipped_manual", result.SkippedManualCount))
	return result, nil
}

// UndoLastTemplateUpdate restores every expense captured by the template's
// last sync pass and clears the snapshot slot. Returns false without error
// when there is nothing to undo.
func (s *syncService) UndoLastTemplateUpdate(ctx context.Context, templateID string) (bool, error) {
	snapshots, err := s.snapshotRepo.GetSnapshot(ctx, templateID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		s.LogError(ctx, err, "Failed to load undo snapshot", slog.String("template_id", templateID))
		return false, err
	}

	now := time.Now()
	var restored []domain.ExpenseRecord
	for _, snap := range snapshots {
		expense, err := s.expenseRepo.FindExpenseByID(ctx, snap.ExpenseID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				// The record was deleted since the sync pass; nothing to
				// restore for it.
				continue
			}
			s.LogError(ctx, err, "Failed to load expense for undo", slog.String("expense_id", snap.ExpenseID))
			return false, err
		}

		expense.Title = snap.Title
		expense.Amount = snap.Amount
		expense.Merchant = snap.Merchant
		expense.Notes = snap.Notes
		expense.PaymentMethod = snap.PaymentMethod
		expense.CurrencyCode = snap.CurrencyCode
		expense.IsIncome = snap.IsIncome
		expense.TemplateSnapshotHash = snap.TemplateSnapshotHash
		// Older snapshot formats did not capture categories; restoring
		// them unconditionally would wipe the tags.
		if snap.HasCategories {
			expense.Categories = append([]string(nil), snap.Categories...)
		}
		expense.LastUpdatedAt = now

		restored = append(restored, *expense)
	}

	if len(restored) > 0 {
		if err := s.expenseRepo.UpdateExpenses(ctx, restored); err != nil {
			s.LogError(ctx, err, "Failed to persist restored expenses", slog.String("template_id", templateID))
			return false, err
		}
	}

	if err := s.snapshotRepo.ClearSnapshot(ctx, templateID); err != nil {
		s.LogError(ctx, err, "Failed to clear undo snapshot", slog.String("template_id", templateID))
		return false, err
	}

	if err := s.downstream.Run(ctx, now); err != nil {
		s.LogError(ctx, err, "Downstream sync after undo failed", slog.String("template_id", templateID))
	}

	s.LogInfo(ctx, "Last template sync reverted",
		slog.String("template_id", templateID),
		slog.Int("restored", len(restored)))
	return true, nil
}
