package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/planday-app/organizer_backend/internal/apperrors"
	"github.com/planday-app/organizer_backend/internal/core/domain"
	portsrepo "github.com/planday-app/organizer_backend/internal/core/ports/repositories"
	portssvc "github.com/planday-app/organizer_backend/internal/core/ports/services"
	"github.com/planday-app/organizer_backend/internal/dto"
)

// templateService manages recurring templates. Edits that change
// template-owned fields propagate to generated expenses through the sync
// service, starting from today.
type templateService struct {
	BaseService
	templateRepo portsrepo.TemplateRepository
	sessionRepo  portsrepo.ImportSessionRepository
	sync         portssvc.TemplateSyncSvc
}

// NewTemplateService creates the template management service.
func NewTemplateService(templateRepo portsrepo.TemplateRepository, sessionRepo portsrepo.ImportSessionRepository, sync portssvc.TemplateSyncSvc) portssvc.TemplateSvc {
	return &templateService{
		templateRepo: templateRepo,
		sessionRepo:  sessionRepo,
		sync:         sync,
	}
}

var _ portssvc.TemplateSvc = (*templateService)(nil)

func (s *templateService) CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest) (*domain.RecurringTemplate, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("template amount must be positive: %w", apperrors.ErrValidation)
	}

	tolerance := domain.DefaultAmountTolerance
	if req.AmountTolerance != nil {
		tolerance = *req.AmountTolerance
	}

	now := time.Now()
	tmpl := domain.RecurringTemplate{
		TemplateID:      uuid.NewString(),
		Title:           req.Title,
		Amount:          req.Amount,
		AmountTolerance: tolerance,
		Categories:      req.Categories,
		PaymentMethod:   req.PaymentMethod,
		CurrencyCode:    req.CurrencyCode,
		Merchant:        req.Merchant,
		Notes:           req.Notes,
		Frequency:       req.Frequency,
		StartDate:       req.StartDate,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.templateRepo.SaveTemplate(ctx, tmpl); err != nil {
		s.LogError(ctx, err, "Failed to save template", slog.String("template_id", tmpl.TemplateID))
		return nil, err
	}

	if req.SourceSessionID != "" {
		// Audit counter only; a failed bump must not undo the creation.
		if err := s.sessionRepo.IncrementTemplatesCreated(ctx, req.SourceSessionID); err != nil {
			s.LogError(ctx, err, "Failed to count template against import session",
				slog.String("session_id", req.SourceSessionID))
		}
	}

	s.LogInfo(ctx, "Template created",
		slog.String("template_id", tmpl.TemplateID),
		slog.String("frequency", string(tmpl.Frequency)))
	return &tmpl, nil
}

func (s *templateService) GetTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	tmpl, err := s.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find template", slog.String("template_id", templateID))
		}
		return nil, err
	}
	return tmpl, nil
}

func (s *templateService) ListTemplates(ctx context.Context, includeInactive bool) ([]domain.RecurringTemplate, error) {
	templates, err := s.templateRepo.ListTemplates(ctx, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list templates")
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	if templates == nil {
		templates = []domain.RecurringTemplate{}
	}
	return templates, nil
}

func (s *templateService) UpdateTemplate(ctx context.Context, templateID string, req dto.UpdateTemplateRequest) (*domain.RecurringTemplate, error) {
	tmpl, err := s.GetTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Title != nil {
		tmpl.Title = *req.Title
		updated = true
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("template amount must be positive: %w", apperrors.ErrValidation)
		}
		tmpl.Amount = *req.Amount
		updated = true
	}
	if req.AmountTolerance != nil {
		tmpl.AmountTolerance = *req.AmountTolerance
		updated = true
	}
	if req.Categories != nil {
		tmpl.Categories = *req.Categories
		updated = true
	}
	if req.PaymentMethod != nil {
		tmpl.PaymentMethod = *req.PaymentMethod
		updated = true
	}
	if req.CurrencyCode != nil {
		tmpl.CurrencyCode = *req.CurrencyCode
		updated = true
	}
	if req.Merchant != nil {
		tmpl.Merchant = *req.Merchant
		updated = true
	}
	if req.Notes != nil {
		tmpl.Notes = *req.Notes
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for template update", slog.String("template_id", templateID))
		return tmpl, nil
	}

	tmpl.LastUpdatedAt = time.Now()
	if err := s.templateRepo.UpdateTemplate(ctx, *tmpl); err != nil {
		s.LogError(ctx, err, "Failed to update template", slog.String("template_id", templateID))
		return nil, err
	}

	// Propagate the edit to generated records from today onwards. Records
	// already in the past stay as they were booked.
	applyFrom := domain.StartOfDay(time.Now())
	if _, err := s.sync.UpdateGeneratedExpenses(ctx, templateID, applyFrom); err != nil {
		s.LogError(ctx, err, "Failed to sync generated expenses after template update",
			slog.String("template_id", templateID))
		return nil, fmt.Errorf("syncing generated expenses: %w", err)
	}

	return tmpl, nil
}

func (s *templateService) PauseTemplate(ctx context.Context, templateID string, pausedUntil *time.Time) (*domain.RecurringTemplate, error) {
	tmpl, err := s.GetTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	tmpl.IsPaused = true
	tmpl.PausedUntil = pausedUntil
	tmpl.LastUpdatedAt = time.Now()

	if err := s.templateRepo.UpdateTemplate(ctx, *tmpl); err != nil {
		s.LogError(ctx, err, "Failed to pause template", slog.String("template_id", templateID))
		return nil, err
	}
	s.LogInfo(ctx, "Template paused", slog.String("template_id", templateID))
	return tmpl, nil
}

func (s *templateService) ResumeTemplate(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	tmpl, err := s.GetTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	tmpl.IsPaused = false
	tmpl.PausedUntil = nil
	tmpl.LastUpdatedAt = time.Now()

	if err := s.templateRepo.UpdateTemplate(ctx, *tmpl); err != nil {
		s.LogError(ctx, err, "Failed to resume template", slog.String("template_id", templateID))
		return nil, err
	}
	s.LogInfo(ctx, "Template resumed", slog.String("template_id", templateID))
	return tmpl, nil
}

// DeleteTemplate removes the template record. Expenses generated from it
// keep their weak back-reference; nothing cascades.
func (s *templateService) DeleteTemplate(ctx context.Context, templateID string) error {
	if _, err := s.GetTemplateByID(ctx, templateID); err != nil {
		return err
	}
	if err := s.templateRepo.DeleteTemplate(ctx, templateID); err != nil {
		s.LogError(ctx, err, "Failed to delete template", slog.String("template_id", templateID))
		return err
	}
	s.LogInfo(ctx, "Template deleted", slog.String("template_id", templateID))
	return nil
}
