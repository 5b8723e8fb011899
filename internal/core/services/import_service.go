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
	"github.com/planday-app/organizer_backend/internal/utils/bankcsv"
)

// importService runs the statement import workflow: parse the raw export,
// drop transactions that duplicate recorded expenses, run pattern
// detection over the rest and record an audit session.
type importService struct {
	BaseService
	sessionRepo portsrepo.ImportSessionRepository
	expenseRepo portsrepo.ExpenseRepository
	detection   portssvc.DetectionSvc
	cfg         config.EngineConfig
}

// NewImportService creates the import workflow service.
func NewImportService(sessionRepo portsrepo.ImportSessionRepository, expenseRepo portsrepo.ExpenseRepository, detection portssvc.DetectionSvc, cfg config.EngineConfig) portssvc.ImporterSvc {
	return &importService{
		sessionRepo: sessionRepo,
		expenseRepo: expenseRepo,
		detection:   detection,
		cfg:         cfg,
	}
}

var _ portssvc.ImporterSvc = (*importService)(nil)

func (s *importService) ImportStatement(ctx context.Context, req dto.ImportStatementRequest) (*dto.ImportResult, error) {
	now := time.Now()

	parsed, err := bankcsv.Parse([]byte(req.Content), s.cfg.DefaultCurrency)
	if err != nil {
		s.LogError(ctx, err, "Failed to parse statement", slog.String("file_name", req.FileName))
		return nil, fmt.Errorf("parsing statement %s: %w", req.FileName, err)
	}

	fresh, duplicates, err := s.filterDuplicates(ctx, parsed.Transactions)
	if err != nil {
		return nil, err
	}

	suggestions := s.detection.DetectPatterns(ctx, fresh, now)

	if err := s.applySessionRetention(ctx, now); err != nil {
		// Retention is housekeeping; a failure must not sink the import.
		s.LogError(ctx, err, "Import session retention failed")
	}

	session := domain.ImportSession{
		SessionID:        uuid.NewString(),
		ImportedAt:       now,
		FileName:         req.FileName,
		TransactionCount: len(parsed.Transactions),
		SuggestionCount:  len(suggestions),
		DuplicatesFound:  duplicates,
	}
	if err := s.sessionRepo.SaveSession(ctx, session); err != nil {
		s.LogError(ctx, err, "Failed to save import session", slog.String("file_name", req.FileName))
		return nil, err
	}

	result := &dto.ImportResult{
		SessionID:        session.SessionID,
		FileName:         req.FileName,
		TransactionCount: len(parsed.Transactions),
		SkippedRows:      parsed.SkippedRows,
		DuplicatesFound:  duplicates,
		Suggestions:      make([]dto.SuggestionResponse, 0, len(suggestions)),
	}
	for _, sug := range suggestions {
		result.Suggestions = append(result.Suggestions, dto.ToSuggestionResponse(sug))
	}

	s.LogInfo(ctx, "Statement imported",
		slog.String("session_id", session.SessionID),
		slog.String("file_name", req.FileName),
		slog.Int("transactions", len(parsed.Transactions)),
		slog.Int("duplicates", duplicates),
		slog.Int("suggestions", len(suggestions)))
	return result, nil
}

// filterDuplicates drops transactions already present as expenses. The
// existing set is fetched once over the span of the imported rows.
func (s *importService) filterDuplicates(ctx context.Context, txns []domain.TransactionRecord) ([]domain.TransactionRecord, int, error) {
	if len(txns) == 0 {
		return txns, 0, nil
	}

	from, to := txns[0].Date, txns[0].Date
	for _, txn := range txns[1:] {
		if txn.Date.Before(from) {
			from = txn.Date
		}
		if txn.Date.After(to) {
			to = txn.Date
		}
	}

	existing, err := s.expenseRepo.ListExpensesByDateRange(ctx, domain.StartOfDay(from), domain.StartOfDay(to).AddDate(0, 0, 1))
	if err != nil {
		s.LogError(ctx, err, "Failed to load existing expenses for duplicate check")
		return nil, 0, fmt.Errorf("loading expenses for duplicate check: %w", err)
	}

	fresh := make([]domain.TransactionRecord, 0, len(txns))
	duplicates := 0
	for _, txn := range txns {
		if IsDuplicateTransaction(txn, existing, s.cfg.DuplicateAmountTolerance) {
			duplicates++
			continue
		}
		fresh = append(fresh, txn)
	}
	return fresh, duplicates, nil
}

// applySessionRetention enforces the audit-history policy on every import:
// keep the most recent sessions (soft-deleting the rest) and hard-delete
// anything past the maximum age.
func (s *importService) applySessionRetention(ctx context.Context, now time.Time) error {
	deleted, err := s.sessionRepo.HardDeleteOlderThan(ctx, now.Add(-domain.SessionRetentionMaxAge))
	if err != nil {
		return fmt.Errorf("hard-deleting expired sessions: %w", err)
	}
	if deleted > 0 {
		s.LogDebug(ctx, "Expired import sessions removed", slog.Int("count", deleted))
	}

	sessions, err := s.sessionRepo.ListSessions(ctx, false)
	if err != nil {
		return fmt.Errorf("listing sessions for retention: %w", err)
	}
	// ListSessions returns newest first. The incoming import will occupy
	// one slot, so keep one fewer of the existing sessions.
	keep := domain.SessionRetentionKeep - 1
	if keep < 0 {
		keep = 0
	}
	for i := keep; i < len(sessions); i++ {
		if err := s.sessionRepo.SoftDeleteSession(ctx, sessions[i].SessionID); err != nil {
			return fmt.Errorf("soft-deleting session %s: %w", sessions[i].SessionID, err)
		}
	}
	return nil
}

func (s *importService) ListSessions(ctx context.Context) ([]dto.ImportSessionResponse, error) {
	sessions, err := s.sessionRepo.ListSessions(ctx, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to list import sessions")
		return nil, err
	}
	out := make([]dto.ImportSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, dto.ToImportSessionResponse(session))
	}
	return out, nil
}
