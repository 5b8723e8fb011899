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
)

// expenseService provides expense queries and manual edits.
type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepository
}

// NewExpenseService creates the expense query/edit service.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepository) portssvc.ExpenseSvc {
	return &expenseService{expenseRepo: expenseRepo}
}

var _ portssvc.ExpenseSvc = (*expenseService)(nil)

func (s *expenseService) ListExpensesByMonth(ctx context.Context, year int, month time.Month) ([]domain.ExpenseRecord, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	expenses, err := s.expenseRepo.ListExpensesByDateRange(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses by month",
			slog.Int("year", year), slog.String("month", month.String()))
		return nil, fmt.Errorf("listing expenses for %d-%02d: %w", year, month, err)
	}
	if expenses == nil {
		expenses = []domain.ExpenseRecord{}
	}
	return expenses, nil
}

func (s *expenseService) ListUpcoming(ctx context.Context, now time.Time, days int) ([]domain.ExpenseRecord, error) {
	expenses, err := s.expenseRepo.ListExpensesByDateRange(ctx, now, now.AddDate(0, 0, days))
	if err != nil {
		s.LogError(ctx, err, "Failed to list upcoming expenses", slog.Int("days", days))
		return nil, fmt.Errorf("listing upcoming expenses: %w", err)
	}
	if expenses == nil {
		expenses = []domain.ExpenseRecord{}
	}
	return expenses, nil
}

// UpdateExpense applies a manual edit. A generated record becomes manually
// edited and is exempt from template-driven overwrites from then on.
func (s *expenseService) UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest) (*domain.ExpenseRecord, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find expense", slog.String("expense_id", expenseID))
		}
		return nil, err
	}

	updated := false
	if req.Title != nil {
		expense.Title = *req.Title
		updated = true
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
		updated = true
	}
	if req.Date != nil {
		expense.Date = *req.Date
		updated = true
	}
	if req.Categories != nil {
		expense.Categories = *req.Categories
		updated = true
	}
	if req.PaymentMethod != nil {
		expense.PaymentMethod = *req.PaymentMethod
		updated = true
	}
	if req.Notes != nil {
		expense.Notes = *req.Notes
		updated = true
	}
	if !updated {
		return expense, nil
	}

	if expense.IsGenerated {
		expense.IsManuallyEdited = true
	}
	expense.LastUpdatedAt = time.Now()

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		s.LogError(ctx, err, "Failed to update expense", slog.String("expense_id", expenseID))
		return nil, err
	}

	s.LogInfo(ctx, "Expense updated",
		slog.String("expense_id", expenseID),
		slog.Bool("manually_edited", expense.IsManuallyEdited))
	return expense, nil
}
