package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/planday-app/organizer_backend/internal/core/domain"
	portssvc "github.com/planday-app/organizer_backend/internal/core/ports/services"
	"github.com/planday-app/organizer_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type GenerationServiceTestSuite struct {
	suite.Suite
	mockTemplateRepo *MockTemplateRepository
	mockExpenseRepo  *MockExpenseRepository
	mockNotifier     *MockNotificationScheduler
	mockWidget       *MockWidgetSync
	service          portssvc.GenerationSvc
	now              time.Time
}

func (suite *GenerationServiceTestSuite) SetupTest() {
	suite.mockTemplateRepo = new(MockTemplateRepository)
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockNotifier = new(MockNotificationScheduler)
	suite.mockWidget = new(MockWidgetSync)
	suite.service = services.NewGenerationService(
		suite.mockTemplateRepo,
		suite.mockExpenseRepo,
		suite.mockNotifier,
		suite.mockWidget,
		testEngineConfig(),
	)
	suite.now = time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)
}

func (suite *GenerationServiceTestSuite) expectDownstream() {
	suite.mockExpenseRepo.On("ListExpensesByDateRange", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.ExpenseRecord{}, nil).Once()
	suite.mockNotifier.On("CancelPending", mock.Anything, "expense_reminder_").Return(nil).Once()
	suite.mockWidget.On("PushUpcoming", mock.Anything, mock.Anything).Return(nil).Once()
}

func monthlyTemplate(start time.Time) domain.RecurringTemplate {
	return domain.RecurringTemplate{
		TemplateID:      uuid.NewString(),
		Title:           "Gym membership",
		Amount:          decimal.NewFromInt(600),
		AmountTolerance: domain.DefaultAmountTolerance,
		Categories:      []string{"sport"},
		CurrencyCode:    "UAH",
		Merchant:        "powergym",
		Frequency:       domain.Monthly,
		StartDate:       start,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     start,
			LastUpdatedAt: start,
		},
	}
}

func (suite *GenerationServiceTestSuite) TestGenerateUpcoming_FillsWindowAnchoredOnStartDate() {
	ctx := context.Background()
	tmpl := monthlyTemplate(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	suite.mockTemplateRepo.On("ListGenerationCandidates", ctx).
		Return([]domain.RecurringTemplate{tmpl}, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesByTemplate", ctx, tmpl.TemplateID, tmpl.StartDate).
		Return([]domain.ExpenseRecord{}, nil).Once()

	// The start date itself is history and skipped; Feb 15 and Mar 15 are
	// past but still filled, Apr 15 and May 15 fall inside the 60-day
	// horizon (May 19).
	expectedDates := []time.Time{
		time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
	}
	suite.mockExpenseRepo.On("SaveExpenses", ctx, mock.MatchedBy(func(expenses []domain.ExpenseRecord) bool {
		if len(expenses) != len(expectedDates) {
			return false
		}
		for i, e := range expenses {
			if !e.Date.Equal(expectedDates[i]) || !e.IsGenerated || e.TemplateID != tmpl.TemplateID {
				return false
			}
		}
		return true
	})).Return(nil).Once()

	lastOccurred := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	suite.mockTemplateRepo.On("UpdateTemplates", ctx, mock.MatchedBy(func(templates []domain.RecurringTemplate) bool {
		if len(templates) != 1 {
			return false
		}
		t := templates[0]
		return t.LastGeneratedDate != nil && t.LastGeneratedDate.Equal(lastOccurred) && t.OccurrenceCount == 4
	})).Return(nil).Once()

	suite.expectDownstream()

	summary, err := suite.service.GenerateUpcoming(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(1, summary.TemplatesProcessed)
	suite.Equal(4, summary.ExpensesCreated)
	suite.Len(summary.Created, 4)
	suite.mockTemplateRepo.AssertExpectations(suite.T())
	suite.mockExpenseRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
	suite.mockWidget.AssertExpectations(suite.T())
}

func (suite *GenerationServiceTestSuite) TestGenerateUpcoming_SecondRunCreatesNothing() {
	ctx := context.Background()
	tmpl := monthlyTemplate(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	lastOccurred := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	tmpl.LastGeneratedDate = &lastOccurred
	tmpl.OccurrenceCount = 4

	existing := make([]domain.ExpenseRecord, 0, 4)
	for _, d := range []time.Time{
		time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
	} {
		existing = append(existing, domain.ExpenseRecord{
			ExpenseID:   uuid.NewString(),
			TemplateID:  tmpl.TemplateID,
			Date:        d,
			IsGenerated: true,
		})
	}

	suite.mockTemplateRepo.On("ListGenerationCandidates", ctx).
		Return([]domain.RecurringTemplate{tmpl}, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesByTemplate", ctx, tmpl.TemplateID, tmpl.StartDate).
		Return(existing, nil).Once()
	suite.expectDownstream()

	summary, err := suite.service.GenerateUpcoming(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(0, summary.ExpensesCreated)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveExpenses", mock.Anything, mock.Anything)
	suite.mockTemplateRepo.AssertNotCalled(suite.T(), "UpdateTemplates", mock.Anything, mock.Anything)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *GenerationServiceTestSuite) TestGenerateUpcoming_PausedTemplateSkipped() {
	ctx := context.Background()
	tmpl := monthlyTemplate(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	tmpl.IsPaused = true

	suite.mockTemplateRepo.On("ListGenerationCandidates", ctx).
		Return([]domain.RecurringTemplate{tmpl}, nil).Once()
	suite.expectDownstream()

	summary, err := suite.service.GenerateUpcoming(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(0, summary.TemplatesProcessed)
	suite.Equal(0, summary.ExpensesCreated)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "ListExpensesByTemplate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GenerationServiceTestSuite) TestGenerateUpcoming_PauseExpiredResumesGeneration() {
	ctx := context.Background()
	tmpl := monthlyTemplate(time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC))
	tmpl.IsPaused = true
	resumed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tmpl.PausedUntil = &resumed

	suite.mockTemplateRepo.On("ListGenerationCandidates", ctx).
		Return([]domain.RecurringTemplate{tmpl}, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesByTemplate", ctx, tmpl.TemplateID, tmpl.StartDate).
		Return([]domain.ExpenseRecord{}, nil).Once()
	suite.mockExpenseRepo.On("SaveExpenses", ctx, mock.AnythingOfType("[]domain.ExpenseRecord")).
		Return(nil).Once()
	suite.mockTemplateRepo.On("UpdateTemplates", ctx, mock.AnythingOfType("[]domain.RecurringTemplate")).
		Return(nil).Once()
	suite.expectDownstream()

	summary, err := suite.service.GenerateUpcoming(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(1, summary.TemplatesProcessed)
	// Mar 25, Apr 25 and May 25 within the May 19 horizon: only the first
	// two qualify.
	suite.Equal(2, summary.ExpensesCreated)
}

func (suite *GenerationServiceTestSuite) TestGenerateUpcoming_StartDateTodayIsGenerated() {
	ctx := context.Background()
	// A start date on today's calendar day is not "in the past": the very
	// first occurrence is due today and must be materialized.
	today := domain.StartOfDay(suite.now)
	tmpl := monthlyTemplate(today)

	suite.mockTemplateRepo.On("ListGenerationCandidates", ctx).
		Return([]domain.RecurringTemplate{tmpl}, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesByTemplate", ctx, tmpl.TemplateID, tmpl.StartDate).
		Return([]domain.ExpenseRecord{}, nil).Once()

	// Mar 20 (today) and Apr 20; May 20 is past the 60-day horizon.
	expectedDates := []time.Time{
		today,
		time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC),
	}
	suite.mockExpenseRepo.On("SaveExpenses", ctx, mock.MatchedBy(func(expenses []domain.ExpenseRecord) bool {
		if len(expenses) != len(expectedDates) {
			return false
		}
		for i, e := range expenses {
			if !e.Date.Equal(expectedDates[i]) {
				return false
			}
		}
		return true
	})).Return(nil).Once()

	suite.mockTemplateRepo.On("UpdateTemplates", ctx, mock.MatchedBy(func(templates []domain.RecurringTemplate) bool {
		if len(templates) != 1 {
			return false
		}
		t := templates[0]
		return t.LastGeneratedDate != nil && t.LastGeneratedDate.Equal(today) && t.OccurrenceCount == 2
	})).Return(nil).Once()

	suite.expectDownstream()

	summary, err := suite.service.GenerateUpcoming(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(2, summary.ExpensesCreated)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
	suite.mockTemplateRepo.AssertExpectations(suite.T())
}

func (suite *GenerationServiceTestSuite) TestGenerateUpcoming_IterationCapBoundsBackfill() {
	ctx := context.Background()
	// A template anchored a century back would otherwise walk thousands
	// of periods while catching up. The cap bounds the run; the skipped
	// first occurrence is the only one not materialized.
	tmpl := monthlyTemplate(suite.now.AddDate(-100, 0, 0))

	suite.mockTemplateRepo.On("ListGenerationCandidates", ctx).
		Return([]domain.RecurringTemplate{tmpl}, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesByTemplate", ctx, tmpl.TemplateID, tmpl.StartDate).
		Return([]domain.ExpenseRecord{}, nil).Once()

	suite.mockExpenseRepo.On("SaveExpenses", ctx, mock.MatchedBy(func(expenses []domain.ExpenseRecord) bool {
		if len(expenses) != domain.GenerationIterationCap-1 {
			return false
		}
		for _, e := range expenses {
			if e.Date.After(suite.now) {
				return false
			}
		}
		return true
	})).Return(nil).Once()

	lastOccurred := domain.AddPeriods(tmpl.StartDate, domain.Monthly, domain.GenerationIterationCap-1)
	suite.mockTemplateRepo.On("UpdateTemplates", ctx, mock.MatchedBy(func(templates []domain.RecurringTemplate) bool {
		return len(templates) == 1 &&
			templates[0].LastGeneratedDate != nil &&
			templates[0].LastGeneratedDate.Equal(lastOccurred)
	})).Return(nil).Once()

	suite.expectDownstream()

	summary, err := suite.service.GenerateUpcoming(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(domain.GenerationIterationCap-1, summary.ExpensesCreated)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
	suite.mockTemplateRepo.AssertExpectations(suite.T())
}

func (suite *GenerationServiceTestSuite) TestMissedTemplates_FlagsOverdueWithoutExpense() {
	ctx := context.Background()
	tmpl := monthlyTemplate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	suite.mockTemplateRepo.On("ListGenerationCandidates", ctx).
		Return([]domain.RecurringTemplate{tmpl}, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesByTemplate", ctx, tmpl.TemplateID, domain.StartOfDay(due)).
		Return([]domain.ExpenseRecord{}, nil).Once()

	missed, err := suite.service.MissedTemplates(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Require().Len(missed, 1)
	suite.Equal(tmpl.TemplateID, missed[0].TemplateID)
	suite.True(missed[0].DueDate.Equal(due))
	suite.Equal(19, missed[0].DaysLate)
}

func (suite *GenerationServiceTestSuite) TestMissedTemplates_ExpenseOnDueDateClears() {
	ctx := context.Background()
	tmpl := monthlyTemplate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	suite.mockTemplateRepo.On("ListGenerationCandidates", ctx).
		Return([]domain.RecurringTemplate{tmpl}, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesByTemplate", ctx, tmpl.TemplateID, domain.StartOfDay(due)).
		Return([]domain.ExpenseRecord{{
			ExpenseID:  uuid.NewString(),
			TemplateID: tmpl.TemplateID,
			Date:       time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC),
		}}, nil).Once()

	missed, err := suite.service.MissedTemplates(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Empty(missed)
}

func (suite *GenerationServiceTestSuite) TestMissedTemplates_WithinGraceNotFlagged() {
	ctx := context.Background()
	tmpl := monthlyTemplate(time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC))

	suite.mockTemplateRepo.On("ListGenerationCandidates", ctx).
		Return([]domain.RecurringTemplate{tmpl}, nil).Once()

	missed, err := suite.service.MissedTemplates(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Empty(missed)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "ListExpensesByTemplate", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GenerationServiceTestSuite))
}
