package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/planday-app/organizer_backend/internal/apperrors"
	"github.com/planday-app/organizer_backend/internal/core/domain"
	portssvc "github.com/planday-app/organizer_backend/internal/core/ports/services"
	"github.com/planday-app/organizer_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SyncServiceTestSuite struct {
	suite.Suite
	mockTemplateRepo *MockTemplateRepository
	mockExpenseRepo  *MockExpenseRepository
	mockSnapshotRepo *MockSnapshotRepository
	mockNotifier     *MockNotificationScheduler
	mockWidget       *MockWidgetSync
	service          portssvc.TemplateSyncSvc
}

func (suite *SyncServiceTestSuite) SetupTest() {
	suite.mockTemplateRepo = new(MockTemplateRepository)
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockSnapshotRepo = new(MockSnapshotRepository)
	suite.mockNotifier = new(MockNotificationScheduler)
	suite.mockWidget = new(MockWidgetSync)
	suite.service = services.NewSyncService(
		suite.mockTemplateRepo,
		suite.mockExpenseRepo,
		suite.mockSnapshotRepo,
		suite.mockNotifier,
		suite.mockWidget,
		testEngineConfig(),
	)
}

func (suite *SyncServiceTestSuite) expectDownstream() {
	suite.mockExpenseRepo.On("ListExpensesByDateRange", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.ExpenseRecord{}, nil).Once()
	suite.mockNotifier.On("CancelPending", mock.Anything, "expense_reminder_").Return(nil).Once()
	suite.mockWidget.On("PushUpcoming", mock.Anything, mock.Anything).Return(nil).Once()
}

func generatedExpense(templateID string, date time.Time, title string, amount int64) domain.ExpenseRecord {
	return domain.ExpenseRecord{
		ExpenseID:    uuid.NewString(),
		Title:        title,
		Amount:       decimal.NewFromInt(amount),
		Date:         date,
		Categories:   []string{"sport"},
		CurrencyCode: "UAH",
		Merchant:     "powergym",
		TemplateID:   templateID,
		IsGenerated:  true,
	}
}

func (suite *SyncServiceTestSuite) TestUpdateGeneratedExpenses_OverwritesAndSnapshots() {
	ctx := context.Background()
	tmpl := monthlyTemplate(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	tmpl.Title = "Gym membership Plus"
	tmpl.Amount = decimal.NewFromInt(700)
	applyFrom := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	e1 := generatedExpense(tmpl.TemplateID, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), "Gym membership", 600)
	e2 := generatedExpense(tmpl.TemplateID, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), "Gym membership", 600)

	suite.mockTemplateRepo.On("FindTemplateByID", ctx, tmpl.TemplateID).Return(&tmpl, nil).Once()
	suite.mockExpenseRepo.On("ListGeneratedByTemplate", ctx, tmpl.TemplateID, applyFrom).
		Return([]domain.ExpenseRecord{e1, e2}, nil).Once()

	suite.mockSnapshotRepo.On("PutSnapshot", ctx, tmpl.TemplateID, mock.MatchedBy(func(snaps []domain.ExpenseSnapshot) bool {
		return len(snaps) == 2 &&
			snaps[0].ExpenseID == e1.ExpenseID &&
			snaps[0].Title == "Gym membership" &&
			snaps[0].Amount.Equal(decimal.NewFromInt(600)) &&
			snaps[0].HasCategories
	})).Return(nil).Once()

	suite.mockExpenseRepo.On("UpdateExpenses", ctx, mock.MatchedBy(func(expenses []domain.ExpenseRecord) bool {
		if len(expenses) != 2 {
			return false
		}
		for _, e := range expenses {
			if e.Title != "Gym membership Plus" || !e.Amount.Equal(decimal.NewFromInt(700)) {
				return false
			}
		}
		return true
	})).Return(nil).Once()

	suite.expectDownstream()

	result, err := suite.service.UpdateGeneratedExpenses(ctx, tmpl.TemplateID, applyFrom)

	suite.Require().NoError(err)
	suite.Equal(2, result.UpdatedCount)
	suite.Equal(0, result.SkippedManualCount)
	suite.mockSnapshotRepo.AssertExpectations(suite.T())
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestUpdateGeneratedExpenses_ManuallyEditedSkipped() {
	ctx := context.Background()
	tmpl := monthlyTemplate(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	applyFrom := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	edited := generatedExpense(tmpl.TemplateID, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), "Gym (negotiated)", 500)
	edited.IsManuallyEdited = true
	plain := generatedExpense(tmpl.TemplateID, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), "Gym membership", 600)

	suite.mockTemplateRepo.On("FindTemplateByID", ctx, tmpl.TemplateID).Return(&tmpl, nil).Once()
	suite.mockExpenseRepo.On("ListGeneratedByTemplate", ctx, tmpl.TemplateID, applyFrom).
		Return([]domain.ExpenseRecord{edited, plain}, nil).Once()

	suite.mockSnapshotRepo.On("PutSnapshot", ctx, tmpl.TemplateID, mock.MatchedBy(func(snaps []domain.ExpenseSnapshot) bool {
		// The manually edited record never enters the snapshot.
		return len(snaps) == 1 && snaps[0].ExpenseID == plain.ExpenseID
	})).Return(nil).Once()

	suite.mockExpenseRepo.On("UpdateExpenses", ctx, mock.MatchedBy(func(expenses []domain.ExpenseRecord) bool {
		return len(expenses) == 1 && expenses[0].ExpenseID == plain.ExpenseID
	})).Return(nil).Once()

	suite.expectDownstream()

	result, err := suite.service.UpdateGeneratedExpenses(ctx, tmpl.TemplateID, applyFrom)

	suite.Require().NoError(err)
	suite.Equal(1, result.UpdatedCount)
	suite.Equal(1, result.SkippedManualCount)
}

func (suite *SyncServiceTestSuite) TestUpdateGeneratedExpenses_TemplateNotFound() {
	ctx := context.Background()

	suite.mockTemplateRepo.On("FindTemplateByID", ctx, "missing").
		Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.UpdateGeneratedExpenses(ctx, "missing", time.Now())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(result)
	suite.mockSnapshotRepo.AssertNotCalled(suite.T(), "PutSnapshot", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SyncServiceTestSuite) TestUndoLastTemplateUpdate_RestoresSnapshot() {
	ctx := context.Background()
	templateID := uuid.NewString()

	current := generatedExpense(templateID, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), "Gym membership Plus", 700)
	snapshot := domain.ExpenseSnapshot{
		ExpenseID:     current.ExpenseID,
		Title:         "Gym membership",
		Amount:        decimal.NewFromInt(600),
		Merchant:      "powergym",
		CurrencyCode:  "UAH",
		Categories:    []string{"sport"},
		HasCategories: true,
	}

	suite.mockSnapshotRepo.On("GetSnapshot", ctx, templateID).
		Return([]domain.ExpenseSnapshot{snapshot}, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, current.ExpenseID).
		Return(&current, nil).Once()
	suite.mockExpenseRepo.On("UpdateExpenses", ctx, mock.MatchedBy(func(expenses []domain.ExpenseRecord) bool {
		return len(expenses) == 1 &&
			expenses[0].Title == "Gym membership" &&
			expenses[0].Amount.Equal(decimal.NewFromInt(600))
	})).Return(nil).Once()
	suite.mockSnapshotRepo.On("ClearSnapshot", ctx, templateID).Return(nil).Once()
	suite.expectDownstream()

	restored, err := suite.service.UndoLastTemplateUpdate(ctx, templateID)

	suite.Require().NoError(err)
	suite.True(restored)
	suite.mockSnapshotRepo.AssertExpectations(suite.T())
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestUndoLastTemplateUpdate_NoSnapshot() {
	ctx := context.Background()
	templateID := uuid.NewString()

	suite.mockSnapshotRepo.On("GetSnapshot", ctx, templateID).
		Return(nil, apperrors.ErrNotFound).Once()

	restored, err := suite.service.UndoLastTemplateUpdate(ctx, templateID)

	suite.Require().NoError(err)
	suite.False(restored)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "UpdateExpenses", mock.Anything, mock.Anything)
	suite.mockSnapshotRepo.AssertNotCalled(suite.T(), "ClearSnapshot", mock.Anything, mock.Anything)
}

func (suite *SyncServiceTestSuite) TestUndoLastTemplateUpdate_DeletedExpenseSkipped() {
	ctx := context.Background()
	templateID := uuid.NewString()

	snapshot := domain.ExpenseSnapshot{
		ExpenseID: uuid.NewString(),
		Title:     "Gym membership",
		Amount:    decimal.NewFromInt(600),
	}

	suite.mockSnapshotRepo.On("GetSnapshot", ctx, templateID).
		Return([]domain.ExpenseSnapshot{snapshot}, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, snapshot.ExpenseID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSnapshotRepo.On("ClearSnapshot", ctx, templateID).Return(nil).Once()
	suite.expectDownstream()

	restored, err := suite.service.UndoLastTemplateUpdate(ctx, templateID)

	suite.Require().NoError(err)
	suite.True(restored)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "UpdateExpenses", mock.Anything, mock.Anything)
}

func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}
