package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/planday-app/organizer_backend/internal/apperrors"
	"github.com/planday-app/organizer_backend/internal/core/domain"
	portssvc "github.com/planday-app/organizer_backend/internal/core/ports/services"
	"github.com/planday-app/organizer_backend/internal/core/services"
	"github.com/planday-app/organizer_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	mockRepo *MockExpenseRepository
	service  portssvc.ExpenseSvc
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockExpenseRepository)
	suite.service = services.NewExpenseService(suite.mockRepo)
}

func (suite *ExpenseServiceTestSuite) TestListExpensesByMonth_QueriesFullMonth() {
	ctx := context.Background()
	expected := []domain.ExpenseRecord{{ExpenseID: "e1", Title: "Rent"}}

	suite.mockRepo.On("ListExpensesByDateRange", ctx,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	).Return(expected, nil).Once()

	got, err := suite.service.ListExpensesByMonth(ctx, 2024, time.March)

	suite.NoError(err)
	suite.Equal(expected, got)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestListExpensesByMonth_NilBecomesEmptySlice() {
	ctx := context.Background()

	suite.mockRepo.On("ListExpensesByDateRange", ctx, mock.Anything, mock.Anything).
		Return(nil, nil).Once()

	got, err := suite.service.ListExpensesByMonth(ctx, 2024, time.December)

	suite.NoError(err)
	suite.NotNil(got)
	suite.Empty(got)
}

func (suite *ExpenseServiceTestSuite) TestListUpcoming_UsesDayWindow() {
	ctx := context.Background()
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	expected := []domain.ExpenseRecord{{ExpenseID: "e1", Title: "Netflix"}}

	suite.mockRepo.On("ListExpensesByDateRange", ctx, now, now.AddDate(0, 0, 7)).
		Return(expected, nil).Once()

	got, err := suite.service.ListUpcoming(ctx, now, 7)

	suite.NoError(err)
	suite.Equal(expected, got)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestListUpcoming_RepoError() {
	ctx := context.Background()
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

	suite.mockRepo.On("ListExpensesByDateRange", ctx, now, now.AddDate(0, 0, 7)).
		Return(nil, errors.New("db down")).Once()

	got, err := suite.service.ListUpcoming(ctx, now, 7)

	suite.Error(err)
	suite.Nil(got)
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_GeneratedBecomesManuallyEdited() {
	ctx := context.Background()
	existing := domain.ExpenseRecord{
		ExpenseID:   "e1",
		Title:       "Gym membership",
		Amount:      decimal.NewFromInt(600),
		Date:        time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		IsGenerated: true,
	}
	newTitle := "Gym membership family"
	newAmount := decimal.NewFromInt(900)

	suite.mockRepo.On("FindExpenseByID", ctx, "e1").Return(&existing, nil).Once()
	suite.mockRepo.On("UpdateExpense", ctx, mock.MatchedBy(func(e domain.ExpenseRecord) bool {
		return e.Title == newTitle &&
			e.Amount.Equal(newAmount) &&
			e.IsManuallyEdited
	})).Return(nil).Once()

	updated, err := suite.service.UpdateExpense(ctx, "e1", dto.UpdateExpenseRequest{
		Title:  &newTitle,
		Amount: &newAmount,
	})

	suite.NoError(err)
	suite.True(updated.IsManuallyEdited)
	suite.Equal(newTitle, updated.Title)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_NoFieldsNoWrite() {
	ctx := context.Background()
	existing := domain.ExpenseRecord{ExpenseID: "e1", Title: "Rent", IsGenerated: true}

	suite.mockRepo.On("FindExpenseByID", ctx, "e1").Return(&existing, nil).Once()

	updated, err := suite.service.UpdateExpense(ctx, "e1", dto.UpdateExpenseRequest{})

	suite.NoError(err)
	suite.False(updated.IsManuallyEdited)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("FindExpenseByID", ctx, "missing").
		Return(nil, apperrors.ErrNotFound).Once()

	updated, err := suite.service.UpdateExpense(ctx, "missing", dto.UpdateExpenseRequest{})

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(updated)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
