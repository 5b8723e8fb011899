package services_test

import (
	"context"
	"time"

	"github.com/planday-app/organizer_backend/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock TemplateRepository ---
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTemplate), args.Error(1)
}

func (m *MockTemplateRepository) ListTemplates(ctx context.Context, includeInactive bool) ([]domain.RecurringTemplate, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringTemplate), args.Error(1)
}

func (m *MockTemplateRepository) ListGenerationCandidates(ctx context.Context) ([]domain.RecurringTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringTemplate), args.Error(1)
}

func (m *MockTemplateRepository) UpdateTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) UpdateTemplates(ctx context.Context, templates []domain.RecurringTemplate) error {
	args := m.Called(ctx, templates)
	return args.Error(0)
}

func (m *MockTemplateRepository) DeleteTemplate(ctx context.Context, templateID string) error {
	args := m.Called(ctx, templateID)
	return args.Error(0)
}

// --- Mock ExpenseRepository ---
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.ExpenseRecord) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) SaveExpenses(ctx context.Context, expenses []domain.ExpenseRecord) error {
	args := m.Called(ctx, expenses)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.ExpenseRecord, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseRecord), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesByDateRange(ctx context.Context, from, to time.Time) ([]domain.ExpenseRecord, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseRecord), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesByTemplate(ctx context.Context, templateID string, from time.Time) ([]domain.ExpenseRecord, error) {
	args := m.Called(ctx, templateID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseRecord), args.Error(1)
}

func (m *MockExpenseRepository) ListGeneratedByTemplate(ctx context.Context, templateID string, from time.Time) ([]domain.ExpenseRecord, error) {
	args := m.Called(ctx, templateID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseRecord), args.Error(1)
}

func (m *MockExpenseRepository) UpdateExpense(ctx context.Context, expense domain.ExpenseRecord) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateExpenses(ctx context.Context, expenses []domain.ExpenseRecord) error {
	args := m.Called(ctx, expenses)
	return args.Error(0)
}

// --- Mock ImportSessionRepository ---
type MockImportSessionRepository struct {
	mock.Mock
}

func (m *MockImportSessionRepository) SaveSession(ctx context.Context, session domain.ImportSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockImportSessionRepository) ListSessions(ctx context.Context, includeDeleted bool) ([]domain.ImportSession, error) {
	args := m.Called(ctx, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ImportSession), args.Error(1)
}

func (m *MockImportSessionRepository) SoftDeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockImportSessionRepository) HardDeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

func (m *MockImportSessionRepository) IncrementTemplatesCreated(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// --- Mock SnapshotRepository ---
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) PutSnapshot(ctx context.Context, templateID string, snapshots []domain.ExpenseSnapshot) error {
	args := m.Called(ctx, templateID, snapshots)
	return args.Error(0)
}

func (m *MockSnapshotRepository) GetSnapshot(ctx context.Context, templateID string) ([]domain.ExpenseSnapshot, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) ClearSnapshot(ctx context.Context, templateID string) error {
	args := m.Called(ctx, templateID)
	return args.Error(0)
}

// --- Mock NotificationScheduler ---
type MockNotificationScheduler struct {
	mock.Mock
}

func (m *MockNotificationScheduler) CancelPending(ctx context.Context, idPrefix string) error {
	args := m.Called(ctx, idPrefix)
	return args.Error(0)
}

func (m *MockNotificationScheduler) ScheduleAt(ctx context.Context, at time.Time, payload string, id string) error {
	args := m.Called(ctx, at, payload, id)
	return args.Error(0)
}

// --- Mock WidgetSync ---
type MockWidgetSync struct {
	mock.Mock
}

func (m *MockWidgetSync) PushUpcoming(ctx context.Context, upcoming []domain.ExpenseRecord) error {
	args := m.Called(ctx, upcoming)
	return args.Error(0)
}
