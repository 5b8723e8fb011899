package ports

import (
	"context"
	"time"

	"github.com/planday-app/organizer_backend/internal/core/domain"
)

// NotificationScheduler is the delivery collaborator for payment reminders.
// The engine decides which dates need reminders; delivery is external.
type NotificationScheduler interface {
	// CancelPending cancels every scheduled notification whose id starts
	// with the given prefix.
	CancelPending(ctx context.Context, idPrefix string) error
	ScheduleAt(ctx context.Context, at time.Time, payload string, id string) error
}

// WidgetSync pushes a small serialized summary of upcoming expenses to a
// shared key-value surface consumed by the home-screen widget. Triggered
// after any mutation that changes future expenses.
type WidgetSync interface {
	PushUpcoming(ctx context.Context, upcoming []domain.ExpenseRecord) error
}
