package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/planday-app/organizer_backend/internal/core/domain"
	portsrepo "github.com/planday-app/organizer_backend/internal/core/ports/repositories"
	portssvc "github.com/planday-app/organizer_backend/internal/core/ports/services"
	"github.com/planday-app/organizer_backend/internal/platform/config"
)

// reminderIDPrefix namespaces every payment reminder so a reschedule can
// cancel the whole batch with one prefix.
const reminderIDPrefix = "expense_reminder_"

// reminderHour is the local hour of the day-before payment reminder.
const reminderHour = 9

// downstreamSync fans a future-expense mutation out to the external
// collaborators: local notification scheduling and the widget summary
// surface. Both generation and template sync trigger it after persisting.
type downstreamSync struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepository
	notifier    portssvc.NotificationScheduler
	widget      portssvc.WidgetSync
	cfg         config.EngineConfig
}

func newDownstreamSync(expenseRepo portsrepo.ExpenseRepository, notifier portssvc.NotificationScheduler, widget portssvc.WidgetSync, cfg config.EngineConfig) *downstreamSync {
	return &downstreamSync{
		expenseRepo: expenseRepo,
		notifier:    notifier,
		widget:      widget,
		cfg:         cfg,
	}
}

// Run reschedules payment reminders for expenses due inside the reminder
// window and pushes the upcoming summary to the widget surface.
func (d *downstreamSync) Run(ctx context.Context, now time.Time) error {
	upcoming, err := d.expenseRepo.ListExpensesByDateRange(ctx, now, now.AddDate(0, 0, d.cfg.ReminderWindowDays))
	if err != nil {
		return fmt.Errorf("loading upcoming expenses: %w", err)
	}

	if err := d.notifier.CancelPending(ctx, reminderIDPrefix); err != nil {
		return fmt.Errorf("cancelling pending reminders: %w", err)
	}

	scheduled := 0
	for _, expense := range upcoming {
		if expense.IsIncome {
			continue
		}
		remindAt := reminderTime(expense.Date)
		if !remindAt.After(now) {
			continue
		}
		payload := fmt.Sprintf("%s: %s %s due %s", expense.Title, expense.Amount.StringFixed(2), expense.CurrencyCode, expense.Date.Format("02.01.2006"))
		if err := d.notifier.ScheduleAt(ctx, remindAt, payload, reminderIDPrefix+expense.ExpenseID); err != nil {
			return fmt.Errorf("scheduling reminder for expense %s: %w", expense.ExpenseID, err)
		}
		scheduled++
	}

	if err := d.widget.PushUpcoming(ctx, upcoming); err != nil {
		return fmt.Errorf("pushing widget summary: %w", err)
	}

	d.LogDebug(ctx, "Downstream sync completed",
		slog.Int("upcoming", len(upcoming)),
		slog.Int("reminders_scheduled", scheduled))
	return nil
}

// reminderTime is 9 AM on the day before the payment date.
func reminderTime(due time.Time) time.Time {
	dayBefore := domain.StartOfDay(due).AddDate(0, 0, -1)
	return dayBefore.Add(reminderHour * time.Hour)
}
