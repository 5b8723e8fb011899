// Package widget pushes a compact upcoming-expenses summary to a shared
// key-value surface read by the home-screen widget.
package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/planday-app/organizer_backend/internal/core/domain"
	portssvc "github.com/planday-app/organizer_backend/internal/core/ports/services"
)

// widgetKey is the slot the summary is written under.
const widgetKey = "upcoming_expenses"

// maxWidgetItems caps the summary; the widget face shows two rows.
const maxWidgetItems = 2

type summaryItem struct {
	Title    string    `json:"title"`
	Amount   string    `json:"amount"`
	Currency string    `json:"currency"`
	Date     time.Time `json:"date"`
}

type PgxWidgetSync struct {
	pool *pgxpool.Pool
}

// NewPgxWidgetSync creates the key-value widget export adapter.
func NewPgxWidgetSync(pool *pgxpool.Pool) portssvc.WidgetSync {
	return &PgxWidgetSync{pool: pool}
}

var _ portssvc.WidgetSync = (*PgxWidgetSync)(nil)

func (w *PgxWidgetSync) PushUpcoming(ctx context.Context, upcoming []domain.ExpenseRecord) error {
	items := make([]summaryItem, 0, maxWidgetItems)
	for _, expense := range upcoming {
		if expense.IsIncome {
			continue
		}
		items = append(items, summaryItem{
			Title:    expense.Title,
			Amount:   expense.Amount.StringFixed(2),
			Currency: expense.CurrencyCode,
			Date:     expense.Date,
		})
		if len(items) == maxWidgetItems {
			break
		}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal widget summary: %w", err)
	}

	query := `
		INSERT INTO widget_snapshots (key, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET payload = $2, updated_at = $3;
	`
	if _, err := w.pool.Exec(ctx, query, widgetKey, payload, time.Now()); err != nil {
		return fmt.Errorf("failed to store widget summary: %w", err)
	}
	return nil
}
