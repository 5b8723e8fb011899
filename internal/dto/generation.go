package dto

import (
	"time"

	"github.com/planday-app/organizer_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GenerationSummary reports one run of the recurrence generator.
type GenerationSummary struct {
	TemplatesProcessed int               `json:"templatesProcessed"`
	ExpensesCreated    int               `json:"expensesCreated"`
	Created            []ExpenseResponse `json:"created"`
}

// MissedTemplate flags a recurring template whose due date has passed
// without a matching expense. Flag only, nothing is auto-created.
type MissedTemplate struct {
	TemplateID string           `json:"templateID"`
	Title      string           `json:"title"`
	Merchant   string           `json:"merchant"`
	Amount     decimal.Decimal  `json:"amount"`
	Frequency  domain.Frequency `json:"frequency"`
	DueDate    time.Time        `json:"dueDate"`
	DaysLate   int              `json:"daysLate"`
}

// SyncResult reports one template-driven sync pass over generated expenses.
type SyncResult struct {
	UpdatedCount       int `json:"updatedCount"`
	SkippedManualCount int `json:"skippedManualCount"`
}
