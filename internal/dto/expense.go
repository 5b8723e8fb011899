package dto

import (
	"time"

	"github.com/planday-app/organizer_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExpenseResponse mirrors domain.ExpenseRecord.
type ExpenseResponse struct {
	ExpenseID        string          `json:"expenseID"`
	Title            string          `json:"title"`
	Amount           decimal.Decimal `json:"amount"`
	Date             time.Time       `json:"date"`
	Categories       []string        `json:"categories"`
	PaymentMethod    string          `json:"paymentMethod"`
	CurrencyCode     string          `json:"currencyCode"`
	Merchant         string          `json:"merchant"`
	Notes            string          `json:"notes"`
	TemplateID       string          `json:"templateID,omitempty"`
	IsGenerated      bool            `json:"isGenerated"`
	IsManuallyEdited bool            `json:"isManuallyEdited"`
	IsIncome         bool            `json:"isIncome"`
}

// UpdateExpenseRequest defines the user-editable fields of an expense.
// Editing a generated record marks it manually edited, exempting it from
// future template-driven overwrites.
type UpdateExpenseRequest struct {
	Title         *string          `json:"title"`
	Amount        *decimal.Decimal `json:"amount"`
	Date          *time.Time       `json:"date"`
	Categories    *[]string        `json:"categories"`
	PaymentMethod *string          `json:"paymentMethod"`
	Notes         *string          `json:"notes"`
}

// ToExpenseResponse converts a domain expense to its DTO.
func ToExpenseResponse(e *domain.ExpenseRecord) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:        e.ExpenseID,
		Title:            e.Title,
		Amount:           e.Amount,
		Date:             e.Date,
		Categories:       e.Categories,
		PaymentMethod:    e.PaymentMethod,
		CurrencyCode:     e.CurrencyCode,
		Merchant:         e.Merchant,
		Notes:            e.Notes,
		TemplateID:       e.TemplateID,
		IsGenerated:      e.IsGenerated,
		IsManuallyEdited: e.IsManuallyEdited,
		IsIncome:         e.IsIncome,
	}
}
