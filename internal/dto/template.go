package dto

import (
	"time"

	"github.com/planday-app/organizer_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTemplateRequest defines the data needed to create a recurring
// template, either from scratch or by confirming a suggestion.
type CreateTemplateRequest struct {
	Title           string           `json:"title" binding:"required"`
	Amount          decimal.Decimal  `json:"amount" binding:"required"`
	AmountTolerance *float64         `json:"amountTolerance"` // optional, defaults to domain.DefaultAmountTolerance
	Categories      []string         `json:"categories"`
	PaymentMethod   string           `json:"paymentMethod"`
	CurrencyCode    string           `json:"currencyCode" binding:"required,currencycode"`
	Merchant        string           `json:"merchant"`
	Notes           string           `json:"notes"`
	Frequency       domain.Frequency `json:"frequency" binding:"required,oneof=WEEKLY MONTHLY YEARLY ONE_TIME"`
	StartDate       time.Time        `json:"startDate" binding:"required"`
	// SourceSessionID links a confirmed suggestion back to the import
	// session it came from, bumping that session's audit counter.
	SourceSessionID string `json:"sourceSessionID"`
}

// UpdateTemplateRequest defines the fields editable on a template. Pointers
// distinguish "not provided" from zero values.
type UpdateTemplateRequest struct {
	Title           *string          `json:"title"`
	Amount          *decimal.Decimal `json:"amount"`
	AmountTolerance *float64         `json:"amountTolerance"`
	Categories      *[]string        `json:"categories"`
	PaymentMethod   *string          `json:"paymentMethod"`
	CurrencyCode    *string          `json:"currencyCode" binding:"omitempty,currencycode"`
	Merchant        *string          `json:"merchant"`
	Notes           *string          `json:"notes"`
}

// PauseTemplateRequest suspends generation, optionally until a resume date.
type PauseTemplateRequest struct {
	PausedUntil *time.Time `json:"pausedUntil"`
}

// TemplateResponse mirrors domain.RecurringTemplate.
type TemplateResponse struct {
	TemplateID        string           `json:"templateID"`
	Title             string           `json:"title"`
	Amount            decimal.Decimal  `json:"amount"`
	AmountTolerance   float64          `json:"amountTolerance"`
	Categories        []string         `json:"categories"`
	PaymentMethod     string           `json:"paymentMethod"`
	CurrencyCode      string           `json:"currencyCode"`
	Merchant          string           `json:"merchant"`
	Notes             string           `json:"notes"`
	Frequency         domain.Frequency `json:"frequency"`
	StartDate         time.Time        `json:"startDate"`
	LastGeneratedDate *time.Time       `json:"lastGeneratedDate,omitempty"`
	IsActive          bool             `json:"isActive"`
	IsPaused          bool             `json:"isPaused"`
	PausedUntil       *time.Time       `json:"pausedUntil,omitempty"`
	IsCurrentlyPaused bool             `json:"isCurrentlyPaused"`
	NextDueDate       *time.Time       `json:"nextDueDate,omitempty"`
	OccurrenceCount   int              `json:"occurrenceCount"`
	CreatedAt         time.Time        `json:"createdAt"`
	LastUpdatedAt     time.Time        `json:"lastUpdatedAt"`
}

// ToTemplateResponse converts a domain template to its DTO, evaluating the
// time-dependent fields against now.
func ToTemplateResponse(t *domain.RecurringTemplate, now time.Time) TemplateResponse {
	resp := TemplateResponse{
		TemplateID:        t.TemplateID,
		Title:             t.Title,
		Amount:            t.Amount,
		AmountTolerance:   t.AmountTolerance,
		Categories:        t.Categories,
		PaymentMethod:     t.PaymentMethod,
		CurrencyCode:      t.CurrencyCode,
		Merchant:          t.Merchant,
		Notes:             t.Notes,
		Frequency:         t.Frequency,
		StartDate:         t.StartDate,
		LastGeneratedDate: t.LastGeneratedDate,
		IsActive:          t.IsActive,
		IsPaused:          t.IsPaused,
		PausedUntil:       t.PausedUntil,
		IsCurrentlyPaused: domain.IsCurrentlyPaused(*t, now),
		OccurrenceCount:   t.OccurrenceCount,
		CreatedAt:         t.CreatedAt,
		LastUpdatedAt:     t.LastUpdatedAt,
	}
	if next, ok := domain.NextDueDate(*t); ok {
		resp.NextDueDate = &next
	}
	return resp
}
