package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TemplateSuggestion is an unconfirmed, system-inferred candidate template
// derived from transaction history. It stays a pure value until the user
// confirms it into a RecurringTemplate.
type TemplateSuggestion struct {
	Merchant        string          `json:"merchant"`
	Amount          decimal.Decimal `json:"amount"` // canonical (cluster seed) amount
	Frequency       Frequency       `json:"frequency"`
	OccurrenceDates []time.Time     `json:"occurrenceDates"` // ascending source dates
	Categories      []string        `json:"categories"`
	SuggestedAmount decimal.Decimal `json:"suggestedAmount"` // mean of absolute amounts
	Confidence      float64         `json:"confidence"`      // in [0, 1]
}
