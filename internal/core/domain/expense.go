package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseRecord is a concrete expense (or income) entry. Records generated
// from a template carry a weak TemplateID back-reference; it is a lookup
// key only, never an ownership edge.
type ExpenseRecord struct {
	ExpenseID     string          `json:"expenseID"`
	Title         string          `json:"title"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Categories    []string        `json:"categories"`
	PaymentMethod string          `json:"paymentMethod"`
	CurrencyCode  string          `json:"currencyCode"`
	Merchant      string          `json:"merchant"`
	Notes         string          `json:"notes"`
	TemplateID    string          `json:"templateID,omitempty"` // empty for standalone records
	IsGenerated   bool            `json:"isGenerated"`
	// IsManuallyEdited is set once the user edits a generated record by
	// hand; from then on template-driven sync passes leave it alone.
	IsManuallyEdited     bool   `json:"isManuallyEdited"`
	IsIncome             bool   `json:"isIncome"`
	TemplateSnapshotHash string `json:"templateSnapshotHash,omitempty"`
	AuditFields
}

// ExpenseSnapshot captures the overwritable fields of a generated expense
// just before a template-driven sync pass rewrites them. One snapshot list
// per template is retained, single slot, newest wins.
type ExpenseSnapshot struct {
	ExpenseID            string          `json:"expenseID"`
	Title                string          `json:"title"`
	Amount               decimal.Decimal `json:"amount"`
	Merchant             string          `json:"merchant"`
	Notes                string          `json:"notes"`
	PaymentMethod        string          `json:"paymentMethod"`
	CurrencyCode         string          `json:"currencyCode"`
	IsIncome             bool            `json:"isIncome"`
	TemplateSnapshotHash string          `json:"templateSnapshotHash"`
	// Categories were added to the snapshot format later; HasCategories
	// distinguishes "captured as empty" from "not captured at all" so
	// older snapshots restore without wiping category tags.
	Categories    []string `json:"categories,omitempty"`
	HasCategories bool     `json:"hasCategories"`
}
