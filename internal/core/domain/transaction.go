package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is one normalized row of an imported bank statement.
// It is an ephemeral value owned by the import workflow; identity is
// structural (date + merchant + amount) and nothing is persisted directly.
type TransactionRecord struct {
	Date         time.Time
	Merchant     string
	Amount       decimal.Decimal // signed: negative = expense, positive = income
	CurrencyCode string
	// RawColumns carries the full original header→value map for
	// traceability when a row needs to be inspected after the fact.
	RawColumns map[string]string
}

// IsExpense reports whether the transaction is an outgoing payment.
func (t TransactionRecord) IsExpense() bool {
	return t.Amount.IsNegative()
}
