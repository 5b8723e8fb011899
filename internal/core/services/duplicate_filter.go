package services

import (
	"github.com/planday-app/organizer_backend/internal/core/domain"
	"github.com/planday-app/organizer_backend/internal/utils/merchant"
	"github.com/shopspring/decimal"
)

// IsDuplicateTransaction reports whether an incoming transaction matches an
// expense already on record: same calendar day, absolute amount within the
// relative tolerance of the existing amount, and equal normalized merchant
// text. It is a boolean predicate; the first match wins, no best-match
// search.
func IsDuplicateTransaction(txn domain.TransactionRecord, existing []domain.ExpenseRecord, amountTolerance float64) bool {
	txnAmount := txn.Amount.Abs()
	txnMerchant := merchant.Normalize(txn.Merchant)
	tolFactor := decimal.NewFromFloat(amountTolerance)

	for _, expense := range existing {
		if !domain.SameCalendarDay(txn.Date, expense.Date) {
			continue
		}
		expenseAmount := expense.Amount.Abs()
		if txnAmount.Sub(expenseAmount).Abs().GreaterThan(expenseAmount.Mul(tolFactor)) {
			continue
		}
		if merchant.Normalize(expense.Merchant) == txnMerchant {
			return true
		}
	}
	return false
}
