package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency classifies how often a recurring payment repeats.
type Frequency string

const (
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
	Yearly  Frequency = "YEARLY"
	OneTime Frequency = "ONE_TIME"
)

// DefaultAmountTolerance is the relative amount tolerance applied to a
// template when the user does not override it.
const DefaultAmountTolerance = 0.05

// RecurringTemplate is a user-confirmed definition of a recurring payment.
// Generated expenses reference it through a weak TemplateID back-reference;
// deleting a template never deletes the expenses generated from it.
type RecurringTemplate struct {
	TemplateID      string          `json:"templateID"`
	Title           string          `json:"title"`
	Amount          decimal.Decimal `json:"amount"`          // always positive
	AmountTolerance float64         `json:"amountTolerance"` // relative fraction, e.g. 0.05
	Categories      []string        `json:"categories"`
	PaymentMethod   string          `json:"paymentMethod"`
	CurrencyCode    string          `json:"currencyCode"`
	Merchant        string          `json:"merchant"`
	Notes           string          `json:"notes"`
	Frequency       Frequency       `json:"frequency"`
	StartDate       time.Time       `json:"startDate"`
	// LastGeneratedDate tracks generation progress. It only ever advances
	// through dates that have actually occurred, never into the future.
	LastGeneratedDate *time.Time `json:"lastGeneratedDate,omitempty"`
	IsActive          bool       `json:"isActive"`
	IsPaused          bool       `json:"isPaused"`
	PausedUntil       *time.Time `json:"pausedUntil,omitempty"`
	OccurrenceCount   int        `json:"occurrenceCount"`
	AuditFields
}

// IsCurrentlyPaused reports whether generation is suspended for the
// template at the given instant: paused with either no resume date or a
// resume date still in the future.
func IsCurrentlyPaused(t RecurringTemplate, now time.Time) bool {
	if !t.IsPaused {
		return false
	}
	return t.PausedUntil == nil || t.PausedUntil.After(now)
}

// AddPeriods returns start shifted forward by n whole periods of the given
// frequency, anchored on the original date so that day-of-month and
// anniversary alignment survive calendar irregularities. A monthly
// template started on the 31st lands on the last valid day of shorter
// months instead of spilling into the next one.
func AddPeriods(start time.Time, freq Frequency, n int) time.Time {
	switch freq {
	case Weekly:
		return start.AddDate(0, 0, 7*n)
	case Monthly:
		return addMonthsClamped(start, n)
	case Yearly:
		return addMonthsClamped(start, 12*n)
	default:
		return start
	}
}

func addMonthsClamped(start time.Time, months int) time.Time {
	y, m, d := start.Date()
	h, min, sec := start.Clock()
	total := int(m) - 1 + months
	year := y + total/12
	month := time.Month(total%12 + 1)
	if total < 0 && total%12 != 0 {
		year--
		month = time.Month(total%12 + 12 + 1)
	}
	if last := daysInMonth(year, month); d > last {
		d = last
	}
	return time.Date(year, month, d, h, min, sec, start.Nanosecond(), start.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NextDueDate computes the first occurrence of the template strictly after
// its generation progress marker (LastGeneratedDate when set, otherwise the
// day before StartDate so the start date itself qualifies). One-time
// templates have no next due date.
func NextDueDate(t RecurringTemplate) (time.Time, bool) {
	if t.Frequency == OneTime {
		return time.Time{}, false
	}
	after := t.StartDate.AddDate(0, 0, -1)
	if t.LastGeneratedDate != nil {
		after = *t.LastGeneratedDate
	}
	for n := 0; n < GenerationIterationCap; n++ {
		candidate := AddPeriods(t.StartDate, t.Frequency, n)
		if candidate.After(after) {
			return candidate, true
		}
	}
	return time.Time{}, false
}

// SnapshotHash derives the marker stamped onto generated expenses so the
// sync pass can tell whether a record already reflects the template's
// latest edit. It is the stringified last-update instant, nothing more.
func SnapshotHash(t RecurringTemplate) string {
	return t.LastUpdatedAt.UTC().Format(time.RFC3339Nano)
}

// GenerationIterationCap bounds every forward walk over template periods.
// It guarantees termination even if stored template data is nonsensical.
const GenerationIterationCap = 500
