package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one signed cash movement. Positive amounts are receipts, negative
// amounts are payments.
type Entry struct {
	ID          int64
	QualifierID int64
	Date        time.Time
	Amount      decimal.Decimal
	Description string
}

// BucketSum is a grouped realized total for one qualifier and one period
// bucket (day-of-month or month-of-year depending on the query).
type BucketSum struct {
	QualifierID int64
	Bucket      int
	Total       decimal.Decimal
}

// Kind labels an entry for drill-down rendering.
func (e Entry) Kind() string {
	if e.Amount.IsNegative() {
		return "Payment"
	}
	return "Receipt"
}
