package scenario

import "github.com/shopspring/decimal"

// AdjustmentKind selects how an adjustment transforms its base value.
type AdjustmentKind string

const (
	KindPercentage AdjustmentKind = "PERCENTAGE"
	KindFixed      AdjustmentKind = "FIXED"
)

// Adjustment is one what-if rule: for (scenario, qualifier, year, month),
// apply a percentage or a fixed delta to the prior-year realized value. The
// key tuple is unique upstream; the engine treats a missing tuple as "no
// adjustment", never as zero.
type Adjustment struct {
	ScenarioID  int64
	QualifierID int64
	Year        int
	Month       int
	Kind        AdjustmentKind
	Amount      decimal.Decimal
}
