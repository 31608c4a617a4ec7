package dfc

import "github.com/govflux/govflux/internal/scenario"

type adjustmentKey struct {
	qualifierID int64
	year        int
	month       int
}

// AdjustmentIndex holds one scenario's pre-fetched adjustment rules keyed by
// (qualifier, year, month). Lookup is exact match only: there is no fallback
// to a parent qualifier or an all-months wildcard.
type AdjustmentIndex struct {
	rules map[adjustmentKey]scenario.Adjustment
}

// NewAdjustmentIndex indexes pre-fetched adjustments.
func NewAdjustmentIndex(adjustments []scenario.Adjustment) *AdjustmentIndex {
	idx := &AdjustmentIndex{rules: make(map[adjustmentKey]scenario.Adjustment, len(adjustments))}
	for _, a := range adjustments {
		idx.rules[adjustmentKey{qualifierID: a.QualifierID, year: a.Year, month: a.Month}] = a
	}
	return idx
}

// Lookup returns the applicable rule or nil. A missing tuple is a legitimate
// "no adjustment" outcome, not an error and not zero.
func (idx *AdjustmentIndex) Lookup(qualifierID int64, year, month int) *scenario.Adjustment {
	if idx == nil {
		return nil
	}
	if a, ok := idx.rules[adjustmentKey{qualifierID: qualifierID, year: year, month: month}]; ok {
		return &a
	}
	return nil
}
