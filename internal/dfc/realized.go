package dfc

import (
	"github.com/shopspring/decimal"

	"github.com/govflux/govflux/internal/ledger"
)

type sumKey struct {
	qualifierID int64
	year        int
	bucket      int
}

// RealizedIndex holds pre-fetched ledger sums keyed by (qualifier, year,
// bucket) so the aggregation pass costs one map lookup per cell instead of
// one query. Multiple years coexist in one index; projections read the prior
// year through the same lookup.
type RealizedIndex struct {
	sums map[sumKey]decimal.Decimal
}

// NewRealizedIndex constructs an empty index.
func NewRealizedIndex() *RealizedIndex {
	return &RealizedIndex{sums: make(map[sumKey]decimal.Decimal)}
}

// AddSums loads one year's grouped sums into the index.
func (idx *RealizedIndex) AddSums(year int, sums []ledger.BucketSum) {
	for _, s := range sums {
		key := sumKey{qualifierID: s.QualifierID, year: year, bucket: s.Bucket}
		idx.sums[key] = idx.sums[key].Add(s.Total)
	}
}

// Sum returns the realized total for the qualifier's own postings in the
// period slice. Absent data is zero, never an error.
func (idx *RealizedIndex) Sum(qualifierID int64, year, bucket int) decimal.Decimal {
	return idx.sums[sumKey{qualifierID: qualifierID, year: year, bucket: bucket}]
}
