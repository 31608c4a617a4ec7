package dfc

import (
	"github.com/shopspring/decimal"

	"github.com/govflux/govflux/internal/scenario"
)

var oneHundred = decimal.NewFromInt(100)

// Project applies a scenario adjustment to a prior-year base value. The base
// is always the realized sum for the same qualifier and calendar month one
// year earlier; that business rule is fixed, not configurable here.
func Project(base decimal.Decimal, adj *scenario.Adjustment) decimal.Decimal {
	if adj == nil {
		return base
	}
	switch adj.Kind {
	case scenario.KindPercentage:
		return base.Mul(oneHundred.Add(adj.Amount)).Div(oneHundred)
	case scenario.KindFixed:
		return base.Add(adj.Amount)
	default:
		return base
	}
}
