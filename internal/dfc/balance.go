package dfc

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Trajectory is the running bank-balance path across the statement columns:
// closingAt[i] - openingAt[i] == net[i] and openingAt[i+1] == closingAt[i].
type Trajectory struct {
	OpeningAt []decimal.Decimal
	Net       []decimal.Decimal
	ClosingAt []decimal.Decimal
}

// ComputeTrajectory folds the total-row vector over the opening balance.
func ComputeTrajectory(opening decimal.Decimal, totals []decimal.Decimal) Trajectory {
	tr := Trajectory{
		OpeningAt: make([]decimal.Decimal, 0, len(totals)),
		Net:       make([]decimal.Decimal, 0, len(totals)),
		ClosingAt: make([]decimal.Decimal, 0, len(totals)),
	}
	balance := opening
	for _, t := range totals {
		tr.OpeningAt = append(tr.OpeningAt, balance)
		tr.Net = append(tr.Net, t)
		balance = balance.Add(t)
		tr.ClosingAt = append(tr.ClosingAt, balance)
	}
	return tr
}

// resolveOpeningBalance seeds the trajectory: the active-account sum of
// snapshots dated exactly one day before the period start, falling back to
// each account's most recent snapshot strictly before that day when the
// exact-date sum is zero.
func resolveOpeningBalance(ctx context.Context, balances BalanceReader, periodStart time.Time) (decimal.Decimal, error) {
	cutoff := periodStart.AddDate(0, 0, -1)
	opening, err := balances.SumOnDate(ctx, cutoff)
	if err != nil {
		return decimal.Zero, err
	}
	if !opening.IsZero() {
		return opening, nil
	}
	return balances.LatestBeforePerAccount(ctx, cutoff)
}
