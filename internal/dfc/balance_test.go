package dfc

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type mockBalances struct {
	onDate       decimal.Decimal
	latestBefore decimal.Decimal
	onDateCalls  int
	latestCalls  int
	lastCutoff   time.Time
}

func (m *mockBalances) SumOnDate(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	m.onDateCalls++
	m.lastCutoff = date
	return m.onDate, nil
}

func (m *mockBalances) LatestBeforePerAccount(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	m.latestCalls++
	return m.latestBefore, nil
}

func TestComputeTrajectoryConservation(t *testing.T) {
	opening := decimal.NewFromInt(1000)
	totals := []decimal.Decimal{
		decimal.NewFromInt(250),
		decimal.NewFromInt(-400),
		decimal.Zero,
		decimal.RequireFromString("13.37"),
	}
	tr := ComputeTrajectory(opening, totals)

	if !tr.OpeningAt[0].Equal(opening) {
		t.Fatalf("first opening = %s, want %s", tr.OpeningAt[0], opening)
	}
	for i := range totals {
		if !tr.ClosingAt[i].Sub(tr.OpeningAt[i]).Equal(tr.Net[i]) {
			t.Fatalf("column %d: closing-opening != net", i)
		}
		if i+1 < len(totals) && !tr.OpeningAt[i+1].Equal(tr.ClosingAt[i]) {
			t.Fatalf("column %d: opening[i+1] != closing[i]", i)
		}
	}
	if !tr.ClosingAt[3].Equal(decimal.RequireFromString("863.37")) {
		t.Fatalf("final closing = %s", tr.ClosingAt[3])
	}
}

func TestResolveOpeningBalanceExactDate(t *testing.T) {
	balances := &mockBalances{onDate: decimal.NewFromInt(500), latestBefore: decimal.NewFromInt(999)}
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	opening, err := resolveOpeningBalance(context.Background(), balances, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opening.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("opening = %s, want 500", opening)
	}
	if balances.latestCalls != 0 {
		t.Fatal("fallback must not run when the exact-date sum is non-zero")
	}
	if want := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC); !balances.lastCutoff.Equal(want) {
		t.Fatalf("cutoff = %s, want %s", balances.lastCutoff, want)
	}
}

func TestResolveOpeningBalanceFallsBackPerAccount(t *testing.T) {
	// No snapshot on the exact date; accounts contribute 200 and 150 from
	// different earlier dates, summed by the per-account query.
	balances := &mockBalances{onDate: decimal.Zero, latestBefore: decimal.NewFromInt(350)}
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	opening, err := resolveOpeningBalance(context.Background(), balances, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opening.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("opening = %s, want 350", opening)
	}
	if balances.latestCalls != 1 {
		t.Fatal("fallback must run exactly once")
	}
}
