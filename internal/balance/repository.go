package balance

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository provides PostgreSQL backed reads over bank balance snapshots.
// The engine only needs two aggregate views: the sum across active accounts
// on an exact date, and the per-account most recent snapshot before a date.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SumOnDate sums snapshot balances across active accounts dated exactly date.
func (r *Repository) SumOnDate(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(s.balance), 0)::text
		FROM bank_balance_snapshots s
		JOIN bank_accounts a ON a.id = s.account_id
		WHERE a.active = TRUE AND s.snapshot_date = $1`

	var raw string
	if err := r.pool.QueryRow(ctx, query, date).Scan(&raw); err != nil {
		return decimal.Zero, err
	}
	sum, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance: parse sum %q: %w", raw, err)
	}
	return sum, nil
}

// LatestBeforePerAccount sums, for each active account independently, its most
// recent snapshot strictly before date. Accounts may contribute from different
// dates.
func (r *Repository) LatestBeforePerAccount(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(balance), 0)::text FROM (
			SELECT DISTINCT ON (s.account_id) s.balance
			FROM bank_balance_snapshots s
			JOIN bank_accounts a ON a.id = s.account_id
			WHERE a.active = TRUE AND s.snapshot_date < $1
			ORDER BY s.account_id, s.snapshot_date DESC
		) latest`

	var raw string
	if err := r.pool.QueryRow(ctx, query, date).Scan(&raw); err != nil {
		return decimal.Zero, err
	}
	sum, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance: parse sum %q: %w", raw, err)
	}
	return sum, nil
}
