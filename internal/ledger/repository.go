package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository provides PostgreSQL backed reads over ledger entries. The
// aggregation engine only ever needs grouped sums; individual rows are fetched
// for drill-down alone.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SumsByBucket returns realized totals grouped per (qualifier, bucket) in one
// round trip. month == 0 groups the whole year by month-of-year; month > 0
// restricts to that month and groups by day-of-month.
func (r *Repository) SumsByBucket(ctx context.Context, year, month int) ([]BucketSum, error) {
	var (
		query string
		args  []any
	)
	if month > 0 {
		query = `
			SELECT qualifier_id, EXTRACT(DAY FROM entry_date)::int AS bucket, COALESCE(SUM(amount), 0)::text
			FROM ledger_entries
			WHERE active = TRUE
			  AND EXTRACT(YEAR FROM entry_date) = $1
			  AND EXTRACT(MONTH FROM entry_date) = $2
			GROUP BY qualifier_id, bucket`
		args = []any{year, month}
	} else {
		query = `
			SELECT qualifier_id, EXTRACT(MONTH FROM entry_date)::int AS bucket, COALESCE(SUM(amount), 0)::text
			FROM ledger_entries
			WHERE active = TRUE
			  AND EXTRACT(YEAR FROM entry_date) = $1
			GROUP BY qualifier_id, bucket`
		args = []any{year}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sums []BucketSum
	for rows.Next() {
		var (
			s   BucketSum
			raw string
		)
		if err := rows.Scan(&s.QualifierID, &s.Bucket, &raw); err != nil {
			return nil, err
		}
		if s.Total, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("ledger: parse sum %q: %w", raw, err)
		}
		sums = append(sums, s)
	}
	return sums, rows.Err()
}

// EntriesBetween lists active entries for the given qualifiers within
// [from, to], ordered by date then id. Used for drill-down only.
func (r *Repository) EntriesBetween(ctx context.Context, qualifierIDs []int64, from, to time.Time) ([]Entry, error) {
	const query = `
		SELECT id, qualifier_id, entry_date, amount::text, COALESCE(description, '')
		FROM ledger_entries
		WHERE active = TRUE
		  AND qualifier_id = ANY($1)
		  AND entry_date BETWEEN $2 AND $3
		ORDER BY entry_date, id`

	rows, err := r.pool.Query(ctx, query, qualifierIDs, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var (
			e   Entry
			raw string
		)
		if err := rows.Scan(&e.ID, &e.QualifierID, &e.Date, &raw, &e.Description); err != nil {
			return nil, err
		}
		if e.Amount, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("ledger: parse amount %q: %w", raw, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
