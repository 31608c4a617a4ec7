package scenario

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository provides PostgreSQL backed reads over scenario adjustments.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListAdjustments fetches every adjustment for the scenario within the
// (year, months) window in one round trip.
func (r *Repository) ListAdjustments(ctx context.Context, scenarioID int64, year int, months []int) ([]Adjustment, error) {
	const query = `
		SELECT scenario_id, qualifier_id, year, month, kind, amount::text
		FROM scenario_adjustments
		WHERE scenario_id = $1 AND year = $2 AND month = ANY($3)
		ORDER BY qualifier_id, month`

	rows, err := r.pool.Query(ctx, query, scenarioID, year, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var adjustments []Adjustment
	for rows.Next() {
		var (
			a    Adjustment
			kind string
			raw  string
		)
		if err := rows.Scan(&a.ScenarioID, &a.QualifierID, &a.Year, &a.Month, &kind, &raw); err != nil {
			return nil, err
		}
		a.Kind = AdjustmentKind(kind)
		if a.Amount, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("scenario: parse amount %q: %w", raw, err)
		}
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}
