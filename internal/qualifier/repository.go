package qualifier

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed reads for the qualifier tree.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListActive returns one snapshot of the active qualifier forest.
func (r *Repository) ListActive(ctx context.Context) ([]Node, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, code, description, parent_id FROM qualifiers WHERE active = TRUE ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var nodes []Node
	for rows.Next() {
		n := Node{Active: true}
		if err := rows.Scan(&n.ID, &n.Code, &n.Description, &n.ParentID); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}
