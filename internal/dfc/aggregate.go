package dfc

import (
	"github.com/shopspring/decimal"

	"github.com/govflux/govflux/internal/qualifier"
)

// ReportCell is one statement row: a qualifier's per-column totals (its own
// postings plus every active descendant's) and, per column, whether the value
// contains a projection anywhere in the subtree.
type ReportCell struct {
	QualifierID int64              `json:"qualifierId"`
	Code        string             `json:"code"`
	Description string             `json:"description"`
	FlowKind    qualifier.FlowKind `json:"flowKind"`
	Depth       int                `json:"depth"`
	Values      []decimal.Decimal  `json:"values"`
	Projected   []bool             `json:"projected"`
	Children    []*ReportCell      `json:"children,omitempty"`
}

// Report is the full statement: the qualifier forest with rolled-up vectors,
// the two-root total row and the running balance trajectory. Totals is
// parallel to Columns; NetResult, OpeningAt and ClosingAt are parallel to
// SelectedColumns, the span the opening balance is anchored to.
type Report struct {
	Mode             PeriodMode        `json:"mode"`
	Year             int               `json:"year"`
	Columns          []int             `json:"columns"`
	SelectedColumns  []int             `json:"selectedColumns"`
	Roots            []*ReportCell     `json:"roots"`
	Totals           []decimal.Decimal `json:"totals"`
	NetResult        []decimal.Decimal `json:"netResult"`
	OpeningAt        []decimal.Decimal `json:"openingAt"`
	ClosingAt        []decimal.Decimal `json:"closingAt"`
	OpeningBalance   decimal.Decimal   `json:"openingBalance"`
	ClosingBalance   decimal.Decimal   `json:"closingBalance"`
	ProjectedColumns []int             `json:"projectedColumns"`
}

// aggregator performs one post-order rollup over a tree snapshot. All inputs
// are read-only for the duration of the walk.
type aggregator struct {
	tree        *qualifier.Tree
	sched       *Schedule
	realized    *RealizedIndex
	adjustments *AdjustmentIndex
	projected   map[int]bool
}

// run builds every root cell and the total row. The total sums exactly the
// revenue and expense roots; any other root (an informational opening-balance
// marker, say) is rendered but never counted, so it cannot double into the
// net flow.
func (a *aggregator) run() ([]*ReportCell, []decimal.Decimal) {
	roots := a.tree.Roots()
	cells := make([]*ReportCell, 0, len(roots))
	totals := zeroVector(len(a.sched.Columns))
	for _, root := range roots {
		cell := a.buildNode(root)
		cells = append(cells, cell)
		if root.Code == qualifier.RevenueRootCode || root.Code == qualifier.ExpenseRootCode {
			for i := range totals {
				totals[i] = totals[i].Add(cell.Values[i])
			}
		}
	}
	return cells, totals
}

// buildNode computes a node's own per-column vector, then folds in its active
// children. A node's direct postings count in addition to its descendants';
// postings are not assumed to live only on leaves. The projection flag ORs up
// the tree so a parent is marked as soon as any descendant column projects.
func (a *aggregator) buildNode(node *qualifier.Node) *ReportCell {
	cell := &ReportCell{
		QualifierID: node.ID,
		Code:        node.Code,
		Description: node.Description,
		FlowKind:    a.tree.FlowKind(node.ID),
		Depth:       a.tree.Depth(node.ID),
		Values:      make([]decimal.Decimal, 0, len(a.sched.Columns)),
		Projected:   make([]bool, 0, len(a.sched.Columns)),
	}
	for _, column := range a.sched.Columns {
		value, projected := a.cellValue(node.ID, column)
		cell.Values = append(cell.Values, value)
		cell.Projected = append(cell.Projected, projected)
	}
	for _, child := range a.tree.Children(node.ID) {
		childCell := a.buildNode(child)
		cell.Children = append(cell.Children, childCell)
		for i := range cell.Values {
			cell.Values[i] = cell.Values[i].Add(childCell.Values[i])
			cell.Projected[i] = cell.Projected[i] || childCell.Projected[i]
		}
	}
	return cell
}

// cellValue resolves one (qualifier, column) cell from the node's own
// postings: the realized sum, or for a projected column the prior-year
// realized sum transformed by the scenario rule.
func (a *aggregator) cellValue(qualifierID int64, column int) (decimal.Decimal, bool) {
	if a.projected[column] {
		base := a.realized.Sum(qualifierID, a.sched.Year-1, column)
		adj := a.adjustments.Lookup(qualifierID, a.sched.Year, column)
		return Project(base, adj), true
	}
	return a.realized.Sum(qualifierID, a.sched.Year, column), false
}

func zeroVector(n int) []decimal.Decimal {
	v := make([]decimal.Decimal, n)
	for i := range v {
		v[i] = decimal.Zero
	}
	return v
}
