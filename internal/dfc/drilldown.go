package dfc

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/govflux/govflux/internal/ledger"
	"github.com/govflux/govflux/internal/qualifier"
)

const (
	originLedger   = "Ledger"
	originScenario = "Scenario"
	kindProjected  = "Projected"
)

// EventLine is one drill-down row: a recorded ledger entry, or a synthetic
// per-qualifier line when the cell is a projection.
type EventLine struct {
	Date   time.Time       `json:"date"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	Kind   string          `json:"kind"`
	Origin string          `json:"origin"`
}

// DrillDown expands one statement cell into its constituent lines. The line
// total equals the corresponding aggregated cell value.
type DrillDown struct {
	Events []EventLine     `json:"events"`
	Total  decimal.Decimal `json:"total"`
}

// realizedDrillDown maps fetched ledger entries for the cell's closure and
// date slice into event lines.
func realizedDrillDown(tree *qualifier.Tree, entries []ledger.Entry) *DrillDown {
	dd := &DrillDown{Events: make([]EventLine, 0, len(entries)), Total: decimal.Zero}
	for _, e := range entries {
		label := ""
		if node, ok := tree.Node(e.QualifierID); ok {
			label = nodeLabel(node)
		}
		dd.Events = append(dd.Events, EventLine{
			Date:   e.Date,
			Label:  label,
			Amount: e.Amount,
			Kind:   e.Kind(),
			Origin: originLedger,
		})
		dd.Total = dd.Total.Add(e.Amount)
	}
	return dd
}

// projectedDrillDown synthesises one line per closure qualifier from the same
// base-plus-adjustment computation the aggregator uses, skipping zero values.
func projectedDrillDown(tree *qualifier.Tree, sched *Schedule, realized *RealizedIndex, adjustments *AdjustmentIndex, closure []int64, column int) *DrillDown {
	lineDate, _ := sched.ColumnRange(column)
	dd := &DrillDown{Events: []EventLine{}, Total: decimal.Zero}
	for _, id := range closure {
		base := realized.Sum(id, sched.Year-1, column)
		adj := adjustments.Lookup(id, sched.Year, column)
		value := Project(base, adj)
		if value.IsZero() {
			continue
		}
		node, ok := tree.Node(id)
		if !ok {
			continue
		}
		dd.Events = append(dd.Events, EventLine{
			Date:   lineDate,
			Label:  nodeLabel(node),
			Amount: value,
			Kind:   kindProjected,
			Origin: originScenario,
		})
		dd.Total = dd.Total.Add(value)
	}
	return dd
}

func nodeLabel(node *qualifier.Node) string {
	return fmt.Sprintf("%s - %s", node.Code, node.Description)
}
