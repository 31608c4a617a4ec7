package qualifier

import "strings"

// FlowKind classifies a qualifier subtree as cash inflow or outflow.
type FlowKind string

const (
	FlowRevenue   FlowKind = "REVENUE"
	FlowExpense   FlowKind = "EXPENSE"
	FlowUndefined FlowKind = "UNDEFINED"
)

// Root codes carry business meaning: the statement's total row is the sum of
// exactly these two roots, and flow kind derives from the root code prefix.
// Other roots (e.g. an informational opening-balance root) are rendered but
// never counted into the net-flow total.
const (
	RevenueRootCode = "1"
	ExpenseRootCode = "2"
)

// Node models one chart-of-accounts qualifier as read from storage.
type Node struct {
	ID          int64
	Code        string
	Description string
	ParentID    *int64
	Active      bool
}

// FlowKindForRootCode maps a root qualifier code to its flow kind.
func FlowKindForRootCode(code string) FlowKind {
	switch {
	case strings.HasPrefix(code, RevenueRootCode):
		return FlowRevenue
	case strings.HasPrefix(code, ExpenseRootCode):
		return FlowExpense
	default:
		return FlowUndefined
	}
}
