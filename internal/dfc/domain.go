package dfc

import "errors"

// Strategy selects how future columns are valued.
type Strategy string

const (
	// StrategyRealized renders every column from recorded ledger sums.
	StrategyRealized Strategy = "realized"
	// StrategyProjected renders today-or-later month columns from the
	// prior-year realized value plus the scenario's adjustment rule.
	StrategyProjected Strategy = "projected"
)

// PeriodMode selects the column granularity of the statement.
type PeriodMode string

const (
	// PeriodModeDay renders one column per day of a single month.
	PeriodModeDay PeriodMode = "day"
	// PeriodModeMonth renders one column per month of a year.
	PeriodModeMonth PeriodMode = "month"
)

var (
	// ErrInvalidPeriod indicates a malformed year/month/day combination.
	// Caller error; the aggregation must not proceed.
	ErrInvalidPeriod = errors.New("dfc: invalid period")
	// ErrUnknownQualifier indicates a drill-down against a qualifier absent
	// from the active tree snapshot.
	ErrUnknownQualifier = errors.New("dfc: unknown qualifier")
)

// ReportRequest describes one statement computation.
type ReportRequest struct {
	Mode PeriodMode
	Year int
	// Month is the selected month in day mode; unused in month mode.
	Month int
	// Months are the selected months in month mode. All twelve columns are
	// computed; only the selection participates in presentation emphasis.
	Months     []int
	Strategy   Strategy
	ScenarioID int64
}

// DrillDownRequest identifies one statement cell to expand.
type DrillDownRequest struct {
	QualifierID int64
	Column      int
	Mode        PeriodMode
	Year        int
	Month       int
	Strategy    Strategy
	ScenarioID  int64
}
