package dfc

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/govflux/govflux/internal/ledger"
	"github.com/govflux/govflux/internal/qualifier"
	"github.com/govflux/govflux/internal/scenario"
)

// TreeReader lists one snapshot of the active qualifier forest.
type TreeReader interface {
	ListActive(ctx context.Context) ([]qualifier.Node, error)
}

// LedgerReader exposes the grouped-sum and drill-down queries the engine
// needs. Sums are fetched once per requested year, never per cell.
type LedgerReader interface {
	SumsByBucket(ctx context.Context, year, month int) ([]ledger.BucketSum, error)
	EntriesBetween(ctx context.Context, qualifierIDs []int64, from, to time.Time) ([]ledger.Entry, error)
}

// AdjustmentReader fetches a scenario's rules for a (year, months) window.
type AdjustmentReader interface {
	ListAdjustments(ctx context.Context, scenarioID int64, year int, months []int) ([]scenario.Adjustment, error)
}

// BalanceReader exposes the two aggregate balance views used to seed the
// opening balance.
type BalanceReader interface {
	SumOnDate(ctx context.Context, date time.Time) (decimal.Decimal, error)
	LatestBeforePerAccount(ctx context.Context, date time.Time) (decimal.Decimal, error)
}

// Service computes cash-flow statements and drill-downs from one consistent
// snapshot per request. Nothing is mutated; each invocation fetches its own
// inputs and discards them with the response.
type Service struct {
	qualifiers  TreeReader
	ledger      LedgerReader
	adjustments AdjustmentReader
	balances    BalanceReader
	cache       *Cache
	now         func() time.Time
}

// NewService wires the read collaborators with the optional cache.
func NewService(qualifiers TreeReader, ledgerReader LedgerReader, adjustments AdjustmentReader, balances BalanceReader, cache *Cache) *Service {
	return &Service{
		qualifiers:  qualifiers,
		ledger:      ledgerReader,
		adjustments: adjustments,
		balances:    balances,
		cache:       cache,
		now:         time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// snapshot is everything one request reads, fetched up front in parallel so
// the aggregation pass is pure in-memory work.
type snapshot struct {
	tree        *qualifier.Tree
	realized    *RealizedIndex
	adjustments *AdjustmentIndex
	opening     decimal.Decimal
}

// BuildReport computes the full statement for the request.
func (s *Service) BuildReport(ctx context.Context, req ReportRequest) (*Report, error) {
	sched, err := NewSchedule(req.Mode, req.Year, req.Month, req.Months)
	if err != nil {
		return nil, err
	}
	asOf := s.now().UTC()
	projected := map[int]bool{}
	if req.Strategy == StrategyProjected {
		projected = sched.ProjectedColumns(asOf)
	}

	loader := func(ctx context.Context) (interface{}, error) {
		snap, err := s.fetchSnapshot(ctx, req, sched, len(projected) > 0)
		if err != nil {
			return nil, err
		}
		return buildReport(snap, sched, projected), nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return value.(*Report), nil
	}
	key, err := s.cache.BuildKey(ctx, keyReport(req, asOf)...)
	if err != nil {
		return nil, err
	}
	var report Report
	if err := s.cache.FetchJSON(ctx, key, &report, loader); err != nil {
		return nil, err
	}
	return &report, nil
}

// fetchSnapshot issues the batched reads for one request: tree, current-year
// sums, prior-year sums and scenario rules when projecting, and the opening
// balance. All fetches run concurrently and fail the request together.
func (s *Service) fetchSnapshot(ctx context.Context, req ReportRequest, sched *Schedule, projecting bool) (*snapshot, error) {
	var (
		nodes       []qualifier.Node
		currentSums []ledger.BucketSum
		priorSums   []ledger.BucketSum
		rules       []scenario.Adjustment
		opening     decimal.Decimal
	)
	sumMonth := 0
	if sched.Mode == PeriodModeDay {
		sumMonth = sched.Month
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		nodes, err = s.qualifiers.ListActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		currentSums, err = s.ledger.SumsByBucket(gctx, sched.Year, sumMonth)
		return err
	})
	if projecting {
		g.Go(func() error {
			var err error
			priorSums, err = s.ledger.SumsByBucket(gctx, sched.Year-1, 0)
			return err
		})
		if req.ScenarioID != 0 {
			g.Go(func() error {
				var err error
				rules, err = s.adjustments.ListAdjustments(gctx, req.ScenarioID, sched.Year, sched.Columns)
				return err
			})
		}
	}
	g.Go(func() error {
		var err error
		opening, err = resolveOpeningBalance(gctx, s.balances, sched.Start)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dfc: fetch snapshot: %w", err)
	}

	tree, err := qualifier.NewTree(nodes)
	if err != nil {
		return nil, err
	}
	realized := NewRealizedIndex()
	realized.AddSums(sched.Year, currentSums)
	realized.AddSums(sched.Year-1, priorSums)
	return &snapshot{
		tree:        tree,
		realized:    realized,
		adjustments: NewAdjustmentIndex(rules),
		opening:     opening,
	}, nil
}

func buildReport(snap *snapshot, sched *Schedule, projected map[int]bool) *Report {
	agg := &aggregator{
		tree:        snap.tree,
		sched:       sched,
		realized:    snap.realized,
		adjustments: snap.adjustments,
		projected:   projected,
	}
	roots, totals := agg.run()

	// In day mode every column is selected; in month mode the caller's
	// month set drives presentation emphasis while all twelve are computed.
	selected := sched.Columns
	if sched.Mode == PeriodModeMonth {
		selected = make([]int, 0, len(sched.Selected))
		for c := range sched.Selected {
			selected = append(selected, c)
		}
		sort.Ints(selected)
	}

	// The balance trajectory covers only the selected columns: the opening
	// balance is a bank snapshot taken the day before the first selected
	// month, so flows from earlier columns are already inside it and must
	// not be folded in again.
	selectedTotals := totals
	if sched.Mode == PeriodModeMonth {
		selectedTotals = make([]decimal.Decimal, 0, len(selected))
		for _, c := range selected {
			selectedTotals = append(selectedTotals, totals[c-1])
		}
	}
	trajectory := ComputeTrajectory(snap.opening, selectedTotals)

	closing := snap.opening
	if n := len(trajectory.ClosingAt); n > 0 {
		closing = trajectory.ClosingAt[n-1]
	}
	projectedColumns := make([]int, 0, len(projected))
	for c := range projected {
		projectedColumns = append(projectedColumns, c)
	}
	sort.Ints(projectedColumns)

	return &Report{
		Mode:             sched.Mode,
		Year:             sched.Year,
		Columns:          sched.Columns,
		SelectedColumns:  selected,
		Roots:            roots,
		Totals:           totals,
		NetResult:        trajectory.Net,
		OpeningAt:        trajectory.OpeningAt,
		ClosingAt:        trajectory.ClosingAt,
		OpeningBalance:   snap.opening,
		ClosingBalance:   closing,
		ProjectedColumns: projectedColumns,
	}
}

// DrillDown expands one statement cell into its constituent lines. The target
// qualifier's closure drives both the realized entry fetch and the synthetic
// projected lines.
func (s *Service) DrillDown(ctx context.Context, req DrillDownRequest) (*DrillDown, error) {
	sched, err := NewSchedule(req.Mode, req.Year, req.Month, allMonths)
	if err != nil {
		return nil, err
	}
	if !sched.HasColumn(req.Column) {
		return nil, fmt.Errorf("%w: column %d", ErrInvalidPeriod, req.Column)
	}

	nodes, err := s.qualifiers.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	tree, err := qualifier.NewTree(nodes)
	if err != nil {
		return nil, err
	}
	closure := tree.Closure(req.QualifierID)
	if len(closure) == 0 {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownQualifier, req.QualifierID)
	}

	projected := req.Strategy == StrategyProjected && sched.ProjectedColumns(s.now().UTC())[req.Column]
	if !projected {
		from, to := sched.ColumnRange(req.Column)
		entries, err := s.ledger.EntriesBetween(ctx, closure, from, to)
		if err != nil {
			return nil, err
		}
		return realizedDrillDown(tree, entries), nil
	}

	var (
		priorSums []ledger.BucketSum
		rules     []scenario.Adjustment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		priorSums, err = s.ledger.SumsByBucket(gctx, sched.Year-1, 0)
		return err
	})
	if req.ScenarioID != 0 {
		g.Go(func() error {
			var err error
			rules, err = s.adjustments.ListAdjustments(gctx, req.ScenarioID, sched.Year, []int{req.Column})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dfc: fetch drill-down: %w", err)
	}
	realized := NewRealizedIndex()
	realized.AddSums(sched.Year-1, priorSums)
	return projectedDrillDown(tree, sched, realized, NewAdjustmentIndex(rules), closure, req.Column), nil
}

var allMonths = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
