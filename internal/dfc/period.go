package dfc

import (
	"fmt"
	"time"
)

// Schedule is the resolved column layout for one statement request: the
// ordered columns, the date-to-bucket extractor and the period start date
// used for the opening balance lookup.
type Schedule struct {
	Mode     PeriodMode
	Year     int
	Month    int
	Columns  []int
	Selected map[int]bool
	Start    time.Time
}

// NewSchedule validates the requested period and lays out its columns.
// Day mode: one column per day of (year, month). Month mode: twelve columns,
// with selectedMonths marking the subset the caller asked for.
func NewSchedule(mode PeriodMode, year, month int, selectedMonths []int) (*Schedule, error) {
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d", ErrInvalidPeriod, year)
	}
	switch mode {
	case PeriodModeDay:
		if month < 1 || month > 12 {
			return nil, fmt.Errorf("%w: month %d", ErrInvalidPeriod, month)
		}
		days := daysInMonth(year, month)
		columns := make([]int, days)
		for i := range columns {
			columns[i] = i + 1
		}
		return &Schedule{
			Mode:    PeriodModeDay,
			Year:    year,
			Month:   month,
			Columns: columns,
			Start:   time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
		}, nil
	case PeriodModeMonth:
		if len(selectedMonths) == 0 {
			return nil, fmt.Errorf("%w: no months selected", ErrInvalidPeriod)
		}
		selected := make(map[int]bool, len(selectedMonths))
		first := 13
		for _, m := range selectedMonths {
			if m < 1 || m > 12 {
				return nil, fmt.Errorf("%w: month %d", ErrInvalidPeriod, m)
			}
			selected[m] = true
			if m < first {
				first = m
			}
		}
		columns := make([]int, 12)
		for i := range columns {
			columns[i] = i + 1
		}
		return &Schedule{
			Mode:     PeriodModeMonth,
			Year:     year,
			Columns:  columns,
			Selected: selected,
			Start:    time.Date(year, time.Month(first), 1, 0, 0, 0, 0, time.UTC),
		}, nil
	default:
		return nil, fmt.Errorf("%w: mode %q", ErrInvalidPeriod, mode)
	}
}

// Bucket extracts the column index a ledger date falls into.
func (s *Schedule) Bucket(t time.Time) int {
	if s.Mode == PeriodModeDay {
		return t.Day()
	}
	return int(t.Month())
}

// HasColumn reports whether column is part of the layout.
func (s *Schedule) HasColumn(column int) bool {
	return column >= 1 && column <= len(s.Columns)
}

// ColumnRange returns the inclusive date range covered by column.
func (s *Schedule) ColumnRange(column int) (time.Time, time.Time) {
	if s.Mode == PeriodModeDay {
		day := time.Date(s.Year, time.Month(s.Month), column, 0, 0, 0, 0, time.UTC)
		return day, day
	}
	from := time.Date(s.Year, time.Month(column), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from, to
}

// ProjectedColumns computes the set of columns eligible for projection as of
// a fixed date: month-mode columns whose (year, month) is asOf-or-later.
// Day-mode statements never project.
func (s *Schedule) ProjectedColumns(asOf time.Time) map[int]bool {
	projected := make(map[int]bool)
	if s.Mode != PeriodModeMonth {
		return projected
	}
	for _, m := range s.Columns {
		if s.Year > asOf.Year() || (s.Year == asOf.Year() && m >= int(asOf.Month())) {
			projected[m] = true
		}
	}
	return projected
}

func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
