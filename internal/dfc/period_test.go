package dfc

import (
	"errors"
	"testing"
	"time"
)

func TestNewScheduleDayMode(t *testing.T) {
	sched, err := NewSchedule(PeriodModeDay, 2024, 2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sched.Columns) != 29 {
		t.Fatalf("expected 29 day columns for Feb 2024, got %d", len(sched.Columns))
	}
	if !sched.Start.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected period start %s", sched.Start)
	}
	if got := sched.Bucket(time.Date(2024, 2, 17, 0, 0, 0, 0, time.UTC)); got != 17 {
		t.Fatalf("expected day bucket 17, got %d", got)
	}
}

func TestNewScheduleMonthMode(t *testing.T) {
	sched, err := NewSchedule(PeriodModeMonth, 2025, 0, []int{3, 4, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sched.Columns) != 12 {
		t.Fatalf("expected 12 columns, got %d", len(sched.Columns))
	}
	if !sched.Selected[3] || sched.Selected[6] {
		t.Fatalf("unexpected selection: %v", sched.Selected)
	}
	// Period start is the first day of the minimum selected month.
	if !sched.Start.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected period start %s", sched.Start)
	}
	if got := sched.Bucket(time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)); got != 7 {
		t.Fatalf("expected month bucket 7, got %d", got)
	}
}

func TestNewScheduleRejectsInvalidPeriods(t *testing.T) {
	cases := []struct {
		name   string
		mode   PeriodMode
		year   int
		month  int
		months []int
	}{
		{name: "month 13 in day mode", mode: PeriodModeDay, year: 2025, month: 13},
		{name: "month 0 in day mode", mode: PeriodModeDay, year: 2025, month: 0},
		{name: "year out of range", mode: PeriodModeDay, year: -3, month: 1},
		{name: "selected month 13", mode: PeriodModeMonth, year: 2025, months: []int{1, 13}},
		{name: "empty selection", mode: PeriodModeMonth, year: 2025},
		{name: "unknown mode", mode: PeriodMode("week"), year: 2025, month: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewSchedule(tc.mode, tc.year, tc.month, tc.months); !errors.Is(err, ErrInvalidPeriod) {
				t.Fatalf("expected ErrInvalidPeriod, got %v", err)
			}
		})
	}
}

func TestColumnRange(t *testing.T) {
	monthSched, err := NewSchedule(PeriodModeMonth, 2025, 0, []int{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	from, to := monthSched.ColumnRange(2)
	if !from.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) || !to.Equal(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected month range %s..%s", from, to)
	}

	daySched, err := NewSchedule(PeriodModeDay, 2025, 6, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	from, to = daySched.ColumnRange(15)
	if !from.Equal(to) || from.Day() != 15 {
		t.Fatalf("unexpected day range %s..%s", from, to)
	}
}

func TestProjectedColumnsMonthMode(t *testing.T) {
	sched, err := NewSchedule(PeriodModeMonth, 2025, 0, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	asOf := time.Date(2025, 4, 15, 10, 30, 0, 0, time.UTC)
	projected := sched.ProjectedColumns(asOf)
	for m := 1; m <= 3; m++ {
		if projected[m] {
			t.Fatalf("month %d is past and must not project", m)
		}
	}
	// The current month counts as today-or-later.
	for m := 4; m <= 12; m++ {
		if !projected[m] {
			t.Fatalf("month %d is today-or-later and must project", m)
		}
	}
}

func TestProjectedColumnsAcrossYears(t *testing.T) {
	sched, err := NewSchedule(PeriodModeMonth, 2026, 0, []int{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	projected := sched.ProjectedColumns(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	if len(projected) != 12 {
		t.Fatalf("every column of a future year must project, got %v", projected)
	}

	past, err := NewSchedule(PeriodModeMonth, 2024, 0, []int{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := past.ProjectedColumns(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)); len(got) != 0 {
		t.Fatalf("no column of a past year may project, got %v", got)
	}
}

func TestProjectedColumnsDayModeNeverProjects(t *testing.T) {
	sched, err := NewSchedule(PeriodModeDay, 2030, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sched.ProjectedColumns(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)); len(got) != 0 {
		t.Fatalf("day mode must never project, got %v", got)
	}
}
