package constraint

import (
	"fmt"
	"sort"

	"github.com/transitops/rosterd/core/model"
)

const hoursPerDay = 24.0

// checkMaxConsecutiveDays computes the longest run of calendar-consecutive
// dates over the employee's existing shift dates plus the proposed date.
func checkMaxConsecutiveDays(proposed model.ShiftAssignment, existing []model.ShiftAssignment, c model.Constraint) *model.Violation {
	seen := map[string]model.Day{proposed.Date.String(): proposed.Date}
	for _, s := range existing {
		seen[s.Date.String()] = s.Date
	}
	days := make([]model.Day, 0, len(seen))
	for _, d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	limit := int(c.Value)
	if longest <= limit {
		return nil
	}
	return &model.Violation{
		Description: fmt.Sprintf("%d consecutive working days (limit %d)", longest, limit),
	}
}

// checkMinRestHours compares the rest between the end of the latest shift on
// the day before the proposed date and the proposed start. No shift on the
// prior day means no violation. Meeting the threshold exactly passes.
func checkMinRestHours(proposed model.ShiftAssignment, existing []model.ShiftAssignment, c model.Constraint) *model.Violation {
	prevDay := proposed.Date.AddDays(-1)
	var prevEnd model.Clock
	found := false
	for _, s := range existing {
		if !s.Date.Equal(prevDay) {
			continue
		}
		if !found || s.End > prevEnd {
			prevEnd = s.End
		}
		found = true
	}
	if !found {
		return nil
	}
	rest := (hoursPerDay - prevEnd.Hours()) + proposed.Start.Hours()
	if rest >= c.Value {
		return nil
	}
	return &model.Violation{
		Description: fmt.Sprintf("only %.1fh rest after previous shift ending %s (minimum %.1fh)", rest, prevEnd, c.Value),
	}
}

// checkMaxWeeklyHours sums working hours over the Sunday-Saturday week
// containing the proposed date, including the proposed shift.
func checkMaxWeeklyHours(proposed model.ShiftAssignment, existing []model.ShiftAssignment, c model.Constraint) *model.Violation {
	start := proposed.Date.WeekStart()
	end := start.AddDays(6)
	total := proposed.Hours() + hoursInWindow(existing, start, end)
	if total <= c.Value {
		return nil
	}
	return &model.Violation{
		Description: fmt.Sprintf("%.1fh in week of %s (limit %.1fh)", total, start, c.Value),
	}
}

// checkMaxMonthlyHours sums working hours over the calendar month containing
// the proposed date, including the proposed shift.
func checkMaxMonthlyHours(proposed model.ShiftAssignment, existing []model.ShiftAssignment, c model.Constraint) *model.Violation {
	start := proposed.Date.MonthStart()
	end := start.AddDays(-1).AddDays(daysInMonth(proposed.Date))
	total := proposed.Hours() + hoursInWindow(existing, start, end)
	if total <= c.Value {
		return nil
	}
	return &model.Violation{
		Description: fmt.Sprintf("%.1fh in %s %d (limit %.1fh)", total, proposed.Date.Month(), proposed.Date.Year(), c.Value),
	}
}

// checkMaxShiftsPerDay counts the employee's shifts on the proposed date plus
// the proposed shift.
func checkMaxShiftsPerDay(proposed model.ShiftAssignment, existing []model.ShiftAssignment, c model.Constraint) *model.Violation {
	count := 1
	for _, s := range existing {
		if s.Date.Equal(proposed.Date) {
			count++
		}
	}
	limit := int(c.Value)
	if count <= limit {
		return nil
	}
	return &model.Violation{
		Description: fmt.Sprintf("%d shifts on %s (limit %d)", count, proposed.Date, limit),
	}
}

// hoursInWindow sums the non-negative working hours of shifts within
// [start, end] inclusive.
func hoursInWindow(shifts []model.ShiftAssignment, start, end model.Day) float64 {
	var total float64
	for _, s := range shifts {
		if s.Date.Before(start) || s.Date.After(end) {
			continue
		}
		total += s.Hours()
	}
	return total
}

// daysInMonth returns the number of days in the calendar month containing d.
func daysInMonth(d model.Day) int {
	first := d.MonthStart()
	return first.AddDays(32).MonthStart().Sub(first)
}
