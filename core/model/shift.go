package model

import "time"

// MultiDayInfo tags one leg of a multi-day business instance.
type MultiDayInfo struct {
	Day            int       `json:"day"`
	TotalDays      int       `json:"total_days"`
	Direction      Direction `json:"direction"`
	Team           string    `json:"team"`
	PairName       string    `json:"pair_name,omitempty"`
	RequiredPeople int       `json:"required_people,omitempty"`
}

// ShiftAssignment is one employee working one business on one date. It is
// created by the scheduler and never mutated within a run.
type ShiftAssignment struct {
	Date          Day           `json:"date"`
	EmployeeID    string        `json:"employee_id"`
	BusinessID    string        `json:"business_id"`
	BusinessName  string        `json:"business_name"`
	Location      string        `json:"location"`
	Start         Clock         `json:"start"`
	End           Clock         `json:"end"`
	MultiDaySetID string        `json:"multi_day_set_id,omitempty"`
	MultiDay      *MultiDayInfo `json:"multi_day,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Hours returns the working hours of the shift, never negative.
func (s ShiftAssignment) Hours() float64 {
	h := s.End.Sub(s.Start)
	if h < 0 {
		return 0
	}
	return h
}

// OverlapsWith reports whether both shifts fall on the same date with
// intersecting [start, end) windows.
func (s ShiftAssignment) OverlapsWith(o ShiftAssignment) bool {
	if !s.Date.Equal(o.Date) {
		return false
	}
	return s.Start < o.End && o.Start < s.End
}
