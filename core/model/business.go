package model

import "fmt"

// Direction identifies the leg of a round-trip business.
type Direction string

const (
	DirectionNone     Direction = ""
	DirectionOutbound Direction = "outbound"
	DirectionReturn   Direction = "return"
)

// DateParity restricts on which calendar days a business runs, based on the
// day of month.
type DateParity string

const (
	ParityAll  DateParity = "all"
	ParityEven DateParity = "even-days"
	ParityOdd  DateParity = "odd-days"
)

// Matches reports whether the given date satisfies the parity restriction.
func (p DateParity) Matches(d Day) bool {
	switch p {
	case ParityEven:
		return d.DayOfMonth()%2 == 0
	case ParityOdd:
		return d.DayOfMonth()%2 == 1
	default:
		return true
	}
}

// RotationRule restricts which dates a multi-day business departs on and
// which team performs it.
type RotationRule struct {
	ApplicableDates DateParity `json:"applicable_dates"`
	TeamFilter      string     `json:"team_filter,omitempty"`
}

// DaySchedule describes one calendar day of a multi-day business instance.
type DaySchedule struct {
	DayIndex   int       `json:"day_index"`
	DateOffset int       `json:"date_offset"`
	Start      Clock     `json:"start"`
	End        Clock     `json:"end"`
	Direction  Direction `json:"direction,omitempty"`
	NameSuffix string    `json:"name_suffix,omitempty"`
}

// MultiDayConfig describes a business whose single logical instance spans
// multiple consecutive calendar days.
type MultiDayConfig struct {
	DurationDays int           `json:"duration_days"`
	Days         []DaySchedule `json:"days"`
	Rotation     *RotationRule `json:"rotation,omitempty"`
}

// Validate checks the invariant that date offsets are exactly 0..N-1 in
// day-index order.
func (c MultiDayConfig) Validate() error {
	if c.DurationDays < 1 {
		return fmt.Errorf("duration_days must be >= 1, got %d", c.DurationDays)
	}
	if len(c.Days) != c.DurationDays {
		return fmt.Errorf("expected %d day schedules, got %d", c.DurationDays, len(c.Days))
	}
	for i, ds := range c.Days {
		if ds.DateOffset != i {
			return fmt.Errorf("day schedule %d has offset %d, want %d", i, ds.DateOffset, i)
		}
	}
	return nil
}

// BusinessDefinition is a schedulable unit of work tied to a location, a time
// window and a required skill group. Days, Team and Direction are legacy flat
// fields still present on older master records; the multi-day adapter derives
// a MultiDayConfig from them when MultiDay is nil.
type BusinessDefinition struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Location         string          `json:"location"`
	Group            string          `json:"group"`
	Start            *Clock          `json:"start,omitempty"`
	End              *Clock          `json:"end,omitempty"`
	PairedBusinessID string          `json:"paired_business_id,omitempty"`
	RequiredPeople   int             `json:"required_people,omitempty"`
	Exclusive        bool            `json:"exclusive,omitempty"`
	MultiDay         *MultiDayConfig `json:"multi_day,omitempty"`

	Days      int    `json:"days,omitempty"`
	Team      string `json:"team,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// IsMultiDay reports whether the business spans more than one calendar day,
// either through an explicit config or through legacy flat fields.
func (b BusinessDefinition) IsMultiDay() bool {
	if b.MultiDay != nil {
		return b.MultiDay.DurationDays > 1
	}
	return b.Days > 1 || b.Direction != ""
}
