package model

import (
	"fmt"
	"time"
)

// dayLayout is the wire format for calendar dates.
const dayLayout = "2006-01-02"

// Day is a calendar date without a time-of-day component. It is normalized to
// midnight UTC so that day arithmetic and day-of-week/day-of-month comparisons
// are independent of the host locale and timezone.
type Day struct {
	t time.Time
}

// NewDay builds a Day from its calendar components.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates t to its calendar date in UTC.
func DayOf(t time.Time) Day {
	u := t.UTC()
	return NewDay(u.Year(), u.Month(), u.Day())
}

// ParseDay parses a date in "2006-01-02" form.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DayOf(t), nil
}

// AddDays returns the day shifted by n calendar days.
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// Sub returns the number of whole calendar days between d and o (d - o).
func (d Day) Sub(o Day) int {
	return int(d.t.Sub(o.t) / (24 * time.Hour))
}

// DayOfMonth returns the calendar day of the month (1-31).
func (d Day) DayOfMonth() int { return d.t.Day() }

// Weekday returns the day of week in the fixed UTC calendar.
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

// Year returns the calendar year.
func (d Day) Year() int { return d.t.Year() }

// Month returns the calendar month.
func (d Day) Month() time.Month { return d.t.Month() }

func (d Day) Before(o Day) bool { return d.t.Before(o.t) }
func (d Day) After(o Day) bool  { return d.t.After(o.t) }
func (d Day) Equal(o Day) bool  { return d.t.Equal(o.t) }
func (d Day) IsZero() bool      { return d.t.IsZero() }

// WeekStart returns the Sunday beginning the Sunday-Saturday week containing d.
func (d Day) WeekStart() Day {
	return d.AddDays(-int(d.t.Weekday()))
}

// MonthStart returns the first day of the calendar month containing d.
func (d Day) MonthStart() Day {
	return NewDay(d.t.Year(), d.t.Month(), 1)
}

// At combines the date with a time-of-day into a UTC instant.
func (d Day) At(c Clock) time.Time {
	return d.t.Add(time.Duration(c) * time.Minute)
}

// String renders the date as "2006-01-02".
func (d Day) String() string { return d.t.Format(dayLayout) }

// MarshalJSON encodes the date as a "2006-01-02" string.
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "2006-01-02" string.
func (d *Day) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date json %s", s)
	}
	day, err := ParseDay(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// Clock is a time of day expressed as minutes since midnight. The zero value
// is midnight.
type Clock int

// NewClock builds a Clock from hours and minutes.
func NewClock(hour, minute int) Clock { return Clock(hour*60 + minute) }

// ParseClock parses a time of day in "15:04" form.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return NewClock(t.Hour(), t.Minute()), nil
}

// Hours returns the time of day as fractional hours since midnight.
func (c Clock) Hours() float64 { return float64(c) / 60 }

// Sub returns c - o in fractional hours.
func (c Clock) Sub(o Clock) float64 { return float64(c-o) / 60 }

// String renders the time as "15:04".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// MarshalJSON encodes the time as a "15:04" string.
func (c Clock) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON decodes a "15:04" string.
func (c *Clock) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid time json %s", s)
	}
	cl, err := ParseClock(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*c = cl
	return nil
}
