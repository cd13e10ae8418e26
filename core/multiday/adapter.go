package multiday

import (
	"fmt"
	"strings"

	"github.com/transitops/rosterd/core/model"
)

// Fixed windows of the two-day overnight round-trip template. The outbound
// leg departs in the evening and runs until end of day; the return leg starts
// at midnight and ends at the business's configured end time.
var (
	overnightOutboundStart = model.NewClock(19, 0)
	overnightOutboundEnd   = model.NewClock(23, 59)
	overnightReturnStart   = model.NewClock(0, 0)
	defaultReturnEnd       = model.NewClock(8, 0)
	defaultDayStart        = model.NewClock(9, 0)
	defaultDayEnd          = model.NewClock(17, 0)
)

// AdaptBusiness derives an explicit MultiDayConfig for legacy business
// records that carry only flat fields. Businesses that already have a config,
// or are not multi-day at all, are returned unchanged.
//
// Duration comes from the legacy "days" field (default 2), the team filter
// from "team", and date applicability from "direction": "even" means
// even days of the month, "odd" means odd days, anything else all days.
func (r *Resolver) AdaptBusiness(b model.BusinessDefinition) model.BusinessDefinition {
	if b.MultiDay != nil || !b.IsMultiDay() {
		return b
	}

	duration := b.Days
	if duration <= 0 {
		duration = 2
	}

	cfg := &model.MultiDayConfig{DurationDays: duration}
	if b.Team != "" || b.Direction != "" {
		cfg.Rotation = &model.RotationRule{
			ApplicableDates: parityFromDirection(b.Direction),
			TeamFilter:      b.Team,
		}
	}

	if duration == 2 && r.isOvernightRoute(b.ID) {
		cfg.Days = overnightSchedules(b)
	} else {
		cfg.Days = genericSchedules(b, duration)
	}

	b.MultiDay = cfg
	return b
}

// isOvernightRoute reports whether the business ID matches a known overnight
// route marker.
func (r *Resolver) isOvernightRoute(id string) bool {
	for _, marker := range r.cfg.OvernightMarkers {
		if strings.Contains(id, marker) {
			return true
		}
	}
	return false
}

// overnightSchedules builds the specialized two-day template: evening
// departure, return leg from midnight to the business end time.
func overnightSchedules(b model.BusinessDefinition) []model.DaySchedule {
	returnEnd := defaultReturnEnd
	if b.End != nil {
		returnEnd = *b.End
	}
	return []model.DaySchedule{
		{DayIndex: 0, DateOffset: 0, Start: overnightOutboundStart, End: overnightOutboundEnd, Direction: model.DirectionOutbound},
		{DayIndex: 1, DateOffset: 1, Start: overnightReturnStart, End: returnEnd, Direction: model.DirectionReturn},
	}
}

// genericSchedules builds one entry per day with linear offsets, the
// business's own window and a "(day/total)" name suffix.
func genericSchedules(b model.BusinessDefinition, duration int) []model.DaySchedule {
	start, end := defaultDayStart, defaultDayEnd
	if b.Start != nil {
		start = *b.Start
	}
	if b.End != nil {
		end = *b.End
	}
	days := make([]model.DaySchedule, duration)
	for i := 0; i < duration; i++ {
		days[i] = model.DaySchedule{
			DayIndex:   i,
			DateOffset: i,
			Start:      start,
			End:        end,
			NameSuffix: fmt.Sprintf("(%d/%d)", i+1, duration),
		}
	}
	return days
}

// parityFromDirection maps the legacy direction field to a date parity.
func parityFromDirection(direction string) model.DateParity {
	switch strings.ToLower(direction) {
	case "even":
		return model.ParityEven
	case "odd":
		return model.ParityOdd
	default:
		return model.ParityAll
	}
}
