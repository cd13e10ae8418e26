// Package multiday resolves businesses spanning multiple consecutive
// calendar days: it derives day-by-day schedules for legacy records, detects
// outbound/return round-trip pairs and assigns whole round trips to
// employees before single-day scheduling begins.
package multiday

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/transitops/rosterd/core/events"
	"github.com/transitops/rosterd/core/logger"
	"github.com/transitops/rosterd/core/model"
	"github.com/transitops/rosterd/internal/eventbus"
)

// ErrInvalidRange is returned when the requested date range is malformed.
// It aborts only the multi-day phase; single-day scheduling proceeds.
var ErrInvalidRange = errors.New("multiday: end date before start date")

// instance lifecycle states, logged as a pair moves through resolution.
const (
	stateDetected       = "detected"
	stateTeamDetermined = "team-determined"
	stateSelected       = "employees-selected"
	stateSkipped        = "skipped-insufficient-staff"
	stateDaysGenerated  = "days-generated"
	stateCommitted      = "committed"
)

// Resolver assigns round-trip pairs over a date range. It holds only
// configuration; all per-run state lives in Resolve.
type Resolver struct {
	cfg Config
	log logger.Logger
	bus eventbus.EventBus
	now func() time.Time
}

// NewResolver creates a Resolver. bus may be nil.
func NewResolver(cfg Config, log logger.Logger, bus eventbus.EventBus) *Resolver {
	cfg.SetDefaults()
	return &Resolver{cfg: cfg, log: log, bus: bus, now: time.Now}
}

// Resolution is the outcome of the multi-day phase.
type Resolution struct {
	Shifts []model.ShiftAssignment
	// UsedEmployees are consumed for the whole run: an employee assigned
	// to one round trip is not reused for another pair anywhere in the
	// range, nor handed to the single-day scheduler.
	UsedEmployees map[string]bool
	// ConsumedBusinesses are removed from the single-day pool.
	ConsumedBusinesses map[string]bool
	// Skipped lists "<pair> <date>" entries for dates a pair could not be
	// staffed.
	Skipped []string
	// Departures counts staffed pair departures. One departure is one round
	// trip regardless of crew size.
	Departures int
}

// DepartingTeam resolves which team travels on the given date. The pair's
// rotation rule is the canonical source; the hard-coded day-of-month parity
// (odd day, odd team) is only the fallback when no rule is configured.
func (r *Resolver) DepartingTeam(date model.Day, p Pair) string {
	if p.Rotation != nil && p.Rotation.TeamFilter != "" {
		return p.Rotation.TeamFilter
	}
	if date.DayOfMonth()%2 == 1 {
		return r.cfg.OddTeam
	}
	return r.cfg.EvenTeam
}

// Resolve adapts the multi-day businesses, detects pairs, and for every date
// in [start, end] staffs each pair with the departing team. Pairs that
// cannot be staffed on a date are skipped without failing the phase.
func (r *Resolver) Resolve(runID string, businesses []model.BusinessDefinition, employees []model.Employee, start, end model.Day) (Resolution, error) {
	res := Resolution{
		UsedEmployees:      make(map[string]bool),
		ConsumedBusinesses: make(map[string]bool),
	}
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return res, ErrInvalidRange
	}

	adapted := make([]model.BusinessDefinition, len(businesses))
	for i, b := range businesses {
		adapted[i] = r.AdaptBusiness(b)
	}
	pairs := r.DetectPairs(adapted)
	if len(pairs) == 0 {
		return res, nil
	}
	for _, p := range pairs {
		r.log.Debugw("multiday pair", map[string]any{
			"pair": p.BaseName, "state": stateDetected, "required_people": p.RequiredPeople,
		})
		res.ConsumedBusinesses[p.Outbound.ID] = true
		res.ConsumedBusinesses[p.Return.ID] = true
	}

	for date := start; !date.After(end); date = date.AddDays(1) {
		for _, p := range pairs {
			if p.Rotation != nil && !p.Rotation.ApplicableDates.Matches(date) {
				continue
			}
			r.resolvePairOnDate(runID, p, date, employees, &res)
		}
	}
	return res, nil
}

// resolvePairOnDate staffs one pair for one departure date.
func (r *Resolver) resolvePairOnDate(runID string, p Pair, date model.Day, employees []model.Employee, res *Resolution) {
	team := r.DepartingTeam(date, p)
	r.log.Debugw("multiday pair", map[string]any{
		"pair": p.BaseName, "date": date.String(), "state": stateTeamDetermined, "team": team,
	})

	var selected []model.Employee
	for _, e := range employees {
		if len(selected) == p.RequiredPeople {
			break
		}
		if res.UsedEmployees[e.ID] || !e.MatchesTeam(team) {
			continue
		}
		selected = append(selected, e)
	}
	if len(selected) < p.RequiredPeople {
		r.log.Warnf("multiday: pair %q on %s needs %d from team %s, only %d available",
			p.BaseName, date, p.RequiredPeople, team, len(selected))
		if r.bus != nil {
			r.bus.Publish(events.MultiDaySkippedEvent{
				RunID: runID, PairName: p.BaseName, Date: date,
				Team: team, Needed: p.RequiredPeople, Have: len(selected),
			})
		}
		r.log.Debugw("multiday pair", map[string]any{
			"pair": p.BaseName, "date": date.String(), "state": stateSkipped,
		})
		res.Skipped = append(res.Skipped, p.BaseName+" "+date.String())
		return
	}
	r.log.Debugw("multiday pair", map[string]any{
		"pair": p.BaseName, "date": date.String(), "state": stateSelected,
	})

	outLeg, retLeg := p.legs()
	createdAt := r.now()
	res.Departures++
	for _, e := range selected {
		res.UsedEmployees[e.ID] = true
		setID := uuid.NewString()
		res.Shifts = append(res.Shifts,
			model.ShiftAssignment{
				Date:          date.AddDays(outLeg.DateOffset),
				EmployeeID:    e.ID,
				BusinessID:    p.Outbound.ID,
				BusinessName:  p.Outbound.Name,
				Location:      p.Outbound.Location,
				Start:         outLeg.Start,
				End:           outLeg.End,
				MultiDaySetID: setID,
				MultiDay: &model.MultiDayInfo{
					Day: 1, TotalDays: 2, Direction: model.DirectionOutbound,
					Team: team, PairName: p.BaseName, RequiredPeople: p.RequiredPeople,
				},
				CreatedAt: createdAt,
			},
			model.ShiftAssignment{
				Date:          date.AddDays(retLeg.DateOffset),
				EmployeeID:    e.ID,
				BusinessID:    p.Return.ID,
				BusinessName:  p.Return.Name,
				Location:      p.Return.Location,
				Start:         retLeg.Start,
				End:           retLeg.End,
				MultiDaySetID: setID,
				MultiDay: &model.MultiDayInfo{
					Day: 2, TotalDays: 2, Direction: model.DirectionReturn,
					Team: team, PairName: p.BaseName, RequiredPeople: p.RequiredPeople,
				},
				CreatedAt: createdAt,
			},
		)
	}
	r.log.Debugw("multiday pair", map[string]any{
		"pair": p.BaseName, "date": date.String(), "state": stateDaysGenerated, "shifts": 2 * len(selected),
	})
	r.log.Debugw("multiday pair", map[string]any{
		"pair": p.BaseName, "date": date.String(), "state": stateCommitted, "employees": len(selected),
	})
}

// legs picks the outbound window from the outbound half's day-0 schedule and
// the return window from the return half's day-1 schedule.
func (p Pair) legs() (model.DaySchedule, model.DaySchedule) {
	out := model.DaySchedule{DateOffset: 0, Start: overnightOutboundStart, End: overnightOutboundEnd}
	ret := model.DaySchedule{DateOffset: 1, Start: overnightReturnStart, End: defaultReturnEnd}
	if p.Outbound.MultiDay != nil {
		for _, ds := range p.Outbound.MultiDay.Days {
			if ds.DateOffset == 0 {
				out = ds
				out.DateOffset = 0
			}
		}
	}
	if p.Return.MultiDay != nil {
		for _, ds := range p.Return.MultiDay.Days {
			if ds.DateOffset == 1 {
				ret = ds
				ret.DateOffset = 1
			}
		}
	}
	return out, ret
}
