// Package scheduler orchestrates one full generation pass: the multi-day
// resolver runs first, then the remaining single-day businesses are assigned
// per date through the eligibility filter and the constraint validator.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/transitops/rosterd/core/constraint"
	"github.com/transitops/rosterd/core/events"
	"github.com/transitops/rosterd/core/logger"
	"github.com/transitops/rosterd/core/metrics"
	"github.com/transitops/rosterd/core/model"
	"github.com/transitops/rosterd/core/multiday"
	"github.com/transitops/rosterd/core/rules"
	"github.com/transitops/rosterd/core/runlog"
	"github.com/transitops/rosterd/internal/eventbus"
)

// Default window for businesses without a configured start or end time.
var (
	defaultShiftStart = model.NewClock(9, 0)
	defaultShiftEnd   = model.NewClock(17, 0)
)

// Request carries all inputs of one generation run. The caller fetches the
// data beforehand; the pass itself performs no I/O.
type Request struct {
	RunID      string
	Location   string
	Start      model.Day
	End        model.Day
	Employees  []model.Employee
	Businesses []model.BusinessDefinition
	Skills     model.SkillMatrix
	// Existing holds pre-existing shifts for continuation runs.
	Existing []model.ShiftAssignment
	// Warnings from data loading are carried through into the result.
	Warnings []string
}

// Summary aggregates the run outcome.
type Summary struct {
	TotalBusinesses      int `json:"total_businesses"`
	AssignedBusinesses   int `json:"assigned_businesses"`
	UnassignedBusinesses int `json:"unassigned_businesses"`
	TotalEmployees       int `json:"total_employees"`
}

// Result is the single output of a generation run. Success stays true when
// some businesses remain unassigned; partial unassignment is a reported
// outcome, not an error.
type Result struct {
	Success    bool                    `json:"success"`
	RunID      string                  `json:"run_id"`
	Shifts     []model.ShiftAssignment `json:"shifts"`
	Unassigned []string                `json:"unassigned_businesses"`
	Violations []model.Violation       `json:"violations,omitempty"`
	Warnings   []string                `json:"warnings,omitempty"`
	Summary    Summary                 `json:"summary"`
}

// Scheduler runs generation passes. It may be reused across sequential runs;
// concurrent runs over overlapping locations must be serialized by the
// caller.
type Scheduler struct {
	filter    *rules.Filter
	validator *constraint.Validator
	resolver  *multiday.Resolver
	sink      metrics.Sink
	bus       eventbus.EventBus
	store     runlog.Store
	log       logger.Logger
	now       func() time.Time
}

// New creates a Scheduler. sink, bus and store may be nil.
func New(filter *rules.Filter, validator *constraint.Validator, resolver *multiday.Resolver, sink metrics.Sink, bus eventbus.EventBus, store runlog.Store, log logger.Logger) (*Scheduler, error) {
	if filter == nil || validator == nil || resolver == nil || log == nil {
		return nil, errors.New("scheduler: filter, validator, resolver and logger are required")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Scheduler{
		filter:    filter,
		validator: validator,
		resolver:  resolver,
		sink:      sink,
		bus:       bus,
		store:     store,
		log:       log,
		now:       time.Now,
	}, nil
}

// runState is the mutable state of a single pass, discarded afterward.
type runState struct {
	shifts  []model.ShiftAssignment // accumulated this run
	pool    []model.ShiftAssignment // existing + accumulated, fed to the validator
	usedAll map[string]bool         // employees consumed for the whole range by round trips
	usedDay map[string]bool         // "employeeID|date" claims from exclusive businesses
	records []metrics.AssignmentRecord
}

// Generate executes one deterministic pass over the date range. Two runs with
// identical inputs produce identical results.
func (s *Scheduler) Generate(ctx context.Context, req Request) (Result, error) {
	if err := validateRequest(req); err != nil {
		return Result{}, err
	}
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	started := s.now()
	runsTotal.Inc()
	if s.bus != nil {
		s.bus.Publish(events.RunStartedEvent{RunID: req.RunID, Location: req.Location, Start: req.Start, End: req.End})
	}

	res := Result{Success: true, RunID: req.RunID, Warnings: req.Warnings}
	st := &runState{
		pool:    append([]model.ShiftAssignment(nil), req.Existing...),
		usedAll: make(map[string]bool),
		usedDay: make(map[string]bool),
	}

	remaining := s.runMultiDayPhase(req, st, &res)
	s.runSingleDayPhase(req, remaining, st, &res)

	res.Shifts = st.shifts
	res.Summary.TotalBusinesses = res.Summary.AssignedBusinesses + len(res.Unassigned)
	res.Summary.UnassignedBusinesses = len(res.Unassigned)
	res.Summary.TotalEmployees = len(req.Employees)

	s.finish(ctx, req, res, started, st)
	return res, nil
}

// runMultiDayPhase resolves round trips first and removes the consumed
// businesses and employees from the single-day pools. A resolver failure
// degrades to a warning; the single-day phase still runs.
func (s *Scheduler) runMultiDayPhase(req Request, st *runState, res *Result) []model.BusinessDefinition {
	mdres, err := s.resolver.Resolve(req.RunID, req.Businesses, req.Employees, req.Start, req.End)
	if err != nil {
		s.log.Warnf("multi-day phase failed, continuing single-day only: %v", err)
		res.Warnings = append(res.Warnings, fmt.Sprintf("multi-day phase skipped: %v", err))
		return req.Businesses
	}
	for _, sh := range mdres.Shifts {
		st.shifts = append(st.shifts, sh)
		st.pool = append(st.pool, sh)
		team := ""
		if sh.MultiDay != nil {
			team = sh.MultiDay.Team
		}
		s.recordOutcome(st, req, sh.Date, sh.BusinessID, sh.BusinessName, sh.EmployeeID, team, true, true)
		if s.bus != nil {
			s.bus.Publish(events.AssignmentEvent{RunID: req.RunID, Shift: sh})
		}
	}
	// One staffed round trip counts as one assigned business instance,
	// however many crew members it took.
	res.Summary.AssignedBusinesses += mdres.Departures
	res.Unassigned = append(res.Unassigned, mdres.Skipped...)
	for id := range mdres.UsedEmployees {
		st.usedAll[id] = true
	}

	remaining := make([]model.BusinessDefinition, 0, len(req.Businesses))
	for _, b := range req.Businesses {
		if !mdres.ConsumedBusinesses[b.ID] {
			remaining = append(remaining, b)
		}
	}
	return remaining
}

// runSingleDayPhase iterates dates ascending and businesses in their given
// order, assigning the first qualifying candidate of each.
func (s *Scheduler) runSingleDayPhase(req Request, businesses []model.BusinessDefinition, st *runState, res *Result) {
	candidates := make([]model.Employee, 0, len(req.Employees))
	for _, e := range req.Employees {
		if !st.usedAll[e.ID] {
			candidates = append(candidates, e)
		}
	}

	for date := req.Start; !date.After(req.End); date = date.AddDays(1) {
		for _, b := range businesses {
			s.scheduleBusiness(req, b, date, candidates, st, res)
		}
	}
}

// scheduleBusiness attempts one (business, date) assignment.
func (s *Scheduler) scheduleBusiness(req Request, b model.BusinessDefinition, date model.Day, candidates []model.Employee, st *runState, res *Result) {
	eligible, applicable := s.filter.Eligible(b, date, candidates, req.Skills, st.pool)
	if !applicable {
		// The business does not run on this date; nothing to report.
		return
	}

	start, end := shiftWindow(b)
	proposed := model.ShiftAssignment{
		Date:         date,
		BusinessID:   b.ID,
		BusinessName: b.Name,
		Location:     b.Location,
		Start:        start,
		End:          end,
	}

	for _, e := range eligible {
		// Claimed by an exclusive business earlier today.
		if st.usedDay[e.ID+"|"+date.String()] {
			continue
		}
		// Already working an intersecting window on this date.
		if overlapsExisting(st.pool, e.ID, proposed) {
			continue
		}
		proposed.EmployeeID = e.ID
		dec := s.validator.Validate(e, proposed, st.pool)
		res.Violations = append(res.Violations, dec.Violations...)
		if s.bus != nil {
			for _, v := range dec.Violations {
				s.bus.Publish(events.ViolationEvent{RunID: req.RunID, Violation: v})
			}
		}
		if !dec.CanProceed {
			continue
		}

		shift := proposed
		shift.CreatedAt = s.now()
		st.shifts = append(st.shifts, shift)
		st.pool = append(st.pool, shift)
		if b.Exclusive {
			st.usedDay[e.ID+"|"+date.String()] = true
		}
		res.Summary.AssignedBusinesses++
		s.recordOutcome(st, req, date, b.ID, b.Name, e.ID, e.Team, false, true)
		if s.bus != nil {
			s.bus.Publish(events.AssignmentEvent{RunID: req.RunID, Shift: shift})
		}
		return
	}

	reason := "no-qualifying"
	if len(eligible) == 0 {
		reason = "no-eligible"
	}
	res.Unassigned = append(res.Unassigned, b.ID+" "+date.String())
	s.recordOutcome(st, req, date, b.ID, b.Name, "", "", false, false)
	if s.bus != nil {
		s.bus.Publish(events.UnassignedEvent{RunID: req.RunID, BusinessID: b.ID, Date: date, Reason: reason})
	}
}

// recordOutcome buffers a metrics record for the sink.
func (s *Scheduler) recordOutcome(st *runState, req Request, date model.Day, businessID, businessName, employeeID, team string, multiDay, assigned bool) {
	st.records = append(st.records, metrics.AssignmentRecord{
		RunID:        req.RunID,
		Location:     req.Location,
		Date:         date,
		BusinessID:   businessID,
		BusinessName: businessName,
		EmployeeID:   employeeID,
		Team:         team,
		MultiDay:     multiDay,
		Assigned:     assigned,
		Time:         s.now(),
	})
}

// finish flushes metrics, the run log record and the completion event.
func (s *Scheduler) finish(ctx context.Context, req Request, res Result, started time.Time, st *runState) {
	elapsed := s.now().Sub(started)
	runDuration.WithLabelValues(req.Location).Observe(elapsed.Seconds())
	businessesAssigned.WithLabelValues(req.Location).Add(float64(res.Summary.AssignedBusinesses))
	businessesUnassigned.WithLabelValues(req.Location).Add(float64(res.Summary.UnassignedBusinesses))

	if err := s.sink.RecordAssignments(st.records); err != nil {
		s.log.Errorf("metrics sink error: %v", err)
	}
	if rr, ok := s.sink.(metrics.RunSummaryRecorder); ok {
		err := rr.RecordRunSummary(metrics.RunSummaryRecord{
			RunID:      req.RunID,
			Location:   req.Location,
			Assigned:   res.Summary.AssignedBusinesses,
			Unassigned: res.Summary.UnassignedBusinesses,
			Employees:  res.Summary.TotalEmployees,
			Duration:   elapsed,
			Time:       s.now(),
		})
		if err != nil {
			s.log.Errorf("run summary metrics error: %v", err)
		}
	}
	if s.store != nil {
		rec := runlog.Record{
			Timestamp:  s.now(),
			RunID:      req.RunID,
			Location:   req.Location,
			Start:      req.Start,
			End:        req.End,
			Summary:    runlog.Summary(res.Summary),
			Shifts:     res.Shifts,
			Unassigned: res.Unassigned,
			Warnings:   res.Warnings,
		}
		if err := s.store.Append(ctx, rec); err != nil {
			s.log.Errorf("run log append error: %v", err)
		}
	}
	if s.bus != nil {
		s.bus.Publish(events.RunCompletedEvent{
			RunID:      req.RunID,
			Location:   req.Location,
			Assigned:   res.Summary.AssignedBusinesses,
			Unassigned: res.Summary.UnassignedBusinesses,
		})
	}
	s.log.Infof("run %s: %d assigned, %d unassigned over %s..%s",
		req.RunID, res.Summary.AssignedBusinesses, res.Summary.UnassignedBusinesses, req.Start, req.End)
}

// validateRequest rejects the only unrecoverable input errors: missing
// required parameters and an inverted date range.
func validateRequest(req Request) error {
	if req.Location == "" {
		return errors.New("scheduler: location is required")
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return errors.New("scheduler: date range is required")
	}
	if req.End.Before(req.Start) {
		return fmt.Errorf("scheduler: end %s before start %s", req.End, req.Start)
	}
	return nil
}

// overlapsExisting reports whether the employee already holds a shift whose
// [start, end) window intersects the proposed one on the same date.
func overlapsExisting(pool []model.ShiftAssignment, employeeID string, proposed model.ShiftAssignment) bool {
	for _, sh := range pool {
		if sh.EmployeeID == employeeID && sh.OverlapsWith(proposed) {
			return true
		}
	}
	return false
}

// shiftWindow resolves the working window of a single-day business.
func shiftWindow(b model.BusinessDefinition) (model.Clock, model.Clock) {
	start, end := defaultShiftStart, defaultShiftEnd
	if b.Start != nil {
		start = *b.Start
	}
	if b.End != nil {
		end = *b.End
	}
	return start, end
}
