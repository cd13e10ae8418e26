package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitops/rosterd/core/constraint"
	"github.com/transitops/rosterd/core/metrics"
	"github.com/transitops/rosterd/core/model"
	"github.com/transitops/rosterd/core/multiday"
	"github.com/transitops/rosterd/core/rules"
	"github.com/transitops/rosterd/infra/logger"
)

// captureSink records everything it receives.
type captureSink struct {
	records   []metrics.AssignmentRecord
	summaries []metrics.RunSummaryRecord
}

func (s *captureSink) RecordAssignments(records []metrics.AssignmentRecord) error {
	s.records = append(s.records, records...)
	return nil
}

func (s *captureSink) RecordRunSummary(rec metrics.RunSummaryRecord) error {
	s.summaries = append(s.summaries, rec)
	return nil
}

func newTestScheduler(t *testing.T, constraints []model.Constraint, ruleSet []model.BusinessRule, sink metrics.Sink) *Scheduler {
	t.Helper()
	log := logger.NopLogger{}
	s, err := New(
		rules.NewFilter(ruleSet, "depot-1", log),
		constraint.NewValidator(constraints, "depot-1", log),
		multiday.NewResolver(multiday.Config{}, log, nil),
		sink,
		nil,
		nil,
		log,
	)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2025, time.December, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func allSkills(group string, ids ...string) model.SkillMatrix {
	m := model.SkillMatrix{}
	for _, id := range ids {
		m[id] = []string{group}
	}
	return m
}

func baseRequest() Request {
	return Request{
		Location: "depot-1",
		Start:    model.NewDay(2025, time.December, 10),
		End:      model.NewDay(2025, time.December, 10),
		Employees: []model.Employee{
			{ID: "e1", Team: "A"},
			{ID: "e2", Team: "B"},
		},
		Businesses: []model.BusinessDefinition{
			{ID: "b1", Name: "Morning run", Location: "depot-1", Group: "driving"},
		},
		Skills: allSkills("driving", "e1", "e2"),
	}
}

func TestNewRequiresCoreCollaborators(t *testing.T) {
	_, err := New(nil, nil, nil, nil, nil, nil, logger.NopLogger{})
	assert.Error(t, err)
}

func TestGenerateRejectsBadRequests(t *testing.T) {
	s := newTestScheduler(t, nil, nil, nil)

	req := baseRequest()
	req.Location = ""
	_, err := s.Generate(context.Background(), req)
	assert.Error(t, err)

	req = baseRequest()
	req.End = req.Start.AddDays(-1)
	_, err = s.Generate(context.Background(), req)
	assert.Error(t, err)

	req = baseRequest()
	req.Start = model.Day{}
	req.End = model.Day{}
	_, err = s.Generate(context.Background(), req)
	assert.Error(t, err)
}

func TestGenerateAssignsFirstEligibleCandidate(t *testing.T) {
	sink := &captureSink{}
	s := newTestScheduler(t, nil, nil, sink)
	req := baseRequest()
	req.RunID = "run-1"

	res, err := s.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "run-1", res.RunID)
	require.Len(t, res.Shifts, 1)
	assert.Equal(t, "e1", res.Shifts[0].EmployeeID, "candidate order decides ties")
	assert.Equal(t, "b1", res.Shifts[0].BusinessID)
	// Businesses without a window get the default 09:00-17:00.
	assert.Equal(t, model.NewClock(9, 0), res.Shifts[0].Start)
	assert.Equal(t, model.NewClock(17, 0), res.Shifts[0].End)

	assert.Equal(t, 1, res.Summary.TotalBusinesses)
	assert.Equal(t, 1, res.Summary.AssignedBusinesses)
	assert.Equal(t, 0, res.Summary.UnassignedBusinesses)
	assert.Equal(t, 2, res.Summary.TotalEmployees)

	require.Len(t, sink.records, 1)
	assert.True(t, sink.records[0].Assigned)
	require.Len(t, sink.summaries, 1)
	assert.Equal(t, "run-1", sink.summaries[0].RunID)
}

func TestGenerateIsDeterministic(t *testing.T) {
	s := newTestScheduler(t, nil, nil, nil)
	req := baseRequest()
	req.RunID = "run-1"
	req.End = req.Start.AddDays(4)

	first, err := s.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := s.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateRecordsUnassigned(t *testing.T) {
	s := newTestScheduler(t, nil, nil, nil)
	req := baseRequest()
	// Nobody holds the required skill.
	req.Skills = model.SkillMatrix{}

	res, err := s.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Success, "unassigned businesses do not fail the run")
	assert.Empty(t, res.Shifts)
	assert.Equal(t, []string{"b1 2025-12-10"}, res.Unassigned)
	assert.Equal(t, 1, res.Summary.UnassignedBusinesses)
	assert.Equal(t, 1, res.Summary.TotalBusinesses)
}

func TestGenerateSkipsNonApplicableDates(t *testing.T) {
	s := newTestScheduler(t, nil, nil, nil)
	req := baseRequest()
	req.Businesses = []model.BusinessDefinition{{
		ID: "b1", Name: "Odd days only", Location: "depot-1", Group: "driving",
		MultiDay: &model.MultiDayConfig{
			DurationDays: 1,
			Days:         []model.DaySchedule{{DayIndex: 0, DateOffset: 0}},
			Rotation:     &model.RotationRule{ApplicableDates: model.ParityOdd},
		},
	}}
	// 2025-12-10 is an even day: the business simply does not run.
	res, err := s.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, res.Shifts)
	assert.Empty(t, res.Unassigned, "a non-applicable date is not an unassignment")
	assert.Equal(t, 0, res.Summary.TotalBusinesses)
}

func TestGenerateMandatoryConstraintBlocksSecondShift(t *testing.T) {
	constraints := []model.Constraint{{
		ID: "one-per-day", Type: model.MaxShiftsPerDay, Value: 1,
		Enforcement: model.EnforcementMandatory, Active: true,
	}}
	s := newTestScheduler(t, constraints, nil, nil)
	req := baseRequest()
	// A disjoint evening window, so only the shifts-per-day cap stands in
	// the way of a second assignment to e1.
	evening := model.NewClock(18, 0)
	night := model.NewClock(22, 0)
	req.Businesses = append(req.Businesses, model.BusinessDefinition{
		ID: "b2", Name: "Evening run", Location: "depot-1", Group: "driving",
		Start: &evening, End: &night,
	})

	res, err := s.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Shifts, 2)
	assert.Equal(t, "e1", res.Shifts[0].EmployeeID)
	assert.Equal(t, "e2", res.Shifts[1].EmployeeID, "e1 already works today, the validator moves on to e2")
	assert.NotEmpty(t, res.Violations, "the blocked attempt is still reported")
}

func TestGenerateExclusiveBusinessConsumesEmployee(t *testing.T) {
	s := newTestScheduler(t, nil, nil, nil)
	req := baseRequest()
	req.Employees = []model.Employee{{ID: "e1", Team: "A"}}
	req.Businesses = []model.BusinessDefinition{
		{ID: "b1", Name: "Exclusive duty", Location: "depot-1", Group: "driving", Exclusive: true},
		{ID: "b2", Name: "Second duty", Location: "depot-1", Group: "driving"},
	}

	res, err := s.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Shifts, 1)
	assert.Equal(t, "b1", res.Shifts[0].BusinessID)
	assert.Equal(t, []string{"b2 2025-12-10"}, res.Unassigned)
}

func TestGenerateMultiDayPhaseRunsFirst(t *testing.T) {
	s := newTestScheduler(t, nil, nil, nil)
	req := baseRequest()
	req.Start = model.NewDay(2025, time.December, 21) // odd: team A departs
	req.End = req.Start
	req.Employees = []model.Employee{{ID: "e1", Team: "A"}, {ID: "e2", Team: "B"}}
	req.Businesses = []model.BusinessDefinition{
		{ID: "r7-out", Name: "Night route 7 (outbound)", Location: "depot-1", Days: 2, RequiredPeople: 1},
		{ID: "r7-ret", Name: "Night route 7 (return)", Location: "depot-1", Days: 2},
		{ID: "b1", Name: "Morning run", Location: "depot-1", Group: "driving"},
	}

	res, err := s.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Shifts, 3)

	// Two round-trip legs for e1, then the single-day business. e1 is
	// consumed by the round trip, so the morning run falls to e2.
	assert.Equal(t, "e1", res.Shifts[0].EmployeeID)
	assert.NotNil(t, res.Shifts[0].MultiDay)
	assert.Equal(t, "e2", res.Shifts[2].EmployeeID)
	assert.Equal(t, "b1", res.Shifts[2].BusinessID)

	assert.Equal(t, 2, res.Summary.AssignedBusinesses, "a round trip counts once")
}

func TestGenerateCarriesDataWarnings(t *testing.T) {
	s := newTestScheduler(t, nil, nil, nil)
	req := baseRequest()
	req.Warnings = []string{"rules dataset failed to load"}

	res, err := s.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, res.Warnings, "rules dataset failed to load")
}

func TestGenerateAssignsRunID(t *testing.T) {
	s := newTestScheduler(t, nil, nil, nil)
	res, err := s.Generate(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
}

func TestGenerateNoOverlappingShiftsPerEmployee(t *testing.T) {
	// Constraints that never trip on a same-day double booking: the overlap
	// guard alone must keep parallel windows apart.
	constraints := []model.Constraint{
		{ID: "rest", Type: model.MinRestHours, Value: 11,
			Enforcement: model.EnforcementMandatory, Active: true},
		{ID: "weekly", Type: model.MaxWeeklyHours, Value: 48,
			Enforcement: model.EnforcementMandatory, Active: true},
	}
	s := newTestScheduler(t, constraints, nil, nil)
	req := baseRequest()
	req.End = req.Start.AddDays(2)
	req.Businesses = []model.BusinessDefinition{
		{ID: "b1", Name: "Morning run", Location: "depot-1", Group: "driving"},
		{ID: "b2", Name: "Parallel run", Location: "depot-1", Group: "driving"},
	}

	res, err := s.Generate(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Shifts)
	assert.Equal(t, "e2", res.Shifts[1].EmployeeID, "e1 already works 09:00-17:00, the parallel run falls to e2")
	for i := range res.Shifts {
		for j := i + 1; j < len(res.Shifts); j++ {
			if res.Shifts[i].EmployeeID != res.Shifts[j].EmployeeID {
				continue
			}
			assert.False(t, res.Shifts[i].OverlapsWith(res.Shifts[j]),
				"employee %s has overlapping shifts", res.Shifts[i].EmployeeID)
		}
	}
}

func TestGenerateAllowsDisjointWindowsSameDay(t *testing.T) {
	s := newTestScheduler(t, nil, nil, nil)
	req := baseRequest()
	req.Employees = []model.Employee{{ID: "e1", Team: "A"}}
	evening := model.NewClock(18, 0)
	night := model.NewClock(22, 0)
	req.Businesses = []model.BusinessDefinition{
		{ID: "b1", Name: "Day run", Location: "depot-1", Group: "driving"},
		{ID: "b2", Name: "Evening run", Location: "depot-1", Group: "driving", Start: &evening, End: &night},
	}

	res, err := s.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Shifts, 2, "disjoint windows on one date are both workable")
	assert.Equal(t, "e1", res.Shifts[0].EmployeeID)
	assert.Equal(t, "e1", res.Shifts[1].EmployeeID)
	assert.Empty(t, res.Unassigned)
}

func TestGenerateRoundTripCountsOncePerDeparture(t *testing.T) {
	s := newTestScheduler(t, nil, nil, nil)
	req := baseRequest()
	req.Start = model.NewDay(2025, time.December, 21) // odd: team A departs
	req.End = req.Start
	req.Employees = []model.Employee{{ID: "e1", Team: "A"}, {ID: "e2", Team: "A"}}
	req.Businesses = []model.BusinessDefinition{
		{ID: "r7-out", Name: "Night route 7 (outbound)", Location: "depot-1", Days: 2, RequiredPeople: 2},
		{ID: "r7-ret", Name: "Night route 7 (return)", Location: "depot-1", Days: 2},
	}

	res, err := s.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Shifts, 4, "two legs per crew member")
	assert.Equal(t, 1, res.Summary.AssignedBusinesses, "one departure is one business, whatever the crew size")
	assert.Equal(t, 1, res.Summary.TotalBusinesses)
}
