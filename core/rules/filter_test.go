package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/transitops/rosterd/core/model"
	"github.com/transitops/rosterd/infra/logger"
)

var (
	alice = model.Employee{ID: "e1", Name: "Alice", Team: "A", Skills: []string{"driving"}}
	bob   = model.Employee{ID: "e2", Name: "Bob", Team: "B"}
	carol = model.Employee{ID: "e3", Name: "Carol", Team: model.TeamNone}
)

func skillsFor(ids ...string) model.SkillMatrix {
	m := model.SkillMatrix{}
	for _, id := range ids {
		m[id] = []string{"driving"}
	}
	return m
}

func TestEligibleSkillGate(t *testing.T) {
	f := NewFilter(nil, "depot-1", logger.NopLogger{})
	b := model.BusinessDefinition{ID: "b1", Group: "driving"}
	date := model.NewDay(2025, time.December, 10)

	got, applicable := f.Eligible(b, date, []model.Employee{alice, bob, carol}, skillsFor("e1", "e3"), nil)
	assert.True(t, applicable)
	assert.Equal(t, []model.Employee{alice, carol}, got)
}

func TestEligibleTeamGate(t *testing.T) {
	f := NewFilter(nil, "depot-1", logger.NopLogger{})
	b := model.BusinessDefinition{ID: "b1", Group: "driving", Team: "A"}
	date := model.NewDay(2025, time.December, 10)

	got, applicable := f.Eligible(b, date, []model.Employee{alice, bob, carol}, skillsFor("e1", "e2", "e3"), nil)
	assert.True(t, applicable)
	// Bob is on team B; Carol has no team and matches any filter.
	assert.Equal(t, []model.Employee{alice, carol}, got)
}

func TestEligibleRotationParityGate(t *testing.T) {
	f := NewFilter(nil, "depot-1", logger.NopLogger{})
	b := model.BusinessDefinition{
		ID:    "b1",
		Group: "driving",
		MultiDay: &model.MultiDayConfig{
			DurationDays: 2,
			Rotation:     &model.RotationRule{ApplicableDates: model.ParityOdd},
		},
	}

	got, applicable := f.Eligible(b, model.NewDay(2025, time.December, 20), []model.Employee{alice}, skillsFor("e1"), nil)
	assert.False(t, applicable, "even date must not be applicable for odd-days rotation")
	assert.Nil(t, got)

	got, applicable = f.Eligible(b, model.NewDay(2025, time.December, 21), []model.Employee{alice}, skillsFor("e1"), nil)
	assert.True(t, applicable)
	assert.Equal(t, []model.Employee{alice}, got)
}

func TestEligibleRotationTeamOverridesBusinessTeam(t *testing.T) {
	f := NewFilter(nil, "depot-1", logger.NopLogger{})
	b := model.BusinessDefinition{
		ID:    "b1",
		Group: "driving",
		Team:  "A",
		MultiDay: &model.MultiDayConfig{
			DurationDays: 2,
			Rotation:     &model.RotationRule{ApplicableDates: model.ParityAll, TeamFilter: "B"},
		},
	}
	date := model.NewDay(2025, time.December, 10)

	got, applicable := f.Eligible(b, date, []model.Employee{alice, bob}, skillsFor("e1", "e2"), nil)
	assert.True(t, applicable)
	assert.Equal(t, []model.Employee{bob}, got)
}

func TestFilterRulesNarrowMonotonically(t *testing.T) {
	all := []model.BusinessRule{
		{ID: "r2", Type: model.RuleFilter, Priority: 2, Active: true, Config: model.RuleConfig{TeamFilter: "A"}},
		// Lower priority runs first; it removes Alice and r2 cannot
		// restore her.
		{ID: "r1", Type: model.RuleFilter, Priority: 1, Active: true, Config: model.RuleConfig{TeamFilter: "B"}},
	}
	f := NewFilter(all, "depot-1", logger.NopLogger{})
	b := model.BusinessDefinition{ID: "b1", Group: "driving"}
	date := model.NewDay(2025, time.December, 10)

	got, applicable := f.Eligible(b, date, []model.Employee{alice, bob, carol}, skillsFor("e1", "e2", "e3"), nil)
	assert.True(t, applicable)
	// r1 keeps B plus the wildcard, r2 then keeps only the wildcard.
	assert.Equal(t, []model.Employee{carol}, got)
}

func TestInactiveAndForeignLocationRulesIgnored(t *testing.T) {
	all := []model.BusinessRule{
		{ID: "inactive", Type: model.RuleFilter, Priority: 1, Active: false, Config: model.RuleConfig{TeamFilter: "A"}},
		{ID: "elsewhere", Type: model.RuleFilter, Priority: 1, Active: true, Locations: []string{"depot-2"}, Config: model.RuleConfig{TeamFilter: "A"}},
	}
	f := NewFilter(all, "depot-1", logger.NopLogger{})
	b := model.BusinessDefinition{ID: "b1", Group: "driving"}
	date := model.NewDay(2025, time.December, 10)

	got, _ := f.Eligible(b, date, []model.Employee{alice, bob}, skillsFor("e1", "e2"), nil)
	assert.Equal(t, []model.Employee{alice, bob}, got)
}

func TestGroupScopedRule(t *testing.T) {
	all := []model.BusinessRule{
		{ID: "r1", Type: model.RuleFilter, Priority: 1, Active: true, Config: model.RuleConfig{TeamFilter: "A", Groups: []string{"maintenance"}}},
	}
	f := NewFilter(all, "depot-1", logger.NopLogger{})
	date := model.NewDay(2025, time.December, 10)

	got, _ := f.Eligible(model.BusinessDefinition{ID: "b1", Group: "driving"}, date, []model.Employee{alice, bob}, skillsFor("e1", "e2"), nil)
	assert.Equal(t, []model.Employee{alice, bob}, got, "rule scoped to another group must not narrow")
}

func TestDateScopedRuleSkippedOnParityMismatch(t *testing.T) {
	all := []model.BusinessRule{
		{ID: "r1", Type: model.RuleFilter, Priority: 1, Active: true, Config: model.RuleConfig{
			Rotation: &model.RotationRule{ApplicableDates: model.ParityOdd, TeamFilter: "A"},
		}},
	}
	f := NewFilter(all, "depot-1", logger.NopLogger{})
	b := model.BusinessDefinition{ID: "b1", Group: "driving"}

	got, _ := f.Eligible(b, model.NewDay(2025, time.December, 20), []model.Employee{alice, bob}, skillsFor("e1", "e2"), nil)
	assert.Equal(t, []model.Employee{alice, bob}, got, "rule not in force on even dates")

	got, _ = f.Eligible(b, model.NewDay(2025, time.December, 21), []model.Employee{alice, bob}, skillsFor("e1", "e2"), nil)
	assert.Equal(t, []model.Employee{alice}, got)
}

func TestNonFilterRuleTypesDoNotNarrow(t *testing.T) {
	all := []model.BusinessRule{
		{ID: "r1", Type: model.RuleValidation, Priority: 1, Active: true, Config: model.RuleConfig{TeamFilter: "A"}},
		{ID: "r2", Type: model.RuleOptimization, Priority: 2, Active: true, Config: model.RuleConfig{TeamFilter: "A"}},
	}
	f := NewFilter(all, "depot-1", logger.NopLogger{})
	b := model.BusinessDefinition{ID: "b1", Group: "driving"}
	date := model.NewDay(2025, time.December, 10)

	got, _ := f.Eligible(b, date, []model.Employee{alice, bob}, skillsFor("e1", "e2"), nil)
	assert.Equal(t, []model.Employee{alice, bob}, got)
}
