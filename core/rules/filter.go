// Package rules implements the rule-based eligibility filter that narrows
// candidate employees for a business on a date before constraint checking.
package rules

import (
	"sort"

	"github.com/transitops/rosterd/core/logger"
	"github.com/transitops/rosterd/core/model"
)

// Filter evaluates business rules against candidate employees. It is built
// once per run from the rules applicable to the run's location and holds no
// mutable state.
type Filter struct {
	rules []model.BusinessRule
	log   logger.Logger
}

// NewFilter keeps the active rules applicable to location, sorted by
// ascending priority. The input slice is not modified.
func NewFilter(all []model.BusinessRule, location string, log logger.Logger) *Filter {
	var kept []model.BusinessRule
	for _, r := range all {
		if r.Active && r.AppliesTo(location) {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Priority < kept[j].Priority })
	return &Filter{rules: kept, log: log}
}

// Eligible returns the candidates allowed to perform the business on the
// given date, preserving candidate order. The second return value is false
// when the business does not run on that date at all (rotation parity
// mismatch), which is distinct from an empty eligible set.
//
// Rules only ever narrow the set: a later rule cannot restore an employee
// removed by an earlier one.
func (f *Filter) Eligible(b model.BusinessDefinition, date model.Day, candidates []model.Employee, skills model.SkillMatrix, existing []model.ShiftAssignment) ([]model.Employee, bool) {
	rotation := businessRotation(b)
	if rotation != nil && !rotation.ApplicableDates.Matches(date) {
		return nil, false
	}

	teamFilter := b.Team
	if rotation != nil && rotation.TeamFilter != "" {
		teamFilter = rotation.TeamFilter
	}

	eligible := make([]model.Employee, 0, len(candidates))
	for _, e := range candidates {
		if !skills.Allows(e.ID, b.Group) {
			continue
		}
		if !e.MatchesTeam(teamFilter) {
			continue
		}
		eligible = append(eligible, e)
	}

	for _, r := range f.rules {
		if !r.Config.AppliesToGroup(b.Group) {
			continue
		}
		if r.Config.Rotation != nil && !r.Config.Rotation.ApplicableDates.Matches(date) {
			// Date-scoped rule not in force today.
			continue
		}
		switch r.Type {
		case model.RuleFilter:
			eligible = applyFilterRule(r, eligible)
		case model.RuleConstraint, model.RuleAssignment, model.RuleValidation, model.RuleOptimization:
			// Handled by other subsystems; nothing to narrow here.
		default:
			f.log.Warnf("unknown rule type %q for rule %s, skipping", r.Type, r.ID)
		}
	}
	return eligible, true
}

// applyFilterRule narrows the surviving set in place, keeping order.
func applyFilterRule(r model.BusinessRule, in []model.Employee) []model.Employee {
	team := r.Config.TeamFilter
	if r.Config.Rotation != nil && r.Config.Rotation.TeamFilter != "" {
		team = r.Config.Rotation.TeamFilter
	}
	if team == "" {
		return in
	}
	out := in[:0]
	for _, e := range in {
		if e.MatchesTeam(team) {
			out = append(out, e)
		}
	}
	return out
}

// businessRotation returns the rotation rule attached to the business, if any.
func businessRotation(b model.BusinessDefinition) *model.RotationRule {
	if b.MultiDay != nil && b.MultiDay.Rotation != nil {
		return b.MultiDay.Rotation
	}
	return nil
}
