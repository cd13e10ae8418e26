// Package constraint implements the per-employee constraint validator. It is
// a pure function over the employee's shifts plus the proposed shift; the
// aggregate daily-coverage check lives outside this package.
package constraint

import (
	"sort"

	"github.com/transitops/rosterd/core/logger"
	"github.com/transitops/rosterd/core/model"
)

// Decision is the outcome of validating one candidate for one proposed shift.
type Decision struct {
	CanProceed bool
	Violations []model.Violation
}

// checkFunc evaluates a single constraint against the proposed shift. It
// returns nil when the constraint is satisfied. The description on the
// returned violation is filled; severity and CanProceed are set by Validate.
type checkFunc func(proposed model.ShiftAssignment, existing []model.ShiftAssignment, c model.Constraint) *model.Violation

// checks dispatches by constraint type. daily-coverage is intentionally
// absent: it is an aggregate, cross-employee check handled at a higher level.
var checks = map[model.ConstraintType]checkFunc{
	model.MaxConsecutiveDays: checkMaxConsecutiveDays,
	model.MinRestHours:       checkMinRestHours,
	model.MaxWeeklyHours:     checkMaxWeeklyHours,
	model.MaxMonthlyHours:    checkMaxMonthlyHours,
	model.MaxShiftsPerDay:    checkMaxShiftsPerDay,
}

// Validator evaluates an immutable, per-run constraint list. There is no
// process-wide instance; construct one per generation run.
type Validator struct {
	constraints []model.Constraint
	log         logger.Logger
}

// NewValidator keeps the active constraints applicable to location, sorted by
// ascending priority level (0 first).
func NewValidator(all []model.Constraint, location string, log logger.Logger) *Validator {
	var kept []model.Constraint
	for _, c := range all {
		if c.Active && c.AppliesTo(location) {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].PriorityLevel < kept[j].PriorityLevel })
	return &Validator{constraints: kept, log: log}
}

// Validate checks the proposed shift for the employee against all applicable
// constraints in priority order. existing may contain shifts of other
// employees; only the employee's own shifts are considered.
//
// Iteration stops at the first violation of a priority-0 mandatory
// constraint; violations found before that point are still returned.
func (v *Validator) Validate(emp model.Employee, proposed model.ShiftAssignment, existing []model.ShiftAssignment) Decision {
	own := shiftsFor(emp.ID, existing)
	dec := Decision{CanProceed: true}
	for _, c := range v.constraints {
		if c.Type == model.DailyCoverage {
			v.log.Debugf("constraint %s: daily-coverage is aggregate, skipped in per-employee validation", c.ID)
			continue
		}
		check, ok := checks[c.Type]
		if !ok {
			v.log.Warnf("unknown constraint type %q for constraint %s, ignoring", c.Type, c.ID)
			continue
		}
		viol := check(proposed, own, c)
		if viol == nil {
			continue
		}
		viol.ConstraintID = c.ID
		viol.Type = c.Type
		viol.EmployeeID = emp.ID
		viol.Date = proposed.Date
		if c.IsMandatory() {
			viol.Severity = model.SeverityCritical
			viol.CanProceed = false
		} else {
			viol.Severity = model.SeverityWarning
			viol.CanProceed = true
		}
		dec.Violations = append(dec.Violations, *viol)
		if c.PriorityLevel == 0 && c.IsMandatory() {
			dec.CanProceed = false
			return dec
		}
		if c.IsMandatory() {
			dec.CanProceed = false
		}
	}
	return dec
}

// shiftsFor extracts the employee's own shifts.
func shiftsFor(employeeID string, all []model.ShiftAssignment) []model.ShiftAssignment {
	var own []model.ShiftAssignment
	for _, s := range all {
		if s.EmployeeID == employeeID {
			own = append(own, s)
		}
	}
	return own
}
