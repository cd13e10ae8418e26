package model

// ConstraintType identifies the kind of check a constraint performs.
type ConstraintType string

const (
	MaxConsecutiveDays ConstraintType = "max-consecutive-days"
	MinRestHours       ConstraintType = "min-rest-hours"
	MaxWeeklyHours     ConstraintType = "max-weekly-hours"
	MaxMonthlyHours    ConstraintType = "max-monthly-hours"
	MaxShiftsPerDay    ConstraintType = "max-shifts-per-day"
	DailyCoverage      ConstraintType = "daily-coverage"
)

// EnforcementLevel controls what happens when a constraint is violated.
type EnforcementLevel string

const (
	EnforcementMandatory EnforcementLevel = "mandatory"
	EnforcementStrict    EnforcementLevel = "strict"
	EnforcementFlexible  EnforcementLevel = "flexible"
)

// Constraint is a legal or operational limit checked per employee before an
// assignment is made. PriorityLevel 0 is the highest priority; by convention
// priority 0 constraints are mandatory, but the two fields are validated
// independently.
type Constraint struct {
	ID            string           `json:"id"`
	Category      string           `json:"category"`
	Type          ConstraintType   `json:"type"`
	Value         float64          `json:"value"`
	Locations     []string         `json:"applicable_locations"`
	PriorityLevel int              `json:"priority_level"`
	Enforcement   EnforcementLevel `json:"enforcement_level"`
	Active        bool             `json:"is_active"`
}

// IsMandatory reports whether a violation of this constraint blocks the
// assignment unconditionally.
func (c Constraint) IsMandatory() bool {
	return c.Enforcement == EnforcementMandatory
}

// AppliesTo reports whether the constraint is in force at the given location.
// A constraint without locations applies everywhere.
func (c Constraint) AppliesTo(location string) bool {
	if len(c.Locations) == 0 {
		return true
	}
	for _, l := range c.Locations {
		if l == location {
			return true
		}
	}
	return false
}
