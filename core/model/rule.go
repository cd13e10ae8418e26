package model

// RuleType classifies a business rule.
type RuleType string

const (
	RuleFilter       RuleType = "filter"
	RuleConstraint   RuleType = "constraint"
	RuleAssignment   RuleType = "assignment"
	RuleValidation   RuleType = "validation"
	RuleOptimization RuleType = "optimization"
)

// RuleConfig is the structured condition/action payload of a business rule.
type RuleConfig struct {
	TeamFilter string        `json:"team_filter,omitempty"`
	Rotation   *RotationRule `json:"rotation,omitempty"`
	// Groups scopes the rule to businesses of the listed groups. Empty
	// means the rule applies to every business.
	Groups []string `json:"groups,omitempty"`
}

// AppliesToGroup reports whether the rule is in scope for the given business
// group.
func (c RuleConfig) AppliesToGroup(group string) bool {
	if len(c.Groups) == 0 {
		return true
	}
	for _, g := range c.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// BusinessRule is a per-location rule narrowing which employees may perform a
// business. Rules are evaluated in ascending priority order.
type BusinessRule struct {
	ID        string     `json:"id"`
	Type      RuleType   `json:"rule_type"`
	Priority  int        `json:"priority"`
	Locations []string   `json:"applicable_locations"`
	Config    RuleConfig `json:"config"`
	Active    bool       `json:"is_active"`
}

// AppliesTo reports whether the rule is in force at the given location.
func (r BusinessRule) AppliesTo(location string) bool {
	if len(r.Locations) == 0 {
		return true
	}
	for _, l := range r.Locations {
		if l == location {
			return true
		}
	}
	return false
}
