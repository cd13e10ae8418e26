package model

// TeamNone marks an employee that belongs to no fixed team. Such employees
// are usable by any team filter.
const TeamNone = "none"

// Employee is a member of staff that can be assigned to businesses.
type Employee struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	HomeOffice string   `json:"home_office"`
	Team       string   `json:"team"`
	Skills     []string `json:"skills"`
}

// HasWildcardTeam reports whether the employee is unassigned to any team and
// may therefore serve any team-filtered business.
func (e Employee) HasWildcardTeam() bool {
	return e.Team == "" || e.Team == TeamNone
}

// MatchesTeam reports whether the employee satisfies the given team filter.
// An empty filter matches everyone; a wildcard employee matches every filter.
func (e Employee) MatchesTeam(team string) bool {
	if team == "" {
		return true
	}
	return e.Team == team || e.HasWildcardTeam()
}

// HasSkill reports whether the skill appears on the employee record itself.
// Scheduling eligibility uses the SkillMatrix; this helper serves data
// inspection and validation tooling.
func (e Employee) HasSkill(skill string) bool {
	for _, s := range e.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// SkillMatrix maps an employee ID to the business groups the employee is
// qualified to perform.
type SkillMatrix map[string][]string

// Allows reports whether the employee holds the given business group skill.
func (m SkillMatrix) Allows(employeeID, group string) bool {
	for _, g := range m[employeeID] {
		if g == group {
			return true
		}
	}
	return false
}
