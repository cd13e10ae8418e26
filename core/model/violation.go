package model

// Severity grades a constraint violation.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Violation records one constraint breach found while validating a proposed
// assignment. CanProceed is false only for mandatory constraints.
type Violation struct {
	ConstraintID string         `json:"constraint_id"`
	Type         ConstraintType `json:"type"`
	EmployeeID   string         `json:"employee_id"`
	Date         Day            `json:"date"`
	Description  string         `json:"description"`
	Severity     Severity       `json:"severity"`
	CanProceed   bool           `json:"can_proceed"`
}
