// Package metrics defines the observability sink interface for generation
// runs. Implementations live under infra/metrics.
package metrics

import (
	"time"

	"github.com/transitops/rosterd/core/model"
)

// AssignmentRecord represents one (business, date) scheduling outcome to be
// recorded. EmployeeID is empty when the business went unassigned.
type AssignmentRecord struct {
	RunID        string
	Location     string
	Date         model.Day
	BusinessID   string
	BusinessName string
	EmployeeID   string
	Team         string
	MultiDay     bool
	Assigned     bool
	Time         time.Time
}

// Sink records scheduling outcomes for observability purposes.
type Sink interface {
	RecordAssignments(records []AssignmentRecord) error
}

// RunSummaryRecord captures the aggregate outcome of one run.
type RunSummaryRecord struct {
	RunID      string
	Location   string
	Assigned   int
	Unassigned int
	Employees  int
	Duration   time.Duration
	Time       time.Time
}

// RunSummaryRecorder is implemented by sinks able to record run summaries.
type RunSummaryRecorder interface {
	RecordRunSummary(rec RunSummaryRecord) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordAssignments([]AssignmentRecord) error { return nil }

// Ensure NopSink implements RunSummaryRecorder.
func (NopSink) RecordRunSummary(RunSummaryRecord) error { return nil }
