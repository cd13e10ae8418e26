// Package events defines the payloads published on the internal event bus
// during a generation run.
package events

import "github.com/transitops/rosterd/core/model"

// RunStartedEvent is published when a generation run begins.
type RunStartedEvent struct {
	RunID    string
	Location string
	Start    model.Day
	End      model.Day
}

// AssignmentEvent is published for every shift the scheduler materializes.
type AssignmentEvent struct {
	RunID string
	Shift model.ShiftAssignment
}

// UnassignedEvent is published when a business could not be assigned on a
// date. Reason is "not-applicable", "no-eligible" or "no-qualifying".
type UnassignedEvent struct {
	RunID      string
	BusinessID string
	Date       model.Day
	Reason     string
}

// ViolationEvent is published for every constraint violation encountered,
// including warnings on assignments that still proceeded.
type ViolationEvent struct {
	RunID     string
	Violation model.Violation
}

// MultiDaySkippedEvent is published when a round-trip pair is skipped on a
// date because the departing team has too few unconsumed members.
type MultiDaySkippedEvent struct {
	RunID    string
	PairName string
	Date     model.Day
	Team     string
	Needed   int
	Have     int
}

// RunCompletedEvent is published after the pass finishes.
type RunCompletedEvent struct {
	RunID      string
	Location   string
	Assigned   int
	Unassigned int
}
