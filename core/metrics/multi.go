package metrics

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAssignments forwards the records to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordAssignments(records []AssignmentRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordAssignments(records); err != nil {
			return err
		}
	}
	return nil
}

// RecordRunSummary forwards the summary to sinks that support it.
func (m *MultiSink) RecordRunSummary(rec RunSummaryRecord) error {
	for _, s := range m.Sinks {
		if rr, ok := s.(RunSummaryRecorder); ok {
			if err := rr.RecordRunSummary(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
