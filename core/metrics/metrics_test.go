package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitops/rosterd/core/factory"
	"github.com/transitops/rosterd/core/model"
)

type recordingSink struct {
	records   []AssignmentRecord
	summaries []RunSummaryRecord
	err       error
}

func (s *recordingSink) RecordAssignments(records []AssignmentRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, records...)
	return nil
}

func (s *recordingSink) RecordRunSummary(rec RunSummaryRecord) error {
	s.summaries = append(s.summaries, rec)
	return nil
}

// plainSink implements only Sink, not RunSummaryRecorder.
type plainSink struct{ records []AssignmentRecord }

func (s *plainSink) RecordAssignments(records []AssignmentRecord) error {
	s.records = append(s.records, records...)
	return nil
}

func sampleRecords() []AssignmentRecord {
	return []AssignmentRecord{{
		RunID: "run-1", Location: "depot-1",
		Date:       model.NewDay(2025, time.December, 10),
		BusinessID: "b1", EmployeeID: "e1", Assigned: true,
	}}
}

func TestMultiSinkFansOut(t *testing.T) {
	a := &recordingSink{}
	b := &plainSink{}
	m := NewMultiSink(a, b)

	require.NoError(t, m.RecordAssignments(sampleRecords()))
	assert.Len(t, a.records, 1)
	assert.Len(t, b.records, 1)

	require.NoError(t, m.RecordRunSummary(RunSummaryRecord{RunID: "run-1"}))
	assert.Len(t, a.summaries, 1, "summary reaches sinks that support it")
}

func TestMultiSinkReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	m := NewMultiSink(&recordingSink{err: boom}, &recordingSink{})
	assert.ErrorIs(t, m.RecordAssignments(sampleRecords()), boom)
}

func TestNewSinkEmptyConfigIsNop(t *testing.T) {
	s, err := NewSink(nil)
	require.NoError(t, err)
	assert.IsType(t, NopSink{}, s)
}

func TestNewSinkFromRegistry(t *testing.T) {
	captured := &recordingSink{}
	require.NoError(t, RegisterSink("recording-test", func(map[string]any) (Sink, error) {
		return captured, nil
	}))

	s, err := NewSink([]factory.ModuleConfig{{Type: "recording-test"}})
	require.NoError(t, err)
	assert.Equal(t, captured, s)

	_, err = NewSink([]factory.ModuleConfig{{Type: "unregistered"}})
	assert.Error(t, err)
}

func TestNewSinkComposesMultiple(t *testing.T) {
	require.NoError(t, RegisterSink("multi-a", func(map[string]any) (Sink, error) { return &plainSink{}, nil }))
	require.NoError(t, RegisterSink("multi-b", func(map[string]any) (Sink, error) { return &plainSink{}, nil }))

	s, err := NewSink([]factory.ModuleConfig{{Type: "multi-a"}, {Type: "multi-b"}})
	require.NoError(t, err)
	ms, ok := s.(*MultiSink)
	require.True(t, ok)
	assert.Len(t, ms.Sinks, 2)
}
