package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/transitops/rosterd/core/metrics"
)

// PromSink records scheduling outcomes in Prometheus metrics.
type PromSink struct {
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPromSink registers roster metrics on the provided Prometheus registerer.
// If reg is nil, the default registerer is used. If the collectors are
// already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_assignment_outcomes_total",
		Help: "Total number of (business, date) scheduling outcomes",
	}, []string{"location", "assigned", "multi_day"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roster_run_duration_seconds",
		Help:    "Wall time of a full generation run",
		Buckets: prometheus.DefBuckets,
	}, []string{"location"})

	if err := reg.Register(outcomes); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			outcomes = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	return &PromSink{outcomes: outcomes, duration: duration}, nil
}

// RecordAssignments increments the outcome counter for each record.
func (s *PromSink) RecordAssignments(records []coremetrics.AssignmentRecord) error {
	for _, r := range records {
		s.outcomes.WithLabelValues(r.Location, strconv.FormatBool(r.Assigned), strconv.FormatBool(r.MultiDay)).Inc()
	}
	return nil
}

// RecordRunSummary observes the run duration.
func (s *PromSink) RecordRunSummary(rec coremetrics.RunSummaryRecord) error {
	s.duration.WithLabelValues(rec.Location).Observe(rec.Duration.Seconds())
	return nil
}

func init() {
	// Registration errors only occur on duplicate names.
	_ = coremetrics.RegisterSink("prometheus", func(map[string]any) (coremetrics.Sink, error) {
		return NewPromSink(nil)
	})
}
