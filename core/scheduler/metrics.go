package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	runDuration          *prometheus.HistogramVec
	businessesAssigned   *prometheus.CounterVec
	businessesUnassigned *prometheus.CounterVec
	runsTotal            prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.HistogramVec, *prometheus.CounterVec, *prometheus.CounterVec, prometheus.Counter) {
	dur := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roster_generation_duration_seconds",
			Help:    "Wall time of a generation pass",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"location"},
	)
	asn := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_businesses_assigned_total",
			Help: "Number of (business, date) instances assigned",
		},
		[]string{"location"},
	)
	una := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_businesses_unassigned_total",
			Help: "Number of (business, date) instances left unassigned",
		},
		[]string{"location"},
	)
	runs := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roster_generation_runs_total",
			Help: "Number of generation runs executed",
		},
	)
	return dur, asn, una, runs
}

func init() {
	runDuration, businessesAssigned, businessesUnassigned, runsTotal = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers scheduler metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(runDuration, businessesAssigned, businessesUnassigned, runsTotal)
}

// ResetMetrics reinitializes metric collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	runDuration, businessesAssigned, businessesUnassigned, runsTotal = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
