package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors updated by the analyze and suggest handlers.
type Metrics struct {
	Requests        *prometheus.CounterVec
	Duration        *prometheus.HistogramVec
	TasksScored     *prometheus.CounterVec
	InvalidTasks    prometheus.Counter
	CyclesDetected  prometheus.Counter
	PublishFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_requests_total",
			Help: "Analyze and suggest calls by transport and outcome.",
		}, []string{"operation", "transport", "outcome"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "triage_request_duration_seconds",
			Help:    "Time spent scoring a batch.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"operation"}),
		TasksScored: f.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_tasks_scored_total",
			Help: "Tasks scored, by strategy.",
		}, []string{"strategy"}),
		InvalidTasks: f.NewCounter(prometheus.CounterOpts{
			Name: "triage_invalid_tasks_total",
			Help: "Tasks that failed validation and were scored zero.",
		}),
		CyclesDetected: f.NewCounter(prometheus.CounterOpts{
			Name: "triage_cycles_detected_total",
			Help: "Batches containing at least one circular dependency.",
		}),
		PublishFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "triage_event_publish_failures_total",
			Help: "Events that could not be published to hermes.",
		}),
	}
}
