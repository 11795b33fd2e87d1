// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DataQualityWarnings = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agrihire",
		Subsystem: "repository",
		Name:      "data_quality_warnings_total",
		Help:      "Stored list or object fields that could not be decoded.",
	}, []string{"entity", "field"})

	Upserts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agrihire",
		Subsystem: "services",
		Name:      "upserts_total",
		Help:      "Create-or-update operations by entity and outcome.",
	}, []string{"entity", "outcome"})

	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agrihire",
		Subsystem: "validation",
		Name:      "failures_total",
		Help:      "Drafts rejected by validation, by entity and scope.",
	}, []string{"entity", "scope"})

	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agrihire",
		Subsystem: "lifecycle",
		Name:      "transitions_total",
		Help:      "Status transitions by entity and result.",
	}, []string{"entity", "from", "to", "result"})

	ExpiredJobs = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "agrihire",
		Subsystem: "worker",
		Name:      "expired_jobs_deactivated_total",
		Help:      "Jobs deactivated by the expiry sweep.",
	})

	WizardSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "agrihire",
		Subsystem: "wizard",
		Name:      "sessions",
		Help:      "Wizard sessions held in memory.",
	})

	HTTPRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "agrihire",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
