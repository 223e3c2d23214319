package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "custsvc"

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Customer route invocations by route, version and outcome",
		},
		[]string{"route", "version", "outcome"}, // ok|validation|not_found|store_error|rate_limited
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Customer route latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	CustomerEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "customer_events_total",
			Help:      "Customer events lifecycle counter by type and stage",
		},
		[]string{"type", "stage"}, // outboxed|projected|failed
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		RequestsTotal,
		RequestDuration,
		CustomerEventsTotal,
	)
}
