package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPRequestsTotal counts served requests by route pattern, method and status.
var HTTPRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tasks_http_requests_total",
		Help: "Total number of HTTP requests served",
	},
	[]string{"path", "method", "status"},
)

// HTTPRequestDuration records request latency by route pattern and method.
var HTTPRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "tasks_http_request_duration_seconds",
		Help:    "Latency in seconds to serve HTTP requests",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"path", "method"},
)

// TaskMutations counts successful task mutations by operation
// (create, update, toggle, delete).
var TaskMutations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tasks_mutations_total",
		Help: "Total number of task mutations",
	},
	[]string{"op"},
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration, TaskMutations)
}
