// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "restaurant",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "restaurant",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	tasksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "restaurant",
		Name:      "worker_tasks_total",
		Help:      "Worker tasks by type and outcome.",
	}, []string{"type", "outcome"})
)

// ObserveHTTP records one finished request. route is the matched pattern,
// not the raw path, to keep label cardinality bounded.
func ObserveHTTP(method, route string, status int, latency time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(method, route).Observe(latency.Seconds())
}

func ObserveTask(taskType string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	tasksProcessed.WithLabelValues(taskType, outcome).Inc()
}
