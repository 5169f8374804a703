// Package metrics holds the Prometheus collectors the service exports on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OrderTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_order_transitions_total",
			Help: "Committed order status changes",
		},
		[]string{"from", "to", "role"},
	)

	OrdersDispatchedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_orders_dispatched_total",
			Help: "Orders automatically offered to a courier",
		},
	)

	OrderConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_order_conflicts_total",
			Help: "Order writes that lost a compare-and-swap and were retried",
		},
	)

	DistanceFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_distance_fallback_total",
			Help: "Distance lookups answered by the straight-line fallback",
		},
		[]string{"reason"},
	)

	AuditPublishFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_audit_publish_failures_total",
			Help: "Committed audit entries that could not be published",
		},
	)

	OrderIntakeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_order_intake_total",
			Help: "Order requests consumed from the message broker",
		},
		[]string{"result"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
)

// Register registers all collectors with the default Prometheus registry.
// Call it once from main.
func Register() {
	prometheus.MustRegister(
		OrderTransitionsTotal,
		OrdersDispatchedTotal,
		OrderConflictsTotal,
		DistanceFallbackTotal,
		AuditPublishFailuresTotal,
		OrderIntakeTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
