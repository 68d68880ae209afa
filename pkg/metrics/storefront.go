package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records commerce gateway and cart activity.
type StorefrontMetrics struct {
	gatewayDuration *prometheus.HistogramVec
	gatewaySuccess  *prometheus.CounterVec
	gatewayFailure  *prometheus.CounterVec
	cartCreations   prometheus.Counter
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_call_duration_seconds",
		Help:    "Duration of commerce gateway calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_call_success",
		Help: "Successful commerce gateway calls.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_call_failure",
		Help: "Failed commerce gateway calls.",
	}, []string{"operation"})
	creations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_creations_total",
		Help: "Remote carts created across all sessions.",
	})
	reg.MustRegister(duration, success, failure, creations)
	return &StorefrontMetrics{
		gatewayDuration: duration,
		gatewaySuccess:  success,
		gatewayFailure:  failure,
		cartCreations:   creations,
	}
}

// ObserveGatewayDuration records the duration for the named gateway operation.
func (m *StorefrontMetrics) ObserveGatewayDuration(operation string, duration time.Duration) {
	if m == nil || m.gatewayDuration == nil {
		return
	}
	m.gatewayDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncGatewaySuccess increments the success counter for the named operation.
func (m *StorefrontMetrics) IncGatewaySuccess(operation string) {
	if m == nil || m.gatewaySuccess == nil {
		return
	}
	m.gatewaySuccess.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncGatewayFailure increments the failure counter for the named operation.
func (m *StorefrontMetrics) IncGatewayFailure(operation string) {
	if m == nil || m.gatewayFailure == nil {
		return
	}
	m.gatewayFailure.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncCartCreation counts a freshly created remote cart.
func (m *StorefrontMetrics) IncCartCreation() {
	if m == nil || m.cartCreations == nil {
		return
	}
	m.cartCreations.Inc()
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
