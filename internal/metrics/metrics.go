package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "storefront"

var (
	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Latency of calls to the plant backend.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "status"},
	)
	CartMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Cart mutations by operation.",
		},
		[]string{"operation"},
	)
	ShippingEstimates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shipping_estimates_total",
			Help:      "Shipping estimates by caller and outcome.",
		},
		[]string{"caller", "outcome"},
	)
	CheckoutTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_transitions_total",
			Help:      "Checkout state machine transitions.",
		},
		[]string{"from", "to"},
	)
)

// NewRegistry returns a registry holding the storefront collectors plus
// the go runtime and process collectors.
func NewRegistry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	cs := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		BackendRequestDuration,
		CartMutations,
		ShippingEstimates,
		CheckoutTransitions,
	}
	for _, collector := range cs {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
