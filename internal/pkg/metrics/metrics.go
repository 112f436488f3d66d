// internal/pkg/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checkout outcomes
const (
	CheckoutSucceeded         = "succeeded"
	CheckoutEmptySelection    = "empty_selection"
	CheckoutAddressRequired   = "address_required"
	CheckoutInsufficientStock = "insufficient_stock"
	CheckoutFailed            = "failed"
)

// Recorder holds the store's Prometheus collectors on a private registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry            *prometheus.Registry
	checkouts           *prometheus.CounterVec
	unitsSold           prometheus.Counter
	orderValue          prometheus.Counter
	persistenceFailures *prometheus.CounterVec
	cartPruneFailures   prometheus.Counter
	httpDuration        *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry
func New(namespace string) *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome.",
		}, []string{"result"}),
		unitsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_units_sold_total",
			Help:      "Stock units reserved by committed orders.",
		}),
		orderValue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_amount_total",
			Help:      "Sum of payable amounts of committed orders.",
		}),
		persistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Failed collection saves.",
		}, []string{"collection"}),
		cartPruneFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_prune_failures_total",
			Help:      "Orders whose settled lines could not be removed from the cart.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		r.checkouts,
		r.unitsSold,
		r.orderValue,
		r.persistenceFailures,
		r.cartPruneFailures,
		r.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Checkout counts one checkout attempt
func (r *Recorder) Checkout(result string) {
	if r == nil {
		return
	}
	r.checkouts.WithLabelValues(result).Inc()
}

// OrderPlaced records the size of a committed order
func (r *Recorder) OrderPlaced(units int, amount float64) {
	if r == nil {
		return
	}
	r.unitsSold.Add(float64(units))
	r.orderValue.Add(amount)
}

// PersistenceFailure counts a failed save of collection
func (r *Recorder) PersistenceFailure(collection string) {
	if r == nil {
		return
	}
	r.persistenceFailures.WithLabelValues(collection).Inc()
}

// CartPruneFailure counts a committed order whose cart lines stayed behind
func (r *Recorder) CartPruneFailure() {
	if r == nil {
		return
	}
	r.cartPruneFailures.Inc()
}

// ObserveHTTP records one request
func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
