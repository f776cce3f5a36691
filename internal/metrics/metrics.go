package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersCreated counts successful checkouts.
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bello_orders_created_total",
		Help: "Orders successfully created from carts.",
	})

	// CheckoutFailures counts failed checkouts by reason.
	CheckoutFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bello_checkout_failures_total",
		Help: "Checkout attempts that failed, by reason.",
	}, []string{"reason"})

	// CheckoutDuration observes end-to-end checkout latency.
	CheckoutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bello_checkout_duration_seconds",
		Help:    "Time spent creating an order from a cart.",
		Buckets: prometheus.DefBuckets,
	})

	// CacheHits counts order-cache hits and misses.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bello_order_cache_requests_total",
		Help: "Order cache lookups, by outcome.",
	}, []string{"outcome"})

	// EventsPublished counts order events written to the broker.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bello_order_events_published_total",
		Help: "Order events published, by type.",
	}, []string{"type"})
)
