package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Total number of cart mutations by action",
	}, []string{"action"})

	CartPersistWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_writes_total",
		Help: "Total number of successful cart persistence writes",
	})

	CartPersistFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Total number of failed cart persistence operations",
	}, []string{"stage"})

	CartPersistLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_persist_latency_seconds",
		Help:    "Latency of cart persistence writes",
		Buckets: prometheus.DefBuckets,
	})

	CartHydrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_hydrations_total",
		Help: "Total number of cart hydrations by outcome",
	}, []string{"outcome"})

	AddIntentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_add_intents_total",
		Help: "Total number of add-to-cart intents by mode and result",
	}, []string{"mode", "result"})

	CheckoutRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_checkout_requests_total",
		Help: "Total number of checkout requests",
	})

	FilterChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filter_changes_total",
		Help: "Total number of filter changes by action",
	}, []string{"action"})

	CartEventsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_events_consumed_total",
		Help: "Total number of cart events consumed by type",
	}, []string{"event_type"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
