// Package metrics exposes the prometheus collectors of the quote/booking pipeline.
//
// Every recording method is safe on a nil *Metrics so components can run unobserved in tests.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cargo_cover"

type Metrics struct {
	registry *prometheus.Registry

	queueDelivered    *prometheus.CounterVec
	queueAcked        *prometheus.CounterVec
	queueRetried      *prometheus.CounterVec
	queueDeadLettered *prometheus.CounterVec
	handlerDuration   *prometheus.HistogramVec

	providerRequests *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec

	referenceRefreshes *prometheus.CounterVec
	referenceEntities  *prometheus.GaugeVec

	mu     sync.Mutex
	server *http.Server
}

// New builds the collectors on a private registry (plus the go/process collectors).
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.queueDelivered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "queue", Name: "delivered_total",
		Help: "Messages handed to a channel handler.",
	}, []string{"channel"})
	m.queueAcked = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "queue", Name: "acked_total",
		Help: "Messages acknowledged after successful handling.",
	}, []string{"channel"})
	m.queueRetried = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "queue", Name: "retried_total",
		Help: "Messages requeued with backoff after a handler failure.",
	}, []string{"channel"})
	m.queueDeadLettered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "queue", Name: "dead_lettered_total",
		Help: "Messages routed to the dead-letter channel.",
	}, []string{"channel"})
	m.handlerDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "queue", Name: "handler_duration_seconds",
		Help:    "Handler latency per channel.",
		Buckets: prometheus.DefBuckets,
	}, []string{"channel"})

	m.providerRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "provider", Name: "requests_total",
		Help: "Provider HTTP attempts by operation and outcome.",
	}, []string{"op", "outcome"})
	m.providerDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "provider", Name: "request_duration_seconds",
		Help:    "Provider HTTP attempt latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	m.referenceRefreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "reference", Name: "refreshes_total",
		Help: "Reference data refreshes by entity type and outcome.",
	}, []string{"entity_type", "outcome"})
	m.referenceEntities = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "reference", Name: "entities",
		Help: "Entities in the current reference snapshot.",
	}, []string{"entity_type"})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.queueDelivered,
		m.queueAcked,
		m.queueRetried,
		m.queueDeadLettered,
		m.handlerDuration,
		m.providerRequests,
		m.providerDuration,
		m.referenceRefreshes,
		m.referenceEntities,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) QueueDelivered(channel string) {
	if m == nil {
		return
	}
	m.queueDelivered.WithLabelValues(channel).Inc()
}

func (m *Metrics) QueueAcked(channel string, took time.Duration) {
	if m == nil {
		return
	}
	m.queueAcked.WithLabelValues(channel).Inc()
	m.handlerDuration.WithLabelValues(channel).Observe(took.Seconds())
}

func (m *Metrics) QueueRetried(channel string, took time.Duration) {
	if m == nil {
		return
	}
	m.queueRetried.WithLabelValues(channel).Inc()
	m.handlerDuration.WithLabelValues(channel).Observe(took.Seconds())
}

func (m *Metrics) QueueDeadLettered(channel string) {
	if m == nil {
		return
	}
	m.queueDeadLettered.WithLabelValues(channel).Inc()
}

func (m *Metrics) ProviderAttempt(op, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.providerRequests.WithLabelValues(op, outcome).Inc()
	m.providerDuration.WithLabelValues(op).Observe(took.Seconds())
}

func (m *Metrics) ReferenceRefreshed(entityType string, size int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.referenceRefreshes.WithLabelValues(entityType, "error").Inc()
		return
	}
	m.referenceRefreshes.WithLabelValues(entityType, "ok").Inc()
	m.referenceEntities.WithLabelValues(entityType).Set(float64(size))
}

// Serve exposes /metrics on addr until Shutdown. Used by the worker, which has no gin router.
func (m *Metrics) Serve(addr string) error {
	m.mu.Lock()
	if m.server != nil {
		m.mu.Unlock()
		return nil
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("metrics listen %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	m.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	srv := m.server
	m.mu.Unlock()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (m *Metrics) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	srv := m.server
	m.server = nil
	m.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
