// Package metrics exposes Prometheus counters for the attestation API and a
// small HTTP server serving them.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Transaction outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the service counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests     *prometheus.CounterVec
	transactions *prometheus.CounterVec
	validation   *prometheus.CounterVec
}

// InitMetrics creates the service counters and registers them with registry.
func InitMetrics(namespace string, registry *prometheus.Registry) *Metrics {
	namespace = strings.ReplaceAll(namespace, "-", "_")

	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total",
			Help: "API requests by route and status code"}, []string{"route", "status"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "transactions_total",
			Help: "On-chain transactions by kind and outcome"}, []string{"kind", "outcome"}),
		validation: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "validation_failures_total",
			Help: "Rejected requests by offending field"}, []string{"field"}),
	}

	registry.MustRegister(m.requests, m.transactions, m.validation)
	return m
}

func (m *Metrics) IncRequest(route string, status int) {
	if m == nil {
		return
	}
	m.requests.With(prometheus.Labels{"route": route, "status": strconv.Itoa(status)}).Inc()
}

func (m *Metrics) IncTransaction(kind string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.transactions.With(prometheus.Labels{"kind": kind, "outcome": outcome}).Inc()
}

func (m *Metrics) IncValidationFailure(field string) {
	if m == nil {
		return
	}
	m.validation.With(prometheus.Labels{"field": field}).Inc()
}

// MetricsServer serves /metrics for a registry.
type MetricsServer struct {
	srv *http.Server
}

func New(registry *prometheus.Registry, listenAddr string) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	return &MetricsServer{
		srv: &http.Server{
			Addr:              listenAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (s *MetricsServer) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
