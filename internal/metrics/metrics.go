// Package metrics exposes Prometheus instrumentation for the transfer
// engine and the HTTP layer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptopay_transactions_total",
		Help: "Completed transactions by type.",
	}, []string{"type"})

	transactionAmount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptopay_transaction_amount_total",
		Help: "Total transacted amount by type, in the transaction currency.",
	}, []string{"type"})

	engineErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptopay_engine_errors_total",
		Help: "Engine errors by operation and error class.",
	}, []string{"operation", "error_type"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cryptopay_operation_duration_seconds",
		Help:    "Engine operation latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptopay_http_requests_total",
		Help: "HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cryptopay_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Collector implements the transfer engine's metrics hook.
type Collector struct{}

func NewCollector() *Collector { return &Collector{} }

func (*Collector) RecordTransaction(txType string, amount float64) {
	transactionsTotal.WithLabelValues(txType).Inc()
	transactionAmount.WithLabelValues(txType).Add(amount)
}

func (*Collector) RecordError(operation, errType string) {
	engineErrors.WithLabelValues(operation, errType).Inc()
}

func (*Collector) RecordOperationDuration(operation string, duration time.Duration) {
	operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
