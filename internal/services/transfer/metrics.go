package transfer

import "time"

// MetricsCollector receives engine outcome metrics. A concrete
// Prometheus implementation lives in internal/metrics; the engine
// falls back to the no-op collector when none is wired.
type MetricsCollector interface {
	RecordTransaction(txType string, amount float64)
	RecordError(operation, errType string)
	RecordOperationDuration(operation string, duration time.Duration)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTransaction(string, float64)              {}
func (NoopMetricsCollector) RecordError(string, string)                     {}
func (NoopMetricsCollector) RecordOperationDuration(string, time.Duration)  {}
