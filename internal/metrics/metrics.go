// Package metrics exposes Prometheus collectors for store transactions and
// ledger operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/trivia-server/internal/docstore"
	"github.com/dtroode/trivia-server/internal/model"
)

// Collector records transaction and ledger metrics.
type Collector struct {
	txAttempts  prometheus.Counter
	txConflicts prometheus.Counter
	txDuration  *prometheus.HistogramVec
	operations  *prometheus.CounterVec
}

var (
	_ docstore.Observer       = (*Collector)(nil)
	_ model.OperationRecorder = (*Collector)(nil)
)

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		txAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trivia_store_transaction_attempts_total",
			Help: "Number of transaction attempts, including retries.",
		}),
		txConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trivia_store_transaction_conflicts_total",
			Help: "Number of attempts aborted because a read document changed.",
		}),
		txDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trivia_store_transaction_duration_seconds",
			Help:    "Transaction latency including retries, by outcome.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trivia_ledger_operations_total",
			Help: "Ledger operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}

	reg.MustRegister(
		c.txAttempts,
		c.txConflicts,
		c.txDuration,
		c.operations,
	)

	return c
}

func (c *Collector) TransactionAttempt() {
	c.txAttempts.Inc()
}

func (c *Collector) TransactionConflict() {
	c.txConflicts.Inc()
}

func (c *Collector) TransactionFinished(outcome string, elapsed time.Duration) {
	c.txDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (c *Collector) RecordOperation(operation, outcome string) {
	c.operations.WithLabelValues(operation, outcome).Inc()
}

// Handler returns the scrape handler for gatherer mounted at /metrics.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}
