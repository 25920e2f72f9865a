package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LedgerMetrics covers point movements and the chain calls behind them.
type LedgerMetrics struct {
	TransactionsRecordedTotal *prometheus.CounterVec
	PointsMovedTotal          *prometheus.CounterVec
	OperationsSettledTotal    *prometheus.CounterVec
	ChainCallDuration         *prometheus.HistogramVec
	ReconciledTotal           *prometheus.CounterVec
	LedgerErrorsTotal         *prometheus.CounterVec
}

func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	factory := promauto.With(reg)
	return &LedgerMetrics{
		TransactionsRecordedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loyalty_transactions_recorded_total",
				Help: "Ledger transactions recorded after chain confirmation",
			},
			[]string{"transaction_type"},
		),
		PointsMovedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loyalty_points_moved_total",
				Help: "Absolute points moved by confirmed transactions",
			},
			[]string{"transaction_type", "direction"},
		),
		OperationsSettledTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loyalty_chain_operations_total",
				Help: "Chain operations by final or intermediate status",
			},
			[]string{"status"},
		),
		ChainCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loyalty_chain_call_duration_seconds",
				Help:    "Duration of chain gateway submissions",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"method", "outcome"},
		),
		ReconciledTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loyalty_reconciled_operations_total",
				Help: "Operations resolved by the reconciler",
			},
			[]string{"outcome"},
		),
		LedgerErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loyalty_ledger_errors_total",
				Help: "Rejected ledger requests by error kind",
			},
			[]string{"kind"},
		),
	}
}

func (m *LedgerMetrics) RecordTransaction(txType string, points int64) {
	if m == nil {
		return
	}
	m.TransactionsRecordedTotal.WithLabelValues(txType).Inc()
	direction := "credit"
	if points < 0 {
		direction = "debit"
		points = -points
	}
	m.PointsMovedTotal.WithLabelValues(txType, direction).Add(float64(points))
}

func (m *LedgerMetrics) RecordOperationStatus(status string) {
	if m == nil {
		return
	}
	m.OperationsSettledTotal.WithLabelValues(status).Inc()
}

func (m *LedgerMetrics) RecordChainCall(method, outcome string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.ChainCallDuration.WithLabelValues(method, outcome).Observe(durationSeconds)
}

func (m *LedgerMetrics) RecordReconciled(outcome string) {
	if m == nil {
		return
	}
	m.ReconciledTotal.WithLabelValues(outcome).Inc()
}

func (m *LedgerMetrics) RecordError(kind string) {
	if m == nil {
		return
	}
	m.LedgerErrorsTotal.WithLabelValues(kind).Inc()
}
