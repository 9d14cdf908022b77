// Package metrics instruments the editor with Prometheus collectors.
//
// A nil *Metrics is valid and records nothing, so the editor calls it
// unconditionally.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "scribe"

// Metrics holds the editor's collectors.
type Metrics struct {
	transactions  *prometheus.CounterVec
	duration      prometheus.Histogram
	coalesced     prometheus.Counter
	historyPushes *prometheus.CounterVec
	historyMoves  *prometheus.CounterVec
	historyDepth  prometheus.Gauge
	commands      *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Completed outer transactions by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transaction_duration_seconds",
			Help:      "Duration of outer transactions including formatting and notification.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		coalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_coalesced_total",
			Help:      "Nested transactions folded into an outer one.",
		}),
		historyPushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_pushes_total",
			Help:      "History push attempts by result.",
		}, []string{"result"}),
		historyMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_moves_total",
			Help:      "Undo and redo requests by direction and result.",
		}, []string{"direction", "result"}),
		historyDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_entries",
			Help:      "Entries currently held by the undo manager.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_executions_total",
			Help:      "Command executions by answering tier.",
		}, []string{"tier"}),
	}

	var err error
	if m.transactions, err = register(reg, m.transactions); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.coalesced, err = register(reg, m.coalesced); err != nil {
		return nil, err
	}
	if m.historyPushes, err = register(reg, m.historyPushes); err != nil {
		return nil, err
	}
	if m.historyMoves, err = register(reg, m.historyMoves); err != nil {
		return nil, err
	}
	if m.historyDepth, err = register(reg, m.historyDepth); err != nil {
		return nil, err
	}
	if m.commands, err = register(reg, m.commands); err != nil {
		return nil, err
	}
	return m, nil
}

// register registers c, reusing an identical collector already registered
// by another editor on the same registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// TransactionCompleted records an outer transaction.
func (m *Metrics) TransactionCompleted(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "pipeline_error"
	}
	m.transactions.WithLabelValues(result).Inc()
	m.duration.Observe(d.Seconds())
}

// TransactionCoalesced records a nested transaction.
func (m *Metrics) TransactionCoalesced() {
	if m == nil {
		return
	}
	m.coalesced.Inc()
}

// HistoryPushed records a push attempt and the resulting stack size.
func (m *Metrics) HistoryPushed(appended bool, entries int) {
	if m == nil {
		return
	}
	result := "appended"
	if !appended {
		result = "rejected"
	}
	m.historyPushes.WithLabelValues(result).Inc()
	m.historyDepth.Set(float64(entries))
}

// HistoryMoved records an undo or redo request.
func (m *Metrics) HistoryMoved(direction string, moved bool) {
	if m == nil {
		return
	}
	result := "moved"
	if !moved {
		result = "boundary"
	}
	m.historyMoves.WithLabelValues(direction, result).Inc()
}

// CommandExecuted records a command execution by tier name.
func (m *Metrics) CommandExecuted(tier string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(tier).Inc()
}
