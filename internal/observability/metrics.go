// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"massa-autoroll/internal/massa"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "massa_autoroll"

// RPC call outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeNodeError      = "node_error"
	OutcomeTransportError = "transport_error"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// RPC metrics
	RPCCalls       *prometheus.CounterVec
	RPCCallLatency *prometheus.HistogramVec

	// Operation metrics
	OperationsBuilt    *prometheus.CounterVec
	OperationsSent     *prometheus.CounterVec
	OperationsRejected *prometheus.CounterVec
	BuildErrors        *prometheus.CounterVec
	RollsBought        prometheus.Counter

	// Address metrics
	FinalBalance   *prometheus.GaugeVec
	CandidateRolls *prometheus.GaugeVec

	// Run metrics
	RunsTotal         *prometheus.CounterVec
	RunDuration       prometheus.Histogram
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a Metrics instance registered with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RPCCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "calls_total",
			Help:      "Total number of node RPC calls by method and outcome",
		}, []string{"method", "outcome"}),
		RPCCallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_latency_seconds",
			Help:      "Node RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		OperationsBuilt: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "operations",
			Name:      "built_total",
			Help:      "Total number of signed operations built by type",
		}, []string{"op_type"}),
		OperationsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "operations",
			Name:      "sent_total",
			Help:      "Total number of operations accepted by the node by type",
		}, []string{"op_type"}),
		OperationsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "operations",
			Name:      "rejected_total",
			Help:      "Total number of submitted operations the node did not accept",
		}, []string{"op_type"}),
		BuildErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "operations",
			Name:      "build_errors_total",
			Help:      "Total number of failed operation builds by reason",
		}, []string{"reason"}),
		RollsBought: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "operations",
			Name:      "rolls_bought_total",
			Help:      "Total number of rolls in accepted RollBuy operations",
		}),

		FinalBalance: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "address",
			Name:      "final_balance_coins",
			Help:      "Final balance of a wallet address in coins",
		}, []string{"address"}),
		CandidateRolls: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "address",
			Name:      "candidate_rolls",
			Help:      "Candidate roll count of a wallet address",
		}, []string{"address"}),

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runner",
			Name:      "runs_total",
			Help:      "Total number of orchestrator runs by status",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "runner",
			Name:      "run_duration_seconds",
			Help:      "Orchestrator run duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful orchestrator run",
		}),
	}
}

// Handler returns an HTTP handler serving metrics gathered from g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ObserveCall implements massa.CallObserver.
func (m *Metrics) ObserveCall(method string, elapsed time.Duration, err error) {
	m.RPCCallLatency.WithLabelValues(method).Observe(elapsed.Seconds())
	m.RPCCalls.WithLabelValues(method, callOutcome(err)).Inc()
}

func callOutcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var rpcErr *massa.RPCError
	if errors.As(err, &rpcErr) && rpcErr.IsNodeError() {
		return OutcomeNodeError
	}
	return OutcomeTransportError
}

// RecordRun records an orchestrator run.
func (m *Metrics) RecordRun(status string, duration time.Duration, finishedAt time.Time) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(duration.Seconds())
	if status == "success" {
		m.LastSuccessfulRun.Set(float64(finishedAt.Unix()))
	}
}

var _ massa.CallObserver = (*Metrics)(nil)
