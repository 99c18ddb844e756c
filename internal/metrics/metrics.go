// Package metrics exposes Prometheus collectors for contract activity.
package metrics

import (
	"math/big"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fundme"

// Collector groups the counters updated by the contract services
type Collector struct {
	Contributions   *prometheus.CounterVec
	ContributedWei  *prometheus.CounterVec
	Withdrawals     *prometheus.CounterVec
	RaffleEntries   *prometheus.CounterVec
	Events          *prometheus.CounterVec
	Deployments     *prometheus.CounterVec
	RequestCount    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewCollector registers all collectors on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		Contributions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fundme",
			Name:      "contributions_total",
			Help:      "Fund calls by result",
		}, []string{"contract", "result"}),
		ContributedWei: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fundme",
			Name:      "contributed_wei_total",
			Help:      "Wei accepted by Fund",
		}, []string{"contract"}),
		Withdrawals: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fundme",
			Name:      "withdrawals_total",
			Help:      "Withdraw calls by result",
		}, []string{"contract", "result"}),
		RaffleEntries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "raffle",
			Name:      "entries_total",
			Help:      "Raffle entries by result",
		}, []string{"contract", "result"}),
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "emitted_total",
			Help:      "Contract events emitted",
		}, []string{"name"}),
		Deployments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deploy",
			Name:      "deployments_total",
			Help:      "Contracts deployed by kind",
		}, []string{"kind"}),
		RequestCount: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests",
		}, []string{"method", "path", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}, []string{"method", "path"}),
	}
}

// Result labels
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// The Observe helpers are safe to call on a nil Collector.

// ObserveContribution counts a Fund call; wei is added when the call succeeded
func (c *Collector) ObserveContribution(contract, result string, wei *big.Int) {
	if c == nil {
		return
	}
	c.Contributions.WithLabelValues(contract, result).Inc()
	if result == ResultOK && wei != nil {
		f, _ := new(big.Float).SetInt(wei).Float64()
		c.ContributedWei.WithLabelValues(contract).Add(f)
	}
}

// ObserveWithdrawal counts a Withdraw call
func (c *Collector) ObserveWithdrawal(contract, result string) {
	if c == nil {
		return
	}
	c.Withdrawals.WithLabelValues(contract, result).Inc()
}

// ObserveRaffleEntry counts an Enter call
func (c *Collector) ObserveRaffleEntry(contract, result string) {
	if c == nil {
		return
	}
	c.RaffleEntries.WithLabelValues(contract, result).Inc()
}

// ObserveEvent counts an emitted contract event
func (c *Collector) ObserveEvent(name string) {
	if c == nil {
		return
	}
	c.Events.WithLabelValues(name).Inc()
}

// ObserveDeployment counts a deployment
func (c *Collector) ObserveDeployment(kind string) {
	if c == nil {
		return
	}
	c.Deployments.WithLabelValues(kind).Inc()
}

// ObserveRequest records an API request
func (c *Collector) ObserveRequest(method, path string, status int, seconds float64) {
	if c == nil {
		return
	}
	c.RequestCount.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.RequestDuration.WithLabelValues(method, path).Observe(seconds)
}
