package metrics

import (
	"math/big"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveContribution(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.ObserveContribution("0xabc", ResultOK, big.NewInt(1500))
	c.ObserveContribution("0xabc", ResultRejected, nil)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.Contributions.WithLabelValues("0xabc", ResultOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.Contributions.WithLabelValues("0xabc", ResultRejected)))
	assert.Equal(t, float64(1500), testutil.ToFloat64(c.ContributedWei.WithLabelValues("0xabc")))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveContribution("0xabc", ResultOK, big.NewInt(1))
		c.ObserveWithdrawal("0xabc", ResultOK)
		c.ObserveRaffleEntry("0xabc", ResultOK)
		c.ObserveEvent("Funded")
		c.ObserveDeployment("FUND_ME")
		c.ObserveRequest("GET", "/", 200, 0.1)
	})
}
