package services

import (
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/ArowuTest/fundme-backend/internal/config"
	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/pricefeed"
	"github.com/ArowuTest/fundme-backend/internal/utils"
	"github.com/ethereum/go-ethereum/common"
)

// Chain IDs with a known ETH/USD price feed
const (
	ChainIDMainnet       int64 = 1
	ChainIDSepolia       int64 = 11155111
	ChainIDZkSyncSepolia int64 = 300
	ChainIDLocal         int64 = 31337
)

var knownNetworks = []models.NetworkConfig{
	{ChainID: ChainIDMainnet, Name: "mainnet", PriceFeed: "0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419"},
	{ChainID: ChainIDSepolia, Name: "sepolia", PriceFeed: "0x694AA1769357215DE4FAC081bf1f309aDC325306"},
	{ChainID: ChainIDZkSyncSepolia, Name: "zksync-sepolia", PriceFeed: "0xfEefF7c3fB57d18C5C6Cdd71e45D2D0b4F9377bF"},
}

// HelperConfig maps chain IDs to the price feed a deployment should use.
// Chains outside the table get a mock feed, deployed once per chain.
type HelperConfig struct {
	mu       sync.RWMutex
	networks map[int64]models.NetworkConfig
	mocks    map[int64]common.Address
}

// NewHelperConfig returns a HelperConfig preloaded with the known networks
func NewHelperConfig() *HelperConfig {
	h := &HelperConfig{
		networks: make(map[int64]models.NetworkConfig, len(knownNetworks)),
		mocks:    make(map[int64]common.Address),
	}
	for _, n := range knownNetworks {
		h.networks[n.ChainID] = n
	}
	return h
}

// Lookup returns the network config for chainID. For a chain outside the
// table the result has Mock set, and PriceFeed holds the mock once deployed.
func (h *HelperConfig) Lookup(chainID int64) models.NetworkConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n, ok := h.networks[chainID]; ok {
		return n
	}
	n := models.NetworkConfig{ChainID: chainID, Name: "local", Mock: true}
	if addr, ok := h.mocks[chainID]; ok {
		n.PriceFeed = addr.Hex()
	}
	return n
}

// Networks lists the known networks ordered by chain ID
func (h *HelperConfig) Networks() []models.NetworkConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]models.NetworkConfig, 0, len(h.networks)+len(h.mocks))
	for _, n := range h.networks {
		out = append(out, n)
	}
	for chainID, addr := range h.mocks {
		out = append(out, models.NetworkConfig{ChainID: chainID, Name: "local", PriceFeed: addr.Hex(), Mock: true})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChainID < out[j].ChainID })
	return out
}

func (h *HelperConfig) mockFor(chainID int64) (common.Address, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	addr, ok := h.mocks[chainID]
	return addr, ok
}

func (h *HelperConfig) setMock(chainID int64, addr common.Address) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, known := h.networks[chainID]; known {
		return
	}
	if _, ok := h.mocks[chainID]; !ok {
		h.mocks[chainID] = addr
	}
}

// RegisterNetworkFeeds serves the feed address of every network in the
// table with a mock aggregator at the default answer
func RegisterNetworkFeeds(registry *pricefeed.Registry, h *HelperConfig) {
	for _, n := range h.Networks() {
		if n.Mock {
			continue
		}
		registry.Register(common.HexToAddress(n.PriceFeed), pricefeed.NewMockAggregator(pricefeed.MockDecimals, pricefeed.MockInitialAnswer))
	}
}

// RegisterStaticFeeds serves each configured feed address with a mock
// aggregator so that networks from the table resolve inside this host
func RegisterStaticFeeds(registry *pricefeed.Registry, feeds []config.StaticFeedConfig) error {
	for _, feed := range feeds {
		addr, err := utils.ParseAddress(feed.Address)
		if err != nil {
			return fmt.Errorf("static feed: %w", err)
		}
		decimals := feed.Decimals
		if decimals == 0 {
			decimals = pricefeed.MockDecimals
		}
		answer := pricefeed.MockInitialAnswer
		if feed.Answer != "" {
			v, ok := new(big.Int).SetString(feed.Answer, 10)
			if !ok || v.Sign() <= 0 {
				return fmt.Errorf("static feed %s: invalid answer %q", feed.Address, feed.Answer)
			}
			answer = v
		}
		registry.Register(addr, pricefeed.NewMockAggregator(decimals, answer))
	}
	return nil
}
