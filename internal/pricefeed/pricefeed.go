// Package pricefeed models the read-only price reference a FundMe contract
// consults to value contributions, plus a deterministic mock aggregator used
// on local networks and in tests.
package pricefeed

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrUnknownFeed is returned when no reference is registered at an address
	ErrUnknownFeed = errors.New("price feed not registered")
	// ErrInvalidAnswer is returned for a non-positive rate
	ErrInvalidAnswer = errors.New("price feed returned a non-positive answer")
)

// Rate is a single reading from a price reference
type Rate struct {
	RoundID   uint64
	Answer    *big.Int
	Decimals  uint8
	Version   uint64
	UpdatedAt time.Time
}

// PriceReference is an external, read-only rate source
type PriceReference interface {
	LatestRate(ctx context.Context) (Rate, error)
}

// Registry resolves price references by their on-chain address
type Registry struct {
	mu    sync.RWMutex
	feeds map[common.Address]PriceReference
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{feeds: make(map[common.Address]PriceReference)}
}

// Register binds ref to addr, replacing any previous binding
func (r *Registry) Register(addr common.Address, ref PriceReference) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feeds[addr] = ref
}

// Resolve returns the reference registered at addr
func (r *Registry) Resolve(addr common.Address) (PriceReference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ref, ok := r.feeds[addr]
	if !ok {
		return nil, ErrUnknownFeed
	}
	return ref, nil
}

// Mock returns the mock aggregator registered at addr, if any
func (r *Registry) Mock(addr common.Address) (*MockAggregator, bool) {
	ref, err := r.Resolve(addr)
	if err != nil {
		return nil, false
	}
	m, ok := ref.(*MockAggregator)
	return m, ok
}
