package pricefeed

import (
	"context"
	"math/big"
	"sync"
	"time"
)

// Defaults for locally deployed mocks: 8 decimals, 2000 USD per ETH.
const (
	MockDecimals = 8
	MockVersion  = 0
)

// MockInitialAnswer is 2000e8
var MockInitialAnswer = big.NewInt(2000_00000000)

// MockAggregator is an in-process aggregator whose answer is set by hand
type MockAggregator struct {
	mu        sync.RWMutex
	decimals  uint8
	roundID   uint64
	answer    *big.Int
	updatedAt time.Time
}

// NewMockAggregator creates a mock reporting initialAnswer at round 1
func NewMockAggregator(decimals uint8, initialAnswer *big.Int) *MockAggregator {
	m := &MockAggregator{decimals: decimals}
	m.UpdateAnswer(initialAnswer)
	return m
}

// UpdateAnswer publishes a new answer in a new round
func (m *MockAggregator) UpdateAnswer(answer *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundID++
	m.answer = new(big.Int).Set(answer)
	m.updatedAt = time.Now()
}

// LatestRate implements PriceReference
func (m *MockAggregator) LatestRate(ctx context.Context) (Rate, error) {
	if err := ctx.Err(); err != nil {
		return Rate{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Rate{
		RoundID:   m.roundID,
		Answer:    new(big.Int).Set(m.answer),
		Decimals:  m.decimals,
		Version:   MockVersion,
		UpdatedAt: m.updatedAt,
	}, nil
}
