package services

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ethereum/go-ethereum/common"
)

// Receiver is a contract entry point for direct value transfers
type Receiver interface {
	Receive(ctx context.Context, sender common.Address, value *big.Int, data []byte) error
}

// ContractHost holds the live contract instances by address
type ContractHost struct {
	mu            sync.RWMutex
	fundMe        map[common.Address]*FundMeService
	raffles       map[common.Address]*RaffleService
	simpleStorage map[common.Address]*SimpleStorageService
}

// NewContractHost creates an empty ContractHost
func NewContractHost() *ContractHost {
	return &ContractHost{
		fundMe:        make(map[common.Address]*FundMeService),
		raffles:       make(map[common.Address]*RaffleService),
		simpleStorage: make(map[common.Address]*SimpleStorageService),
	}
}

// RegisterFundMe makes a FundMe instance reachable
func (h *ContractHost) RegisterFundMe(svc *FundMeService) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fundMe[svc.Address()] = svc
}

// RegisterRaffle makes a Raffle instance reachable
func (h *ContractHost) RegisterRaffle(svc *RaffleService) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.raffles[svc.Address()] = svc
}

// RegisterSimpleStorage makes a SimpleStorage instance reachable
func (h *ContractHost) RegisterSimpleStorage(svc *SimpleStorageService) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.simpleStorage[svc.Address()] = svc
}

// FundMe returns the FundMe instance at addr
func (h *ContractHost) FundMe(addr common.Address) (*FundMeService, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	svc, ok := h.fundMe[addr]
	if !ok {
		return nil, fmt.Errorf("%w: no FundMe at %s", ErrContractNotFound, addr.Hex())
	}
	return svc, nil
}

// Raffle returns the Raffle instance at addr
func (h *ContractHost) Raffle(addr common.Address) (*RaffleService, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	svc, ok := h.raffles[addr]
	if !ok {
		return nil, fmt.Errorf("%w: no Raffle at %s", ErrContractNotFound, addr.Hex())
	}
	return svc, nil
}

// SimpleStorage returns the SimpleStorage instance at addr
func (h *ContractHost) SimpleStorage(addr common.Address) (*SimpleStorageService, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	svc, ok := h.simpleStorage[addr]
	if !ok {
		return nil, fmt.Errorf("%w: no SimpleStorage at %s", ErrContractNotFound, addr.Hex())
	}
	return svc, nil
}

// Kind reports which contract lives at addr
func (h *ContractHost) Kind(addr common.Address) (models.ContractKind, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	switch {
	case h.fundMe[addr] != nil:
		return models.ContractKindFundMe, nil
	case h.raffles[addr] != nil:
		return models.ContractKindRaffle, nil
	case h.simpleStorage[addr] != nil:
		return models.ContractKindSimpleStorage, nil
	}
	return "", fmt.Errorf("%w: %s", ErrContractNotFound, addr.Hex())
}

func (h *ContractHost) receiver(addr common.Address) (Receiver, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if svc, ok := h.fundMe[addr]; ok {
		return svc, nil
	}
	if svc, ok := h.raffles[addr]; ok {
		return svc, nil
	}
	if svc, ok := h.simpleStorage[addr]; ok {
		return svc, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrContractNotFound, addr.Hex())
}

// Transfer delivers a direct value transfer to the contract at to
func (h *ContractHost) Transfer(ctx context.Context, from, to common.Address, value *big.Int, data []byte) error {
	r, err := h.receiver(to)
	if err != nil {
		return err
	}
	return r.Receive(ctx, from, value, data)
}
