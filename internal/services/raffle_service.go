package services

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ArowuTest/fundme-backend/internal/metrics"
	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/repositories"
	"github.com/ArowuTest/fundme-backend/internal/utils"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

const sigEnteredRaffle = "EnteredRaffle(address)"

// DefaultEntranceFee is 0.01 ether
var DefaultEntranceFee = new(big.Int).Div(utils.Ether, big.NewInt(100))

// RaffleState is the entrant list of a Raffle contract
type RaffleState struct {
	Players []common.Address
	Balance *big.Int
}

// NewRaffleState returns an empty entrant list
func NewRaffleState() *RaffleState {
	return &RaffleState{Players: []common.Address{}, Balance: new(big.Int)}
}

// Clone deep-copies the state
func (s *RaffleState) Clone() *RaffleState {
	return &RaffleState{
		Players: append([]common.Address{}, s.Players...),
		Balance: new(big.Int).Set(s.Balance),
	}
}

// RaffleDeps are the collaborators of a RaffleService
type RaffleDeps struct {
	States  repositories.ContractStateRepository
	Events  EventPublisher
	Metrics *metrics.Collector
	Logger  *zap.SugaredLogger
}

// RaffleService hosts a raffle with a fixed entrance fee
type RaffleService struct {
	address     common.Address
	entranceFee *big.Int
	deps        RaffleDeps

	mu    sync.Mutex
	state *RaffleState
}

// NewRaffleService creates a RaffleService; a nil fee uses DefaultEntranceFee
func NewRaffleService(address common.Address, entranceFee *big.Int, state *RaffleState, deps RaffleDeps) *RaffleService {
	if entranceFee == nil {
		entranceFee = DefaultEntranceFee
	}
	if state == nil {
		state = NewRaffleState()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	return &RaffleService{address: address, entranceFee: new(big.Int).Set(entranceFee), deps: deps, state: state}
}

// Enter adds player to the raffle when value covers the entrance fee
func (s *RaffleService) Enter(ctx context.Context, player common.Address, value *big.Int) error {
	if value == nil || value.Sign() < 0 {
		return ErrInvalidValue
	}
	if value.Cmp(s.entranceFee) < 0 {
		s.deps.Metrics.ObserveRaffleEntry(s.address.Hex(), metrics.ResultRejected)
		return ErrRaffleNotEnoughETH
	}

	s.mu.Lock()
	staged := s.state.Clone()
	staged.Players = append(staged.Players, player)
	staged.Balance.Add(staged.Balance, value)
	if err := s.persist(ctx, staged); err != nil {
		s.mu.Unlock()
		s.deps.Metrics.ObserveRaffleEntry(s.address.Hex(), metrics.ResultFailed)
		return err
	}
	s.state = staged
	s.mu.Unlock()

	s.deps.Metrics.ObserveRaffleEntry(s.address.Hex(), metrics.ResultOK)
	if s.deps.Events != nil {
		event := models.NewContractEvent(s.address.Hex(), models.EventEnteredRaffle, sigEnteredRaffle)
		event.Indexed = []string{player.Hex()}
		s.deps.Events.Emit(ctx, event)
	}
	s.deps.Logger.Infow("Raffle entered", "contract", s.address.Hex(), "player", player.Hex(), "amountWei", value.String())
	return nil
}

// Receive rejects direct transfers; entering goes through Enter
func (s *RaffleService) Receive(ctx context.Context, sender common.Address, value *big.Int, data []byte) error {
	return ErrNoReceive
}

// PickWinner is not implemented
func (s *RaffleService) PickWinner(ctx context.Context) (common.Address, error) {
	return common.Address{}, ErrWinnerSelectionNotImplemented
}

// EntranceFee returns the fixed fee
func (s *RaffleService) EntranceFee() *big.Int { return new(big.Int).Set(s.entranceFee) }

// Address returns the contract address
func (s *RaffleService) Address() common.Address { return s.address }

// Player returns the entrant at index
func (s *RaffleService) Player(index int) (common.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.state.Players) {
		return common.Address{}, ErrIndexOutOfRange
	}
	return s.state.Players[index], nil
}

// PlayerCount returns the number of entries
func (s *RaffleService) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Players)
}

// Balance returns the value held by the raffle
func (s *RaffleService) Balance() *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return new(big.Int).Set(s.state.Balance)
}

// Snapshot returns the persisted form of the current state
func (s *RaffleService) Snapshot() *models.RaffleSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotOf(s.state)
}

func (s *RaffleService) snapshotOf(state *RaffleState) *models.RaffleSnapshot {
	snap := &models.RaffleSnapshot{
		Contract:       s.address.Hex(),
		EntranceFeeWei: s.entranceFee.String(),
		Players:        make([]string, len(state.Players)),
		BalanceWei:     state.Balance.String(),
		UpdatedAt:      time.Now(),
	}
	for i, p := range state.Players {
		snap.Players[i] = p.Hex()
	}
	return snap
}

func (s *RaffleService) persist(ctx context.Context, state *RaffleState) error {
	if s.deps.States == nil {
		return nil
	}
	if err := s.deps.States.SaveRaffle(ctx, s.snapshotOf(state)); err != nil {
		s.deps.Logger.Errorw("Failed to persist Raffle state", "error", err, "contract", s.address.Hex())
		return fmt.Errorf("failed to persist contract state: %w", err)
	}
	return nil
}

// RaffleStateFromSnapshot rebuilds raffle state from its persisted form
func RaffleStateFromSnapshot(snap *models.RaffleSnapshot) (*RaffleState, error) {
	state := NewRaffleState()
	for _, p := range snap.Players {
		addr, err := utils.ParseAddress(p)
		if err != nil {
			return nil, err
		}
		state.Players = append(state.Players, addr)
	}
	balance, err := utils.ParseWei(snap.BalanceWei)
	if err != nil {
		return nil, err
	}
	state.Balance = balance
	return state, nil
}
