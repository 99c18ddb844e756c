package services

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/repositories"
	"github.com/ArowuTest/fundme-backend/internal/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// Person is a registry entry of SimpleStorage
type Person struct {
	Name           string
	FavoriteNumber *big.Int
}

// SimpleStorageState holds a favorite number and a name registry.
// People keeps every AddPerson call; ByName holds the latest number per name.
type SimpleStorageState struct {
	FavoriteNumber *big.Int
	People         []Person
	ByName         map[string]*big.Int
}

// NewSimpleStorageState returns zeroed storage
func NewSimpleStorageState() *SimpleStorageState {
	return &SimpleStorageState{FavoriteNumber: new(big.Int), People: []Person{}, ByName: map[string]*big.Int{}}
}

// Clone deep-copies the state
func (s *SimpleStorageState) Clone() *SimpleStorageState {
	out := &SimpleStorageState{
		FavoriteNumber: new(big.Int).Set(s.FavoriteNumber),
		People:         make([]Person, len(s.People)),
		ByName:         make(map[string]*big.Int, len(s.ByName)),
	}
	for i, p := range s.People {
		out.People[i] = Person{Name: p.Name, FavoriteNumber: new(big.Int).Set(p.FavoriteNumber)}
	}
	for name, n := range s.ByName {
		out.ByName[name] = new(big.Int).Set(n)
	}
	return out
}

// SimpleStorageService hosts the simple-storage tutorial contract
type SimpleStorageService struct {
	address common.Address
	states  repositories.ContractStateRepository
	logger  *zap.SugaredLogger

	mu    sync.Mutex
	state *SimpleStorageState
}

// NewSimpleStorageService creates a SimpleStorageService; a nil state starts zeroed
func NewSimpleStorageService(address common.Address, state *SimpleStorageState, states repositories.ContractStateRepository, logger *zap.SugaredLogger) *SimpleStorageService {
	if state == nil {
		state = NewSimpleStorageState()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SimpleStorageService{address: address, states: states, logger: logger, state: state}
}

func validUint256(n *big.Int) bool {
	if n == nil || n.Sign() < 0 {
		return false
	}
	_, overflow := uint256.FromBig(n)
	return !overflow
}

// Store sets the favorite number
func (s *SimpleStorageService) Store(ctx context.Context, n *big.Int) error {
	if !validUint256(n) {
		return ErrInvalidNumber
	}
	return s.update(ctx, func(st *SimpleStorageState) {
		st.FavoriteNumber = new(big.Int).Set(n)
	})
}

// Retrieve returns the favorite number
func (s *SimpleStorageService) Retrieve() *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return new(big.Int).Set(s.state.FavoriteNumber)
}

// AddPerson appends a person and records their number by name
func (s *SimpleStorageService) AddPerson(ctx context.Context, name string, n *big.Int) error {
	if !validUint256(n) {
		return ErrInvalidNumber
	}
	return s.update(ctx, func(st *SimpleStorageState) {
		st.People = append(st.People, Person{Name: name, FavoriteNumber: new(big.Int).Set(n)})
		st.ByName[name] = new(big.Int).Set(n)
	})
}

// FavoriteNumberOf returns the number stored for name, zero if unknown
func (s *SimpleStorageService) FavoriteNumberOf(name string) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.state.ByName[name]; ok {
		return new(big.Int).Set(n)
	}
	return new(big.Int)
}

// Person returns the registry entry at index
func (s *SimpleStorageService) Person(index int) (Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.state.People) {
		return Person{}, ErrIndexOutOfRange
	}
	p := s.state.People[index]
	return Person{Name: p.Name, FavoriteNumber: new(big.Int).Set(p.FavoriteNumber)}, nil
}

// People returns the registry in insertion order
func (s *SimpleStorageService) People() []Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Person, len(s.state.People))
	for i, p := range s.state.People {
		out[i] = Person{Name: p.Name, FavoriteNumber: new(big.Int).Set(p.FavoriteNumber)}
	}
	return out
}

// Address returns the contract address
func (s *SimpleStorageService) Address() common.Address { return s.address }

// Receive rejects direct transfers
func (s *SimpleStorageService) Receive(ctx context.Context, sender common.Address, value *big.Int, data []byte) error {
	return ErrNoReceive
}

// Snapshot returns the persisted form of the current state
func (s *SimpleStorageService) Snapshot() *models.SimpleStorageSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotOf(s.state)
}

func (s *SimpleStorageService) update(ctx context.Context, mutate func(*SimpleStorageState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := s.state.Clone()
	mutate(staged)
	if s.states != nil {
		if err := s.states.SaveSimpleStorage(ctx, s.snapshotOf(staged)); err != nil {
			s.logger.Errorw("Failed to persist SimpleStorage state", "error", err, "contract", s.address.Hex())
			return fmt.Errorf("failed to persist contract state: %w", err)
		}
	}
	s.state = staged
	return nil
}

func (s *SimpleStorageService) snapshotOf(state *SimpleStorageState) *models.SimpleStorageSnapshot {
	snap := &models.SimpleStorageSnapshot{
		Contract:       s.address.Hex(),
		FavoriteNumber: state.FavoriteNumber.String(),
		People:         make([]models.Person, len(state.People)),
		UpdatedAt:      time.Now(),
	}
	for i, p := range state.People {
		snap.People[i] = models.Person{Name: p.Name, FavoriteNumber: p.FavoriteNumber.String()}
	}
	return snap
}

// SimpleStorageStateFromSnapshot rebuilds storage from its persisted form
func SimpleStorageStateFromSnapshot(snap *models.SimpleStorageSnapshot) (*SimpleStorageState, error) {
	state := NewSimpleStorageState()
	n, err := utils.ParseWei(snap.FavoriteNumber)
	if err != nil {
		return nil, err
	}
	state.FavoriteNumber = n
	for _, p := range snap.People {
		v, err := utils.ParseWei(p.FavoriteNumber)
		if err != nil {
			return nil, err
		}
		state.People = append(state.People, Person{Name: p.Name, FavoriteNumber: v})
		state.ByName[p.Name] = v
	}
	return state, nil
}
