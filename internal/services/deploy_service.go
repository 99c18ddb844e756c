package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ArowuTest/fundme-backend/internal/metrics"
	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/pricefeed"
	"github.com/ArowuTest/fundme-backend/internal/repositories"
	"github.com/ArowuTest/fundme-backend/internal/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// DeployRequest asks for a new contract instance
type DeployRequest struct {
	Kind     models.ContractKind
	Deployer common.Address
	// ChainID selects the network; zero uses the host default
	ChainID int64
	// EntranceFee applies to raffles; nil uses the configured default
	EntranceFee *big.Int
	// MinimumUSD applies to FundMe; nil uses the configured default
	MinimumUSD *big.Int
	// Decimals and InitialAnswer apply to mock price feeds
	Decimals      uint8
	InitialAnswer *big.Int
}

// DeployDeps are the collaborators of a DeployService
type DeployDeps struct {
	Deployments   repositories.DeploymentRepository
	States        repositories.ContractStateRepository
	Contributions repositories.ContributionRepository
	Transferer    ValueTransferer
	Events        EventPublisher
	Registry      *pricefeed.Registry
	Host          *ContractHost
	Networks      *HelperConfig
	Metrics       *metrics.Collector
	Logger        *zap.SugaredLogger
}

// DeployDefaults are the values used when a request leaves them unset
type DeployDefaults struct {
	ChainID     int64
	MinimumUSD  *big.Int
	EntranceFee *big.Int
}

// DeployService creates contract instances and restores them on startup
type DeployService struct {
	deps     DeployDeps
	defaults DeployDefaults

	// serialises nonce allocation
	mu sync.Mutex
}

// NewDeployService creates a new DeployService
func NewDeployService(deps DeployDeps, defaults DeployDefaults) *DeployService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	if defaults.ChainID == 0 {
		defaults.ChainID = ChainIDLocal
	}
	if defaults.MinimumUSD == nil {
		defaults.MinimumUSD = DefaultMinimumUSD
	}
	if defaults.EntranceFee == nil {
		defaults.EntranceFee = DefaultEntranceFee
	}
	return &DeployService{deps: deps, defaults: defaults}
}

// Deploy creates, persists and registers a new contract instance
func (s *DeployService) Deploy(ctx context.Context, req DeployRequest) (*models.Deployment, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, req.Kind)
	}
	if req.ChainID == 0 {
		req.ChainID = s.defaults.ChainID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Kind {
	case models.ContractKindFundMe:
		return s.deployFundMe(ctx, req)
	case models.ContractKindRaffle:
		return s.deployRaffle(ctx, req)
	case models.ContractKindSimpleStorage:
		return s.deploySimpleStorage(ctx, req)
	default:
		return s.deployMockFeed(ctx, req)
	}
}

func (s *DeployService) nextAddress(ctx context.Context, deployer common.Address) (common.Address, uint64, error) {
	n, err := s.deps.Deployments.CountByDeployer(ctx, deployer.Hex())
	if err != nil {
		return common.Address{}, 0, fmt.Errorf("failed to read deployer nonce: %w", err)
	}
	nonce := uint64(n)
	return crypto.CreateAddress(deployer, nonce), nonce, nil
}

func (s *DeployService) record(ctx context.Context, d *models.Deployment) error {
	d.CreatedAt = time.Now()
	if err := s.deps.Deployments.Create(ctx, d); err != nil {
		s.deps.Logger.Errorw("Failed to record deployment", "error", err, "kind", d.Kind, "address", d.Address)
		return fmt.Errorf("failed to record deployment: %w", err)
	}
	s.deps.Metrics.ObserveDeployment(string(d.Kind))
	s.deps.Logger.Infow("Contract deployed", "kind", d.Kind, "address", d.Address, "deployer", d.Deployer, "chainId", d.ChainID, "network", d.Network)
	return nil
}

// saveInitialState writes a new contract's empty state. The deployment record
// comes first; a contract without a snapshot restores as empty, so a failed
// save here is only logged.
func (s *DeployService) saveInitialState(d *models.Deployment, save func() error) {
	if err := save(); err != nil {
		s.deps.Logger.Warnw("Failed to persist initial contract state", "error", err, "kind", d.Kind, "address", d.Address)
	}
}

func (s *DeployService) deployMockFeed(ctx context.Context, req DeployRequest) (*models.Deployment, error) {
	decimals := req.Decimals
	if decimals == 0 {
		decimals = pricefeed.MockDecimals
	}
	answer := req.InitialAnswer
	if answer == nil {
		answer = pricefeed.MockInitialAnswer
	}
	if answer.Sign() <= 0 {
		return nil, pricefeed.ErrInvalidAnswer
	}

	addr, nonce, err := s.nextAddress(ctx, req.Deployer)
	if err != nil {
		return nil, err
	}
	network := s.deps.Networks.Lookup(req.ChainID)
	d := &models.Deployment{
		Kind:          models.ContractKindMockPriceFeed,
		Address:       addr.Hex(),
		Deployer:      req.Deployer.Hex(),
		Nonce:         nonce,
		ChainID:       req.ChainID,
		Network:       network.Name,
		Decimals:      decimals,
		InitialAnswer: answer.String(),
	}
	if err := s.record(ctx, d); err != nil {
		return nil, err
	}
	s.deps.Registry.Register(addr, pricefeed.NewMockAggregator(decimals, answer))
	s.deps.Networks.setMock(req.ChainID, addr)
	return d, nil
}

// priceFeedFor resolves the feed a FundMe on chainID should read, deploying
// a mock for chains without a known feed
func (s *DeployService) priceFeedFor(ctx context.Context, req DeployRequest) (common.Address, models.NetworkConfig, error) {
	network := s.deps.Networks.Lookup(req.ChainID)
	if !network.Mock {
		addr := common.HexToAddress(network.PriceFeed)
		if _, err := s.deps.Registry.Resolve(addr); err != nil {
			return common.Address{}, network, fmt.Errorf("%w: %s feed %s", ErrPriceFeedUnavailable, network.Name, network.PriceFeed)
		}
		return addr, network, nil
	}
	if addr, ok := s.deps.Networks.mockFor(req.ChainID); ok {
		return addr, network, nil
	}
	mock, err := s.deployMockFeed(ctx, DeployRequest{Kind: models.ContractKindMockPriceFeed, Deployer: req.Deployer, ChainID: req.ChainID})
	if err != nil {
		return common.Address{}, network, err
	}
	return common.HexToAddress(mock.Address), s.deps.Networks.Lookup(req.ChainID), nil
}

func (s *DeployService) deployFundMe(ctx context.Context, req DeployRequest) (*models.Deployment, error) {
	minimum := req.MinimumUSD
	if minimum == nil {
		minimum = s.defaults.MinimumUSD
	}
	if minimum.Sign() < 0 {
		return nil, ErrInvalidValue
	}

	feedAddr, network, err := s.priceFeedFor(ctx, req)
	if err != nil {
		return nil, err
	}
	feed, err := s.deps.Registry.Resolve(feedAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPriceFeedUnavailable, err)
	}

	addr, nonce, err := s.nextAddress(ctx, req.Deployer)
	if err != nil {
		return nil, err
	}
	svc := NewFundMeService(FundMeParams{
		Address:          addr,
		Owner:            req.Deployer,
		PriceFeedAddress: feedAddr,
		PriceFeed:        feed,
		MinimumUSD:       minimum,
	}, nil, s.fundMeDeps())

	d := &models.Deployment{
		Kind:       models.ContractKindFundMe,
		Address:    addr.Hex(),
		Deployer:   req.Deployer.Hex(),
		Nonce:      nonce,
		ChainID:    req.ChainID,
		Network:    network.Name,
		PriceFeed:  feedAddr.Hex(),
		MinimumUSD: minimum.String(),
	}
	if err := s.record(ctx, d); err != nil {
		return nil, err
	}
	s.saveInitialState(d, func() error { return s.deps.States.SaveFundMe(ctx, svc.Snapshot()) })
	s.deps.Host.RegisterFundMe(svc)
	return d, nil
}

func (s *DeployService) deployRaffle(ctx context.Context, req DeployRequest) (*models.Deployment, error) {
	fee := req.EntranceFee
	if fee == nil {
		fee = s.defaults.EntranceFee
	}
	if fee.Sign() < 0 {
		return nil, ErrInvalidValue
	}

	addr, nonce, err := s.nextAddress(ctx, req.Deployer)
	if err != nil {
		return nil, err
	}
	svc := NewRaffleService(addr, fee, nil, s.raffleDeps())

	d := &models.Deployment{
		Kind:           models.ContractKindRaffle,
		Address:        addr.Hex(),
		Deployer:       req.Deployer.Hex(),
		Nonce:          nonce,
		ChainID:        req.ChainID,
		Network:        s.deps.Networks.Lookup(req.ChainID).Name,
		EntranceFeeWei: fee.String(),
	}
	if err := s.record(ctx, d); err != nil {
		return nil, err
	}
	s.saveInitialState(d, func() error { return s.deps.States.SaveRaffle(ctx, svc.Snapshot()) })
	s.deps.Host.RegisterRaffle(svc)
	return d, nil
}

func (s *DeployService) deploySimpleStorage(ctx context.Context, req DeployRequest) (*models.Deployment, error) {
	addr, nonce, err := s.nextAddress(ctx, req.Deployer)
	if err != nil {
		return nil, err
	}
	svc := NewSimpleStorageService(addr, nil, s.deps.States, s.deps.Logger)

	d := &models.Deployment{
		Kind:     models.ContractKindSimpleStorage,
		Address:  addr.Hex(),
		Deployer: req.Deployer.Hex(),
		Nonce:    nonce,
		ChainID:  req.ChainID,
		Network:  s.deps.Networks.Lookup(req.ChainID).Name,
	}
	if err := s.record(ctx, d); err != nil {
		return nil, err
	}
	s.saveInitialState(d, func() error { return s.deps.States.SaveSimpleStorage(ctx, svc.Snapshot()) })
	s.deps.Host.RegisterSimpleStorage(svc)
	return d, nil
}

func (s *DeployService) fundMeDeps() FundMeDeps {
	return FundMeDeps{
		States:        s.deps.States,
		Contributions: s.deps.Contributions,
		Transferer:    s.deps.Transferer,
		Events:        s.deps.Events,
		Metrics:       s.deps.Metrics,
		Logger:        s.deps.Logger,
	}
}

func (s *DeployService) raffleDeps() RaffleDeps {
	return RaffleDeps{
		States:  s.deps.States,
		Events:  s.deps.Events,
		Metrics: s.deps.Metrics,
		Logger:  s.deps.Logger,
	}
}

// Restore rebuilds every recorded deployment from its last persisted state.
// Mock feeds come back at their initial answer.
func (s *DeployService) Restore(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deployments, err := s.deps.Deployments.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list deployments: %w", err)
	}

	restored := 0
	for _, d := range deployments {
		if d.Kind != models.ContractKindMockPriceFeed {
			continue
		}
		answer, err := utils.ParseWei(d.InitialAnswer)
		if err != nil || answer.Sign() == 0 {
			answer = pricefeed.MockInitialAnswer
		}
		decimals := d.Decimals
		if decimals == 0 {
			decimals = pricefeed.MockDecimals
		}
		addr := common.HexToAddress(d.Address)
		s.deps.Registry.Register(addr, pricefeed.NewMockAggregator(decimals, answer))
		s.deps.Networks.setMock(d.ChainID, addr)
		restored++
	}

	for _, d := range deployments {
		var err error
		switch d.Kind {
		case models.ContractKindFundMe:
			err = s.restoreFundMe(ctx, d)
		case models.ContractKindRaffle:
			err = s.restoreRaffle(ctx, d)
		case models.ContractKindSimpleStorage:
			err = s.restoreSimpleStorage(ctx, d)
		default:
			continue
		}
		if err != nil {
			return restored, fmt.Errorf("failed to restore %s at %s: %w", d.Kind, d.Address, err)
		}
		restored++
	}
	s.deps.Logger.Infow("Deployments restored", "count", restored)
	return restored, nil
}

func (s *DeployService) restoreFundMe(ctx context.Context, d *models.Deployment) error {
	feedAddr := common.HexToAddress(d.PriceFeed)
	feed, err := s.deps.Registry.Resolve(feedAddr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPriceFeedUnavailable, err)
	}
	minimum, err := utils.ParseWei(d.MinimumUSD)
	if err != nil {
		return err
	}
	state := NewFundMeState()
	resolved := 0
	snap, err := s.deps.States.LoadFundMe(ctx, d.Address)
	switch {
	case err == nil:
		if state, err = FundMeStateFromSnapshot(snap); err != nil {
			return err
		}
		if resolved, err = ResolvePendingWithdrawals(ctx, state, s.deps.Transferer); err != nil {
			return err
		}
	case !errors.Is(err, repositories.ErrNotFound):
		return err
	}
	svc := NewFundMeService(FundMeParams{
		Address:          common.HexToAddress(d.Address),
		Owner:            common.HexToAddress(d.Deployer),
		PriceFeedAddress: feedAddr,
		PriceFeed:        feed,
		MinimumUSD:       minimum,
	}, state, s.fundMeDeps())
	if resolved > 0 {
		if err := s.deps.States.SaveFundMe(ctx, svc.Snapshot()); err != nil {
			return fmt.Errorf("failed to persist resolved withdrawals: %w", err)
		}
		s.deps.Logger.Infow("Pending withdrawals resolved", "contract", d.Address, "count", resolved)
	}
	s.deps.Host.RegisterFundMe(svc)
	return nil
}

func (s *DeployService) restoreRaffle(ctx context.Context, d *models.Deployment) error {
	fee, err := utils.ParseWei(d.EntranceFeeWei)
	if err != nil {
		return err
	}
	state := NewRaffleState()
	snap, err := s.deps.States.LoadRaffle(ctx, d.Address)
	switch {
	case err == nil:
		if state, err = RaffleStateFromSnapshot(snap); err != nil {
			return err
		}
	case !errors.Is(err, repositories.ErrNotFound):
		return err
	}
	s.deps.Host.RegisterRaffle(NewRaffleService(common.HexToAddress(d.Address), fee, state, s.raffleDeps()))
	return nil
}

func (s *DeployService) restoreSimpleStorage(ctx context.Context, d *models.Deployment) error {
	state := NewSimpleStorageState()
	snap, err := s.deps.States.LoadSimpleStorage(ctx, d.Address)
	switch {
	case err == nil:
		if state, err = SimpleStorageStateFromSnapshot(snap); err != nil {
			return err
		}
	case !errors.Is(err, repositories.ErrNotFound):
		return err
	}
	s.deps.Host.RegisterSimpleStorage(NewSimpleStorageService(common.HexToAddress(d.Address), state, s.deps.States, s.deps.Logger))
	return nil
}

// Deployments lists every recorded deployment
func (s *DeployService) Deployments(ctx context.Context) ([]*models.Deployment, error) {
	return s.deps.Deployments.FindAll(ctx)
}

// Deployment returns the deployment recorded at addr
func (s *DeployService) Deployment(ctx context.Context, addr common.Address) (*models.Deployment, error) {
	d, err := s.deps.Deployments.FindByAddress(ctx, addr.Hex())
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrContractNotFound, addr.Hex())
	}
	return d, err
}

// Networks returns the network table
func (s *DeployService) Networks() []models.NetworkConfig {
	return s.deps.Networks.Networks()
}
