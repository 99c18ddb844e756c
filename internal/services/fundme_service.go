package services

import (
	"context"
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
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event signatures emitted by FundMe
const (
	sigFunded    = "Funded(address,uint256)"
	sigWithdrawn = "Withdrawn(address,uint256)"
)

// DefaultMinimumUSD is 5 USD with 18 decimals
var DefaultMinimumUSD = new(big.Int).Mul(big.NewInt(5), utils.Ether)

// FundMeState is the ledger of a FundMe contract. A committed state is never
// mutated; operations work on a Clone and swap it in once persisted.
type FundMeState struct {
	Funders      []common.Address
	AmountFunded map[common.Address]*big.Int
	Balance      *big.Int

	// withdrawals reset in the ledger above whose transfer has not settled
	pending []pendingWithdrawal
}

// pendingWithdrawal holds the ledger a withdrawal took until its transfer settles
type pendingWithdrawal struct {
	reference string
	recipient common.Address
	taken     *FundMeState
	startedAt time.Time
}

// NewFundMeState returns an empty ledger
func NewFundMeState() *FundMeState {
	return &FundMeState{
		Funders:      []common.Address{},
		AmountFunded: make(map[common.Address]*big.Int),
		Balance:      new(big.Int),
	}
}

// Clone deep-copies the ledger
func (s *FundMeState) Clone() *FundMeState {
	out := &FundMeState{
		Funders:      append([]common.Address{}, s.Funders...),
		AmountFunded: make(map[common.Address]*big.Int, len(s.AmountFunded)),
		Balance:      new(big.Int).Set(s.Balance),
	}
	for addr, amount := range s.AmountFunded {
		out.AmountFunded[addr] = new(big.Int).Set(amount)
	}
	if len(s.pending) > 0 {
		out.pending = append([]pendingWithdrawal{}, s.pending...)
	}
	return out
}

func (s *FundMeState) credit(funder common.Address, value *big.Int) {
	current, ok := s.AmountFunded[funder]
	if !ok {
		current = new(big.Int)
	}
	s.AmountFunded[funder] = new(big.Int).Add(current, value)
	s.Funders = append(s.Funders, funder)
	s.Balance = new(big.Int).Add(s.Balance, value)
}

// reset zeroes the entry of every listed funder, clears the funder list and
// empties the balance. It returns the balance that was held.
func (s *FundMeState) reset() *big.Int {
	for _, funder := range s.Funders {
		s.AmountFunded[funder] = new(big.Int)
	}
	s.Funders = []common.Address{}
	held := s.Balance
	s.Balance = new(big.Int)
	return held
}

// restore adds a pre-withdrawal ledger back on top of s. Contributions made
// since the reset stay in place after the restored funders.
func (s *FundMeState) restore(prev *FundMeState) {
	s.Funders = append(append([]common.Address{}, prev.Funders...), s.Funders...)
	for addr, amount := range prev.AmountFunded {
		current, ok := s.AmountFunded[addr]
		if !ok {
			current = new(big.Int)
		}
		s.AmountFunded[addr] = new(big.Int).Add(current, amount)
	}
	s.Balance = new(big.Int).Add(s.Balance, prev.Balance)
}

// durable is the ledger as storage records it: unsettled withdrawals still
// count as held.
func (s *FundMeState) durable() *FundMeState {
	out := s.Clone()
	out.pending = nil
	for i := len(s.pending) - 1; i >= 0; i-- {
		out.restore(s.pending[i].taken)
	}
	return out
}

func (s *FundMeState) takePending(reference string) (pendingWithdrawal, bool) {
	for i, p := range s.pending {
		if p.reference == reference {
			s.pending = append(append([]pendingWithdrawal{}, s.pending[:i]...), s.pending[i+1:]...)
			return p, true
		}
	}
	return pendingWithdrawal{}, false
}

// settle forgets a withdrawal whose transfer went through
func (s *FundMeState) settle(reference string) {
	s.takePending(reference)
}

// abandon puts back the ledger of a withdrawal whose transfer failed
func (s *FundMeState) abandon(reference string) {
	if p, ok := s.takePending(reference); ok {
		s.restore(p.taken)
	}
}

// FundMeParams are the immutable properties fixed at deployment
type FundMeParams struct {
	Address          common.Address
	Owner            common.Address
	PriceFeedAddress common.Address
	PriceFeed        pricefeed.PriceReference
	MinimumUSD       *big.Int
}

// FundMeDeps are the collaborators of a FundMeService
type FundMeDeps struct {
	States        repositories.ContractStateRepository
	Contributions repositories.ContributionRepository
	Transferer    ValueTransferer
	Events        EventPublisher
	Metrics       *metrics.Collector
	Logger        *zap.SugaredLogger
}

// FundMeService hosts a single crowdfunding contract
type FundMeService struct {
	params FundMeParams
	deps   FundMeDeps

	mu    sync.Mutex
	state *FundMeState
}

// NewFundMeService creates a FundMeService over state; a nil state starts empty
func NewFundMeService(params FundMeParams, state *FundMeState, deps FundMeDeps) *FundMeService {
	if params.MinimumUSD == nil {
		params.MinimumUSD = DefaultMinimumUSD
	}
	if state == nil {
		state = NewFundMeState()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	return &FundMeService{params: params, deps: deps, state: state}
}

// Fund records a contribution of value from sender. The value, converted
// through the price feed, must be worth at least the minimum USD amount.
func (s *FundMeService) Fund(ctx context.Context, sender common.Address, value *big.Int) (*models.Contribution, error) {
	if value == nil || value.Sign() < 0 {
		return nil, ErrInvalidValue
	}

	usd, rate, err := pricefeed.Convert(ctx, s.params.PriceFeed, value)
	if err != nil {
		s.deps.Metrics.ObserveContribution(s.params.Address.Hex(), metrics.ResultFailed, nil)
		return nil, fmt.Errorf("failed to value contribution: %w", err)
	}
	if usd.Cmp(s.params.MinimumUSD) < 0 {
		s.deps.Logger.Infow("Contribution below minimum", "contract", s.params.Address.Hex(), "funder", sender.Hex(), "amountWei", value.String(), "valueUsd", usd.String())
		s.deps.Metrics.ObserveContribution(s.params.Address.Hex(), metrics.ResultRejected, nil)
		return nil, ErrNotEnoughETH
	}

	s.mu.Lock()
	staged := s.state.Clone()
	staged.credit(sender, value)
	if err := s.persist(ctx, staged); err != nil {
		s.mu.Unlock()
		s.deps.Metrics.ObserveContribution(s.params.Address.Hex(), metrics.ResultFailed, nil)
		return nil, err
	}
	s.state = staged
	s.mu.Unlock()

	contribution := &models.Contribution{
		Contract:   s.params.Address.Hex(),
		Funder:     sender.Hex(),
		AmountWei:  value.String(),
		ValueUSD:   usd.String(),
		PriceRound: rate.RoundID,
		CreatedAt:  time.Now(),
	}
	if s.deps.Contributions != nil {
		if err := s.deps.Contributions.Create(context.WithoutCancel(ctx), contribution); err != nil {
			s.deps.Logger.Warnw("Failed to record contribution", "error", err, "contract", contribution.Contract, "funder", contribution.Funder)
		}
	}
	s.deps.Metrics.ObserveContribution(s.params.Address.Hex(), metrics.ResultOK, value)
	s.emit(ctx, models.EventFunded, sigFunded, sender, value)

	s.deps.Logger.Infow("Contribution accepted", "contract", contribution.Contract, "funder", contribution.Funder, "amountWei", contribution.AmountWei, "valueUsd", contribution.ValueUSD)
	return contribution, nil
}

// Receive handles a direct value transfer by funding on behalf of sender
func (s *FundMeService) Receive(ctx context.Context, sender common.Address, value *big.Int, data []byte) error {
	_, err := s.Fund(ctx, sender, value)
	return err
}

// Withdraw resets the ledger and transfers the whole balance to the owner.
// The reset is committed in memory before the transfer so a re-entrant call
// sees an empty ledger. Storage keeps counting the funds, with the withdrawal
// marked pending, until the transfer settles; a failed transfer puts the
// ledger back.
func (s *FundMeService) Withdraw(ctx context.Context, caller common.Address) (*big.Int, error) {
	if caller != s.params.Owner {
		s.deps.Metrics.ObserveWithdrawal(s.params.Address.Hex(), metrics.ResultRejected)
		return nil, ErrNotOwner
	}

	s.mu.Lock()
	taken := s.state.Clone()
	taken.pending = nil
	staged := s.state.Clone()
	amount := staged.reset()
	reference := uuid.NewString()
	staged.pending = append(staged.pending, pendingWithdrawal{
		reference: reference,
		recipient: caller,
		taken:     taken,
		startedAt: time.Now(),
	})
	if err := s.persist(ctx, staged); err != nil {
		s.mu.Unlock()
		s.deps.Metrics.ObserveWithdrawal(s.params.Address.Hex(), metrics.ResultFailed)
		return nil, err
	}
	s.state = staged
	s.mu.Unlock()

	terr := s.deps.Transferer.Transfer(ctx, s.params.Address, caller, amount, reference)

	s.mu.Lock()
	next := s.state.Clone()
	if terr != nil {
		next.abandon(reference)
	} else {
		next.settle(reference)
	}
	perr := s.persist(context.WithoutCancel(ctx), next)
	s.state = next
	s.mu.Unlock()

	if terr != nil {
		s.deps.Metrics.ObserveWithdrawal(s.params.Address.Hex(), metrics.ResultFailed)
		s.deps.Logger.Warnw("Withdrawal transfer failed, ledger restored", "error", terr, "contract", s.params.Address.Hex(), "reference", reference, "amountWei", amount.String())
		if perr != nil {
			return nil, fmt.Errorf("%w: %w (restored ledger not saved, withdrawal %s stays pending: %w)", ErrTransferFailed, terr, reference, perr)
		}
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, terr)
	}
	if perr != nil {
		// the payout is on record, so ResolvePendingWithdrawals settles it on restore
		s.deps.Logger.Errorw("Withdrawal settled but ledger not saved", "error", perr, "contract", s.params.Address.Hex(), "reference", reference)
	}

	s.deps.Metrics.ObserveWithdrawal(s.params.Address.Hex(), metrics.ResultOK)
	s.emit(ctx, models.EventWithdrawn, sigWithdrawn, caller, amount)
	s.deps.Logger.Infow("Withdrawal completed", "contract", s.params.Address.Hex(), "owner", caller.Hex(), "reference", reference, "amountWei", amount.String())
	return amount, nil
}

// AddressToAmountFunded returns funder's ledger entry
func (s *FundMeService) AddressToAmountFunded(funder common.Address) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if amount, ok := s.state.AmountFunded[funder]; ok {
		return new(big.Int).Set(amount)
	}
	return new(big.Int)
}

// Funder returns the funder at index in contribution order
func (s *FundMeService) Funder(index int) (common.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.state.Funders) {
		return common.Address{}, ErrIndexOutOfRange
	}
	return s.state.Funders[index], nil
}

// FunderCount returns the length of the funder list
func (s *FundMeService) FunderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Funders)
}

// Balance returns the value held by the contract
func (s *FundMeService) Balance() *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return new(big.Int).Set(s.state.Balance)
}

// Version returns the price feed's version
func (s *FundMeService) Version(ctx context.Context) (uint64, error) {
	rate, err := s.params.PriceFeed.LatestRate(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read price feed: %w", err)
	}
	return rate.Version, nil
}

// Address returns the contract address
func (s *FundMeService) Address() common.Address { return s.params.Address }

// Owner returns the immutable owner
func (s *FundMeService) Owner() common.Address { return s.params.Owner }

// PriceFeedAddress returns the address of the price reference
func (s *FundMeService) PriceFeedAddress() common.Address { return s.params.PriceFeedAddress }

// MinimumUSD returns the minimum contribution in USD with 18 decimals
func (s *FundMeService) MinimumUSD() *big.Int { return new(big.Int).Set(s.params.MinimumUSD) }

// Snapshot returns the persisted form of the current state
func (s *FundMeService) Snapshot() *models.FundMeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotOf(s.state)
}

// Contributions lists recorded contributions, optionally for one funder
func (s *FundMeService) Contributions(ctx context.Context, funder *common.Address, page, limit int) ([]*models.Contribution, error) {
	if funder != nil {
		return s.deps.Contributions.FindByFunder(ctx, s.params.Address.Hex(), funder.Hex(), page, limit)
	}
	return s.deps.Contributions.FindByContract(ctx, s.params.Address.Hex(), page, limit)
}

func (s *FundMeService) snapshotOf(state *FundMeState) *models.FundMeSnapshot {
	ledger := state.durable()
	snap := &models.FundMeSnapshot{
		Contract:     s.params.Address.Hex(),
		Owner:        s.params.Owner.Hex(),
		PriceFeed:    s.params.PriceFeedAddress.Hex(),
		MinimumUSD:   s.params.MinimumUSD.String(),
		Funders:      hexAddresses(ledger.Funders),
		AmountFunded: weiStrings(ledger.AmountFunded),
		BalanceWei:   ledger.Balance.String(),
		UpdatedAt:    time.Now(),
	}
	for _, p := range state.pending {
		snap.Pending = append(snap.Pending, models.PendingWithdrawal{
			Reference:    p.reference,
			Recipient:    p.recipient.Hex(),
			Funders:      hexAddresses(p.taken.Funders),
			AmountFunded: weiStrings(p.taken.AmountFunded),
			BalanceWei:   p.taken.Balance.String(),
			StartedAt:    p.startedAt,
		})
	}
	return snap
}

func hexAddresses(addrs []common.Address) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.Hex()
	}
	return out
}

func weiStrings(amounts map[common.Address]*big.Int) map[string]string {
	out := make(map[string]string, len(amounts))
	for addr, amount := range amounts {
		out[addr.Hex()] = amount.String()
	}
	return out
}

func (s *FundMeService) persist(ctx context.Context, state *FundMeState) error {
	if s.deps.States == nil {
		return nil
	}
	if err := s.deps.States.SaveFundMe(ctx, s.snapshotOf(state)); err != nil {
		s.deps.Logger.Errorw("Failed to persist FundMe state", "error", err, "contract", s.params.Address.Hex())
		return fmt.Errorf("failed to persist contract state: %w", err)
	}
	return nil
}

func (s *FundMeService) emit(ctx context.Context, name, signature string, who common.Address, amount *big.Int) {
	if s.deps.Events == nil {
		return
	}
	event := models.NewContractEvent(s.params.Address.Hex(), name, signature)
	event.Indexed = []string{who.Hex()}
	event.Data["amountWei"] = amount.String()
	s.deps.Events.Emit(ctx, event)
}

// FundMeStateFromSnapshot rebuilds a ledger from its persisted form. Pending
// withdrawals come back pending; see ResolvePendingWithdrawals.
func FundMeStateFromSnapshot(snap *models.FundMeSnapshot) (*FundMeState, error) {
	state, err := ledgerFromSnapshot(snap.Funders, snap.AmountFunded, snap.BalanceWei)
	if err != nil {
		return nil, err
	}
	for _, p := range snap.Pending {
		taken, err := ledgerFromSnapshot(p.Funders, p.AmountFunded, p.BalanceWei)
		if err != nil {
			return nil, err
		}
		recipient, err := utils.ParseAddress(p.Recipient)
		if err != nil {
			return nil, err
		}
		if err := state.deduct(taken); err != nil {
			return nil, fmt.Errorf("withdrawal %s: %w", p.Reference, err)
		}
		state.pending = append(state.pending, pendingWithdrawal{
			reference: p.Reference,
			recipient: recipient,
			taken:     taken,
			startedAt: p.StartedAt,
		})
	}
	return state, nil
}

// deduct removes a pending withdrawal's ledger from a durable one. The
// durable funder list starts with the funders of every pending withdrawal
// in order.
func (s *FundMeState) deduct(taken *FundMeState) error {
	if len(taken.Funders) > len(s.Funders) {
		return ErrInconsistentLedger
	}
	s.Funders = s.Funders[len(taken.Funders):]
	for addr, amount := range taken.AmountFunded {
		current, ok := s.AmountFunded[addr]
		if !ok || current.Cmp(amount) < 0 {
			return ErrInconsistentLedger
		}
		s.AmountFunded[addr] = new(big.Int).Sub(current, amount)
	}
	if s.Balance.Cmp(taken.Balance) < 0 {
		return ErrInconsistentLedger
	}
	s.Balance = new(big.Int).Sub(s.Balance, taken.Balance)
	return nil
}

// ResolvePendingWithdrawals settles every pending withdrawal whose transfer
// went through and puts back the ledger of the rest. It returns how many it
// resolved.
func ResolvePendingWithdrawals(ctx context.Context, state *FundMeState, transferer ValueTransferer) (int, error) {
	n := len(state.pending)
	for i := n - 1; i >= 0; i-- {
		p := state.pending[i]
		settled, err := transferer.Settled(ctx, p.reference)
		if err != nil {
			return 0, fmt.Errorf("failed to check withdrawal %s: %w", p.reference, err)
		}
		if settled {
			state.settle(p.reference)
		} else {
			state.abandon(p.reference)
		}
	}
	return n, nil
}

func ledgerFromSnapshot(funders []string, amounts map[string]string, balanceWei string) (*FundMeState, error) {
	state := NewFundMeState()
	for _, f := range funders {
		addr, err := utils.ParseAddress(f)
		if err != nil {
			return nil, err
		}
		state.Funders = append(state.Funders, addr)
	}
	for f, amount := range amounts {
		addr, err := utils.ParseAddress(f)
		if err != nil {
			return nil, err
		}
		v, err := utils.ParseWei(amount)
		if err != nil {
			return nil, err
		}
		state.AmountFunded[addr] = v
	}
	balance, err := utils.ParseWei(balanceWei)
	if err != nil {
		return nil, err
	}
	state.Balance = balance
	return state, nil
}
