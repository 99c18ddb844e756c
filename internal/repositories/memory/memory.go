// Package memory holds map-backed repositories used for the "memory" storage
// driver and in tests. Records are copied on the way in and out so callers
// never share state with the store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// paginate returns the page of items; non-positive page or limit returns everything
func paginate[T any](items []T, page, limit int) []T {
	if page <= 0 || limit <= 0 {
		return items
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// newestFirst reverses insertion order, matching the mongo sort on createdAt desc
func newestFirst[T any](items []T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[len(items)-1-i] = it
	}
	return out
}

// DeploymentRepository is an in-memory repositories.DeploymentRepository.
// FailWith makes every Create fail.
type DeploymentRepository struct {
	mu          sync.RWMutex
	deployments []models.Deployment
	FailWith    error
}

// NewDeploymentRepository creates an empty DeploymentRepository
func NewDeploymentRepository() *DeploymentRepository {
	return &DeploymentRepository{}
}

var _ repositories.DeploymentRepository = (*DeploymentRepository)(nil)

func (r *DeploymentRepository) Create(ctx context.Context, deployment *models.Deployment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	deployment.ID = primitive.NewObjectID()
	if deployment.CreatedAt.IsZero() {
		deployment.CreatedAt = time.Now()
	}
	r.deployments = append(r.deployments, *deployment)
	return nil
}

func (r *DeploymentRepository) FindByAddress(ctx context.Context, address string) (*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.deployments {
		if d.Address == address {
			out := d
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *DeploymentRepository) FindAll(ctx context.Context) ([]*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Deployment, 0, len(r.deployments))
	for i := range r.deployments {
		d := r.deployments[i]
		out = append(out, &d)
	}
	return out, nil
}

func (r *DeploymentRepository) CountByDeployer(ctx context.Context, deployer string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, d := range r.deployments {
		if d.Deployer == deployer {
			n++
		}
	}
	return n, nil
}

// ContractStateRepository is an in-memory repositories.ContractStateRepository.
// FailWith makes every save fail, simulating an unreachable store.
type ContractStateRepository struct {
	mu             sync.RWMutex
	fundMes        map[string]models.FundMeSnapshot
	raffles        map[string]models.RaffleSnapshot
	simpleStorages map[string]models.SimpleStorageSnapshot
	FailWith       error
}

// NewContractStateRepository creates an empty ContractStateRepository
func NewContractStateRepository() *ContractStateRepository {
	return &ContractStateRepository{
		fundMes:        make(map[string]models.FundMeSnapshot),
		raffles:        make(map[string]models.RaffleSnapshot),
		simpleStorages: make(map[string]models.SimpleStorageSnapshot),
	}
}

var _ repositories.ContractStateRepository = (*ContractStateRepository)(nil)

func (r *ContractStateRepository) SaveFundMe(ctx context.Context, s *models.FundMeSnapshot) error {
	cp := copyFundMe(*s)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	r.fundMes[s.Contract] = cp
	return nil
}

func copyFundMe(s models.FundMeSnapshot) models.FundMeSnapshot {
	s.Funders = append([]string(nil), s.Funders...)
	s.AmountFunded = copyAmounts(s.AmountFunded)
	if s.Pending != nil {
		pending := make([]models.PendingWithdrawal, len(s.Pending))
		for i, p := range s.Pending {
			p.Funders = append([]string(nil), p.Funders...)
			p.AmountFunded = copyAmounts(p.AmountFunded)
			pending[i] = p
		}
		s.Pending = pending
	}
	return s
}

func copyAmounts(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (r *ContractStateRepository) LoadFundMe(ctx context.Context, contract string) (*models.FundMeSnapshot, error) {
	r.mu.RLock()
	s, ok := r.fundMes[contract]
	r.mu.RUnlock()
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := copyFundMe(s)
	return &out, nil
}

func (r *ContractStateRepository) SaveRaffle(ctx context.Context, s *models.RaffleSnapshot) error {
	cp := *s
	cp.Players = append([]string(nil), s.Players...)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	r.raffles[s.Contract] = cp
	return nil
}

func (r *ContractStateRepository) LoadRaffle(ctx context.Context, contract string) (*models.RaffleSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.raffles[contract]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	s.Players = append([]string(nil), s.Players...)
	return &s, nil
}

func (r *ContractStateRepository) SaveSimpleStorage(ctx context.Context, s *models.SimpleStorageSnapshot) error {
	cp := *s
	cp.People = append([]models.Person(nil), s.People...)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	r.simpleStorages[s.Contract] = cp
	return nil
}

func (r *ContractStateRepository) LoadSimpleStorage(ctx context.Context, contract string) (*models.SimpleStorageSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.simpleStorages[contract]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	s.People = append([]models.Person(nil), s.People...)
	return &s, nil
}

// ContributionRepository is an in-memory repositories.ContributionRepository
type ContributionRepository struct {
	mu            sync.RWMutex
	contributions []models.Contribution
}

// NewContributionRepository creates an empty ContributionRepository
func NewContributionRepository() *ContributionRepository {
	return &ContributionRepository{}
}

var _ repositories.ContributionRepository = (*ContributionRepository)(nil)

func (r *ContributionRepository) Create(ctx context.Context, c *models.Contribution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = primitive.NewObjectID()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.contributions = append(r.contributions, *c)
	return nil
}

func (r *ContributionRepository) FindByContract(ctx context.Context, contract string, page, limit int) ([]*models.Contribution, error) {
	return r.filter(func(c models.Contribution) bool { return c.Contract == contract }, page, limit), nil
}

func (r *ContributionRepository) FindByFunder(ctx context.Context, contract, funder string, page, limit int) ([]*models.Contribution, error) {
	return r.filter(func(c models.Contribution) bool { return c.Contract == contract && c.Funder == funder }, page, limit), nil
}

func (r *ContributionRepository) Count(ctx context.Context, contract string) (int64, error) {
	return int64(len(r.filter(func(c models.Contribution) bool { return c.Contract == contract }, 0, 0))), nil
}

func (r *ContributionRepository) filter(keep func(models.Contribution) bool, page, limit int) []*models.Contribution {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Contribution
	for i := range r.contributions {
		if c := r.contributions[i]; keep(c) {
			out = append(out, &c)
		}
	}
	out = paginate(newestFirst(out), page, limit)
	if out == nil {
		out = []*models.Contribution{}
	}
	return out
}

// PayoutRepository is an in-memory repositories.PayoutRepository.
// FailWith makes every Create fail, simulating a rejected transfer.
type PayoutRepository struct {
	mu       sync.RWMutex
	payouts  []models.Payout
	FailWith error
}

// NewPayoutRepository creates an empty PayoutRepository
func NewPayoutRepository() *PayoutRepository {
	return &PayoutRepository{}
}

var _ repositories.PayoutRepository = (*PayoutRepository)(nil)

func (r *PayoutRepository) Create(ctx context.Context, p *models.Payout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	p.ID = primitive.NewObjectID()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.payouts = append(r.payouts, *p)
	return nil
}

func (r *PayoutRepository) FindByContract(ctx context.Context, contract string, page, limit int) ([]*models.Payout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Payout{}
	for i := range r.payouts {
		if p := r.payouts[i]; p.Contract == contract {
			out = append(out, &p)
		}
	}
	return paginate(newestFirst(out), page, limit), nil
}

func (r *PayoutRepository) FindByReference(ctx context.Context, reference string) (*models.Payout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.payouts {
		if p := r.payouts[i]; reference != "" && p.Reference == reference {
			return &p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// EventRepository is an in-memory repositories.EventRepository
type EventRepository struct {
	mu     sync.RWMutex
	events []models.ContractEvent
}

// NewEventRepository creates an empty EventRepository
func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

var _ repositories.EventRepository = (*EventRepository)(nil)

func (r *EventRepository) Create(ctx context.Context, e *models.ContractEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = primitive.NewObjectID()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	cp := *e
	cp.Indexed = append([]string(nil), e.Indexed...)
	r.events = append(r.events, cp)
	return nil
}

func (r *EventRepository) FindAll(ctx context.Context, contract, name string, page, limit int) ([]*models.ContractEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.ContractEvent{}
	for i := range r.events {
		e := r.events[i]
		if contract != "" && e.Contract != contract {
			continue
		}
		if name != "" && e.Name != name {
			continue
		}
		out = append(out, &e)
	}
	return paginate(newestFirst(out), page, limit), nil
}
