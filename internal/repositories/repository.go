package repositories

import (
	"context"
	"errors"

	"github.com/ArowuTest/fundme-backend/internal/models"
)

// ErrNotFound is returned by every repository when no document matches
var ErrNotFound = errors.New("not found")

// DeploymentRepository defines the interface for deployment records
type DeploymentRepository interface {
	Create(ctx context.Context, deployment *models.Deployment) error
	FindByAddress(ctx context.Context, address string) (*models.Deployment, error)
	FindAll(ctx context.Context) ([]*models.Deployment, error)
	CountByDeployer(ctx context.Context, deployer string) (int64, error)
}

// ContractStateRepository persists contract state snapshots keyed by contract address
type ContractStateRepository interface {
	SaveFundMe(ctx context.Context, snapshot *models.FundMeSnapshot) error
	LoadFundMe(ctx context.Context, contract string) (*models.FundMeSnapshot, error)
	SaveRaffle(ctx context.Context, snapshot *models.RaffleSnapshot) error
	LoadRaffle(ctx context.Context, contract string) (*models.RaffleSnapshot, error)
	SaveSimpleStorage(ctx context.Context, snapshot *models.SimpleStorageSnapshot) error
	LoadSimpleStorage(ctx context.Context, contract string) (*models.SimpleStorageSnapshot, error)
}

// ContributionRepository defines the interface for contribution records
type ContributionRepository interface {
	Create(ctx context.Context, contribution *models.Contribution) error
	FindByContract(ctx context.Context, contract string, page, limit int) ([]*models.Contribution, error)
	FindByFunder(ctx context.Context, contract, funder string, page, limit int) ([]*models.Contribution, error)
	Count(ctx context.Context, contract string) (int64, error)
}

// PayoutRepository defines the interface for payout records
type PayoutRepository interface {
	Create(ctx context.Context, payout *models.Payout) error
	FindByContract(ctx context.Context, contract string, page, limit int) ([]*models.Payout, error)
	FindByReference(ctx context.Context, reference string) (*models.Payout, error)
}

// EventRepository defines the interface for contract event logs
type EventRepository interface {
	Create(ctx context.Context, event *models.ContractEvent) error
	// FindAll filters by contract and name when they are non-empty
	FindAll(ctx context.Context, contract, name string, page, limit int) ([]*models.ContractEvent, error)
}
