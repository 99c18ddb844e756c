package services

import (
	"context"
	"math/big"
	"time"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ethereum/go-ethereum/common"
)

// ContractDirectory resolves live contract instances
type ContractDirectory interface {
	// FundMe returns the FundMe instance at addr
	FundMe(addr common.Address) (*FundMeService, error)

	// Raffle returns the Raffle instance at addr
	Raffle(addr common.Address) (*RaffleService, error)

	// SimpleStorage returns the SimpleStorage instance at addr
	SimpleStorage(addr common.Address) (*SimpleStorageService, error)

	// Transfer sends value directly to the contract at to
	Transfer(ctx context.Context, from, to common.Address, value *big.Int, data []byte) error
}

// Deployer creates contracts and reports what has been deployed
type Deployer interface {
	// Deploy creates and registers a new contract instance
	Deploy(ctx context.Context, req DeployRequest) (*models.Deployment, error)

	// Deployments lists every recorded deployment
	Deployments(ctx context.Context) ([]*models.Deployment, error)

	// Deployment returns the deployment at addr
	Deployment(ctx context.Context, addr common.Address) (*models.Deployment, error)

	// Networks returns the chain ID to price feed table
	Networks() []models.NetworkConfig
}

// Authenticator signs wallets in
type Authenticator interface {
	// Challenge issues a message for addr to sign
	Challenge(ctx context.Context, addr common.Address) (*models.ChallengeResponse, error)

	// Token exchanges a signed challenge for a bearer token
	Token(ctx context.Context, addr common.Address, signature string) (string, time.Time, error)
}

// EventLister reads recorded contract events
type EventLister interface {
	ListEvents(ctx context.Context, contract, name string, page, limit int) ([]*models.ContractEvent, error)
}

// PayoutLister reads recorded payouts
type PayoutLister interface {
	Payouts(ctx context.Context, contract common.Address, page, limit int) ([]*models.Payout, error)
}

var (
	_ ContractDirectory = (*ContractHost)(nil)
	_ Deployer          = (*DeployService)(nil)
	_ Authenticator     = (*AuthService)(nil)
	_ EventLister       = (*EventService)(nil)
	_ PayoutLister      = (*PayoutService)(nil)
)
