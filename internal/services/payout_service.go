package services

import (
	"context"
	"errors"
	"math/big"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/repositories"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ValueTransferer moves value out of a hosted contract. Each transfer carries
// a reference so it can be looked up after a restart.
type ValueTransferer interface {
	Transfer(ctx context.Context, from, to common.Address, amount *big.Int, reference string) error
	// Settled reports whether the transfer with reference went through
	Settled(ctx context.Context, reference string) (bool, error)
}

// PayoutService settles transfers by recording them as payouts.
// A payout that cannot be recorded is a failed transfer.
type PayoutService struct {
	repo   repositories.PayoutRepository
	logger *zap.SugaredLogger
}

var _ ValueTransferer = (*PayoutService)(nil)

// NewPayoutService creates a new PayoutService
func NewPayoutService(repo repositories.PayoutRepository, logger *zap.SugaredLogger) *PayoutService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &PayoutService{repo: repo, logger: logger}
}

// Transfer implements ValueTransferer
func (s *PayoutService) Transfer(ctx context.Context, from, to common.Address, amount *big.Int, reference string) error {
	payout := &models.Payout{
		Contract:  from.Hex(),
		Recipient: to.Hex(),
		AmountWei: amount.String(),
		Reference: reference,
	}
	if err := s.repo.Create(ctx, payout); err != nil {
		s.logger.Errorw("Payout failed", "error", err, "contract", from.Hex(), "recipient", to.Hex(), "amountWei", amount.String(), "reference", reference)
		return err
	}
	s.logger.Infow("Payout recorded", "contract", from.Hex(), "recipient", to.Hex(), "amountWei", amount.String(), "reference", reference)
	return nil
}

// Settled implements ValueTransferer
func (s *PayoutService) Settled(ctx context.Context, reference string) (bool, error) {
	_, err := s.repo.FindByReference(ctx, reference)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repositories.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Payouts lists payouts made by a contract
func (s *PayoutService) Payouts(ctx context.Context, contract common.Address, page, limit int) ([]*models.Payout, error) {
	return s.repo.FindByContract(ctx, contract.Hex(), page, limit)
}
