package services

import "errors"

// Precondition failures. Each leaves contract state untouched.
var (
	ErrNotEnoughETH       = errors.New("you need to spend more ETH")
	ErrNotOwner           = errors.New("caller is not the owner")
	ErrRaffleNotEnoughETH = errors.New("not enough ETH sent to enter raffle")
	ErrInvalidValue       = errors.New("value must be a non-negative amount")
	ErrInvalidNumber      = errors.New("number must fit in an unsigned 256-bit integer")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrNoReceive          = errors.New("contract does not accept direct transfers")
)

// ErrTransferFailed is returned when the outgoing value transfer of a withdrawal fails
var ErrTransferFailed = errors.New("call failed")

// ErrInconsistentLedger is returned when a persisted pending withdrawal takes
// more than the ledger holds
var ErrInconsistentLedger = errors.New("pending withdrawal exceeds recorded ledger")

// ErrWinnerSelectionNotImplemented is returned by Raffle.PickWinner. Winner
// selection has no defined randomness source or payout rule.
var ErrWinnerSelectionNotImplemented = errors.New("raffle winner selection is not implemented")

// Host and deployment errors
var (
	ErrContractNotFound     = errors.New("contract not found")
	ErrUnsupportedKind      = errors.New("unsupported contract kind")
	ErrPriceFeedUnavailable = errors.New("price feed unavailable on this network")
)

// Auth errors
var (
	ErrChallengeNotFound = errors.New("no pending sign-in challenge for address")
	ErrInvalidSignature  = errors.New("signature does not match address")
)
