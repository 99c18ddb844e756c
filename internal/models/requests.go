package models

import "time"

// ValueRequest carries an amount such as "1000", "2 gwei" or "0.1 ether"
type ValueRequest struct {
	Value string `json:"value" binding:"required"`
}

// TransferRequest sends value straight to a contract
type TransferRequest struct {
	Value string `json:"value" binding:"required"`
	Data  string `json:"data,omitempty"` // 0x-prefixed calldata
}

// DeployContractRequest asks the host to deploy a contract for the caller
type DeployContractRequest struct {
	Kind          ContractKind `json:"kind" binding:"required"`
	ChainID       int64        `json:"chainId,omitempty"`
	EntranceFee   string       `json:"entranceFee,omitempty"`   // raffles
	MinimumUSD    string       `json:"minimumUsd,omitempty"`    // FundMe, 18 decimals
	Decimals      uint8        `json:"decimals,omitempty"`      // mock price feeds
	InitialAnswer string       `json:"initialAnswer,omitempty"` // mock price feeds
}

// StoreRequest sets the SimpleStorage favorite number
type StoreRequest struct {
	FavoriteNumber string `json:"favoriteNumber" binding:"required"`
}

// AddPersonRequest adds an entry to the SimpleStorage registry
type AddPersonRequest struct {
	Name           string `json:"name" binding:"required"`
	FavoriteNumber string `json:"favoriteNumber" binding:"required"`
}

// UpdateAnswerRequest sets a new answer on a mock price feed
type UpdateAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// TokenResponse is returned by a successful sign-in
type TokenResponse struct {
	Token     string    `json:"token"`
	Address   string    `json:"address"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// FundMeView is the public state of a FundMe contract
type FundMeView struct {
	Address     string `json:"address"`
	Owner       string `json:"owner"`
	PriceFeed   string `json:"priceFeed"`
	MinimumUSD  string `json:"minimumUsd"`
	BalanceWei  string `json:"balanceWei"`
	BalanceEth  string `json:"balanceEth"`
	FunderCount int    `json:"funderCount"`
	Version     uint64 `json:"version"`
}

// RaffleView is the public state of a Raffle contract
type RaffleView struct {
	Address        string `json:"address"`
	EntranceFeeWei string `json:"entranceFeeWei"`
	BalanceWei     string `json:"balanceWei"`
	PlayerCount    int    `json:"playerCount"`
}

// SimpleStorageView is the public state of a SimpleStorage contract
type SimpleStorageView struct {
	Address        string   `json:"address"`
	FavoriteNumber string   `json:"favoriteNumber"`
	People         []Person `json:"people"`
}

// PriceFeedView is the latest round of a price feed
type PriceFeedView struct {
	Address   string    `json:"address"`
	RoundID   uint64    `json:"roundId"`
	Answer    string    `json:"answer"`
	Decimals  uint8     `json:"decimals"`
	Version   uint64    `json:"version"`
	PriceUSD  string    `json:"priceUsd"` // answer scaled to 18 decimals
	UpdatedAt time.Time `json:"updatedAt"`
	Mock      bool      `json:"mock"`
}
