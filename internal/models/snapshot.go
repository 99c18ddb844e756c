package models

import "time"

// FundMeSnapshot is the persisted form of a FundMe contract's state.
// Amounts are base-10 wei strings, addresses are checksummed hex.
type FundMeSnapshot struct {
	Contract     string              `bson:"contract" json:"contract"`
	Owner        string              `bson:"owner" json:"owner"`
	PriceFeed    string              `bson:"priceFeed" json:"priceFeed"`
	MinimumUSD   string              `bson:"minimumUsd" json:"minimumUsd"`
	Funders      []string            `bson:"funders" json:"funders"`
	AmountFunded map[string]string   `bson:"amountFunded" json:"amountFunded"`
	BalanceWei   string              `bson:"balanceWei" json:"balanceWei"`
	Pending      []PendingWithdrawal `bson:"pending,omitempty" json:"pending,omitempty"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// PendingWithdrawal is the part of a FundMe ledger taken by a withdrawal
// whose transfer is unconfirmed. The enclosing snapshot still counts it.
type PendingWithdrawal struct {
	Reference    string            `bson:"reference" json:"reference"`
	Recipient    string            `bson:"recipient" json:"recipient"`
	Funders      []string          `bson:"funders" json:"funders"`
	AmountFunded map[string]string `bson:"amountFunded" json:"amountFunded"`
	BalanceWei   string            `bson:"balanceWei" json:"balanceWei"`
	StartedAt    time.Time         `bson:"startedAt" json:"startedAt"`
}

// RaffleSnapshot is the persisted form of a Raffle contract's state
type RaffleSnapshot struct {
	Contract       string    `bson:"contract" json:"contract"`
	EntranceFeeWei string    `bson:"entranceFeeWei" json:"entranceFeeWei"`
	Players        []string  `bson:"players" json:"players"`
	BalanceWei     string    `bson:"balanceWei" json:"balanceWei"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Person is an entry in the SimpleStorage registry
type Person struct {
	Name           string `bson:"name" json:"name"`
	FavoriteNumber string `bson:"favoriteNumber" json:"favoriteNumber"`
}

// SimpleStorageSnapshot is the persisted form of a SimpleStorage contract's state
type SimpleStorageSnapshot struct {
	Contract       string    `bson:"contract" json:"contract"`
	FavoriteNumber string    `bson:"favoriteNumber" json:"favoriteNumber"`
	People         []Person  `bson:"people" json:"people"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
