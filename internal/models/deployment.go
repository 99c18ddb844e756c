package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContractKind identifies which contract a deployment hosts
type ContractKind string

const (
	ContractKindFundMe        ContractKind = "FUND_ME"
	ContractKindRaffle        ContractKind = "RAFFLE"
	ContractKindSimpleStorage ContractKind = "SIMPLE_STORAGE"
	ContractKindMockPriceFeed ContractKind = "MOCK_PRICE_FEED"
)

// Valid reports whether k names a deployable contract
func (k ContractKind) Valid() bool {
	switch k {
	case ContractKindFundMe, ContractKindRaffle, ContractKindSimpleStorage, ContractKindMockPriceFeed:
		return true
	}
	return false
}

// Deployment records a contract instance created by a deployer
type Deployment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Kind           ContractKind       `bson:"kind" json:"kind"`
	Address        string             `bson:"address" json:"address"`
	Deployer       string             `bson:"deployer" json:"deployer"`
	Nonce          uint64             `bson:"nonce" json:"nonce"`
	ChainID        int64              `bson:"chainId" json:"chainId"`
	Network        string             `bson:"network" json:"network"`
	PriceFeed      string             `bson:"priceFeed,omitempty" json:"priceFeed,omitempty"`
	MinimumUSD     string             `bson:"minimumUsd,omitempty" json:"minimumUsd,omitempty"`
	EntranceFeeWei string             `bson:"entranceFeeWei,omitempty" json:"entranceFeeWei,omitempty"`
	Decimals       uint8              `bson:"decimals,omitempty" json:"decimals,omitempty"`         // mock price feeds only
	InitialAnswer  string             `bson:"initialAnswer,omitempty" json:"initialAnswer,omitempty"` // mock price feeds only
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
