package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contribution records a single accepted Fund call against a FundMe contract
type Contribution struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Contract   string             `bson:"contract" json:"contract"`
	Funder     string             `bson:"funder" json:"funder"`
	AmountWei  string             `bson:"amountWei" json:"amountWei"`
	ValueUSD   string             `bson:"valueUsd" json:"valueUsd"` // 18 decimals
	PriceRound uint64             `bson:"priceRound" json:"priceRound"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
