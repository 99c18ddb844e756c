package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payout represents a value transfer out of a hosted contract
type Payout struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Contract  string             `bson:"contract" json:"contract"`
	Recipient string             `bson:"recipient" json:"recipient"`
	AmountWei string             `bson:"amountWei" json:"amountWei"`
	// Reference ties the payout to the withdrawal that requested it
	Reference string    `bson:"reference,omitempty" json:"reference,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
