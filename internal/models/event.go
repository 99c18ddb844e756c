package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contract event names
const (
	EventFunded        = "Funded"
	EventWithdrawn     = "Withdrawn"
	EventEnteredRaffle = "EnteredRaffle"
)

// ContractEvent is a log entry emitted by a hosted contract
type ContractEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Contract  string             `bson:"contract" json:"contract"`
	Name      string             `bson:"name" json:"name"`
	Signature string             `bson:"signature" json:"signature"` // e.g. "EnteredRaffle(address)"
	Topic     string             `bson:"topic" json:"topic"`         // keccak256 of Signature
	Indexed   []string           `bson:"indexed" json:"indexed"`
	Data      map[string]string  `bson:"data,omitempty" json:"data,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// NewContractEvent creates a ContractEvent stamped with the current time
func NewContractEvent(contract, name, signature string) *ContractEvent {
	return &ContractEvent{
		Contract:  contract,
		Name:      name,
		Signature: signature,
		Data:      map[string]string{},
		CreatedAt: time.Now(),
	}
}
