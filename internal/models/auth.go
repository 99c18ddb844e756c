package models

import "time"

// ChallengeRequest asks for a sign-in message for an address
type ChallengeRequest struct {
	Address string `json:"address" binding:"required"`
}

// ChallengeResponse carries the message the wallet must sign
type ChallengeResponse struct {
	Address   string    `json:"address"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenRequest exchanges a signed challenge for a bearer token
type TokenRequest struct {
	Address   string `json:"address" binding:"required"`
	Signature string `json:"signature" binding:"required"` // 0x-prefixed 65 byte personal_sign signature
}
