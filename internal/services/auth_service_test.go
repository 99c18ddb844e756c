package services

import (
	"context"
	"testing"
	"time"

	"github.com/ArowuTest/fundme-backend/pkg/jwt"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *jwt.TokenService) {
	t.Helper()
	tokens, err := jwt.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	svc, err := NewAuthService(context.Background(), tokens, time.Minute, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, tokens
}

func TestAuthSignatureRoundTrip(t *testing.T) {
	svc, tokens := newAuthService(t)
	ctx := context.Background()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	challenge, err := svc.Challenge(ctx, addr)
	require.NoError(t, err)
	assert.Contains(t, challenge.Message, addr.Hex())

	sig, err := SignMessage(challenge.Message, key)
	require.NoError(t, err)

	token, _, err := svc.Token(ctx, addr, sig)
	require.NoError(t, err)
	subject, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, addr, subject)

	// the challenge is single use
	_, _, err = svc.Token(ctx, addr, sig)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestAuthRejectsForeignSignature(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	victim, err := crypto.GenerateKey()
	require.NoError(t, err)
	attacker, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(victim.PublicKey)

	challenge, err := svc.Challenge(ctx, addr)
	require.NoError(t, err)
	sig, err := SignMessage(challenge.Message, attacker)
	require.NoError(t, err)

	_, _, err = svc.Token(ctx, addr, sig)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	// a failed attempt does not burn the challenge
	sig, err = SignMessage(challenge.Message, victim)
	require.NoError(t, err)
	_, _, err = svc.Token(ctx, addr, sig)
	assert.NoError(t, err)
}

func TestAuthWithoutChallenge(t *testing.T) {
	svc, _ := newAuthService(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sig, err := SignMessage("anything", key)
	require.NoError(t, err)

	_, _, err = svc.Token(context.Background(), crypto.PubkeyToAddress(key.PublicKey), sig)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestAuthRejectsMalformedSignature(t *testing.T) {
	svc, _ := newAuthService(t)
	_, _, err := svc.Token(context.Background(), aliceAddr, "0x1234")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestRecoverSignerAcceptsBothRecoveryForms(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	raw, err := crypto.Sign(accounts.TextHash([]byte("hello")), key)
	require.NoError(t, err)
	got, err := RecoverSigner("hello", raw)
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	raw[crypto.RecoveryIDOffset] += 27
	got, err = RecoverSigner("hello", raw)
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}
