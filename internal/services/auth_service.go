package services

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/utils"
	"github.com/ArowuTest/fundme-backend/pkg/jwt"
	"github.com/allegro/bigcache/v3"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// DefaultChallengeTTL is how long a sign-in challenge stays valid
const DefaultChallengeTTL = 5 * time.Minute

type pendingChallenge struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthService signs wallets in: it hands out a challenge message, checks the
// personal signature over it and issues a bearer token for the address
type AuthService struct {
	cache  *bigcache.BigCache
	tokens *jwt.TokenService
	ttl    time.Duration
	logger *zap.SugaredLogger

	// makes Get+Delete of a challenge atomic
	mu sync.Mutex
}

// NewAuthService creates a new AuthService
func NewAuthService(ctx context.Context, tokens *jwt.TokenService, ttl time.Duration, logger *zap.SugaredLogger) (*AuthService, error) {
	if ttl <= 0 {
		ttl = DefaultChallengeTTL
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	cfg := bigcache.DefaultConfig(ttl)
	cfg.CleanWindow = time.Minute
	cfg.Verbose = false
	cache, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge cache: %w", err)
	}
	return &AuthService{cache: cache, tokens: tokens, ttl: ttl, logger: logger}, nil
}

func challengeKey(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}

// Challenge creates a fresh sign-in message for addr, replacing any pending one
func (s *AuthService) Challenge(ctx context.Context, addr common.Address) (*models.ChallengeResponse, error) {
	nonce, err := utils.GenerateRandomString(16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	expires := time.Now().Add(s.ttl).UTC()
	pending := pendingChallenge{
		Message:   fmt.Sprintf("Sign in to fundme-backend\nAddress: %s\nNonce: %s\nExpires: %s", addr.Hex(), nonce, expires.Format(time.RFC3339)),
		ExpiresAt: expires,
	}
	raw, err := json.Marshal(pending)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	err = s.cache.Set(challengeKey(addr), raw)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}
	return &models.ChallengeResponse{Address: addr.Hex(), Message: pending.Message, ExpiresAt: expires}, nil
}

// Token verifies signature over the pending challenge of addr and issues a
// bearer token. A challenge can be redeemed once.
func (s *AuthService) Token(ctx context.Context, addr common.Address, signature string) (string, time.Time, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil || len(sig) != crypto.SignatureLength {
		return "", time.Time{}, ErrInvalidSignature
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.cache.Get(challengeKey(addr))
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return "", time.Time{}, ErrChallengeNotFound
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to read challenge: %w", err)
	}
	var pending pendingChallenge
	if err := json.Unmarshal(raw, &pending); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to decode challenge: %w", err)
	}
	if time.Now().After(pending.ExpiresAt) {
		_ = s.cache.Delete(challengeKey(addr))
		return "", time.Time{}, ErrChallengeNotFound
	}

	signer, err := RecoverSigner(pending.Message, sig)
	if err != nil || signer != addr {
		s.logger.Warnw("Sign-in signature rejected", "address", addr.Hex())
		return "", time.Time{}, ErrInvalidSignature
	}
	if err := s.cache.Delete(challengeKey(addr)); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return "", time.Time{}, fmt.Errorf("failed to consume challenge: %w", err)
	}

	token, expires, err := s.tokens.Issue(addr)
	if err != nil {
		return "", time.Time{}, err
	}
	s.logger.Infow("Wallet signed in", "address", addr.Hex())
	return token, expires, nil
}

// RecoverSigner returns the address that produced an EIP-191 personal
// signature over message. V may be 0/1 or 27/28.
func RecoverSigner(message string, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, ErrInvalidSignature
	}
	sig = append([]byte{}, sig...)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// SignMessage produces a hex EIP-191 personal signature with V in 27/28
func SignMessage(message string, key *ecdsa.PrivateKey) (string, error) {
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		return "", err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

// Close releases the challenge cache
func (s *AuthService) Close() error {
	return s.cache.Close()
}
