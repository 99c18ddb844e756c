// Package fundmeclient is an HTTP client for the fundme-backend API.
package fundmeclient

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/services"
	"github.com/ethereum/go-ethereum/crypto"
)

// APIError is a non-2xx response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to a fundme-backend server
type Client struct {
	BaseURL string
	Token   string
	client  *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+"/api/v1"+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(raw))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// SignIn signs the server's challenge with key and stores the issued token
func (c *Client) SignIn(ctx context.Context, key *ecdsa.PrivateKey) (*models.TokenResponse, error) {
	addr := crypto.PubkeyToAddress(key.PublicKey)
	var challenge models.ChallengeResponse
	if err := c.do(ctx, http.MethodPost, "/auth/challenge", models.ChallengeRequest{Address: addr.Hex()}, &challenge); err != nil {
		return nil, err
	}
	sig, err := services.SignMessage(challenge.Message, key)
	if err != nil {
		return nil, err
	}
	var token models.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/token", models.TokenRequest{Address: addr.Hex(), Signature: sig}, &token); err != nil {
		return nil, err
	}
	c.Token = token.Token
	return &token, nil
}

// Deploy deploys a contract owned by the signed-in address
func (c *Client) Deploy(ctx context.Context, req models.DeployContractRequest) (*models.Deployment, error) {
	var d models.Deployment
	if err := c.do(ctx, http.MethodPost, "/deployments", req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Deployments lists every deployment
func (c *Client) Deployments(ctx context.Context) ([]models.Deployment, error) {
	var out []models.Deployment
	err := c.do(ctx, http.MethodGet, "/deployments", nil, &out)
	return out, err
}

// Fund contributes value, e.g. "0.1 ether", to a FundMe
func (c *Client) Fund(ctx context.Context, contract, value string) (*models.Contribution, error) {
	var out models.Contribution
	if err := c.do(ctx, http.MethodPost, "/fundme/"+contract+"/fund", models.ValueRequest{Value: value}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WithdrawResult is the response of a withdrawal
type WithdrawResult struct {
	Recipient string `json:"recipient"`
	AmountWei string `json:"amountWei"`
	AmountEth string `json:"amountEth"`
}

// Withdraw withdraws a FundMe balance to its owner
func (c *Client) Withdraw(ctx context.Context, contract string) (*WithdrawResult, error) {
	var out WithdrawResult
	if err := c.do(ctx, http.MethodPost, "/fundme/"+contract+"/withdraw", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FundMe reads the state of a FundMe
func (c *Client) FundMe(ctx context.Context, contract string) (*models.FundMeView, error) {
	var out models.FundMeView
	if err := c.do(ctx, http.MethodGet, "/fundme/"+contract, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnterRaffle enters a raffle with value
func (c *Client) EnterRaffle(ctx context.Context, contract, value string) error {
	return c.do(ctx, http.MethodPost, "/raffles/"+contract+"/enter", models.ValueRequest{Value: value}, nil)
}

// Raffle reads the state of a raffle
func (c *Client) Raffle(ctx context.Context, contract string) (*models.RaffleView, error) {
	var out models.RaffleView
	if err := c.do(ctx, http.MethodGet, "/raffles/"+contract, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SimpleStorage reads the state of a SimpleStorage
func (c *Client) SimpleStorage(ctx context.Context, contract string) (*models.SimpleStorageView, error) {
	var out models.SimpleStorageView
	if err := c.do(ctx, http.MethodGet, "/simple-storage/"+contract, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
