package app

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ArowuTest/fundme-backend/internal/config"
	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/services"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpiresIn: 3600},
		Auth:   config.AuthConfig{ChallengeTTL: 60},
		Chain:  config.ChainConfig{ChainID: services.ChainIDLocal},
		FundMe: config.FundMeConfig{MinimumUSD: "5000000000000000000"},
		Raffle: config.RaffleConfig{EntranceFee: "0.01 ether"},
	}
}

type client struct {
	t      *testing.T
	router http.Handler
	token  string
}

func (c *client) do(method, path string, body interface{}, out interface{}) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	if out != nil && w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

// signIn runs the challenge/token flow for key
func signIn(t *testing.T, router http.Handler, key *ecdsa.PrivateKey) *client {
	t.Helper()
	c := &client{t: t, router: router}
	addr := crypto.PubkeyToAddress(key.PublicKey)

	var challenge models.ChallengeResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/auth/challenge", models.ChallengeRequest{Address: addr.Hex()}, &challenge))
	sig, err := services.SignMessage(challenge.Message, key)
	require.NoError(t, err)

	var token models.TokenResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/auth/token", models.TokenRequest{Address: addr.Hex(), Signature: sig}, &token))
	c.token = token.Token
	return c
}

func newTestApp(t *testing.T, repos Repositories) *App {
	t.Helper()
	a, err := New(context.Background(), testConfig(), repos, nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func mustKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key
}

func TestFundMeLifecycleOverHTTP(t *testing.T) {
	a := newTestApp(t, MemoryRepositories())
	ownerKey, funderKey := mustKey(t), mustKey(t)
	owner := signIn(t, a.Router, ownerKey)
	funder := signIn(t, a.Router, funderKey)
	funderAddr := crypto.PubkeyToAddress(funderKey.PublicKey)

	var d models.Deployment
	require.Equal(t, http.StatusCreated, owner.do(http.MethodPost, "/api/v1/deployments", models.DeployContractRequest{Kind: models.ContractKindFundMe}, &d))
	base := "/api/v1/fundme/" + d.Address

	// 0.002 ether is 4 USD at the mock price
	assert.Equal(t, http.StatusBadRequest, funder.do(http.MethodPost, base+"/fund", models.ValueRequest{Value: "0.002 ether"}, nil))
	assert.Equal(t, http.StatusCreated, funder.do(http.MethodPost, base+"/fund", models.ValueRequest{Value: "0.01 ether"}, nil))

	var amount map[string]interface{}
	require.Equal(t, http.StatusOK, funder.do(http.MethodGet, base+"/amounts/"+funderAddr.Hex(), nil, &amount))
	assert.Equal(t, "10000000000000000", amount["amountWei"])

	assert.Equal(t, http.StatusForbidden, funder.do(http.MethodPost, base+"/withdraw", nil, nil))
	assert.Equal(t, http.StatusOK, owner.do(http.MethodPost, base+"/withdraw", nil, nil))

	var view models.FundMeView
	require.Equal(t, http.StatusOK, funder.do(http.MethodGet, base, nil, &view))
	assert.Equal(t, "0", view.BalanceWei)
	assert.Zero(t, view.FunderCount)
	assert.Equal(t, d.PriceFeed, view.PriceFeed)

	var events struct {
		Events []models.ContractEvent `json:"events"`
	}
	require.Equal(t, http.StatusOK, funder.do(http.MethodGet, "/api/v1/events?contract="+d.Address, nil, &events))
	require.Len(t, events.Events, 2)
	assert.Equal(t, models.EventWithdrawn, events.Events[0].Name)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newTestApp(t, MemoryRepositories())
	anon := &client{t: t, router: a.Router}
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodPost, "/api/v1/deployments", models.DeployContractRequest{Kind: models.ContractKindRaffle}, nil))
	assert.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/api/v1/health", nil, nil))
}

func TestRaffleOverHTTP(t *testing.T) {
	a := newTestApp(t, MemoryRepositories())
	c := signIn(t, a.Router, mustKey(t))

	var d models.Deployment
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/deployments", models.DeployContractRequest{Kind: models.ContractKindRaffle}, &d))
	base := "/api/v1/raffles/" + d.Address

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, base+"/enter", models.ValueRequest{Value: "0.001 ether"}, nil))
	assert.Equal(t, http.StatusCreated, c.do(http.MethodPost, base+"/enter", models.ValueRequest{Value: "0.01 ether"}, nil))
	assert.Equal(t, http.StatusNotImplemented, c.do(http.MethodPost, base+"/pick-winner", nil, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/contracts/"+d.Address+"/transfer", models.TransferRequest{Value: "1 ether"}, nil))

	var view models.RaffleView
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, base, nil, &view))
	assert.Equal(t, 1, view.PlayerCount)
}

func TestPriceFeedUpdateChangesMinimum(t *testing.T) {
	a := newTestApp(t, MemoryRepositories())
	c := signIn(t, a.Router, mustKey(t))

	var d models.Deployment
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/deployments", models.DeployContractRequest{Kind: models.ContractKindFundMe}, &d))

	var feed models.PriceFeedView
	require.Equal(t, http.StatusOK, c.do(http.MethodPut, "/api/v1/price-feeds/"+d.PriceFeed+"/answer", models.UpdateAnswerRequest{Answer: "100000000000"}, &feed))
	assert.Equal(t, uint64(2), feed.RoundID)
	assert.True(t, feed.Mock)

	// 1000 USD/ETH: 0.004 ether is 4 USD
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/fundme/"+d.Address+"/fund", models.ValueRequest{Value: "0.004 ether"}, nil))
	assert.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/fundme/"+d.Address+"/fund", models.ValueRequest{Value: "0.005 ether"}, nil))
}

func TestStateSurvivesRestart(t *testing.T) {
	repos := MemoryRepositories()
	first := newTestApp(t, repos)
	c := signIn(t, first.Router, mustKey(t))

	var d models.Deployment
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/deployments", models.DeployContractRequest{Kind: models.ContractKindSimpleStorage}, &d))
	require.Equal(t, http.StatusOK, c.do(http.MethodPut, "/api/v1/simple-storage/"+d.Address+"/favorite-number", models.StoreRequest{FavoriteNumber: "42"}, nil))
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/simple-storage/"+d.Address+"/people", models.AddPersonRequest{Name: "alice", FavoriteNumber: "7"}, nil))

	second := newTestApp(t, repos)
	anon := &client{t: t, router: second.Router}
	var view models.SimpleStorageView
	require.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/api/v1/simple-storage/"+d.Address, nil, &view))
	assert.Equal(t, "42", view.FavoriteNumber)
	require.Len(t, view.People, 1)
	assert.Equal(t, "alice", view.People[0].Name)
}

func TestKnownNetworkFeedsServedByDefault(t *testing.T) {
	cfg := testConfig()
	cfg.Oracle.ServeNetworkFeeds = true
	a, err := New(context.Background(), cfg, MemoryRepositories(), nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	c := signIn(t, a.Router, mustKey(t))

	for _, chainID := range []int64{services.ChainIDMainnet, services.ChainIDSepolia, services.ChainIDZkSyncSepolia} {
		var d models.Deployment
		require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/deployments", models.DeployContractRequest{Kind: models.ContractKindFundMe, ChainID: chainID}, &d), chainID)
		assert.NotEmpty(t, d.PriceFeed, chainID)
	}

	// without the network feeds the table addresses resolve to nothing
	bare := newTestApp(t, MemoryRepositories())
	c = signIn(t, bare.Router, mustKey(t))
	assert.Equal(t, http.StatusUnprocessableEntity, c.do(http.MethodPost, "/api/v1/deployments", models.DeployContractRequest{Kind: models.ContractKindFundMe, ChainID: services.ChainIDSepolia}, nil))
}
