package fundmeclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/services"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInSignsChallenge(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	const message = "sign me"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/challenge":
			_ = json.NewEncoder(w).Encode(models.ChallengeResponse{Message: message})
		case "/api/v1/auth/token":
			var req models.TokenRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			sig, err := hexutil.Decode(req.Signature)
			require.NoError(t, err)
			signer, err := services.RecoverSigner(message, sig)
			require.NoError(t, err)
			assert.Equal(t, common.HexToAddress(req.Address), signer)
			_ = json.NewEncoder(w).Encode(models.TokenResponse{Token: "tok", Address: req.Address})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	token, err := c.SignIn(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "tok", token.Token)
	assert.Equal(t, "tok", c.Token)
}

func TestErrorResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"caller is not the owner"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.Token = "tok"
	_, err := c.Withdraw(context.Background(), "0x01")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "caller is not the owner", apiErr.Message)
}
