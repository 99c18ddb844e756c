package jwt

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var owner = common.HexToAddress("0x1111111111111111111111111111111111111111")

func TestIssueAndParse(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	token, expires, err := svc.Issue(owner)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	addr, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, owner, addr)
}

func TestParseRejectsOtherSecret(t *testing.T) {
	a, err := NewTokenService("secret-a", time.Hour)
	require.NoError(t, err)
	b, err := NewTokenService("secret-b", time.Hour)
	require.NoError(t, err)

	token, _, err := a.Issue(owner)
	require.NoError(t, err)
	_, err = b.Parse(token)
	assert.Error(t, err)
}

func TestParseExpired(t *testing.T) {
	svc, err := NewTokenService("secret", time.Minute)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.Issue(owner)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Parse(token)
	require.Error(t, err)
	assert.True(t, IsExpired(err))
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}
