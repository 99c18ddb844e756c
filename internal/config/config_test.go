package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, "mongodb", cfg.Storage.Driver)
	assert.Equal(t, int64(31337), cfg.Chain.ChainID)
	assert.Equal(t, "5000000000000000000", cfg.FundMe.MinimumUSD)
	assert.Equal(t, "0.01 ether", cfg.Raffle.EntranceFee)
	assert.Equal(t, 24*60*60, cfg.JWT.ExpiresIn)
	assert.True(t, cfg.Oracle.ServeNetworkFeeds)
	assert.Empty(t, cfg.Oracle.StaticFeeds)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("CHAIN_CHAINID", "11155111")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, int64(11155111), cfg.Chain.ChainID)
}

func TestLoadMongoFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("MONGODB_DATABASE", "fundme_export")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://db:27017", cfg.MongoDB.URI)
	assert.Equal(t, "fundme_export", cfg.MongoDB.Database)
}
