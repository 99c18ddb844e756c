package main

import (
	"bytes"
	"testing"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsReadEnvironment(t *testing.T) {
	t.Setenv("FUNDME_SERVER", "http://fundme.internal:4000")
	t.Setenv("FUNDME_PRIVATE_KEY", "0xabc")
	t.Setenv("FUNDME_CHAIN_ID", "11155111")

	assert.Equal(t, "http://fundme.internal:4000", settings.GetString("server"))
	assert.Equal(t, "0xabc", settings.GetString("key"))
	assert.Equal(t, int64(11155111), settings.GetInt64("chain-id"))
	assert.False(t, settings.GetBool("json"))
}

func TestSettingsPreferFlags(t *testing.T) {
	t.Setenv("FUNDME_SERVER", "http://from-env")
	flag := rootCmd.PersistentFlags().Lookup("server")
	require.NoError(t, rootCmd.PersistentFlags().Set("server", "http://from-flag"))
	t.Cleanup(func() {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	})
	assert.Equal(t, "http://from-flag", settings.GetString("server"))
}

func TestLoadKeyRequiresKey(t *testing.T) {
	t.Setenv("FUNDME_PRIVATE_KEY", "")
	_, err := loadKey()
	assert.ErrorContains(t, err, "private key is required")
}

func TestRenderDeploymentsTable(t *testing.T) {
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	var buf bytes.Buffer
	rows := deploymentRows([]models.Deployment{{
		Kind:     models.ContractKindFundMe,
		Address:  "0x00000000000000000000000000000000000000f1",
		Deployer: "0x00000000000000000000000000000000000000a1",
		Network:  "sepolia",
		ChainID:  11155111,
	}})
	require.NoError(t, renderTable(&buf, deploymentHeaders, rows))

	out := buf.String()
	assert.Contains(t, out, "ADDRESS")
	assert.Contains(t, out, "0x00000000000000000000000000000000000000f1")
	assert.Contains(t, out, "sepolia")
	assert.Contains(t, out, "11155111")
}

func TestStatusRows(t *testing.T) {
	rows, err := statusRows(&models.RaffleView{Address: "0xr", EntranceFeeWei: "10", BalanceWei: "20", PlayerCount: 2})
	require.NoError(t, err)
	assert.Contains(t, rows, []string{"players", "2"})

	rows, err = statusRows(&models.SimpleStorageView{Address: "0xs", FavoriteNumber: "7", People: []models.Person{{Name: "alice", FavoriteNumber: "3"}}})
	require.NoError(t, err)
	assert.Contains(t, rows, []string{"person alice", "3"})

	_, err = statusRows("not a view")
	assert.Error(t, err)
}
