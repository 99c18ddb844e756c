package services

import (
	"context"
	"testing"

	"github.com/ArowuTest/fundme-backend/internal/config"
	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/pricefeed"
	"github.com/ArowuTest/fundme-backend/internal/repositories"
	"github.com/ArowuTest/fundme-backend/internal/repositories/memory"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deployFixture struct {
	deployments *memory.DeploymentRepository
	states      *memory.ContractStateRepository
	payouts     *memory.PayoutRepository
	registry    *pricefeed.Registry
	host        *ContractHost
	networks    *HelperConfig
	svc         *DeployService
}

func newDeployFixture(t *testing.T) *deployFixture {
	t.Helper()
	f := &deployFixture{
		deployments: memory.NewDeploymentRepository(),
		states:      memory.NewContractStateRepository(),
		payouts:     memory.NewPayoutRepository(),
	}
	f.rebuild()
	return f
}

// rebuild wires fresh in-process components over the same stores
func (f *deployFixture) rebuild() {
	f.registry = pricefeed.NewRegistry()
	f.host = NewContractHost()
	f.networks = NewHelperConfig()
	f.svc = NewDeployService(DeployDeps{
		Deployments:   f.deployments,
		States:        f.states,
		Contributions: memory.NewContributionRepository(),
		Transferer:    NewPayoutService(f.payouts, nil),
		Registry:      f.registry,
		Host:          f.host,
		Networks:      f.networks,
	}, DeployDefaults{})
}

func TestDeployFundMeOnLocalChainDeploysMock(t *testing.T) {
	f := newDeployFixture(t)
	ctx := context.Background()

	d, err := f.svc.Deploy(ctx, DeployRequest{Kind: models.ContractKindFundMe, Deployer: ownerAddr})
	require.NoError(t, err)

	// the mock took nonce 0, the FundMe nonce 1
	mockAddr := crypto.CreateAddress(ownerAddr, 0)
	assert.Equal(t, crypto.CreateAddress(ownerAddr, 1).Hex(), d.Address)
	assert.Equal(t, uint64(1), d.Nonce)
	assert.Equal(t, mockAddr.Hex(), d.PriceFeed)
	assert.Equal(t, ChainIDLocal, d.ChainID)

	_, ok := f.registry.Mock(mockAddr)
	assert.True(t, ok)

	fundMe, err := f.host.FundMe(common.HexToAddress(d.Address))
	require.NoError(t, err)
	assert.Equal(t, ownerAddr, fundMe.Owner())
	assert.Equal(t, DefaultMinimumUSD, fundMe.MinimumUSD())

	// a second FundMe on the same chain reuses the mock
	d2, err := f.svc.Deploy(ctx, DeployRequest{Kind: models.ContractKindFundMe, Deployer: aliceAddr})
	require.NoError(t, err)
	assert.Equal(t, mockAddr.Hex(), d2.PriceFeed)
	assert.Equal(t, uint64(0), d2.Nonce)
}

func TestDeployFundMeOnKnownNetworkUsesTable(t *testing.T) {
	f := newDeployFixture(t)
	ctx := context.Background()

	_, err := f.svc.Deploy(ctx, DeployRequest{Kind: models.ContractKindFundMe, Deployer: ownerAddr, ChainID: ChainIDSepolia})
	assert.ErrorIs(t, err, ErrPriceFeedUnavailable)

	sepolia := f.networks.Lookup(ChainIDSepolia)
	require.NoError(t, RegisterStaticFeeds(f.registry, []config.StaticFeedConfig{{Address: sepolia.PriceFeed}}))

	d, err := f.svc.Deploy(ctx, DeployRequest{Kind: models.ContractKindFundMe, Deployer: ownerAddr, ChainID: ChainIDSepolia})
	require.NoError(t, err)
	assert.Equal(t, "sepolia", d.Network)
	assert.Equal(t, common.HexToAddress(sepolia.PriceFeed).Hex(), d.PriceFeed)
	assert.Equal(t, uint64(0), d.Nonce)
}

func TestHelperConfigLookup(t *testing.T) {
	h := NewHelperConfig()
	assert.Equal(t, "mainnet", h.Lookup(ChainIDMainnet).Name)
	assert.Equal(t, "0xfEefF7c3fB57d18C5C6Cdd71e45D2D0b4F9377bF", h.Lookup(ChainIDZkSyncSepolia).PriceFeed)

	local := h.Lookup(ChainIDLocal)
	assert.True(t, local.Mock)
	assert.Empty(t, local.PriceFeed)
	assert.Len(t, h.Networks(), 3)
}

func TestDeployRejectsUnknownKind(t *testing.T) {
	f := newDeployFixture(t)
	_, err := f.svc.Deploy(context.Background(), DeployRequest{Kind: "TOKEN", Deployer: ownerAddr})
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestRestoreRebuildsContracts(t *testing.T) {
	f := newDeployFixture(t)
	ctx := context.Background()

	fd, err := f.svc.Deploy(ctx, DeployRequest{Kind: models.ContractKindFundMe, Deployer: ownerAddr})
	require.NoError(t, err)
	rd, err := f.svc.Deploy(ctx, DeployRequest{Kind: models.ContractKindRaffle, Deployer: ownerAddr})
	require.NoError(t, err)
	sd, err := f.svc.Deploy(ctx, DeployRequest{Kind: models.ContractKindSimpleStorage, Deployer: ownerAddr})
	require.NoError(t, err)

	fundMe, err := f.host.FundMe(common.HexToAddress(fd.Address))
	require.NoError(t, err)
	_, err = fundMe.Fund(ctx, aliceAddr, minimumWei)
	require.NoError(t, err)
	raffle, err := f.host.Raffle(common.HexToAddress(rd.Address))
	require.NoError(t, err)
	require.NoError(t, raffle.Enter(ctx, bobAddr, DefaultEntranceFee))
	storage, err := f.host.SimpleStorage(common.HexToAddress(sd.Address))
	require.NoError(t, err)
	require.NoError(t, storage.Store(ctx, wei(77)))

	f.rebuild()
	n, err := f.svc.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	fundMe, err = f.host.FundMe(common.HexToAddress(fd.Address))
	require.NoError(t, err)
	assert.Equal(t, minimumWei, fundMe.AddressToAmountFunded(aliceAddr))
	assert.Equal(t, ownerAddr, fundMe.Owner())

	raffle, err = f.host.Raffle(common.HexToAddress(rd.Address))
	require.NoError(t, err)
	assert.Equal(t, 1, raffle.PlayerCount())

	storage, err = f.host.SimpleStorage(common.HexToAddress(sd.Address))
	require.NoError(t, err)
	assert.Equal(t, int64(77), storage.Retrieve().Int64())

	// nonces continue after the restore
	next, err := f.svc.Deploy(ctx, DeployRequest{Kind: models.ContractKindSimpleStorage, Deployer: ownerAddr})
	require.NoError(t, err)
	assert.Equal(t, uint64(4), next.Nonce)
}

func TestHostTransferRoutesToReceive(t *testing.T) {
	f := newDeployFixture(t)
	ctx := context.Background()

	fd, err := f.svc.Deploy(ctx, DeployRequest{Kind: models.ContractKindFundMe, Deployer: ownerAddr})
	require.NoError(t, err)
	rd, err := f.svc.Deploy(ctx, DeployRequest{Kind: models.ContractKindRaffle, Deployer: ownerAddr})
	require.NoError(t, err)

	fundMeAddr := common.HexToAddress(fd.Address)
	require.NoError(t, f.host.Transfer(ctx, aliceAddr, fundMeAddr, minimumWei, nil))
	fundMe, err := f.host.FundMe(fundMeAddr)
	require.NoError(t, err)
	assert.Equal(t, minimumWei, fundMe.AddressToAmountFunded(aliceAddr))

	err = f.host.Transfer(ctx, aliceAddr, common.HexToAddress(rd.Address), DefaultEntranceFee, nil)
	assert.ErrorIs(t, err, ErrNoReceive)

	err = f.host.Transfer(ctx, aliceAddr, bobAddr, minimumWei, nil)
	assert.ErrorIs(t, err, ErrContractNotFound)

	kind, err := f.host.Kind(fundMeAddr)
	require.NoError(t, err)
	assert.Equal(t, models.ContractKindFundMe, kind)
}

func TestRestoreResolvesPendingWithdrawals(t *testing.T) {
	f := newDeployFixture(t)
	ctx := context.Background()

	deploy := func() *FundMeService {
		d, err := f.svc.Deploy(ctx, DeployRequest{Kind: models.ContractKindFundMe, Deployer: ownerAddr})
		require.NoError(t, err)
		fundMe, err := f.host.FundMe(common.HexToAddress(d.Address))
		require.NoError(t, err)
		_, err = fundMe.Fund(ctx, aliceAddr, minimumWei)
		require.NoError(t, err)
		return fundMe
	}
	// leaves the withdrawal of alice's funds pending in storage, as a crash mid-transfer would
	markPending := func(fundMe *FundMeService, reference string) {
		snap := fundMe.Snapshot()
		snap.Pending = []models.PendingWithdrawal{{
			Reference:    reference,
			Recipient:    ownerAddr.Hex(),
			Funders:      []string{aliceAddr.Hex()},
			AmountFunded: map[string]string{aliceAddr.Hex(): minimumWei.String()},
			BalanceWei:   minimumWei.String(),
		}}
		require.NoError(t, f.states.SaveFundMe(ctx, snap))
	}

	unpaid, paid := deploy(), deploy()
	markPending(unpaid, "w-unpaid")
	markPending(paid, "w-paid")
	require.NoError(t, f.payouts.Create(ctx, &models.Payout{
		Contract:  paid.Address().Hex(),
		Recipient: ownerAddr.Hex(),
		AmountWei: minimumWei.String(),
		Reference: "w-paid",
	}))

	f.rebuild()
	_, err := f.svc.Restore(ctx)
	require.NoError(t, err)

	restored, err := f.host.FundMe(unpaid.Address())
	require.NoError(t, err)
	assert.Equal(t, minimumWei, restored.Balance())
	assert.Equal(t, minimumWei, restored.AddressToAmountFunded(aliceAddr))

	restored, err = f.host.FundMe(paid.Address())
	require.NoError(t, err)
	assert.Zero(t, restored.Balance().Sign())
	assert.Zero(t, restored.FunderCount())

	for _, addr := range []common.Address{unpaid.Address(), paid.Address()} {
		snap, err := f.states.LoadFundMe(ctx, addr.Hex())
		require.NoError(t, err)
		assert.Empty(t, snap.Pending)
	}
}

func TestDeployRecordFailureLeavesNoState(t *testing.T) {
	f := newDeployFixture(t)
	ctx := context.Background()
	f.deployments.FailWith = errStoreDown

	for _, kind := range []models.ContractKind{models.ContractKindRaffle, models.ContractKindSimpleStorage} {
		_, err := f.svc.Deploy(ctx, DeployRequest{Kind: kind, Deployer: ownerAddr})
		require.ErrorIs(t, err, errStoreDown, kind)
	}

	addr := crypto.CreateAddress(ownerAddr, 0)
	_, err := f.states.LoadRaffle(ctx, addr.Hex())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = f.states.LoadSimpleStorage(ctx, addr.Hex())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = f.host.Kind(addr)
	assert.ErrorIs(t, err, ErrContractNotFound)
}

func TestDeployWithoutInitialStateRestoresEmpty(t *testing.T) {
	f := newDeployFixture(t)
	ctx := context.Background()
	f.states.FailWith = errStoreDown

	d, err := f.svc.Deploy(ctx, DeployRequest{Kind: models.ContractKindRaffle, Deployer: ownerAddr})
	require.NoError(t, err)
	_, err = f.host.Raffle(common.HexToAddress(d.Address))
	require.NoError(t, err)

	f.states.FailWith = nil
	f.rebuild()
	_, err = f.svc.Restore(ctx)
	require.NoError(t, err)
	raffle, err := f.host.Raffle(common.HexToAddress(d.Address))
	require.NoError(t, err)
	assert.Zero(t, raffle.PlayerCount())
	assert.Equal(t, DefaultEntranceFee, raffle.EntranceFee())
}

func TestRegisterNetworkFeeds(t *testing.T) {
	f := newDeployFixture(t)
	RegisterNetworkFeeds(f.registry, f.networks)

	for _, chainID := range []int64{ChainIDMainnet, ChainIDSepolia, ChainIDZkSyncSepolia} {
		d, err := f.svc.Deploy(context.Background(), DeployRequest{Kind: models.ContractKindFundMe, Deployer: ownerAddr, ChainID: chainID})
		require.NoError(t, err, chainID)
		assert.Equal(t, common.HexToAddress(f.networks.Lookup(chainID).PriceFeed).Hex(), d.PriceFeed)
	}
}
