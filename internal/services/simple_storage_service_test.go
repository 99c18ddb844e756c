package services

import (
	"context"
	"math/big"
	"testing"

	"github.com/ArowuTest/fundme-backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleStorageStoreRetrieve(t *testing.T) {
	states := memory.NewContractStateRepository()
	svc := NewSimpleStorageService(contractAdr, nil, states, nil)
	ctx := context.Background()

	assert.Zero(t, svc.Retrieve().Sign())
	require.NoError(t, svc.Store(ctx, big.NewInt(42)))
	assert.Equal(t, int64(42), svc.Retrieve().Int64())

	snap, err := states.LoadSimpleStorage(ctx, contractAdr.Hex())
	require.NoError(t, err)
	assert.Equal(t, "42", snap.FavoriteNumber)
}

func TestSimpleStorageRejectsOutOfRange(t *testing.T) {
	svc := NewSimpleStorageService(contractAdr, nil, nil, nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Store(ctx, big.NewInt(-1)), ErrInvalidNumber)
	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	assert.ErrorIs(t, svc.Store(ctx, tooBig), ErrInvalidNumber)
	assert.ErrorIs(t, svc.AddPerson(ctx, "carol", tooBig), ErrInvalidNumber)
	assert.Empty(t, svc.People())

	maxUint256 := new(big.Int).Sub(tooBig, big.NewInt(1))
	require.NoError(t, svc.Store(ctx, maxUint256))
	assert.Equal(t, maxUint256.String(), svc.Retrieve().String())
}

func TestSimpleStoragePeople(t *testing.T) {
	svc := NewSimpleStorageService(contractAdr, nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.AddPerson(ctx, "alice", big.NewInt(7)))
	require.NoError(t, svc.AddPerson(ctx, "bob", big.NewInt(9)))
	require.NoError(t, svc.AddPerson(ctx, "alice", big.NewInt(11)))

	assert.Equal(t, int64(11), svc.FavoriteNumberOf("alice").Int64())
	assert.Equal(t, int64(9), svc.FavoriteNumberOf("bob").Int64())
	assert.Zero(t, svc.FavoriteNumberOf("carol").Sign())

	p, err := svc.Person(0)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Name)
	assert.Equal(t, int64(7), p.FavoriteNumber.Int64())
	_, err = svc.Person(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	state, err := SimpleStorageStateFromSnapshot(svc.Snapshot())
	require.NoError(t, err)
	assert.Len(t, state.People, 3)
	assert.Equal(t, int64(11), state.ByName["alice"].Int64())
}
