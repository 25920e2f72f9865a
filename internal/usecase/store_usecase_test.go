package usecase

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/testutil"
	storedto "github.com/hashperks/loyalty-service/internal/usecase/dto/store"
)

func TestCreateStore(t *testing.T) {
	env := newTestEnv(t)
	uc := NewDefaultStoreUsecase(env.stores, env.guard)
	ctx := context.Background()

	owner := testutil.SeedUser(t, env.db, "store_owner")
	member := testutil.SeedUser(t, env.db, "member")
	contract := testutil.WalletAddress()

	_, err := uc.CreateStore(ctx, principalOf(member), &storedto.CreateStoreInput{Name: "Beans", TokenContractAddress: contract})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.CreateStore(ctx, principalOf(owner), &storedto.CreateStoreInput{Name: "Beans", TokenContractAddress: "nope"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.CreateStore(ctx, principalOf(owner), &storedto.CreateStoreInput{TokenContractAddress: contract})
	assert.ErrorIs(t, err, domain.ErrValidation)

	store, err := uc.CreateStore(ctx, principalOf(owner), &storedto.CreateStoreInput{
		Name:                 " Beans ",
		Category:             "coffee",
		TokenContractAddress: contract,
	})
	require.NoError(t, err)
	assert.Equal(t, "Beans", store.Name)
	assert.Equal(t, owner.ID, store.OwnerID)
	assert.Equal(t, common.HexToAddress(contract).Hex(), store.TokenContractAddress)

	_, err = uc.CreateStore(ctx, principalOf(owner), &storedto.CreateStoreInput{Name: "Other", TokenContractAddress: contract})
	assert.ErrorIs(t, err, domain.ErrDuplicateContract)

	mine, err := uc.GetMyStores(ctx, principalOf(owner))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, store.ID, mine[0].ID)
}

func TestGetStore_WithDefaultProgram(t *testing.T) {
	env := newTestEnv(t)
	uc := NewDefaultStoreUsecase(env.stores, env.guard)
	ctx := context.Background()

	owner := testutil.SeedUser(t, env.db, "store_owner")
	store := testutil.SeedStore(t, env.db, owner.ID, "Beans")

	details, err := uc.GetStore(ctx, store.ID)
	require.NoError(t, err)
	assert.Empty(t, details.DefaultProgramID)

	program := testutil.SeedProgram(t, env.db, store.ID, "Rewards", true)
	details, err = uc.GetStore(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, program.ID, details.DefaultProgramID)

	_, err = uc.GetStore(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListStores_ByName(t *testing.T) {
	env := newTestEnv(t)
	uc := NewDefaultStoreUsecase(env.stores, env.guard)

	owner := testutil.SeedUser(t, env.db, "store_owner")
	testutil.SeedStore(t, env.db, owner.ID, "Tea House")
	testutil.SeedStore(t, env.db, owner.ID, "Beans")

	stores, err := uc.ListStores(context.Background())
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "Beans", stores[0].Name)
	assert.Equal(t, "Tea House", stores[1].Name)
}

func TestUpdateAndDeleteStore(t *testing.T) {
	env := newTestEnv(t)
	uc := NewDefaultStoreUsecase(env.stores, env.guard)
	ctx := context.Background()

	owner := testutil.SeedUser(t, env.db, "store_owner")
	other := testutil.SeedUser(t, env.db, "store_owner")
	store := testutil.SeedStore(t, env.db, owner.ID, "Beans")

	name := "Better Beans"
	_, err := uc.UpdateStore(ctx, principalOf(other), store.ID, domain.StorePatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.UpdateStore(ctx, principalOf(owner), store.ID, domain.StorePatch{})
	assert.ErrorIs(t, err, domain.ErrEmptyPatch)

	updated, err := uc.UpdateStore(ctx, principalOf(owner), store.ID, domain.StorePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "coffee", updated.Category)

	program := testutil.SeedProgram(t, env.db, store.ID, "Rewards", true)
	member := testutil.SeedUser(t, env.db, "member")
	testutil.SeedMembership(t, env.db, member.ID, program.ID, 0)

	assert.ErrorIs(t, uc.DeleteStore(ctx, principalOf(other), store.ID), domain.ErrForbidden)
	assert.ErrorIs(t, uc.DeleteStore(ctx, principalOf(owner), store.ID), domain.ErrStoreHasMembers)
}
