package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashperks/loyalty-service/internal/domain"
	dbtestutil "github.com/hashperks/loyalty-service/internal/testutil"
)

func TestListForStore(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	dbtestutil.SeedMembership(t, env.db, env.member.ID, env.program.ID, 0)

	first, err := env.uc.Record(ctx, principalOf(env.owner), env.input(env.member, domain.TransactionEarn, 10))
	require.NoError(t, err)
	second, err := env.uc.Record(ctx, principalOf(env.owner), env.input(env.member, domain.TransactionEarn, 20))
	require.NoError(t, err)

	views, err := env.uc.ListForStore(ctx, principalOf(env.owner), env.store.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, second.ID, views[0].ID)
	assert.Equal(t, first.ID, views[1].ID)
	assert.Equal(t, env.member.Username, views[0].MemberUsername)
	assert.Empty(t, views[0].PerkName)

	_, err = env.uc.ListForStore(ctx, principalOf(env.member), env.store.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = env.uc.ListForStore(ctx, principalOf(env.admin), env.store.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = env.uc.ListForStore(ctx, principalOf(env.owner), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListForMember(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	other := dbtestutil.SeedUser(t, env.db, "member")
	dbtestutil.SeedMembership(t, env.db, env.member.ID, env.program.ID, 0)
	dbtestutil.SeedMembership(t, env.db, other.ID, env.program.ID, 0)

	_, err := env.uc.Record(ctx, principalOf(env.owner), env.input(env.member, domain.TransactionEarn, 10))
	require.NoError(t, err)
	_, err = env.uc.Record(ctx, principalOf(env.owner), env.input(other, domain.TransactionEarn, 99))
	require.NoError(t, err)

	views, err := env.uc.ListForMember(ctx, principalOf(env.member), env.program.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(10), views[0].PointsChanged)

	_, err = env.uc.ListForMember(ctx, principalOf(env.member), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.uc.ListForMember(ctx, domain.Principal{}, env.program.ID)
	assert.ErrorIs(t, err, domain.ErrAuthMissing)
}

func TestTokenBalance(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	env.chain.balance = 42

	got, err := env.uc.TokenBalance(ctx, principalOf(env.member), env.member.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Balance)
	assert.Equal(t, platformContract, got.ContractAddress)
	assert.Equal(t, env.member.WalletAddress, got.WalletAddress)

	_, err = env.uc.TokenBalance(ctx, principalOf(env.admin), env.member.ID)
	require.NoError(t, err)
	_, err = env.uc.TokenBalance(ctx, principalOf(env.owner), env.member.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, env.db.Exec("UPDATE users SET wallet_address = '' WHERE id = ?", env.member.ID).Error)
	_, err = env.uc.TokenBalance(ctx, principalOf(env.member), env.member.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	env.uc.Chain = nil
	_, err = env.uc.TokenBalance(ctx, principalOf(env.member), env.member.ID)
	assert.ErrorIs(t, err, domain.ErrChainGatewayDisabled)
}
