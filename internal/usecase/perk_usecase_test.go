package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/testutil"
	perkdto "github.com/hashperks/loyalty-service/internal/usecase/dto/perk"
)

func TestCreateAndListPerks(t *testing.T) {
	env := newTestEnv(t)
	uc := NewDefaultPerkUsecase(env.perks, env.programs, env.stores, env.guard)
	ctx := context.Background()

	owner := testutil.SeedUser(t, env.db, "store_owner")
	other := testutil.SeedUser(t, env.db, "store_owner")
	store := testutil.SeedStore(t, env.db, owner.ID, "Beans")
	program := testutil.SeedProgram(t, env.db, store.ID, "Points", true)

	_, err := uc.CreatePerk(ctx, principalOf(other), &perkdto.CreatePerkInput{LoyaltyProgramID: program.ID, Name: "Mug", PointsRequired: 100})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.CreatePerk(ctx, principalOf(owner), &perkdto.CreatePerkInput{LoyaltyProgramID: program.ID, Name: "", PointsRequired: 100})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.CreatePerk(ctx, principalOf(owner), &perkdto.CreatePerkInput{LoyaltyProgramID: program.ID, Name: "Mug", PointsRequired: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)

	for _, in := range []perkdto.CreatePerkInput{
		{Name: "Tote", PointsRequired: 200},
		{Name: "Mug", PointsRequired: 100},
		{Name: "Cookie", PointsRequired: 100},
	} {
		in.LoyaltyProgramID = program.ID
		perk, err := uc.CreatePerk(ctx, principalOf(owner), &in)
		require.NoError(t, err)
		assert.True(t, perk.IsActive)
	}

	perks, err := uc.ListPerks(ctx, program.ID)
	require.NoError(t, err)
	require.Len(t, perks, 3)
	assert.Equal(t, []string{"Cookie", "Mug", "Tote"}, []string{perks[0].Name, perks[1].Name, perks[2].Name})

	_, err = uc.ListPerks(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdatePerk(t *testing.T) {
	env := newTestEnv(t)
	uc := NewDefaultPerkUsecase(env.perks, env.programs, env.stores, env.guard)
	ctx := context.Background()

	owner := testutil.SeedUser(t, env.db, "store_owner")
	member := testutil.SeedUser(t, env.db, "member")
	store := testutil.SeedStore(t, env.db, owner.ID, "Beans")
	program := testutil.SeedProgram(t, env.db, store.ID, "Points", true)
	perk := testutil.SeedPerk(t, env.db, program.ID, "Mug", 100, true)

	inactive := false
	_, err := uc.UpdatePerk(ctx, principalOf(member), perk.ID, domain.PerkPatch{IsActive: &inactive})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.UpdatePerk(ctx, principalOf(owner), perk.ID, domain.PerkPatch{})
	assert.ErrorIs(t, err, domain.ErrEmptyPatch)

	updated, err := uc.UpdatePerk(ctx, principalOf(owner), perk.ID, domain.PerkPatch{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, int64(100), updated.PointsRequired)
}
