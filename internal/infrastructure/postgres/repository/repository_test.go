package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/testutil"
)

func TestCreateMembershipRejectsDuplicates(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "store_owner")
	member := testutil.SeedUser(t, db, "member")
	store := testutil.SeedStore(t, db, owner.ID, "Bean There")
	program := testutil.SeedProgram(t, db, store.ID, "Beans", true)
	repo := NewDefaultMembershipRepository(db)

	first := &domain.Membership{ID: uuid.NewString(), UserID: member.ID, LoyaltyProgramID: program.ID, JoinDate: time.Now()}
	require.NoError(t, repo.CreateMembership(ctx, first))

	second := &domain.Membership{ID: uuid.NewString(), UserID: member.ID, LoyaltyProgramID: program.ID, JoinDate: time.Now()}
	err := repo.CreateMembership(ctx, second)
	assert.ErrorIs(t, err, domain.ErrAlreadyJoined)

	got, err := repo.GetMembership(ctx, member.ID, program.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.PointsBalance)
}

func TestCreateProgramSingleDefaultPerStore(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "store_owner")
	store := testutil.SeedStore(t, db, owner.ID, "Bean There")
	repo := NewDefaultProgramRepository(db)

	newProgram := func(isDefault bool) *domain.LoyaltyProgram {
		return &domain.LoyaltyProgram{
			ID:                   uuid.NewString(),
			StoreID:              store.ID,
			Name:                 "Program",
			PointsConversionRate: 1,
			IsDefaultForStore:    isDefault,
			CreatedAt:            time.Now(),
			UpdatedAt:            time.Now(),
		}
	}

	require.NoError(t, repo.CreateProgram(ctx, newProgram(true)))
	assert.ErrorIs(t, repo.CreateProgram(ctx, newProgram(true)), domain.ErrDefaultProgramExists)
	require.NoError(t, repo.CreateProgram(ctx, newProgram(false)))
	require.NoError(t, repo.CreateProgram(ctx, newProgram(false)))

	programs, err := repo.ListProgramsByStore(ctx, store.ID)
	require.NoError(t, err)
	assert.Len(t, programs, 3)
	assert.True(t, programs[0].IsDefaultForStore)
}

func TestDeleteProgramWithMembersIsRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "store_owner")
	member := testutil.SeedUser(t, db, "member")
	store := testutil.SeedStore(t, db, owner.ID, "Bean There")
	program := testutil.SeedProgram(t, db, store.ID, "Beans", true)
	empty := testutil.SeedProgram(t, db, store.ID, "Empty", false)
	testutil.SeedPerk(t, db, empty.ID, "Mug", 10, true)
	testutil.SeedMembership(t, db, member.ID, program.ID, 0)
	repo := NewDefaultProgramRepository(db)

	assert.ErrorIs(t, repo.DeleteProgram(ctx, program.ID), domain.ErrProgramHasMembers)
	require.NoError(t, repo.DeleteProgram(ctx, empty.ID))

	_, err := repo.GetProgramByID(ctx, empty.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	perks, err := NewDefaultPerkRepository(db).ListPerks(ctx, empty.ID)
	require.NoError(t, err)
	assert.Empty(t, perks)
}

func TestUpdateProgramAppliesOnlyPatchedFields(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "store_owner")
	store := testutil.SeedStore(t, db, owner.ID, "Bean There")
	program := testutil.SeedProgram(t, db, store.ID, "Beans", true)
	repo := NewDefaultProgramRepository(db)

	rate := 2.5
	updated, err := repo.UpdateProgram(ctx, program.ID, domain.ProgramPatch{PointsConversionRate: &rate})
	require.NoError(t, err)

	assert.Equal(t, "Beans", updated.Name)
	assert.Equal(t, 2.5, updated.PointsConversionRate)
	assert.True(t, updated.IsDefaultForStore)

	_, err = repo.UpdateProgram(ctx, uuid.NewString(), domain.ProgramPatch{PointsConversionRate: &rate})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyBalanceDeltaNeverGoesNegative(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "store_owner")
	member := testutil.SeedUser(t, db, "member")
	store := testutil.SeedStore(t, db, owner.ID, "Bean There")
	program := testutil.SeedProgram(t, db, store.ID, "Beans", true)
	testutil.SeedMembership(t, db, member.ID, program.ID, 30)
	repo := NewDefaultLedgerRepository(db)

	apply := func(delta int64) error {
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		if err := tx.ApplyBalanceDelta(member.ID, program.ID, delta); err != nil {
			require.NoError(t, tx.Rollback())
			return err
		}
		return tx.Commit()
	}

	require.NoError(t, apply(-20))
	assert.ErrorIs(t, apply(-20), domain.ErrInsufficientBalance)
	require.NoError(t, apply(5))
	assert.Equal(t, int64(15), testutil.Balance(t, db, member.ID, program.ID))

	other := uuid.NewString()
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, tx.ApplyBalanceDelta(other, program.ID, 5), domain.ErrMembershipRequired)
	require.NoError(t, tx.Rollback())
}

func TestApplyBalanceDeltaConcurrentCredits(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "store_owner")
	member := testutil.SeedUser(t, db, "member")
	store := testutil.SeedStore(t, db, owner.ID, "Bean There")
	program := testutil.SeedProgram(t, db, store.ID, "Beans", true)
	testutil.SeedMembership(t, db, member.ID, program.ID, 0)
	repo := NewDefaultLedgerRepository(db)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := repo.BeginTx(ctx)
			if err != nil {
				errs <- err
				return
			}
			if err := tx.ApplyBalanceDelta(member.ID, program.ID, 10); err != nil {
				_ = tx.Rollback()
				errs <- err
				return
			}
			errs <- tx.Commit()
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, int64(200), testutil.Balance(t, db, member.ID, program.ID))
}

func TestInsertTransactionRejectsDuplicateHash(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "store_owner")
	member := testutil.SeedUser(t, db, "member")
	store := testutil.SeedStore(t, db, owner.ID, "Bean There")
	program := testutil.SeedProgram(t, db, store.ID, "Beans", true)
	repo := NewDefaultLedgerRepository(db)

	newTx := func(at time.Time) *domain.Transaction {
		return &domain.Transaction{
			ID:                  uuid.NewString(),
			StoreID:             store.ID,
			LoyaltyProgramID:    program.ID,
			MemberWalletAddress: member.WalletAddress,
			UserID:              member.ID,
			PointsChanged:       50,
			Type:                domain.TransactionEarn,
			TransactionHash:     "0xaaa",
			CreatedAt:           at,
		}
	}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.InsertTransaction(newTx(time.Now())))
	require.NoError(t, tx.Commit())

	tx, err = repo.BeginTx(ctx)
	require.NoError(t, err)
	err = tx.InsertTransaction(newTx(time.Now()))
	require.NoError(t, tx.Rollback())
	assert.True(t, errors.Is(err, domain.ErrDuplicateTransaction))

	views, err := repo.ListTransactionsByStore(ctx, store.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, member.Username, views[0].MemberUsername)
	assert.Equal(t, int64(50), views[0].PointsChanged)

	assert.Equal(t, int64(50), testutil.LedgerSum(t, db, member.ID, program.ID))
}

func TestListProgramsForUserOrdering(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "store_owner")
	member := testutil.SeedUser(t, db, "member")
	zebra := testutil.SeedStore(t, db, owner.ID, "Zebra Books")
	alpha := testutil.SeedStore(t, db, owner.ID, "Alpha Coffee")
	zp := testutil.SeedProgram(t, db, zebra.ID, "Readers", true)
	ap2 := testutil.SeedProgram(t, db, alpha.ID, "Gold", false)
	ap1 := testutil.SeedProgram(t, db, alpha.ID, "Beans", true)
	for _, p := range []string{zp.ID, ap2.ID, ap1.ID} {
		testutil.SeedMembership(t, db, member.ID, p, 0)
	}
	repo := NewDefaultMembershipRepository(db)

	rows, err := repo.ListProgramsForUser(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Alpha Coffee", rows[0].StoreName)
	assert.Equal(t, "Beans", rows[0].ProgramName)
	assert.Equal(t, "Gold", rows[1].ProgramName)
	assert.Equal(t, "Zebra Books", rows[2].StoreName)
	assert.Equal(t, owner.Username, rows[0].StoreOwnerUsername)
}

func TestListMembersOrderedByUsername(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "store_owner")
	store := testutil.SeedStore(t, db, owner.ID, "Bean There")
	program := testutil.SeedProgram(t, db, store.ID, "Beans", true)
	a := testutil.SeedUser(t, db, "member")
	b := testutil.SeedUser(t, db, "member")
	testutil.SeedMembership(t, db, a.ID, program.ID, 5)
	testutil.SeedMembership(t, db, b.ID, program.ID, 7)
	repo := NewDefaultMembershipRepository(db)

	members, err := repo.ListMembers(ctx, program.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.LessOrEqual(t, members[0].Username, members[1].Username)
}

func TestDeleteStoreAndUserGuards(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "store_owner")
	member := testutil.SeedUser(t, db, "member")
	store := testutil.SeedStore(t, db, owner.ID, "Bean There")
	program := testutil.SeedProgram(t, db, store.ID, "Beans", true)
	membership := testutil.SeedMembership(t, db, member.ID, program.ID, 0)
	stores := NewDefaultStoreRepository(db)
	users := NewDefaultUserRepository(db)

	assert.ErrorIs(t, stores.DeleteStore(ctx, store.ID), domain.ErrStoreHasMembers)
	assert.ErrorIs(t, users.DeleteUser(ctx, owner.ID), domain.ErrAccountInUse)
	assert.ErrorIs(t, users.DeleteUser(ctx, member.ID), domain.ErrAccountInUse)

	require.NoError(t, db.Delete(membership).Error)
	require.NoError(t, stores.DeleteStore(ctx, store.ID))
	require.NoError(t, users.DeleteUser(ctx, owner.ID))

	_, err := stores.GetStoreByID(ctx, store.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
