package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/infrastructure/auth"
	"github.com/hashperks/loyalty-service/internal/infrastructure/logger"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/models"
	"github.com/hashperks/loyalty-service/internal/testutil"
	accountdto "github.com/hashperks/loyalty-service/internal/usecase/dto/account"
)

func newAccountUsecase(t *testing.T, env *testEnv, attempts int) (*DefaultAccountUsecase, *auth.TokenService) {
	t.Helper()
	tokens := auth.NewTokenService("0123456789abcdef0123", time.Hour)
	return NewDefaultAccountUsecase(env.users, tokens, logger.NewPGAuditLogger(env.db), attempts), tokens
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	uc, tokens := newAccountUsecase(t, env, 5)
	ctx := context.Background()

	user, err := uc.Register(ctx, &accountdto.RegisterInput{
		Name:     "Alice",
		Email:    " Alice@Example.com ",
		Password: "correct-horse",
		Role:     "store_owner",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, domain.RoleStoreOwner, user.Role)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	out, err := uc.Login(ctx, &accountdto.LoginInput{Email: "alice@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	claims, err := tokens.Verify(out.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "store_owner", claims.Role)

	_, err = uc.Login(ctx, &accountdto.LoginInput{Email: "alice@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = uc.Login(ctx, &accountdto.LoginInput{Email: "nobody@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	var failures int64
	require.NoError(t, env.db.Model(&models.AuditEventModel{}).Where("action = ?", logger.AuditLoginFailed).Count(&failures).Error)
	assert.Equal(t, int64(2), failures)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)
	uc, _ := newAccountUsecase(t, env, 0)
	ctx := context.Background()

	base := accountdto.RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "long-enough"}
	tests := []struct {
		name   string
		mutate func(in *accountdto.RegisterInput)
		kind   domain.ErrorKind
	}{
		{"empty name", func(in *accountdto.RegisterInput) { in.Name = " " }, domain.KindValidation},
		{"bad email", func(in *accountdto.RegisterInput) { in.Email = "bob" }, domain.KindValidation},
		{"short password", func(in *accountdto.RegisterInput) { in.Password = "short" }, domain.KindValidation},
		{"unknown role", func(in *accountdto.RegisterInput) { in.Role = "root" }, domain.KindValidation},
		{"admin role", func(in *accountdto.RegisterInput) { in.Role = "admin" }, domain.KindForbidden},
		{"bad wallet", func(in *accountdto.RegisterInput) { in.WalletAddress = "0x1234" }, domain.KindValidation},
		{"bad username", func(in *accountdto.RegisterInput) { in.Username = "a b" }, domain.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			_, err := uc.Register(ctx, &in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, domain.KindOf(err))
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	uc, _ := newAccountUsecase(t, env, 0)
	ctx := context.Background()

	in := &accountdto.RegisterInput{Name: "Carol", Email: "carol@example.com", Username: "carol", Password: "long-enough"}
	_, err := uc.Register(ctx, in)
	require.NoError(t, err)

	in.Username = "carol2"
	_, err = uc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrDuplicateAccount)
}

func TestLogin_RateLimited(t *testing.T) {
	env := newTestEnv(t)
	uc, _ := newAccountUsecase(t, env, 2)
	ctx := context.Background()

	in := &accountdto.LoginInput{Email: "dave@example.com", Password: "guess-one"}
	for i := 0; i < 2; i++ {
		_, err := uc.Login(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}
	_, err := uc.Login(ctx, in)
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)

	// other emails keep their own budget
	_, err = uc.Login(ctx, &accountdto.LoginInput{Email: "erin@example.com", Password: "guess-one"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAccountAccess(t *testing.T) {
	env := newTestEnv(t)
	uc, _ := newAccountUsecase(t, env, 0)
	ctx := context.Background()

	alice := testutil.SeedUser(t, env.db, "member")
	bob := testutil.SeedUser(t, env.db, "member")
	admin := testutil.SeedUser(t, env.db, "admin")

	_, err := uc.GetAccount(ctx, principalOf(bob), alice.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	got, err := uc.GetAccount(ctx, principalOf(admin), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.Email, got.Email)

	name := "Alice Liddell"
	_, err = uc.UpdateAccount(ctx, principalOf(bob), alice.ID, domain.UserPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.UpdateAccount(ctx, principalOf(alice), alice.ID, domain.UserPatch{})
	assert.ErrorIs(t, err, domain.ErrEmptyPatch)

	wallet := testutil.WalletAddress()
	updated, err := uc.UpdateAccount(ctx, principalOf(alice), alice.ID, domain.UserPatch{Name: &name, WalletAddress: &wallet})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, wallet, updated.WalletAddress)

	assert.ErrorIs(t, uc.DeleteAccount(ctx, principalOf(bob), alice.ID), domain.ErrForbidden)
	require.NoError(t, uc.DeleteAccount(ctx, principalOf(alice), alice.ID))
	_, err = env.users.GetUserByID(ctx, alice.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteAccount_InUse(t *testing.T) {
	env := newTestEnv(t)
	uc, _ := newAccountUsecase(t, env, 0)

	owner := testutil.SeedUser(t, env.db, "store_owner")
	testutil.SeedStore(t, env.db, owner.ID, "Beans")

	err := uc.DeleteAccount(context.Background(), principalOf(owner), owner.ID)
	assert.ErrorIs(t, err, domain.ErrAccountInUse)
}

func TestLoginLimiter_ForgetsIdleEmails(t *testing.T) {
	l := newLoginLimiter(1)
	clock := time.Now()
	l.now = func() time.Time { return clock }

	for i := 0; i < 50; i++ {
		assert.True(t, l.allow(fmt.Sprintf("user%d@example.com", i)))
	}
	assert.False(t, l.allow("user0@example.com"))
	assert.Equal(t, 50, l.prune())

	clock = clock.Add(30 * time.Second)
	assert.False(t, l.allow("user1@example.com"))
	clock = clock.Add(40 * time.Second)
	// user1 was seen 40s ago, everyone else 70s ago
	assert.Equal(t, 1, l.prune())

	clock = clock.Add(time.Minute)
	assert.Zero(t, l.prune())
	assert.True(t, l.allow("user0@example.com"))
}

func TestLoginLimiter_BoundedSize(t *testing.T) {
	l := newLoginLimiter(5)
	clock := time.Now()
	l.now = func() time.Time { return clock }

	for i := 0; i < maxTrackedLogins+100; i++ {
		clock = clock.Add(time.Millisecond)
		l.allow(fmt.Sprintf("flood%d@example.com", i))
	}
	assert.Len(t, l.buckets, maxTrackedLogins)
	_, kept := l.buckets[fmt.Sprintf("flood%d@example.com", maxTrackedLogins+99)]
	assert.True(t, kept)
	_, evicted := l.buckets["flood0@example.com"]
	assert.False(t, evicted)
}

func TestPruneLoginLimiters_Disabled(t *testing.T) {
	env := newTestEnv(t)
	uc, _ := newAccountUsecase(t, env, 0)
	assert.Zero(t, uc.PruneLoginLimiters())
}
