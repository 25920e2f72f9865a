package usecase

import (
	"testing"

	"gorm.io/gorm"

	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/models"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/repository"
	"github.com/hashperks/loyalty-service/internal/testutil"
)

type testEnv struct {
	db          *gorm.DB
	guard       *DefaultGuard
	users       *repository.DefaultUserRepository
	stores      *repository.DefaultStoreRepository
	programs    *repository.DefaultProgramRepository
	memberships *repository.DefaultMembershipRepository
	perks       *repository.DefaultPerkRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	return &testEnv{
		db:          db,
		guard:       NewDefaultGuard(nil),
		users:       repository.NewDefaultUserRepository(db),
		stores:      repository.NewDefaultStoreRepository(db),
		programs:    repository.NewDefaultProgramRepository(db),
		memberships: repository.NewDefaultMembershipRepository(db),
		perks:       repository.NewDefaultPerkRepository(db),
	}
}

func principalOf(u *models.UserModel) domain.Principal {
	return domain.Principal{UserID: u.ID, Role: domain.Role(u.Role)}
}
