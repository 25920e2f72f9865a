package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/models"
)

// WalletAddress returns a distinct, well-formed EVM address for test fixtures.
func WalletAddress() string {
	id := uuid.New()
	return fmt.Sprintf("0x%x%x", id[:], id[:4])
}

func SeedUser(t testing.TB, db *gorm.DB, role string) *models.UserModel {
	t.Helper()
	id := uuid.NewString()
	user := &models.UserModel{
		ID:            id,
		Name:          "User " + id[:8],
		Email:         id[:8] + "@example.com",
		Username:      "user_" + id[:8],
		PasswordHash:  "x",
		Role:          role,
		WalletAddress: WalletAddress(),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func SeedStore(t testing.TB, db *gorm.DB, ownerID, name string) *models.StoreModel {
	t.Helper()
	store := &models.StoreModel{
		ID:                   uuid.NewString(),
		OwnerID:              ownerID,
		Name:                 name,
		Category:             "coffee",
		TokenContractAddress: WalletAddress(),
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}
	if err := db.Create(store).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

func SeedProgram(t testing.TB, db *gorm.DB, storeID, name string, isDefault bool) *models.LoyaltyProgramModel {
	t.Helper()
	program := &models.LoyaltyProgramModel{
		ID:                   uuid.NewString(),
		StoreID:              storeID,
		Name:                 name,
		PointsConversionRate: 1,
		IsDefaultForStore:    isDefault,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}
	if err := db.Create(program).Error; err != nil {
		t.Fatalf("seed program: %v", err)
	}
	return program
}

func SeedMembership(t testing.TB, db *gorm.DB, userID, programID string, balance int64) *models.MembershipModel {
	t.Helper()
	membership := &models.MembershipModel{
		ID:               uuid.NewString(),
		UserID:           userID,
		LoyaltyProgramID: programID,
		JoinDate:         time.Now(),
		PointsBalance:    balance,
	}
	if err := db.Create(membership).Error; err != nil {
		t.Fatalf("seed membership: %v", err)
	}
	return membership
}

func SeedPerk(t testing.TB, db *gorm.DB, programID, name string, points int64, active bool) *models.PerkModel {
	t.Helper()
	perk := &models.PerkModel{
		ID:               uuid.NewString(),
		LoyaltyProgramID: programID,
		Name:             name,
		PointsRequired:   points,
		IsActive:         active,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := db.Create(perk).Error; err != nil {
		t.Fatalf("seed perk: %v", err)
	}
	return perk
}

// LedgerSum adds up the recorded point changes of one member in one program.
func LedgerSum(t testing.TB, db *gorm.DB, userID, programID string) int64 {
	t.Helper()
	var sum int64
	err := db.Model(&models.TransactionModel{}).
		Select("COALESCE(SUM(points_changed), 0)").
		Where("user_id = ? AND loyalty_program_id = ?", userID, programID).
		Scan(&sum).Error
	if err != nil {
		t.Fatalf("sum ledger: %v", err)
	}
	return sum
}

func Balance(t testing.TB, db *gorm.DB, userID, programID string) int64 {
	t.Helper()
	var m models.MembershipModel
	if err := db.First(&m, "user_id = ? AND loyalty_program_id = ?", userID, programID).Error; err != nil {
		t.Fatalf("load membership: %v", err)
	}
	return m.PointsBalance
}
