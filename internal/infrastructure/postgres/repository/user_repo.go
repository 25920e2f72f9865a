package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/mappers"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultUserRepository struct {
	DB *gorm.DB
}

func NewDefaultUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{
		DB: db,
	}
}

func (r *DefaultUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMUser(user)).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateAccount
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *DefaultUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var model models.UserModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NotFoundf("user %s not found", id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return mappers.ToDomainUser(&model), nil
}

func (r *DefaultUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model models.UserModel
	if err := r.DB.WithContext(ctx).First(&model, "email = ?", email).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NotFoundf("user with email %s not found", email)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return mappers.ToDomainUser(&model), nil
}

func (r *DefaultUserRepository) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	updates := map[string]any{"updated_at": time.Now()}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.WalletAddress != nil {
		updates["wallet_address"] = *patch.WalletAddress
	}

	res := r.DB.WithContext(ctx).Model(&models.UserModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.NotFoundf("user %s not found", id)
	}
	return r.GetUserByID(ctx, id)
}

func (r *DefaultUserRepository) DeleteUser(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.UserModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return domain.NotFoundf("user %s not found", id)
			}
			return fmt.Errorf("lock user: %w", err)
		}

		var stores, memberships int64
		if err := tx.Model(&models.StoreModel{}).Where("owner_id = ?", id).Count(&stores).Error; err != nil {
			return fmt.Errorf("count stores: %w", err)
		}
		if err := tx.Model(&models.MembershipModel{}).Where("user_id = ?", id).Count(&memberships).Error; err != nil {
			return fmt.Errorf("count memberships: %w", err)
		}
		if stores > 0 || memberships > 0 {
			return domain.ErrAccountInUse
		}

		if err := tx.Delete(&models.UserModel{}, "id = ?", id).Error; err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrAccountInUse
			}
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}
