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

type DefaultStoreRepository struct {
	DB *gorm.DB
}

func NewDefaultStoreRepository(db *gorm.DB) *DefaultStoreRepository {
	return &DefaultStoreRepository{
		DB: db,
	}
}

func (r *DefaultStoreRepository) CreateStore(ctx context.Context, store *domain.Store) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMStore(store)).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateContract
		}
		if isForeignKeyViolation(err) {
			return domain.NotFoundf("owner %s not found", store.OwnerID)
		}
		return fmt.Errorf("create store: %w", err)
	}
	return nil
}

func (r *DefaultStoreRepository) GetStoreByID(ctx context.Context, id string) (*domain.Store, error) {
	var model models.StoreModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NotFoundf("store %s not found", id)
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return mappers.ToDomainStore(&model), nil
}

func (r *DefaultStoreRepository) GetStoreDetails(ctx context.Context, id string) (*domain.StoreDetails, error) {
	store, err := r.GetStoreByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &domain.StoreDetails{Store: *store}
	var program models.LoyaltyProgramModel
	err = r.DB.WithContext(ctx).
		Where("store_id = ? AND is_default_for_store = ?", id, true).
		First(&program).Error
	switch {
	case err == nil:
		details.DefaultProgramID = program.ID
	case isNotFound(err):
	default:
		return nil, fmt.Errorf("get default program: %w", err)
	}
	return details, nil
}

func (r *DefaultStoreRepository) GetStoresByOwnerID(ctx context.Context, ownerID string) ([]*domain.Store, error) {
	var storeModels []*models.StoreModel
	if err := r.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Order("name ASC").Find(&storeModels).Error; err != nil {
		return nil, fmt.Errorf("get stores by owner: %w", err)
	}
	stores := make([]*domain.Store, len(storeModels))
	for i, m := range storeModels {
		stores[i] = mappers.ToDomainStore(m)
	}
	return stores, nil
}

func (r *DefaultStoreRepository) ListStores(ctx context.Context) ([]*domain.Store, error) {
	var storeModels []*models.StoreModel
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&storeModels).Error; err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	stores := make([]*domain.Store, len(storeModels))
	for i, m := range storeModels {
		stores[i] = mappers.ToDomainStore(m)
	}
	return stores, nil
}

func (r *DefaultStoreRepository) UpdateStore(ctx context.Context, id string, patch domain.StorePatch) (*domain.Store, error) {
	updates := map[string]any{"updated_at": time.Now()}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}

	res := r.DB.WithContext(ctx).Model(&models.StoreModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update store: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.NotFoundf("store %s not found", id)
	}
	return r.GetStoreByID(ctx, id)
}

func (r *DefaultStoreRepository) DeleteStore(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var store models.StoreModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&store, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return domain.NotFoundf("store %s not found", id)
			}
			return fmt.Errorf("lock store: %w", err)
		}

		var programIDs []string
		if err := tx.Model(&models.LoyaltyProgramModel{}).Where("store_id = ?", id).Pluck("id", &programIDs).Error; err != nil {
			return fmt.Errorf("list programs: %w", err)
		}
		if len(programIDs) > 0 {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id IN ?", programIDs).
				Find(&[]models.LoyaltyProgramModel{}).Error; err != nil {
				return fmt.Errorf("lock programs: %w", err)
			}
			var members int64
			if err := tx.Model(&models.MembershipModel{}).Where("loyalty_program_id IN ?", programIDs).Count(&members).Error; err != nil {
				return fmt.Errorf("count members: %w", err)
			}
			if members > 0 {
				return domain.ErrStoreHasMembers
			}
			if err := tx.Where("loyalty_program_id IN ?", programIDs).Delete(&models.PerkModel{}).Error; err != nil {
				return fmt.Errorf("delete perks: %w", err)
			}
			if err := tx.Where("store_id = ?", id).Delete(&models.LoyaltyProgramModel{}).Error; err != nil {
				return fmt.Errorf("delete programs: %w", err)
			}
		}

		if err := tx.Delete(&models.StoreModel{}, "id = ?", id).Error; err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrStoreHasMembers
			}
			return fmt.Errorf("delete store: %w", err)
		}
		return nil
	})
}
