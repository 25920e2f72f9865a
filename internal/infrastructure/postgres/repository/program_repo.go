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

type DefaultProgramRepository struct {
	DB *gorm.DB
}

func NewDefaultProgramRepository(db *gorm.DB) *DefaultProgramRepository {
	return &DefaultProgramRepository{
		DB: db,
	}
}

func (r *DefaultProgramRepository) CreateProgram(ctx context.Context, program *domain.LoyaltyProgram) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMProgram(program)).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDefaultProgramExists
		}
		if isForeignKeyViolation(err) {
			return domain.NotFoundf("store %s not found", program.StoreID)
		}
		return fmt.Errorf("create loyalty program: %w", err)
	}
	return nil
}

func (r *DefaultProgramRepository) GetProgramByID(ctx context.Context, id string) (*domain.LoyaltyProgram, error) {
	var model models.LoyaltyProgramModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NotFoundf("loyalty program %s not found", id)
		}
		return nil, fmt.Errorf("get loyalty program: %w", err)
	}
	return mappers.ToDomainProgram(&model), nil
}

func (r *DefaultProgramRepository) GetDefaultProgram(ctx context.Context, storeID string) (*domain.LoyaltyProgram, error) {
	var model models.LoyaltyProgramModel
	err := r.DB.WithContext(ctx).
		Where("store_id = ? AND is_default_for_store = ?", storeID, true).
		First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, domain.NotFoundf("store %s has no default loyalty program", storeID)
		}
		return nil, fmt.Errorf("get default program: %w", err)
	}
	return mappers.ToDomainProgram(&model), nil
}

func (r *DefaultProgramRepository) ListProgramsByStore(ctx context.Context, storeID string) ([]*domain.LoyaltyProgram, error) {
	var programModels []*models.LoyaltyProgramModel
	err := r.DB.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("is_default_for_store DESC").
		Order("name ASC").
		Find(&programModels).Error
	if err != nil {
		return nil, fmt.Errorf("list loyalty programs: %w", err)
	}
	programs := make([]*domain.LoyaltyProgram, len(programModels))
	for i, m := range programModels {
		programs[i] = mappers.ToDomainProgram(m)
	}
	return programs, nil
}

// UpdateProgram writes only the fields present in the patch, in one statement.
func (r *DefaultProgramRepository) UpdateProgram(ctx context.Context, id string, patch domain.ProgramPatch) (*domain.LoyaltyProgram, error) {
	updates := map[string]any{"updated_at": time.Now()}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.PointsConversionRate != nil {
		updates["points_conversion_rate"] = *patch.PointsConversionRate
	}

	res := r.DB.WithContext(ctx).Model(&models.LoyaltyProgramModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update loyalty program: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.NotFoundf("loyalty program %s not found", id)
	}
	return r.GetProgramByID(ctx, id)
}

// DeleteProgram locks the program row so a concurrent join cannot slip in
// between the member count and the delete.
func (r *DefaultProgramRepository) DeleteProgram(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var program models.LoyaltyProgramModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&program, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return domain.NotFoundf("loyalty program %s not found", id)
			}
			return fmt.Errorf("lock loyalty program: %w", err)
		}

		var members int64
		if err := tx.Model(&models.MembershipModel{}).Where("loyalty_program_id = ?", id).Count(&members).Error; err != nil {
			return fmt.Errorf("count members: %w", err)
		}
		if members > 0 {
			return domain.ErrProgramHasMembers
		}

		if err := tx.Where("loyalty_program_id = ?", id).Delete(&models.PerkModel{}).Error; err != nil {
			return fmt.Errorf("delete perks: %w", err)
		}
		if err := tx.Delete(&models.LoyaltyProgramModel{}, "id = ?", id).Error; err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrProgramHasMembers
			}
			return fmt.Errorf("delete loyalty program: %w", err)
		}
		return nil
	})
}
