package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/mappers"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPerkRepository struct {
	DB *gorm.DB
}

func NewDefaultPerkRepository(db *gorm.DB) *DefaultPerkRepository {
	return &DefaultPerkRepository{
		DB: db,
	}
}

func (r *DefaultPerkRepository) CreatePerk(ctx context.Context, perk *domain.Perk) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMPerk(perk)).Error; err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFoundf("loyalty program %s not found", perk.LoyaltyProgramID)
		}
		return fmt.Errorf("create perk: %w", err)
	}
	return nil
}

func (r *DefaultPerkRepository) GetPerkByID(ctx context.Context, id string) (*domain.Perk, error) {
	var model models.PerkModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NotFoundf("perk %s not found", id)
		}
		return nil, fmt.Errorf("get perk: %w", err)
	}
	return mappers.ToDomainPerk(&model), nil
}

func (r *DefaultPerkRepository) ListPerks(ctx context.Context, programID string) ([]*domain.Perk, error) {
	var perkModels []*models.PerkModel
	err := r.DB.WithContext(ctx).
		Where("loyalty_program_id = ?", programID).
		Order("points_required ASC").
		Order("name ASC").
		Find(&perkModels).Error
	if err != nil {
		return nil, fmt.Errorf("list perks: %w", err)
	}
	perks := make([]*domain.Perk, len(perkModels))
	for i, m := range perkModels {
		perks[i] = mappers.ToDomainPerk(m)
	}
	return perks, nil
}

func (r *DefaultPerkRepository) UpdatePerk(ctx context.Context, id string, patch domain.PerkPatch) (*domain.Perk, error) {
	updates := map[string]any{"updated_at": time.Now()}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.PointsRequired != nil {
		updates["points_required"] = *patch.PointsRequired
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}

	res := r.DB.WithContext(ctx).Model(&models.PerkModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update perk: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.NotFoundf("perk %s not found", id)
	}
	return r.GetPerkByID(ctx, id)
}
