package mappers

import (
	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/models"
)

func ToGORMProgram(program *domain.LoyaltyProgram) *models.LoyaltyProgramModel {
	return &models.LoyaltyProgramModel{
		ID:                   program.ID,
		StoreID:              program.StoreID,
		Name:                 program.Name,
		Description:          program.Description,
		PointsConversionRate: program.PointsConversionRate,
		IsDefaultForStore:    program.IsDefaultForStore,
		CreatedAt:            program.CreatedAt,
		UpdatedAt:            program.UpdatedAt,
	}
}

func ToDomainProgram(model *models.LoyaltyProgramModel) *domain.LoyaltyProgram {
	return &domain.LoyaltyProgram{
		ID:                   model.ID,
		StoreID:              model.StoreID,
		Name:                 model.Name,
		Description:          model.Description,
		PointsConversionRate: model.PointsConversionRate,
		IsDefaultForStore:    model.IsDefaultForStore,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	}
}

func ToGORMPerk(perk *domain.Perk) *models.PerkModel {
	return &models.PerkModel{
		ID:               perk.ID,
		LoyaltyProgramID: perk.LoyaltyProgramID,
		Name:             perk.Name,
		Description:      perk.Description,
		PointsRequired:   perk.PointsRequired,
		IsActive:         perk.IsActive,
		CreatedAt:        perk.CreatedAt,
		UpdatedAt:        perk.UpdatedAt,
	}
}

func ToDomainPerk(model *models.PerkModel) *domain.Perk {
	return &domain.Perk{
		ID:               model.ID,
		LoyaltyProgramID: model.LoyaltyProgramID,
		Name:             model.Name,
		Description:      model.Description,
		PointsRequired:   model.PointsRequired,
		IsActive:         model.IsActive,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMMembership(m *domain.Membership) *models.MembershipModel {
	return &models.MembershipModel{
		ID:               m.ID,
		UserID:           m.UserID,
		LoyaltyProgramID: m.LoyaltyProgramID,
		JoinDate:         m.JoinDate,
		PointsBalance:    m.PointsBalance,
	}
}

func ToDomainMembership(model *models.MembershipModel) *domain.Membership {
	return &domain.Membership{
		ID:               model.ID,
		UserID:           model.UserID,
		LoyaltyProgramID: model.LoyaltyProgramID,
		JoinDate:         model.JoinDate,
		PointsBalance:    model.PointsBalance,
	}
}
