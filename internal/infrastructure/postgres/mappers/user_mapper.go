package mappers

import (
	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/models"
)

func ToGORMUser(user *domain.User) *models.UserModel {
	return &models.UserModel{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Username:      user.Username,
		PasswordHash:  user.PasswordHash,
		Role:          string(user.Role),
		WalletAddress: user.WalletAddress,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

func ToDomainUser(model *models.UserModel) *domain.User {
	return &domain.User{
		ID:            model.ID,
		Name:          model.Name,
		Email:         model.Email,
		Username:      model.Username,
		PasswordHash:  model.PasswordHash,
		Role:          domain.Role(model.Role),
		WalletAddress: model.WalletAddress,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
