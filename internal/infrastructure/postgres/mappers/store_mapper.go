package mappers

import (
	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/models"
)

func ToGORMStore(store *domain.Store) *models.StoreModel {
	return &models.StoreModel{
		ID:                   store.ID,
		OwnerID:              store.OwnerID,
		Name:                 store.Name,
		Description:          store.Description,
		Category:             store.Category,
		TokenContractAddress: store.TokenContractAddress,
		CreatedAt:            store.CreatedAt,
		UpdatedAt:            store.UpdatedAt,
	}
}

func ToDomainStore(model *models.StoreModel) *domain.Store {
	return &domain.Store{
		ID:                   model.ID,
		OwnerID:              model.OwnerID,
		Name:                 model.Name,
		Description:          model.Description,
		Category:             model.Category,
		TokenContractAddress: model.TokenContractAddress,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	}
}
