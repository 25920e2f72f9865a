package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/hashperks/loyalty-service/internal/domain"
	storedto "github.com/hashperks/loyalty-service/internal/usecase/dto/store"
)

type StoreUsecase interface {
	CreateStore(ctx context.Context, p domain.Principal, input *storedto.CreateStoreInput) (*domain.Store, error)
	ListStores(ctx context.Context) ([]*domain.Store, error)
	GetStore(ctx context.Context, id string) (*domain.StoreDetails, error)
	GetMyStores(ctx context.Context, p domain.Principal) ([]*domain.Store, error)
	UpdateStore(ctx context.Context, p domain.Principal, id string, patch domain.StorePatch) (*domain.Store, error)
	DeleteStore(ctx context.Context, p domain.Principal, id string) error
}

type DefaultStoreUsecase struct {
	StoreRepo domain.StoreRepository
	Guard     Guard
}

func NewDefaultStoreUsecase(storeRepo domain.StoreRepository, guard Guard) *DefaultStoreUsecase {
	return &DefaultStoreUsecase{
		StoreRepo: storeRepo,
		Guard:     guard,
	}
}

func (uc *DefaultStoreUsecase) CreateStore(ctx context.Context, p domain.Principal, input *storedto.CreateStoreInput) (*domain.Store, error) {
	if err := uc.Guard.RequireRole(p, domain.RoleStoreOwner); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.Validationf("store name is required")
	}
	contract := strings.TrimSpace(input.TokenContractAddress)
	if contract == "" {
		return nil, domain.Validationf("token contract address is required")
	}
	if !common.IsHexAddress(contract) {
		return nil, domain.Validationf("token contract address must be a 0x-prefixed EVM address")
	}

	now := time.Now().UTC()
	store := &domain.Store{
		ID:                   uuid.New().String(),
		OwnerID:              p.UserID,
		Name:                 name,
		Description:          strings.TrimSpace(input.Description),
		Category:             strings.TrimSpace(input.Category),
		TokenContractAddress: common.HexToAddress(contract).Hex(),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.StoreRepo.CreateStore(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (uc *DefaultStoreUsecase) ListStores(ctx context.Context) ([]*domain.Store, error) {
	return uc.StoreRepo.ListStores(ctx)
}

func (uc *DefaultStoreUsecase) GetStore(ctx context.Context, id string) (*domain.StoreDetails, error) {
	return uc.StoreRepo.GetStoreDetails(ctx, id)
}

func (uc *DefaultStoreUsecase) GetMyStores(ctx context.Context, p domain.Principal) ([]*domain.Store, error) {
	if err := uc.Guard.RequireRole(p, domain.RoleStoreOwner); err != nil {
		return nil, err
	}
	return uc.StoreRepo.GetStoresByOwnerID(ctx, p.UserID)
}

func (uc *DefaultStoreUsecase) UpdateStore(ctx context.Context, p domain.Principal, id string, patch domain.StorePatch) (*domain.Store, error) {
	if patch.Empty() {
		return nil, domain.ErrEmptyPatch
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.Validationf("store name cannot be empty")
	}
	store, err := uc.StoreRepo.GetStoreByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.RequireOwnership(p, store.OwnerID); err != nil {
		return nil, err
	}
	return uc.StoreRepo.UpdateStore(ctx, id, patch)
}

func (uc *DefaultStoreUsecase) DeleteStore(ctx context.Context, p domain.Principal, id string) error {
	store, err := uc.StoreRepo.GetStoreByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.Guard.RequireOwnership(p, store.OwnerID); err != nil {
		return err
	}
	return uc.StoreRepo.DeleteStore(ctx, id)
}
