package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hashperks/loyalty-service/internal/domain"
	perkdto "github.com/hashperks/loyalty-service/internal/usecase/dto/perk"
)

type PerkUsecase interface {
	ListPerks(ctx context.Context, programID string) ([]*domain.Perk, error)
	CreatePerk(ctx context.Context, p domain.Principal, input *perkdto.CreatePerkInput) (*domain.Perk, error)
	UpdatePerk(ctx context.Context, p domain.Principal, perkID string, patch domain.PerkPatch) (*domain.Perk, error)
}

type DefaultPerkUsecase struct {
	PerkRepo    domain.PerkRepository
	ProgramRepo domain.ProgramRepository
	StoreRepo   domain.StoreRepository
	Guard       Guard
}

func NewDefaultPerkUsecase(
	perkRepo domain.PerkRepository,
	programRepo domain.ProgramRepository,
	storeRepo domain.StoreRepository,
	guard Guard,
) *DefaultPerkUsecase {
	return &DefaultPerkUsecase{
		PerkRepo:    perkRepo,
		ProgramRepo: programRepo,
		StoreRepo:   storeRepo,
		Guard:       guard,
	}
}

func (uc *DefaultPerkUsecase) ListPerks(ctx context.Context, programID string) ([]*domain.Perk, error) {
	if _, err := uc.ProgramRepo.GetProgramByID(ctx, programID); err != nil {
		return nil, err
	}
	return uc.PerkRepo.ListPerks(ctx, programID)
}

func (uc *DefaultPerkUsecase) CreatePerk(ctx context.Context, p domain.Principal, input *perkdto.CreatePerkInput) (*domain.Perk, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.Validationf("perk name is required")
	}
	if input.PointsRequired <= 0 {
		return nil, domain.Validationf("points required must be positive")
	}
	if err := uc.requireProgramOwner(ctx, p, input.LoyaltyProgramID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	perk := &domain.Perk{
		ID:               uuid.New().String(),
		LoyaltyProgramID: input.LoyaltyProgramID,
		Name:             name,
		Description:      strings.TrimSpace(input.Description),
		PointsRequired:   input.PointsRequired,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.PerkRepo.CreatePerk(ctx, perk); err != nil {
		return nil, err
	}
	return perk, nil
}

func (uc *DefaultPerkUsecase) UpdatePerk(ctx context.Context, p domain.Principal, perkID string, patch domain.PerkPatch) (*domain.Perk, error) {
	if patch.Empty() {
		return nil, domain.ErrEmptyPatch
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.Validationf("perk name cannot be empty")
	}
	if patch.PointsRequired != nil && *patch.PointsRequired <= 0 {
		return nil, domain.Validationf("points required must be positive")
	}
	perk, err := uc.PerkRepo.GetPerkByID(ctx, perkID)
	if err != nil {
		return nil, err
	}
	if err := uc.requireProgramOwner(ctx, p, perk.LoyaltyProgramID); err != nil {
		return nil, err
	}
	return uc.PerkRepo.UpdatePerk(ctx, perkID, patch)
}

func (uc *DefaultPerkUsecase) requireProgramOwner(ctx context.Context, p domain.Principal, programID string) error {
	program, err := uc.ProgramRepo.GetProgramByID(ctx, programID)
	if err != nil {
		return err
	}
	store, err := uc.StoreRepo.GetStoreByID(ctx, program.StoreID)
	if err != nil {
		return err
	}
	return uc.Guard.RequireOwnership(p, store.OwnerID)
}
