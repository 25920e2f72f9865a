package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hashperks/loyalty-service/internal/domain"
	programdto "github.com/hashperks/loyalty-service/internal/usecase/dto/program"
)

type ProgramUsecase interface {
	CreateDefaultProgram(ctx context.Context, p domain.Principal, input *programdto.CreateProgramInput) (*domain.LoyaltyProgram, error)
	GetDefaultProgram(ctx context.Context, storeID string) (*domain.LoyaltyProgram, error)
	GetProgram(ctx context.Context, id string) (*domain.LoyaltyProgram, error)
	ListProgramsForStore(ctx context.Context, storeID string) ([]*domain.LoyaltyProgram, error)
	UpdateProgram(ctx context.Context, p domain.Principal, id string, patch domain.ProgramPatch) (*domain.LoyaltyProgram, error)
	DeleteProgram(ctx context.Context, p domain.Principal, id string) error
}

type DefaultProgramUsecase struct {
	ProgramRepo domain.ProgramRepository
	StoreRepo   domain.StoreRepository
	Guard       Guard
}

func NewDefaultProgramUsecase(
	programRepo domain.ProgramRepository,
	storeRepo domain.StoreRepository,
	guard Guard,
) *DefaultProgramUsecase {
	return &DefaultProgramUsecase{
		ProgramRepo: programRepo,
		StoreRepo:   storeRepo,
		Guard:       guard,
	}
}

func (uc *DefaultProgramUsecase) CreateDefaultProgram(ctx context.Context, p domain.Principal, input *programdto.CreateProgramInput) (*domain.LoyaltyProgram, error) {
	if err := uc.Guard.RequireRole(p, domain.RoleStoreOwner); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.Validationf("program name is required")
	}
	rate := domain.DefaultConversionRate
	if input.PointsConversionRate != nil {
		rate = *input.PointsConversionRate
	}
	if err := validateConversionRate(rate); err != nil {
		return nil, err
	}

	store, err := uc.StoreRepo.GetStoreByID(ctx, input.StoreID)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.RequireOwnership(p, store.OwnerID); err != nil {
		return nil, err
	}

	// The lookup gives a clean error in the common case; the partial unique
	// index still decides concurrent creations.
	if _, err := uc.ProgramRepo.GetDefaultProgram(ctx, store.ID); err == nil {
		return nil, domain.ErrDefaultProgramExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	program := &domain.LoyaltyProgram{
		ID:                   uuid.New().String(),
		StoreID:              store.ID,
		Name:                 name,
		Description:          strings.TrimSpace(input.Description),
		PointsConversionRate: rate,
		IsDefaultForStore:    true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.ProgramRepo.CreateProgram(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

func (uc *DefaultProgramUsecase) GetDefaultProgram(ctx context.Context, storeID string) (*domain.LoyaltyProgram, error) {
	return uc.ProgramRepo.GetDefaultProgram(ctx, storeID)
}

func (uc *DefaultProgramUsecase) GetProgram(ctx context.Context, id string) (*domain.LoyaltyProgram, error) {
	return uc.ProgramRepo.GetProgramByID(ctx, id)
}

func (uc *DefaultProgramUsecase) ListProgramsForStore(ctx context.Context, storeID string) ([]*domain.LoyaltyProgram, error) {
	if _, err := uc.StoreRepo.GetStoreByID(ctx, storeID); err != nil {
		return nil, err
	}
	return uc.ProgramRepo.ListProgramsByStore(ctx, storeID)
}

func (uc *DefaultProgramUsecase) UpdateProgram(ctx context.Context, p domain.Principal, id string, patch domain.ProgramPatch) (*domain.LoyaltyProgram, error) {
	if patch.Empty() {
		return nil, domain.ErrEmptyPatch
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.Validationf("program name cannot be empty")
	}
	if patch.PointsConversionRate != nil {
		if err := validateConversionRate(*patch.PointsConversionRate); err != nil {
			return nil, err
		}
	}
	if _, err := uc.ownedProgram(ctx, p, id); err != nil {
		return nil, err
	}
	return uc.ProgramRepo.UpdateProgram(ctx, id, patch)
}

func (uc *DefaultProgramUsecase) DeleteProgram(ctx context.Context, p domain.Principal, id string) error {
	if _, err := uc.ownedProgram(ctx, p, id); err != nil {
		return err
	}
	return uc.ProgramRepo.DeleteProgram(ctx, id)
}

func (uc *DefaultProgramUsecase) ownedProgram(ctx context.Context, p domain.Principal, id string) (*domain.LoyaltyProgram, error) {
	program, err := uc.ProgramRepo.GetProgramByID(ctx, id)
	if err != nil {
		return nil, err
	}
	store, err := uc.StoreRepo.GetStoreByID(ctx, program.StoreID)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.RequireOwnership(p, store.OwnerID); err != nil {
		return nil, err
	}
	return program, nil
}

// Bounds of the NUMERIC(10, 2) points_conversion_rate column.
const (
	minConversionRate = 0.01
	maxConversionRate = 99999999.99
)

func validateConversionRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return domain.Validationf("points conversion rate must be positive")
	}
	if rate < minConversionRate || rate > maxConversionRate {
		return domain.Validationf("points conversion rate must be between %.2f and %.2f", minConversionRate, maxConversionRate)
	}
	cents := rate * 100
	if math.Abs(cents-math.Round(cents)) > 1e-12*cents {
		return domain.Validationf("points conversion rate allows at most 2 decimal places")
	}
	return nil
}
