package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hashperks/loyalty-service/internal/domain"
)

type MembershipUsecase interface {
	Join(ctx context.Context, p domain.Principal, programID string) (*domain.Membership, error)
	JoinDefault(ctx context.Context, p domain.Principal, storeID string) (*domain.Membership, error)
	ListMembers(ctx context.Context, p domain.Principal, programID string) ([]*domain.MemberSummary, error)
	ListMembersForStore(ctx context.Context, p domain.Principal, storeID string) ([]*domain.MemberSummary, error)
	ListProgramsForMember(ctx context.Context, p domain.Principal) ([]*domain.MemberProgram, error)
}

type DefaultMembershipUsecase struct {
	MembershipRepo domain.MembershipRepository
	ProgramRepo    domain.ProgramRepository
	StoreRepo      domain.StoreRepository
}

func NewDefaultMembershipUsecase(
	membershipRepo domain.MembershipRepository,
	programRepo domain.ProgramRepository,
	storeRepo domain.StoreRepository,
) *DefaultMembershipUsecase {
	return &DefaultMembershipUsecase{
		MembershipRepo: membershipRepo,
		ProgramRepo:    programRepo,
		StoreRepo:      storeRepo,
	}
}

func (uc *DefaultMembershipUsecase) Join(ctx context.Context, p domain.Principal, programID string) (*domain.Membership, error) {
	if p.UserID == "" {
		return nil, domain.ErrAuthMissing
	}
	program, err := uc.ProgramRepo.GetProgramByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	return uc.join(ctx, p.UserID, program.ID)
}

func (uc *DefaultMembershipUsecase) JoinDefault(ctx context.Context, p domain.Principal, storeID string) (*domain.Membership, error) {
	if p.UserID == "" {
		return nil, domain.ErrAuthMissing
	}
	if _, err := uc.StoreRepo.GetStoreByID(ctx, storeID); err != nil {
		return nil, err
	}
	program, err := uc.ProgramRepo.GetDefaultProgram(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return uc.join(ctx, p.UserID, program.ID)
}

func (uc *DefaultMembershipUsecase) join(ctx context.Context, userID, programID string) (*domain.Membership, error) {
	if _, err := uc.MembershipRepo.GetMembership(ctx, userID, programID); err == nil {
		return nil, domain.ErrAlreadyJoined
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	membership := &domain.Membership{
		ID:               uuid.New().String(),
		UserID:           userID,
		LoyaltyProgramID: programID,
		JoinDate:         time.Now().UTC(),
	}
	if err := uc.MembershipRepo.CreateMembership(ctx, membership); err != nil {
		return nil, err
	}
	return membership, nil
}

func (uc *DefaultMembershipUsecase) ListMembers(ctx context.Context, p domain.Principal, programID string) ([]*domain.MemberSummary, error) {
	program, err := uc.ProgramRepo.GetProgramByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if err := uc.requireStoreAccess(ctx, p, program.StoreID); err != nil {
		return nil, err
	}
	return uc.MembershipRepo.ListMembers(ctx, program.ID)
}

// ListMembersForStore lists the members of the store's default program.
func (uc *DefaultMembershipUsecase) ListMembersForStore(ctx context.Context, p domain.Principal, storeID string) ([]*domain.MemberSummary, error) {
	if err := uc.requireStoreAccess(ctx, p, storeID); err != nil {
		return nil, err
	}
	program, err := uc.ProgramRepo.GetDefaultProgram(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return uc.MembershipRepo.ListMembers(ctx, program.ID)
}

func (uc *DefaultMembershipUsecase) ListProgramsForMember(ctx context.Context, p domain.Principal) ([]*domain.MemberProgram, error) {
	if p.UserID == "" {
		return nil, domain.ErrAuthMissing
	}
	return uc.MembershipRepo.ListProgramsForUser(ctx, p.UserID)
}

func (uc *DefaultMembershipUsecase) requireStoreAccess(ctx context.Context, p domain.Principal, storeID string) error {
	store, err := uc.StoreRepo.GetStoreByID(ctx, storeID)
	if err != nil {
		return err
	}
	if p.IsAdmin() || p.Is(store.OwnerID) {
		return nil
	}
	return domain.Forbiddenf("only the store owner may list members")
}
