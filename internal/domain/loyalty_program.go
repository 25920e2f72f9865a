package domain

import (
	"context"
	"time"
)

const DefaultConversionRate = 1.0

type LoyaltyProgram struct {
	ID                   string
	StoreID              string
	Name                 string
	Description          string
	PointsConversionRate float64
	IsDefaultForStore    bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ProgramPatch lists the fields an owner may change. The default flag is not one of them.
type ProgramPatch struct {
	Name                 *string
	Description          *string
	PointsConversionRate *float64
}

func (p ProgramPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.PointsConversionRate == nil
}

type ProgramRepository interface {
	// CreateProgram returns ErrDefaultProgramExists when the store already has a default.
	CreateProgram(ctx context.Context, program *LoyaltyProgram) error
	GetProgramByID(ctx context.Context, id string) (*LoyaltyProgram, error)
	GetDefaultProgram(ctx context.Context, storeID string) (*LoyaltyProgram, error)
	ListProgramsByStore(ctx context.Context, storeID string) ([]*LoyaltyProgram, error)
	UpdateProgram(ctx context.Context, id string, patch ProgramPatch) (*LoyaltyProgram, error)
	// DeleteProgram removes the program with its perks, or returns ErrProgramHasMembers.
	DeleteProgram(ctx context.Context, id string) error
}
