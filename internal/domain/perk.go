package domain

import (
	"context"
	"time"
)

type Perk struct {
	ID               string
	LoyaltyProgramID string
	Name             string
	Description      string
	PointsRequired   int64
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type PerkPatch struct {
	Name           *string
	Description    *string
	PointsRequired *int64
	IsActive       *bool
}

func (p PerkPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.PointsRequired == nil && p.IsActive == nil
}

type PerkRepository interface {
	CreatePerk(ctx context.Context, perk *Perk) error
	GetPerkByID(ctx context.Context, id string) (*Perk, error)
	// ListPerks orders by points required, then name.
	ListPerks(ctx context.Context, programID string) ([]*Perk, error)
	UpdatePerk(ctx context.Context, id string, patch PerkPatch) (*Perk, error)
}
