package domain

import (
	"context"
	"time"
)

type Store struct {
	ID                   string
	OwnerID              string
	Name                 string
	Description          string
	Category             string
	TokenContractAddress string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// StoreDetails is a store together with its default program, when one exists.
type StoreDetails struct {
	Store
	DefaultProgramID string
}

type StorePatch struct {
	Name        *string
	Description *string
	Category    *string
}

func (p StorePatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Category == nil
}

type StoreRepository interface {
	CreateStore(ctx context.Context, store *Store) error
	GetStoreByID(ctx context.Context, id string) (*Store, error)
	GetStoreDetails(ctx context.Context, id string) (*StoreDetails, error)
	GetStoresByOwnerID(ctx context.Context, ownerID string) ([]*Store, error)
	ListStores(ctx context.Context) ([]*Store, error)
	UpdateStore(ctx context.Context, id string, patch StorePatch) (*Store, error)
	// DeleteStore cascades to programs and perks and fails with ErrStoreHasMembers
	// while any program still has members.
	DeleteStore(ctx context.Context, id string) error
}
