package domain

import (
	"context"
	"time"
)

type Membership struct {
	ID               string
	UserID           string
	LoyaltyProgramID string
	JoinDate         time.Time
	PointsBalance    int64
}

// MemberSummary is one row of a program's member list.
type MemberSummary struct {
	UserID        string
	Username      string
	Email         string
	WalletAddress string
	JoinDate      time.Time
	PointsBalance int64
}

// MemberProgram is one program the caller belongs to, with its store.
type MemberProgram struct {
	MembershipID         string
	StoreID              string
	StoreName            string
	StoreCategory        string
	StoreOwnerUsername   string
	TokenContractAddress string
	LoyaltyProgramID     string
	ProgramName          string
	PointsConversionRate float64
	JoinDate             time.Time
	PointsBalance        int64
}

type MembershipRepository interface {
	// CreateMembership returns ErrAlreadyJoined on a duplicate (user, program) pair.
	CreateMembership(ctx context.Context, membership *Membership) error
	GetMembership(ctx context.Context, userID, programID string) (*Membership, error)
	ListMembers(ctx context.Context, programID string) ([]*MemberSummary, error)
	ListProgramsForUser(ctx context.Context, userID string) ([]*MemberProgram, error)
}
