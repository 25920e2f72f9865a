package domain

import (
	"context"
	"time"
)

type TransactionType string

const (
	TransactionEarn            TransactionType = "earn"
	TransactionRedeemPerk      TransactionType = "redeem_perk"
	TransactionRedeemGeneral   TransactionType = "redeem_general"
	TransactionAdminAdjustment TransactionType = "admin_adjustment"
)

func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case TransactionEarn, TransactionRedeemPerk, TransactionRedeemGeneral, TransactionAdminAdjustment:
		return t, nil
	}
	return "", Validationf("unknown transaction type %q", s)
}

func (t TransactionType) IsRedemption() bool {
	return t == TransactionRedeemPerk || t == TransactionRedeemGeneral
}

// CheckPoints enforces the sign of points_changed for the type.
func (t TransactionType) CheckPoints(points int64) error {
	switch {
	case t == TransactionEarn && points <= 0:
		return Validationf("earn transactions must add points")
	case t.IsRedemption() && points >= 0:
		return Validationf("redeem transactions must remove points")
	case t == TransactionAdminAdjustment && points == 0:
		return Validationf("adjustments must change the balance")
	}
	return nil
}

// Transaction is an immutable ledger row mirroring one confirmed chain operation.
type Transaction struct {
	ID                  string
	StoreID             string
	LoyaltyProgramID    string
	MemberWalletAddress string
	UserID              string
	PointsChanged       int64
	Type                TransactionType
	TransactionHash     string
	PerkID              string
	Notes               string
	CreatedAt           time.Time
}

type TransactionView struct {
	Transaction
	MemberUsername string
	PerkName       string
}

type ChainOpStatus string

const (
	ChainOpPending   ChainOpStatus = "pending"
	ChainOpConfirmed ChainOpStatus = "confirmed"
	ChainOpFailed    ChainOpStatus = "failed"
	ChainOpUnknown   ChainOpStatus = "unknown"
)

func (s ChainOpStatus) Settled() bool {
	return s == ChainOpConfirmed || s == ChainOpFailed
}

// ChainOperation tracks one ledger request while its chain call is in flight.
type ChainOperation struct {
	ID                  string
	IdempotencyKey      string
	StoreID             string
	LoyaltyProgramID    string
	ContractAddress     string
	MemberWalletAddress string
	UserID              string
	PointsChanged       int64
	ReservedPoints      int64
	Type                TransactionType
	PerkID              string
	Notes               string
	Status              ChainOpStatus
	TxHash              string
	FailureReason       string
	TransactionID       string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Transaction builds the ledger row the operation produces once confirmed.
func (op *ChainOperation) Transaction(id string, at time.Time) *Transaction {
	return &Transaction{
		ID:                  id,
		StoreID:             op.StoreID,
		LoyaltyProgramID:    op.LoyaltyProgramID,
		MemberWalletAddress: op.MemberWalletAddress,
		UserID:              op.UserID,
		PointsChanged:       op.PointsChanged,
		Type:                op.Type,
		TransactionHash:     op.TxHash,
		PerkID:              op.PerkID,
		Notes:               op.Notes,
		CreatedAt:           at,
	}
}

type TokenBalance struct {
	UserID          string
	WalletAddress   string
	ContractAddress string
	Balance         int64
}

type LedgerRepository interface {
	BeginTx(ctx context.Context) (LedgerTxRepository, error)
	GetOperationByIdempotencyKey(ctx context.Context, key string) (*ChainOperation, error)
	// ListOperationsToReconcile returns unknown operations and pending ones last touched before the cutoff.
	ListOperationsToReconcile(ctx context.Context, cutoff time.Time, limit int) ([]*ChainOperation, error)
	GetTransactionByID(ctx context.Context, id string) (*Transaction, error)
	GetTransactionByHash(ctx context.Context, hash string) (*Transaction, error)
	ListTransactionsByStore(ctx context.Context, storeID string) ([]*TransactionView, error)
	ListTransactionsForMember(ctx context.Context, userID, programID string) ([]*TransactionView, error)
}

// LedgerTxRepository is a single database transaction over ledger state.
type LedgerTxRepository interface {
	CreateOperation(op *ChainOperation) error
	LockOperation(id string) (*ChainOperation, error)
	SaveOperation(op *ChainOperation) error
	// InsertTransaction returns ErrDuplicateTransaction when the hash is already recorded.
	InsertTransaction(tx *Transaction) error
	// ApplyBalanceDelta changes a membership balance in one statement. Negative
	// deltas never take the balance below zero; ErrInsufficientBalance is returned instead.
	ApplyBalanceDelta(userID, programID string, delta int64) error
	Commit() error
	Rollback() error
}
