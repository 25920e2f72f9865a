package models

import "time"

// ChainOperationModel is the state of one ledger request against the chain.
type ChainOperationModel struct {
	ID                  string    `gorm:"primaryKey;type:uuid"`
	IdempotencyKey      string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_chain_operations_key"`
	StoreID             string    `gorm:"type:uuid;not null"`
	LoyaltyProgramID    string    `gorm:"type:uuid;not null"`
	ContractAddress     string    `gorm:"type:varchar(64);not null"`
	MemberWalletAddress string    `gorm:"type:varchar(64);not null"`
	UserID              *string   `gorm:"type:uuid"`
	PointsChanged       int64     `gorm:"not null"`
	ReservedPoints      int64     `gorm:"not null;default:0"`
	TransactionType     string    `gorm:"type:varchar(32);not null"`
	PerkID              *string   `gorm:"type:uuid"`
	Notes               string
	Status              string    `gorm:"type:varchar(16);not null;index:idx_chain_operations_status,priority:1"`
	TxHash              string    `gorm:"type:varchar(80);index:idx_chain_operations_hash"`
	FailureReason       string
	TransactionID       *string   `gorm:"type:uuid"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"index:idx_chain_operations_status,priority:2"`
}

func (ChainOperationModel) TableName() string {
	return "chain_operations"
}
