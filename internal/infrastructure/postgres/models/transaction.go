package models

import "time"

// TransactionModel rows are never updated once written.
type TransactionModel struct {
	ID                  string    `gorm:"primaryKey;type:uuid"`
	StoreID             string    `gorm:"type:uuid;not null;index:idx_transactions_store_created,priority:1"`
	LoyaltyProgramID    string    `gorm:"type:uuid;not null;index:idx_transactions_program"`
	MemberWalletAddress string    `gorm:"type:varchar(64);not null"`
	UserID              *string   `gorm:"type:uuid;index:idx_transactions_user"`
	PointsChanged       int64     `gorm:"not null"`
	TransactionType     string    `gorm:"type:varchar(32);not null"`
	TransactionHash     string    `gorm:"type:varchar(80);not null;uniqueIndex:idx_transactions_hash"`
	PerkID              *string   `gorm:"type:uuid"`
	Notes               string
	CreatedAt           time.Time `gorm:"not null;index:idx_transactions_store_created,priority:2,sort:desc"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}
