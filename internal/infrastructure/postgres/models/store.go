package models

import "time"

type StoreModel struct {
	ID                   string `gorm:"primaryKey;type:uuid"`
	OwnerID              string `gorm:"type:uuid;not null;index:idx_stores_owner"`
	Name                 string `gorm:"not null"`
	Description          string
	Category             string `gorm:"index:idx_stores_category"`
	TokenContractAddress string `gorm:"type:varchar(64);not null;uniqueIndex:idx_stores_contract"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (StoreModel) TableName() string {
	return "stores"
}
