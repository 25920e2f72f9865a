package models

import "time"

type LoyaltyProgramModel struct {
	ID                   string  `gorm:"primaryKey;type:uuid"`
	StoreID              string  `gorm:"type:uuid;not null;index:idx_loyalty_programs_store;uniqueIndex:idx_loyalty_programs_default_store,where:is_default_for_store = true"`
	Name                 string  `gorm:"not null"`
	Description          string
	PointsConversionRate float64 `gorm:"type:numeric(10,2);not null"`
	IsDefaultForStore    bool    `gorm:"not null"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (LoyaltyProgramModel) TableName() string {
	return "loyalty_programs"
}
