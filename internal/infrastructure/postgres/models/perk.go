package models

import "time"

type PerkModel struct {
	ID               string `gorm:"primaryKey;type:uuid"`
	LoyaltyProgramID string `gorm:"type:uuid;not null;index:idx_perks_program"`
	Name             string `gorm:"not null"`
	Description      string
	PointsRequired   int64 `gorm:"not null"`
	IsActive         bool  `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (PerkModel) TableName() string {
	return "perks"
}
