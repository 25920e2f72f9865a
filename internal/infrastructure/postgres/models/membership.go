package models

import "time"

type MembershipModel struct {
	ID               string    `gorm:"primaryKey;type:uuid"`
	UserID           string    `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_program,priority:1"`
	LoyaltyProgramID string    `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_program,priority:2;index:idx_memberships_program"`
	JoinDate         time.Time `gorm:"not null"`
	PointsBalance    int64     `gorm:"not null;default:0;check:chk_memberships_balance,points_balance >= 0"`
}

func (MembershipModel) TableName() string {
	return "memberships"
}
