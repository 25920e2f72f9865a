package models

import "time"

type UserModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	Name          string `gorm:"not null"`
	Email         string `gorm:"not null;uniqueIndex:idx_users_email"`
	Username      string `gorm:"not null;uniqueIndex:idx_users_username"`
	PasswordHash  string `gorm:"not null"`
	Role          string `gorm:"type:varchar(32);not null"`
	WalletAddress string `gorm:"type:varchar(64);index:idx_users_wallet"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (UserModel) TableName() string {
	return "users"
}
