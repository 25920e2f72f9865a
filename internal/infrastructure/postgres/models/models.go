package models

import "gorm.io/gorm"

// AutoMigrate creates the schema directly from the models. Production databases
// are migrated with the SQL files instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&StoreModel{},
		&LoyaltyProgramModel{},
		&MembershipModel{},
		&PerkModel{},
		&TransactionModel{},
		&ChainOperationModel{},
		&AuditEventModel{},
	)
}
