package models

import "time"

type AuditEventModel struct {
	ID        uint   `gorm:"primaryKey"`
	RequestID string `gorm:"type:varchar(64)"`
	Action    string `gorm:"type:varchar(64);not null;index"`
	ActorID   string `gorm:"type:varchar(64)"`
	SubjectID string `gorm:"type:varchar(64);index"`
	Outcome   string `gorm:"type:varchar(16);not null"`
	Detail    string `gorm:"type:text"`
	Timestamp time.Time
}

func (AuditEventModel) TableName() string {
	return "audit_events"
}
