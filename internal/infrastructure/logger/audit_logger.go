package logger

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/models"
)

const (
	AuditLoginSucceeded   = "login_succeeded"
	AuditLoginFailed      = "login_failed"
	AuditAccountDeleted   = "account_deleted"
	AuditPointsAdjusted   = "points_adjusted"
	AuditOperationFailed  = "chain_operation_failed"
	AuditOperationUnknown = "chain_operation_unknown"
)

type AuditEvent struct {
	RequestID string
	Action    string
	ActorID   string
	SubjectID string
	Outcome   string
	Detail    string
	Timestamp time.Time
}

type AuditLogger interface {
	LogEvent(ctx context.Context, event AuditEvent) error
}

// PGAuditLogger appends audit events to the audit_events table.
type PGAuditLogger struct {
	db *gorm.DB
}

func NewPGAuditLogger(db *gorm.DB) *PGAuditLogger {
	return &PGAuditLogger{db: db}
}

func (l *PGAuditLogger) LogEvent(ctx context.Context, event AuditEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	return l.db.WithContext(ctx).Create(&models.AuditEventModel{
		RequestID: event.RequestID,
		Action:    event.Action,
		ActorID:   event.ActorID,
		SubjectID: event.SubjectID,
		Outcome:   event.Outcome,
		Detail:    event.Detail,
		Timestamp: event.Timestamp,
	}).Error
}
