package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/models"
	"github.com/hashperks/loyalty-service/internal/testutil"
)

func TestHandler_RenamesAndRedacts(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf))

	l.Info("login attempt", "email", "a@b.c", "password", "hunter2", "private_key", "")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "login attempt", line["message"])
	assert.Equal(t, "INFO", line["severity"])
	assert.Contains(t, line, "timestamp")
	assert.Equal(t, "a@b.c", line["email"])
	assert.Equal(t, redacted, line["password"])
	assert.Equal(t, "", line["private_key"])
}

func TestPGAuditLogger_LogEvent(t *testing.T) {
	db := testutil.NewTestDB(t)
	audit := NewPGAuditLogger(db)

	require.NoError(t, audit.LogEvent(context.Background(), AuditEvent{
		Action:    AuditLoginFailed,
		SubjectID: "user-1",
		Outcome:   "denied",
	}))

	var rows []models.AuditEventModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, AuditLoginFailed, rows[0].Action)
	assert.False(t, rows[0].Timestamp.IsZero())
}
