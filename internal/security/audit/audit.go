// Package audit emits structured audit records for staff actions. Records
// go to the structured log, not a separate store; log shipping owns
// retention.
package audit

import (
	"context"
	"log/slog"
	"time"
)

type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

// LogAction records one staff action against a resource.
func (al *Logger) LogAction(ctx context.Context, tenantID, userID, action, resource, resourceID, details string) {
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("tenant_id", tenantID),
		slog.String("user_id", userID),
		slog.String("details", details),
		slog.Time("timestamp", time.Now()),
	)
}

// LogRequest records an inbound staff mutation before it is handled.
func (al *Logger) LogRequest(ctx context.Context, tenantID, userID, method, path string) {
	al.LogAction(ctx, tenantID, userID, "request", "http", "", method+" "+path)
}

// LogStageChange records a pipeline stage transition.
func (al *Logger) LogStageChange(ctx context.Context, tenantID, userID, applicationID, from, to string) {
	al.LogAction(ctx, tenantID, userID, "stage_change", "application", applicationID, from+" -> "+to)
}

// LogNotesUpdate records a recruiter notes edit.
func (al *Logger) LogNotesUpdate(ctx context.Context, tenantID, userID, applicationID string) {
	al.LogAction(ctx, tenantID, userID, "notes_update", "application", applicationID, "")
}

// LogJobChange records a posting create or update.
func (al *Logger) LogJobChange(ctx context.Context, tenantID, userID, jobID, verb string) {
	al.LogAction(ctx, tenantID, userID, verb, "job", jobID, "")
}

// LogSlotCreate records a proposed interview slot.
func (al *Logger) LogSlotCreate(ctx context.Context, tenantID, userID, applicationID, slotID string) {
	al.LogAction(ctx, tenantID, userID, "slot_create", "interview_slot", slotID, "application="+applicationID)
}
