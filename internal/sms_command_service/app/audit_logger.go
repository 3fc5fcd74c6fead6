package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

// AuditLogger writes the SmsLogEntry for a delivery. It never fails the caller.
type AuditLogger struct {
	logs   domain.SmsLogRepository
	now    func() time.Time
	logger *slog.Logger
}

func NewAuditLogger(logs domain.SmsLogRepository, logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logs: logs, now: time.Now, logger: logger.With("component", "audit_logger")}
}

// Record appends one audit row. Failures are logged and counted only.
func (a *AuditLogger) Record(ctx context.Context, msg domain.InboundMessage, outcome domain.Outcome, group string, notificationCount int) {
	entry := domain.NewSmsLogEntry(msg, outcome, group, notificationCount, a.now())
	if err := a.logs.Create(ctx, entry); err != nil {
		a.logger.ErrorContext(ctx, "Failed to write sms audit log", "error", err, "message_sid", msg.MessageSID, "outcome", outcome)
		sourceErrorsCounter.WithLabelValues("audit").Inc()
	}
}
