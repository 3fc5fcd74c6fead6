package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

const insertSmsLogQuery = `INSERT INTO gw_sms_logs (id, from_number, to_number, message_body, message_sid, outcome, group_tag, notification_count, processed_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

type PgSmsLogRepository struct {
	db     Querier
	logger *slog.Logger
}

func NewPgSmsLogRepository(db Querier, logger *slog.Logger) *PgSmsLogRepository {
	return &PgSmsLogRepository{db: db, logger: logger.With("component", "sms_log_repository_pg")}
}

var _ domain.SmsLogRepository = (*PgSmsLogRepository)(nil)

func (r *PgSmsLogRepository) Create(ctx context.Context, entry *domain.SmsLogEntry) error {
	groupTag := sql.NullString{String: entry.GroupTag, Valid: entry.GroupTag != ""}

	_, err := r.db.Exec(ctx, insertSmsLogQuery,
		entry.ID,
		entry.FromNumber,
		entry.ToNumber,
		entry.MessageBody,
		entry.MessageSID,
		string(entry.Outcome),
		groupTag,
		entry.NotificationCount,
		entry.ProcessedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error inserting sms log", "error", err, "message_sid", entry.MessageSID)
		return fmt.Errorf("inserting sms log: %w", err)
	}
	r.logger.DebugContext(ctx, "SMS log inserted", "id", entry.ID, "outcome", entry.Outcome)
	return nil
}
