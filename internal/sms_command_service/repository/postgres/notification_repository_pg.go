package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

var notificationColumns = []string{"id", "user_id", "title", "message", "type", "is_read", "metadata", "created_at"}

type PgNotificationRepository struct {
	db     Querier
	logger *slog.Logger
}

func NewPgNotificationRepository(db Querier, logger *slog.Logger) *PgNotificationRepository {
	return &PgNotificationRepository{db: db, logger: logger.With("component", "notification_repository_pg")}
}

var _ domain.NotificationRepository = (*PgNotificationRepository)(nil)

// CreateBatch writes every record with a single COPY, so either all rows land or none do.
func (r *PgNotificationRepository) CreateBatch(ctx context.Context, records []*domain.NotificationRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		meta, err := json.Marshal(rec.Metadata)
		if err != nil {
			return 0, fmt.Errorf("encoding notification metadata: %w", err)
		}
		rows = append(rows, []any{rec.ID, rec.UserID, rec.Title, rec.Message, rec.Type, rec.IsRead, meta, rec.CreatedAt})
	}

	n, err := r.db.CopyFrom(ctx, pgx.Identifier{"gw_notifications"}, notificationColumns, pgx.CopyFromRows(rows))
	if err != nil {
		r.logger.ErrorContext(ctx, "Error copying notifications", "error", err, "count", len(records))
		return 0, fmt.Errorf("%w: %w", domain.ErrNotificationInsert, err)
	}
	if n != int64(len(records)) {
		r.logger.ErrorContext(ctx, "Notification copy row count mismatch", "expected", len(records), "copied", n)
		return n, fmt.Errorf("%w: copied %d of %d rows", domain.ErrNotificationInsert, n, len(records))
	}

	r.logger.InfoContext(ctx, "Notifications inserted", "count", n)
	return n, nil
}
