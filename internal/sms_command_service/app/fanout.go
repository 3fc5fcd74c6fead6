package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

// NotificationEventPublisher announces completed fan-outs. Optional.
type NotificationEventPublisher interface {
	PublishNotificationsCreated(ctx context.Context, event domain.NotificationsCreatedEvent) error
}

// FanoutWriter creates one notification per recipient in a single insert.
type FanoutWriter struct {
	notifications domain.NotificationRepository
	events        NotificationEventPublisher
	now           func() time.Time
	logger        *slog.Logger
}

// NewFanoutWriter builds a writer. events may be nil.
func NewFanoutWriter(notifications domain.NotificationRepository, events NotificationEventPublisher, logger *slog.Logger) *FanoutWriter {
	return &FanoutWriter{
		notifications: notifications,
		events:        events,
		now:           time.Now,
		logger:        logger.With("component", "fanout_writer"),
	}
}

// Write inserts the notifications and returns how many were created. An
// insert error is returned unchanged in meaning: nothing was written.
func (f *FanoutWriter) Write(ctx context.Context, recipients []uuid.UUID, cmd domain.ParsedCommand, msg domain.InboundMessage) (int, error) {
	now := f.now().UTC()
	records := domain.NewNotificationRecords(recipients, cmd, msg, now)

	n, err := f.notifications.CreateBatch(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("fan-out to %s: %w", cmd.Group, err)
	}
	notificationsCreatedCounter.WithLabelValues(cmd.Group).Add(float64(n))
	f.logger.InfoContext(ctx, "Notifications fanned out", "group", cmd.Group, "count", n, "message_sid", msg.MessageSID)

	if f.events != nil {
		event := domain.NotificationsCreatedEvent{
			MessageSID:   msg.MessageSID,
			Group:        cmd.Group,
			Title:        cmd.Title,
			Count:        int(n),
			RecipientIDs: recipients,
			CreatedAt:    now,
		}
		if err := f.events.PublishNotificationsCreated(ctx, event); err != nil {
			f.logger.WarnContext(ctx, "Failed to publish notifications event", "error", err, "message_sid", msg.MessageSID)
			sourceErrorsCounter.WithLabelValues("events").Inc()
		}
	}
	return int(n), nil
}
