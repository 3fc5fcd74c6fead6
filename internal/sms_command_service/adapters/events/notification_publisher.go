package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gleeworld/golang_services/internal/platform/messagebroker"
	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

// NotificationPublisher announces completed fan-outs on the message broker.
type NotificationPublisher struct {
	broker  messagebroker.Publisher
	subject string
	logger  *slog.Logger
}

func NewNotificationPublisher(broker messagebroker.Publisher, logger *slog.Logger) *NotificationPublisher {
	return &NotificationPublisher{
		broker:  broker,
		subject: domain.NotificationsCreatedSubject,
		logger:  logger.With("component", "notification_publisher"),
	}
}

func (p *NotificationPublisher) PublishNotificationsCreated(ctx context.Context, event domain.NotificationsCreatedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notifications event: %w", err)
	}
	if err := p.broker.Publish(ctx, p.subject, payload); err != nil {
		return err
	}
	p.logger.DebugContext(ctx, "Published notifications event", "subject", p.subject, "message_sid", event.MessageSID, "count", event.Count)
	return nil
}
