package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationTypeSMS tags every notification created by the router.
const NotificationTypeSMS = "sms_notification"

// NotificationMetadata records where a notification came from.
type NotificationMetadata struct {
	SenderPhone  string `json:"sender_phone"`
	MessageSID   string `json:"message_sid"`
	OriginalBody string `json:"original_body"`
	Group        string `json:"group"`
}

// NotificationRecord is one in-app notification for one recipient.
type NotificationRecord struct {
	ID        uuid.UUID            `json:"id"`
	UserID    uuid.UUID            `json:"user_id"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Type      string               `json:"type"`
	IsRead    bool                 `json:"is_read"`
	Metadata  NotificationMetadata `json:"metadata"`
	CreatedAt time.Time            `json:"created_at"`
}

// NewNotificationRecords builds one unread record per recipient with
// identical title, message and metadata.
func NewNotificationRecords(recipients []uuid.UUID, cmd ParsedCommand, msg InboundMessage, now time.Time) []*NotificationRecord {
	meta := NotificationMetadata{
		SenderPhone:  msg.From,
		MessageSID:   msg.MessageSID,
		OriginalBody: msg.Body,
		Group:        cmd.Group,
	}
	records := make([]*NotificationRecord, 0, len(recipients))
	for _, userID := range recipients {
		records = append(records, &NotificationRecord{
			ID:        uuid.New(),
			UserID:    userID,
			Title:     cmd.Title,
			Message:   cmd.Message,
			Type:      NotificationTypeSMS,
			IsRead:    false,
			Metadata:  meta,
			CreatedAt: now,
		})
	}
	return records
}
