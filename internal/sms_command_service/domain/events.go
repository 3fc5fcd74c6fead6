package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationsCreatedSubject is where fan-out completions are announced.
const NotificationsCreatedSubject = "notifications.sms.created"

// NotificationsCreatedEvent announces a completed fan-out to the display side.
type NotificationsCreatedEvent struct {
	MessageSID   string      `json:"message_sid"`
	Group        string      `json:"group"`
	Title        string      `json:"title"`
	Count        int         `json:"count"`
	RecipientIDs []uuid.UUID `json:"recipient_ids"`
	CreatedAt    time.Time   `json:"created_at"`
}
