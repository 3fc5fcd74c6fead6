package domain

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is the terminal result of one webhook delivery.
type Outcome string

const (
	OutcomeSuccess      Outcome = "success"
	OutcomeUnauthorized Outcome = "unauthorized"
	OutcomeNoRecipients Outcome = "no_recipients"
	OutcomeMedia        Outcome = "media"
	OutcomeError        Outcome = "error"
	OutcomeInvalid      Outcome = "invalid"
)

// SmsLogEntry is the append-only audit row written for every delivery.
type SmsLogEntry struct {
	ID                uuid.UUID `json:"id"`
	FromNumber        string    `json:"from_number"`
	ToNumber          string    `json:"to_number"`
	MessageBody       string    `json:"message_body"`
	MessageSID        string    `json:"message_sid"`
	Outcome           Outcome   `json:"outcome"`
	GroupTag          string    `json:"group_tag,omitempty"`
	NotificationCount int       `json:"notification_count"`
	ProcessedAt       time.Time `json:"processed_at"`
}

// NewSmsLogEntry builds the audit row for msg.
func NewSmsLogEntry(msg InboundMessage, outcome Outcome, group string, notificationCount int, processedAt time.Time) *SmsLogEntry {
	return &SmsLogEntry{
		ID:                uuid.New(),
		FromNumber:        msg.From,
		ToNumber:          msg.To,
		MessageBody:       msg.Body,
		MessageSID:        msg.MessageSID,
		Outcome:           outcome,
		GroupTag:          group,
		NotificationCount: notificationCount,
		ProcessedAt:       processedAt.UTC(),
	}
}
