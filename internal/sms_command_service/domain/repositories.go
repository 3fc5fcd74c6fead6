package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository reads member profiles.
type ProfileRepository interface {
	// ListAdminPhones returns phone numbers of administrators and super-administrators
	// that have one on file.
	ListAdminPhones(ctx context.Context) ([]string, error)
	ListSuperAdminIDs(ctx context.Context) ([]uuid.UUID, error)
	// ListIDsByVoicePart matches voice_part exactly, e.g. "A2".
	ListIDsByVoicePart(ctx context.Context, voicePart string) ([]uuid.UUID, error)
	// ListNonGuestIDs returns every account whose role is not guest.
	ListNonGuestIDs(ctx context.Context) ([]uuid.UUID, error)
}

// OfficerRepository reads executive board membership.
type OfficerRepository interface {
	// ListActiveOfficerPhones returns phones of active officers joined from their profiles.
	ListActiveOfficerPhones(ctx context.Context) ([]string, error)
	ListActiveUserIDsByPosition(ctx context.Context, position string) ([]uuid.UUID, error)
}

// NotificationRepository persists fan-out results.
type NotificationRepository interface {
	// CreateBatch inserts all records or none.
	CreateBatch(ctx context.Context, records []*NotificationRecord) (int64, error)
}

// SmsLogRepository appends audit rows.
type SmsLogRepository interface {
	Create(ctx context.Context, entry *SmsLogEntry) error
}
