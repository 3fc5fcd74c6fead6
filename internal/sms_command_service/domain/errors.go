package domain

import "errors"

var (
	// ErrInvalidMessage indicates a webhook delivery missing required fields.
	ErrInvalidMessage = errors.New("invalid inbound message")
	// ErrNotificationInsert wraps a failed fan-out insert.
	ErrNotificationInsert = errors.New("notification insert failed")
	// ErrMediaFetch wraps a failed download of a provider attachment.
	ErrMediaFetch = errors.New("media fetch failed")
	// ErrMediaUpload wraps a failed upload to object storage.
	ErrMediaUpload = errors.New("media upload failed")
	// ErrStorageConflict indicates the object already exists; uploads never overwrite.
	ErrStorageConflict = errors.New("object already exists")
)
