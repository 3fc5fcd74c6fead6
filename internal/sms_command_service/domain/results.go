package domain

import (
	"errors"

	"github.com/google/uuid"
)

// SourceError is a non-fatal failure of one data source. The operation that
// produced it still returned a usable, degraded result.
type SourceError struct {
	Source string
	Err    error
}

func (e SourceError) Error() string { return e.Source + ": " + e.Err.Error() }

func (e SourceError) Unwrap() error { return e.Err }

// AuthorizationResult is the outcome of checking a sender against the
// administrator and officer phone sets.
type AuthorizationResult struct {
	NormalizedSender string
	Authorized       bool
	Role             string // "admin" or "officer" when Authorized
	Errors           []SourceError
}

// Degraded is true when at least one phone source failed.
func (r AuthorizationResult) Degraded() bool { return len(r.Errors) > 0 }

// RecipientResult is the resolved, de-duplicated population for one group tag.
type RecipientResult struct {
	Group      string
	Recipients []uuid.UUID
	Errors     []SourceError
}

// Degraded is true when the group lookup failed and Recipients is empty because of it.
func (r RecipientResult) Degraded() bool { return len(r.Errors) > 0 }

// MediaFailure records one attachment that could not be stored.
type MediaFailure struct {
	Index int
	URL   string
	Err   error
}

// MediaResult is the outcome of ingesting the image attachments of one message.
type MediaResult struct {
	Stored   []MediaAsset
	Failures []MediaFailure
}

// Err joins the per-attachment failures, or returns nil.
func (r MediaResult) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}
