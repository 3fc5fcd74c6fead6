package app

import (
	"context"
	"log/slog"

	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

// Authorization roles.
const (
	RoleAdmin   = "admin"
	RoleOfficer = "officer"
)

// SenderAuthorizer decides whether a phone number may broadcast commands.
// Nothing is cached: both phone sets are read on every call.
type SenderAuthorizer struct {
	profiles domain.ProfileRepository
	officers domain.OfficerRepository
	logger   *slog.Logger
}

func NewSenderAuthorizer(profiles domain.ProfileRepository, officers domain.OfficerRepository, logger *slog.Logger) *SenderAuthorizer {
	return &SenderAuthorizer{
		profiles: profiles,
		officers: officers,
		logger:   logger.With("component", "sender_authorizer"),
	}
}

// Authorize checks the union of administrator and active officer phones.
// A failing source contributes nothing and is reported in the result; the
// other source is still consulted.
func (a *SenderAuthorizer) Authorize(ctx context.Context, rawSender string) domain.AuthorizationResult {
	result := domain.AuthorizationResult{NormalizedSender: domain.NormalizePhone(rawSender)}
	if result.NormalizedSender == "" {
		return result
	}

	adminPhones, err := a.profiles.ListAdminPhones(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "Administrator phone lookup failed, treating as empty", "error", err)
		sourceErrorsCounter.WithLabelValues("admin_phones").Inc()
		result.Errors = append(result.Errors, domain.SourceError{Source: "admin_phones", Err: err})
	}
	officerPhones, err := a.officers.ListActiveOfficerPhones(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "Officer phone lookup failed, treating as empty", "error", err)
		sourceErrorsCounter.WithLabelValues("officer_phones").Inc()
		result.Errors = append(result.Errors, domain.SourceError{Source: "officer_phones", Err: err})
	}

	switch {
	case containsPhone(adminPhones, result.NormalizedSender):
		result.Authorized, result.Role = true, RoleAdmin
	case containsPhone(officerPhones, result.NormalizedSender):
		result.Authorized, result.Role = true, RoleOfficer
	}

	a.logger.DebugContext(ctx, "Sender authorization resolved",
		"authorized", result.Authorized,
		"role", result.Role,
		"admin_candidates", len(adminPhones),
		"officer_candidates", len(officerPhones),
		"degraded", result.Degraded(),
	)
	return result
}

func containsPhone(candidates []string, normalized string) bool {
	for _, c := range candidates {
		if domain.NormalizePhone(c) == normalized {
			return true
		}
	}
	return false
}
