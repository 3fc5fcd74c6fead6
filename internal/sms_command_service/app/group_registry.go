package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

// Executive board positions addressed by group tags.
const (
	PositionPresident     = "president"
	PositionPRCoordinator = "pr_coordinator"
)

// RecipientResolver produces the members of one group.
type RecipientResolver interface {
	Resolve(ctx context.Context) ([]uuid.UUID, error)
}

// ResolverFunc adapts a function to RecipientResolver.
type ResolverFunc func(ctx context.Context) ([]uuid.UUID, error)

func (f ResolverFunc) Resolve(ctx context.Context) ([]uuid.UUID, error) { return f(ctx) }

// GroupRegistry maps group tags to resolvers. Unknown tags resolve through
// the domain.GroupAll resolver.
type GroupRegistry struct {
	resolvers map[string]RecipientResolver
	logger    *slog.Logger
}

func NewGroupRegistry(logger *slog.Logger) *GroupRegistry {
	return &GroupRegistry{
		resolvers: make(map[string]RecipientResolver),
		logger:    logger.With("component", "group_registry"),
	}
}

// Register binds tag (case-insensitive) to r, replacing any previous binding.
func (g *GroupRegistry) Register(tag string, r RecipientResolver) {
	g.resolvers[strings.ToLower(tag)] = r
}

// Resolve returns the de-duplicated recipients of tag. A resolver failure
// yields an empty list with the failure recorded in the result.
func (g *GroupRegistry) Resolve(ctx context.Context, tag string) domain.RecipientResult {
	group := strings.ToLower(strings.TrimSpace(tag))
	resolver, ok := g.resolvers[group]
	if !ok {
		group = domain.GroupAll
		resolver, ok = g.resolvers[group]
	}
	result := domain.RecipientResult{Group: group}
	if !ok {
		g.logger.ErrorContext(ctx, "No resolver registered for group", "group", tag)
		return result
	}

	ids, err := resolver.Resolve(ctx)
	if err != nil {
		g.logger.ErrorContext(ctx, "Group resolution failed, no recipients", "group", group, "error", err)
		sourceErrorsCounter.WithLabelValues("group_" + group).Inc()
		result.Errors = append(result.Errors, domain.SourceError{Source: "group_" + group, Err: err})
		return result
	}

	result.Recipients = dedupeRecipients(ids)
	g.logger.DebugContext(ctx, "Group resolved", "group", group, "recipients", len(result.Recipients), "raw", len(ids))
	return result
}

func dedupeRecipients(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// NewDefaultGroupRegistry wires the standing group vocabulary.
func NewDefaultGroupRegistry(profiles domain.ProfileRepository, officers domain.OfficerRepository, logger *slog.Logger) *GroupRegistry {
	g := NewGroupRegistry(logger)

	g.Register(domain.GroupPresident, positionResolver(officers, PositionPresident))
	g.Register(domain.GroupPR, positionResolver(officers, PositionPRCoordinator))
	g.Register(domain.GroupAdmin, ResolverFunc(profiles.ListSuperAdminIDs))
	for _, section := range domain.VoiceSectionGroups {
		voicePart := strings.ToUpper(section)
		g.Register(section, ResolverFunc(func(ctx context.Context) ([]uuid.UUID, error) {
			return profiles.ListIDsByVoicePart(ctx, voicePart)
		}))
	}
	g.Register(domain.GroupAll, ResolverFunc(profiles.ListNonGuestIDs))

	return g
}

func positionResolver(officers domain.OfficerRepository, position string) RecipientResolver {
	return ResolverFunc(func(ctx context.Context) ([]uuid.UUID, error) {
		return officers.ListActiveUserIDsByPosition(ctx, position)
	})
}
