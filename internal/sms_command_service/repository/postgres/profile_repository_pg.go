package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

const (
	listAdminPhonesQuery   = `SELECT phone_number FROM gw_profiles WHERE (is_admin = TRUE OR is_super_admin = TRUE) AND phone_number IS NOT NULL`
	listSuperAdminIDsQuery = `SELECT user_id FROM gw_profiles WHERE is_super_admin = TRUE`
	listByVoicePartQuery   = `SELECT user_id FROM gw_profiles WHERE voice_part = $1`
	listNonGuestIDsQuery   = `SELECT user_id FROM gw_profiles WHERE role IS DISTINCT FROM 'guest'`
)

type PgProfileRepository struct {
	db     Querier
	logger *slog.Logger
}

func NewPgProfileRepository(db Querier, logger *slog.Logger) *PgProfileRepository {
	return &PgProfileRepository{db: db, logger: logger.With("component", "profile_repository_pg")}
}

var _ domain.ProfileRepository = (*PgProfileRepository)(nil)

func (r *PgProfileRepository) ListAdminPhones(ctx context.Context) ([]string, error) {
	phones, err := queryStrings(ctx, r.db, listAdminPhonesQuery)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing administrator phones", "error", err)
		return nil, fmt.Errorf("listing administrator phones: %w", err)
	}
	r.logger.DebugContext(ctx, "Administrator phones loaded", "count", len(phones))
	return phones, nil
}

func (r *PgProfileRepository) ListSuperAdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := queryUUIDs(ctx, r.db, listSuperAdminIDsQuery)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing super administrators", "error", err)
		return nil, fmt.Errorf("listing super administrators: %w", err)
	}
	return ids, nil
}

func (r *PgProfileRepository) ListIDsByVoicePart(ctx context.Context, voicePart string) ([]uuid.UUID, error) {
	ids, err := queryUUIDs(ctx, r.db, listByVoicePartQuery, voicePart)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing members by voice part", "voice_part", voicePart, "error", err)
		return nil, fmt.Errorf("listing members of voice part %s: %w", voicePart, err)
	}
	return ids, nil
}

func (r *PgProfileRepository) ListNonGuestIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := queryUUIDs(ctx, r.db, listNonGuestIDsQuery)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing non-guest members", "error", err)
		return nil, fmt.Errorf("listing non-guest members: %w", err)
	}
	return ids, nil
}
