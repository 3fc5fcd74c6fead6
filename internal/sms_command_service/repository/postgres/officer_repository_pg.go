package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

const (
	listActiveOfficerPhonesQuery = `SELECT p.phone_number FROM gw_executive_board_members e JOIN gw_profiles p ON p.user_id = e.user_id WHERE e.is_active = TRUE AND p.phone_number IS NOT NULL`
	listActiveByPositionQuery    = `SELECT user_id FROM gw_executive_board_members WHERE position = $1 AND is_active = TRUE`
)

type PgOfficerRepository struct {
	db     Querier
	logger *slog.Logger
}

func NewPgOfficerRepository(db Querier, logger *slog.Logger) *PgOfficerRepository {
	return &PgOfficerRepository{db: db, logger: logger.With("component", "officer_repository_pg")}
}

var _ domain.OfficerRepository = (*PgOfficerRepository)(nil)

func (r *PgOfficerRepository) ListActiveOfficerPhones(ctx context.Context) ([]string, error) {
	phones, err := queryStrings(ctx, r.db, listActiveOfficerPhonesQuery)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing active officer phones", "error", err)
		return nil, fmt.Errorf("listing active officer phones: %w", err)
	}
	r.logger.DebugContext(ctx, "Officer phones loaded", "count", len(phones))
	return phones, nil
}

func (r *PgOfficerRepository) ListActiveUserIDsByPosition(ctx context.Context, position string) ([]uuid.UUID, error) {
	ids, err := queryUUIDs(ctx, r.db, listActiveByPositionQuery, position)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing officers by position", "position", position, "error", err)
		return nil, fmt.Errorf("listing officers holding %s: %w", position, err)
	}
	return ids, nil
}
