package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOfficerTest(t *testing.T) (*PgOfficerRepository, pgxmock.PgxPoolIface) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewPgOfficerRepository(mockPool, testLogger()), mockPool
}

func TestPgOfficerRepository_ListActiveOfficerPhones(t *testing.T) {
	repo, mockPool := setupOfficerTest(t)
	mockPool.ExpectQuery(regexp.QuoteMeta(listActiveOfficerPhonesQuery)).
		WillReturnRows(mockPool.NewRows([]string{"phone_number"}).AddRow("14045550199"))

	phones, err := repo.ListActiveOfficerPhones(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"14045550199"}, phones)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPgOfficerRepository_ListActiveUserIDsByPosition(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		repo, mockPool := setupOfficerTest(t)
		president := uuid.New()
		mockPool.ExpectQuery(regexp.QuoteMeta(listActiveByPositionQuery)).
			WithArgs("president").
			WillReturnRows(mockPool.NewRows([]string{"user_id"}).AddRow(president))

		ids, err := repo.ListActiveUserIDsByPosition(context.Background(), "president")
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{president}, ids)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("QueryError", func(t *testing.T) {
		repo, mockPool := setupOfficerTest(t)
		mockPool.ExpectQuery(regexp.QuoteMeta(listActiveByPositionQuery)).
			WithArgs("pr_coordinator").
			WillReturnError(errors.New("relation does not exist"))

		ids, err := repo.ListActiveUserIDsByPosition(context.Background(), "pr_coordinator")
		assert.ErrorContains(t, err, "pr_coordinator")
		assert.Nil(t, ids)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
