package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

func sampleRecords(n int) []*domain.NotificationRecord {
	recipients := make([]uuid.UUID, n)
	for i := range recipients {
		recipients[i] = uuid.New()
	}
	cmd := domain.ParseCommand("@a2: Sectional canceled today")
	msg := domain.InboundMessage{From: "+14045550100", MessageSID: "SM1", Body: "@a2: Sectional canceled today"}
	return domain.NewNotificationRecords(recipients, cmd, msg, time.Now())
}

func TestPgNotificationRepository_CreateBatch(t *testing.T) {
	t.Run("AllRowsCopied", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()
		repo := NewPgNotificationRepository(mockPool, testLogger())

		mockPool.ExpectCopyFrom(pgx.Identifier{"gw_notifications"}, notificationColumns).WillReturnResult(3)

		n, err := repo.CreateBatch(context.Background(), sampleRecords(3))
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("CopyError", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()
		repo := NewPgNotificationRepository(mockPool, testLogger())

		mockPool.ExpectCopyFrom(pgx.Identifier{"gw_notifications"}, notificationColumns).
			WillReturnError(errors.New("violates foreign key constraint"))

		_, err = repo.CreateBatch(context.Background(), sampleRecords(2))
		assert.ErrorIs(t, err, domain.ErrNotificationInsert)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("ShortCopyIsAnError", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()
		repo := NewPgNotificationRepository(mockPool, testLogger())

		mockPool.ExpectCopyFrom(pgx.Identifier{"gw_notifications"}, notificationColumns).WillReturnResult(1)

		_, err = repo.CreateBatch(context.Background(), sampleRecords(2))
		assert.ErrorIs(t, err, domain.ErrNotificationInsert)
	})

	t.Run("EmptyBatchSkipsDatabase", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()
		repo := NewPgNotificationRepository(mockPool, testLogger())

		n, err := repo.CreateBatch(context.Background(), nil)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
