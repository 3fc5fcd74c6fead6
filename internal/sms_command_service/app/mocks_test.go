package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

// --- Mocks ---

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) ListAdminPhones(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProfileRepository) ListSuperAdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return uuidsArg(args, 0), args.Error(1)
}

func (m *MockProfileRepository) ListIDsByVoicePart(ctx context.Context, voicePart string) ([]uuid.UUID, error) {
	args := m.Called(ctx, voicePart)
	return uuidsArg(args, 0), args.Error(1)
}

func (m *MockProfileRepository) ListNonGuestIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return uuidsArg(args, 0), args.Error(1)
}

type MockOfficerRepository struct {
	mock.Mock
}

func (m *MockOfficerRepository) ListActiveOfficerPhones(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockOfficerRepository) ListActiveUserIDsByPosition(ctx context.Context, position string) ([]uuid.UUID, error) {
	args := m.Called(ctx, position)
	return uuidsArg(args, 0), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, records []*domain.NotificationRecord) (int64, error) {
	args := m.Called(ctx, records)
	return args.Get(0).(int64), args.Error(1)
}

type MockSmsLogRepository struct {
	mock.Mock
}

func (m *MockSmsLogRepository) Create(ctx context.Context, entry *domain.SmsLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type MockMediaFetcher struct {
	mock.Mock
}

func (m *MockMediaFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Upload(ctx context.Context, asset domain.MediaAsset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishNotificationsCreated(ctx context.Context, event domain.NotificationsCreatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func uuidsArg(args mock.Arguments, i int) []uuid.UUID {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).([]uuid.UUID)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
