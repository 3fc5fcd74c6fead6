package app

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

func newTestIngestor(fetcher MediaFetcher, store ObjectStore) *MediaIngestor {
	return NewMediaIngestor(fetcher, store, MediaIngestorConfig{
		FetchTimeout:  time.Second,
		UploadTimeout: time.Second,
		Concurrency:   2,
	}, testLogger())
}

func TestMediaIngestor_StoresImagesOnly(t *testing.T) {
	receivedAt := time.UnixMilli(1700000000000)
	msg := domain.InboundMessage{
		MessageSID: "MM1",
		ReceivedAt: receivedAt,
		Media: []domain.MediaRef{
			{URL: "https://api.example/media/0", ContentType: "image/jpeg"},
			{URL: "https://api.example/media/1", ContentType: "video/mp4"},
			{URL: "https://api.example/media/2", ContentType: "image/png"},
		},
	}
	fetcher := new(MockMediaFetcher)
	store := new(MockObjectStore)
	fetcher.On("Fetch", mock.Anything, "https://api.example/media/0").Return([]byte("jpeg"), nil)
	fetcher.On("Fetch", mock.Anything, "https://api.example/media/2").Return([]byte("png!"), nil)
	store.On("Upload", mock.Anything, mock.MatchedBy(func(a domain.MediaAsset) bool {
		return a.Filename == "1700000000000_MM1_0.jpg" && a.Size == 4
	})).Return(nil).Once()
	store.On("Upload", mock.Anything, mock.MatchedBy(func(a domain.MediaAsset) bool {
		return a.Filename == "1700000000000_MM1_2.png" && a.ContentType == "image/png"
	})).Return(nil).Once()

	res := newTestIngestor(fetcher, store).Ingest(context.Background(), msg)

	require.NoError(t, res.Err())
	assert.Len(t, res.Stored, 2)
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, "https://api.example/media/1")
	fetcher.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestMediaIngestor_FailuresAreIsolated(t *testing.T) {
	msg := domain.InboundMessage{
		MessageSID: "MM2",
		ReceivedAt: time.Now(),
		Media: []domain.MediaRef{
			{URL: "https://api.example/media/0", ContentType: "image/jpeg"},
			{URL: "https://api.example/media/1", ContentType: "image/gif"},
			{URL: "https://api.example/media/2", ContentType: "image/webp"},
		},
	}
	fetcher := new(MockMediaFetcher)
	store := new(MockObjectStore)
	fetcher.On("Fetch", mock.Anything, "https://api.example/media/0").Return(nil, errors.New("status 404"))
	fetcher.On("Fetch", mock.Anything, "https://api.example/media/1").Return([]byte("gif"), nil)
	fetcher.On("Fetch", mock.Anything, "https://api.example/media/2").Return([]byte("webp"), nil)
	store.On("Upload", mock.Anything, mock.MatchedBy(func(a domain.MediaAsset) bool {
		return a.ContentType == "image/gif"
	})).Return(domain.ErrStorageConflict)
	store.On("Upload", mock.Anything, mock.MatchedBy(func(a domain.MediaAsset) bool {
		return a.ContentType == "image/webp"
	})).Return(nil)

	res := newTestIngestor(fetcher, store).Ingest(context.Background(), msg)

	require.Len(t, res.Stored, 1)
	assert.Equal(t, "image/webp", res.Stored[0].ContentType)
	require.Len(t, res.Failures, 2)

	sort.Slice(res.Failures, func(i, j int) bool { return res.Failures[i].Index < res.Failures[j].Index })
	assert.ErrorIs(t, res.Failures[0].Err, domain.ErrMediaFetch)
	assert.ErrorIs(t, res.Failures[1].Err, domain.ErrMediaUpload)
	assert.ErrorIs(t, res.Failures[1].Err, domain.ErrStorageConflict)
	assert.Error(t, res.Err())
}

func TestMediaIngestor_NoStoreConfigured(t *testing.T) {
	msg := domain.InboundMessage{
		MessageSID: "MM3",
		ReceivedAt: time.Now(),
		Media:      []domain.MediaRef{{URL: "https://api.example/media/0", ContentType: "image/png"}},
	}
	fetcher := new(MockMediaFetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return([]byte("png"), nil)

	res := newTestIngestor(fetcher, nil).Ingest(context.Background(), msg)

	assert.Empty(t, res.Stored)
	require.Len(t, res.Failures, 1)
	assert.ErrorIs(t, res.Failures[0].Err, domain.ErrMediaUpload)
}

func TestMediaIngestor_PanickingFetcherIsIsolated(t *testing.T) {
	msg := domain.InboundMessage{
		MessageSID: "MM4",
		ReceivedAt: time.UnixMilli(7),
		Media: []domain.MediaRef{
			{URL: "https://api.example/media/0", ContentType: "image/png"},
			{URL: "https://api.example/media/1", ContentType: "image/png"},
		},
	}
	fetcher := new(MockMediaFetcher)
	store := new(MockObjectStore)
	fetcher.On("Fetch", mock.Anything, "https://api.example/media/0").Run(func(mock.Arguments) { panic("nil body") })
	fetcher.On("Fetch", mock.Anything, "https://api.example/media/1").Return([]byte("png"), nil)
	store.On("Upload", mock.Anything, mock.Anything).Return(nil)

	var res domain.MediaResult
	assert.NotPanics(t, func() { res = newTestIngestor(fetcher, store).Ingest(context.Background(), msg) })

	require.Len(t, res.Stored, 1)
	assert.Equal(t, "7_MM4_1.png", res.Stored[0].Filename)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, 0, res.Failures[0].Index)
	assert.Contains(t, res.Failures[0].Err.Error(), "panicked")
}
