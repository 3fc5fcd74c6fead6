package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

// MediaFetcher downloads an attachment from the SMS provider.
type MediaFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ObjectStore persists a media asset without overwriting existing objects.
type ObjectStore interface {
	Upload(ctx context.Context, asset domain.MediaAsset) error
}

// MediaIngestorConfig bounds the work done per message.
type MediaIngestorConfig struct {
	FetchTimeout  time.Duration
	UploadTimeout time.Duration
	Concurrency   int
}

// MediaIngestor stores the image attachments of an inbound message. A nil
// store makes every upload fail, which still ends in the media reply.
type MediaIngestor struct {
	fetcher MediaFetcher
	store   ObjectStore
	cfg     MediaIngestorConfig
	logger  *slog.Logger
}

func NewMediaIngestor(fetcher MediaFetcher, store ObjectStore, cfg MediaIngestorConfig, logger *slog.Logger) *MediaIngestor {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &MediaIngestor{
		fetcher: fetcher,
		store:   store,
		cfg:     cfg,
		logger:  logger.With("component", "media_ingestor"),
	}
}

// Ingest fetches and uploads every image attachment. Attachments are
// independent: a failure is recorded and the rest still run.
func (m *MediaIngestor) Ingest(ctx context.Context, msg domain.InboundMessage) domain.MediaResult {
	var (
		mu     sync.Mutex
		result domain.MediaResult
	)

	// Plain Group, not WithContext: one failure must not cancel its siblings.
	var g errgroup.Group
	g.SetLimit(m.cfg.Concurrency)

	for _, image := range msg.ImageMedia() {
		image := image
		g.Go(func() error {
			asset, err := m.safeIngestOne(ctx, msg, image.Index, image.Ref)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures = append(result.Failures, domain.MediaFailure{Index: image.Index, URL: image.Ref.URL, Err: err})
				return nil
			}
			result.Stored = append(result.Stored, asset)
			return nil
		})
	}
	_ = g.Wait()

	m.logger.InfoContext(ctx, "Media ingestion finished",
		"message_sid", msg.MessageSID,
		"stored", len(result.Stored),
		"failed", len(result.Failures),
	)
	return result
}

// safeIngestOne turns a panicking fetcher or store into a failure of that
// attachment; the goroutine is outside any caller's recover.
func (m *MediaIngestor) safeIngestOne(ctx context.Context, msg domain.InboundMessage, index int, ref domain.MediaRef) (asset domain.MediaAsset, err error) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.ErrorContext(ctx, "Panic while ingesting media", "panic", r, "message_sid", msg.MessageSID, "index", index)
			mediaAssetsCounter.WithLabelValues("panic").Inc()
			asset, err = domain.MediaAsset{}, fmt.Errorf("media attachment %d panicked: %v", index, r)
		}
	}()
	return m.ingestOne(ctx, msg, index, ref)
}

func (m *MediaIngestor) ingestOne(ctx context.Context, msg domain.InboundMessage, index int, ref domain.MediaRef) (domain.MediaAsset, error) {
	logger := m.logger.With("message_sid", msg.MessageSID, "index", index)

	data, err := m.fetch(ctx, ref.URL)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to fetch media", "error", err)
		mediaAssetsCounter.WithLabelValues("fetch_failed").Inc()
		return domain.MediaAsset{}, err
	}

	asset := domain.MediaAsset{
		Filename:    domain.MediaFilename(msg.ReceivedAt, msg.MessageSID, index, ref.ContentType),
		ContentType: ref.ContentType,
		Size:        len(data),
		Data:        data,
	}

	if err := m.upload(ctx, asset); err != nil {
		logger.ErrorContext(ctx, "Failed to store media", "error", err, "filename", asset.Filename)
		mediaAssetsCounter.WithLabelValues("upload_failed").Inc()
		return domain.MediaAsset{}, err
	}

	mediaAssetsCounter.WithLabelValues("stored").Inc()
	logger.InfoContext(ctx, "Media stored", "filename", asset.Filename, "size", asset.Size)
	return asset, nil
}

func (m *MediaIngestor) fetch(ctx context.Context, url string) ([]byte, error) {
	if m.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.FetchTimeout)
		defer cancel()
	}
	data, err := m.fetcher.Fetch(ctx, url)
	if err != nil {
		if errors.Is(err, domain.ErrMediaFetch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrMediaFetch, err)
	}
	return data, nil
}

func (m *MediaIngestor) upload(ctx context.Context, asset domain.MediaAsset) error {
	if m.store == nil {
		return fmt.Errorf("%w: object storage is not configured", domain.ErrMediaUpload)
	}
	if m.cfg.UploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.UploadTimeout)
		defer cancel()
	}
	if err := m.store.Upload(ctx, asset); err != nil {
		if errors.Is(err, domain.ErrMediaUpload) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrMediaUpload, err)
	}
	return nil
}
