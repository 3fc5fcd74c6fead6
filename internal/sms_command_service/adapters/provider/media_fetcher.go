package provider

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

// MaxMediaBytes caps a single downloaded attachment.
const MaxMediaBytes = 10 << 20

// TwilioMediaFetcher downloads MMS attachments from the provider's media URLs.
type TwilioMediaFetcher struct {
	logger     *slog.Logger
	httpClient *http.Client
	accountSID string
	authToken  string
}

// NewTwilioMediaFetcher builds a fetcher. Media URLs are authenticated with
// the account SID and auth token when both are set.
func NewTwilioMediaFetcher(logger *slog.Logger, accountSID, authToken string, httpClient *http.Client) *TwilioMediaFetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &TwilioMediaFetcher{
		logger:     logger.With("provider", "twilio"),
		httpClient: httpClient,
		accountSID: accountSID,
		authToken:  authToken,
	}
}

// Fetch downloads url. Non-2xx responses and oversized bodies are errors.
func (f *TwilioMediaFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrMediaFetch, err)
	}
	if f.accountSID != "" && f.authToken != "" {
		req.SetBasicAuth(f.accountSID, f.authToken)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMediaFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: provider returned status %d", domain.ErrMediaFetch, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxMediaBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrMediaFetch, err)
	}
	if len(data) > MaxMediaBytes {
		return nil, fmt.Errorf("%w: attachment exceeds %d bytes", domain.ErrMediaFetch, MaxMediaBytes)
	}

	f.logger.DebugContext(ctx, "Fetched media", "size", len(data), "content_type", resp.Header.Get("Content-Type"))
	return data, nil
}
