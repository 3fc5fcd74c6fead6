package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

const serviceTokenTTL = 5 * time.Minute

// Config locates the bucket and the credentials used to write into it.
// ServiceKey wins over JWTSecret when both are set.
type Config struct {
	BaseURL    string
	Bucket     string
	ServiceKey string
	JWTSecret  string
}

// SupabaseStorageClient uploads objects through the Supabase Storage REST API.
type SupabaseStorageClient struct {
	logger     *slog.Logger
	httpClient *http.Client
	cfg        Config
	now        func() time.Time
}

func NewSupabaseStorageClient(logger *slog.Logger, cfg Config, httpClient *http.Client) (*SupabaseStorageClient, error) {
	if cfg.BaseURL == "" || cfg.Bucket == "" {
		return nil, errors.New("storage base url and bucket are required")
	}
	if cfg.ServiceKey == "" && cfg.JWTSecret == "" {
		return nil, errors.New("storage service key or jwt secret is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &SupabaseStorageClient{
		logger:     logger.With("component", "storage_client", "bucket", cfg.Bucket),
		httpClient: httpClient,
		cfg:        cfg,
		now:        time.Now,
	}, nil
}

type serviceClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// bearerToken returns the static service key, or mints a short-lived
// service_role token signed with the project JWT secret.
func (c *SupabaseStorageClient) bearerToken() (string, error) {
	if c.cfg.ServiceKey != "" {
		return c.cfg.ServiceKey, nil
	}
	now := c.now()
	claims := serviceClaims{
		Role: "service_role",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "sms_command_service",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(serviceTokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign storage token: %w", err)
	}
	return signed, nil
}

type storageErrorBody struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// Upload writes asset under its filename. Existing objects are never
// replaced; that case is reported as domain.ErrStorageConflict.
func (c *SupabaseStorageClient) Upload(ctx context.Context, asset domain.MediaAsset) error {
	token, err := c.bearerToken()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMediaUpload, err)
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.cfg.BaseURL, url.PathEscape(c.cfg.Bucket), url.PathEscape(asset.Filename))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(asset.Data))
	if err != nil {
		return fmt.Errorf("%w: build request: %w", domain.ErrMediaUpload, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", token)
	req.Header.Set("Content-Type", asset.ContentType)
	req.Header.Set("x-upsert", "false")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMediaUpload, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.DebugContext(ctx, "Object uploaded", "filename", asset.Filename, "size", asset.Size)
		return nil
	}

	var errBody storageErrorBody
	_ = json.Unmarshal(body, &errBody)
	if resp.StatusCode == http.StatusConflict || errBody.StatusCode == "409" || strings.EqualFold(errBody.Error, "Duplicate") {
		return fmt.Errorf("%w: %w: %s", domain.ErrMediaUpload, domain.ErrStorageConflict, asset.Filename)
	}

	msg := errBody.Message
	if msg == "" && len(body) < 200 {
		msg = string(body)
	}
	return fmt.Errorf("%w: storage returned status %d: %s", domain.ErrMediaUpload, resp.StatusCode, msg)
}
