package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/gleeworld/golang_services/internal/platform/config"
	"github.com/gleeworld/golang_services/internal/platform/database"
	"github.com/gleeworld/golang_services/internal/platform/logger"
	"github.com/gleeworld/golang_services/internal/platform/messagebroker"
	"github.com/gleeworld/golang_services/internal/sms_command_service/adapters/events"
	"github.com/gleeworld/golang_services/internal/sms_command_service/adapters/provider"
	"github.com/gleeworld/golang_services/internal/sms_command_service/adapters/storage"
	"github.com/gleeworld/golang_services/internal/sms_command_service/app"
	"github.com/gleeworld/golang_services/internal/sms_command_service/repository/postgres"
	httptransport "github.com/gleeworld/golang_services/internal/sms_command_service/transport/http"
)

const (
	serviceName     = "sms_command_service"
	shutdownTimeout = 15 * time.Second
)

// httpLogger logs each request with its id and status.
func httpLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.LogAttrs(r.Context(), slog.LevelInfo, "HTTP request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status_code", ww.Status()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.String("request_id", chiMiddleware.GetReqID(r.Context())),
				slog.String("remote_ip", r.RemoteAddr),
			)
		})
	}
}

func main() {
	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}
	appLogger := logger.New(cfg.LogLevel).With("service", serviceName)
	appLogger.Info("SMS command service starting...",
		"http_port", cfg.SMSCommandServicePort,
		"metrics_port", cfg.SMSCommandServiceMetricsPort,
		"webhook_path", cfg.WebhookPath,
	)

	dbPool, err := database.NewDBPool(mainCtx, cfg.PostgresDSN, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	var eventPublisher app.NotificationEventPublisher
	if cfg.NATSURL != "" {
		natsClient, err := messagebroker.NewNATSClient(cfg.NATSURL, appLogger, serviceName)
		if err != nil {
			appLogger.Error("Failed to connect to NATS, notification events disabled", "error", err)
		} else {
			defer natsClient.Close()
			eventPublisher = events.NewNotificationPublisher(natsClient, appLogger)
			appLogger.Info("Notification events enabled", "url", cfg.NATSURL)
		}
	} else {
		appLogger.Info("NATS_URL not set, notification events disabled")
	}

	var objectStore app.ObjectStore
	storageClient, err := storage.NewSupabaseStorageClient(appLogger, storage.Config{
		BaseURL:    cfg.StorageURL,
		Bucket:     cfg.StorageBucket,
		ServiceKey: cfg.StorageServiceKey,
		JWTSecret:  cfg.StorageJWTSecret,
	}, &http.Client{Timeout: cfg.StorageUploadTimeout})
	if err != nil {
		appLogger.Warn("Object storage not configured, inbound media will not be stored", "error", err)
	} else {
		objectStore = storageClient
	}

	profileRepo := postgres.NewPgProfileRepository(dbPool, appLogger)
	officerRepo := postgres.NewPgOfficerRepository(dbPool, appLogger)
	notificationRepo := postgres.NewPgNotificationRepository(dbPool, appLogger)
	smsLogRepo := postgres.NewPgSmsLogRepository(dbPool, appLogger)

	mediaFetcher := provider.NewTwilioMediaFetcher(appLogger, cfg.TwilioAccountSID, cfg.TwilioAuthToken,
		&http.Client{Timeout: cfg.MediaFetchTimeout})

	processor := app.NewCommandProcessor(
		app.NewSenderAuthorizer(profileRepo, officerRepo, appLogger),
		app.NewDefaultGroupRegistry(profileRepo, officerRepo, appLogger),
		app.NewFanoutWriter(notificationRepo, eventPublisher, appLogger),
		app.NewMediaIngestor(mediaFetcher, objectStore, app.MediaIngestorConfig{
			FetchTimeout:  cfg.MediaFetchTimeout,
			UploadTimeout: cfg.StorageUploadTimeout,
			Concurrency:   cfg.MediaConcurrency,
		}, appLogger),
		app.NewAuditLogger(smsLogRepo, appLogger),
		appLogger,
	)

	var verifier *httptransport.SignatureVerifier
	if cfg.ValidateSignature {
		if cfg.TwilioAuthToken == "" {
			appLogger.Error("VALIDATE_SIGNATURE is set but TWILIO_AUTH_TOKEN is empty")
			os.Exit(1)
		}
		verifier = httptransport.NewSignatureVerifier(cfg.TwilioAuthToken, cfg.WebhookPublicURL, appLogger)
	}

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.Timeout(cfg.RequestTimeout))
	router.Use(httpLogger(appLogger))
	router.Use(httptransport.PrometheusMetricsMiddleware)

	webhookHandler := httptransport.NewWebhookHandler(processor, serviceName, appLogger, validator.New())
	webhookHandler.RegisterRoutes(router, cfg.WebhookPath, verifier)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.SMSCommandServicePort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.SMSCommandServiceMetricsPort),
		Handler: metricsMux,
	}

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		appLogger.Info("Webhook HTTP server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Webhook HTTP server ListenAndServe error", "error", err)
			return err
		}
		return nil
	})

	g.Go(func() error {
		appLogger.Info("Metrics HTTP server starting", "address", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Metrics HTTP server ListenAndServe error", "error", err)
			return err
		}
		return nil
	})

	stopSignal := make(chan os.Signal, 1)
	signal.Notify(stopSignal, syscall.SIGINT, syscall.SIGTERM)

	g.Go(func() error {
		select {
		case sig := <-stopSignal:
			appLogger.Info("Received termination signal", "signal", sig.String())
			mainCancel()
		case <-groupCtx.Done():
		}
		return nil
	})

	g.Go(func() error {
		<-groupCtx.Done()
		appLogger.Info("Initiating graceful shutdown of servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var shutdownErrors error
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = errors.Join(shutdownErrors, fmt.Errorf("webhook http shutdown: %w", err))
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = errors.Join(shutdownErrors, fmt.Errorf("metrics http shutdown: %w", err))
		}
		return shutdownErrors
	})

	appLogger.Info("SMS command service is ready and running.")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Service group encountered an error during run/shutdown", "error", err)
	}
	appLogger.Info("SMS command service shut down.")
}
