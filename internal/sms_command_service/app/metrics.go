package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	inboundMessagesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sms_command",
			Name:      "inbound_messages_total",
			Help:      "Total inbound SMS webhook deliveries by terminal outcome.",
		},
		[]string{"outcome"}, // success, unauthorized, no_recipients, media, error, invalid
	)

	processingDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sms_command",
			Name:      "processing_duration_seconds",
			Help:      "Duration of inbound SMS processing.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	notificationsCreatedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sms_command",
			Name:      "notifications_created_total",
			Help:      "Total notification records created by fan-out.",
		},
		[]string{"group"},
	)

	mediaAssetsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sms_command",
			Name:      "media_assets_total",
			Help:      "Inbound image attachments by result.",
		},
		[]string{"status"}, // stored, fetch_failed, upload_failed, panic
	)

	sourceErrorsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sms_command",
			Name:      "source_errors_total",
			Help:      "Absorbed failures of membership, audit and event sources.",
		},
		[]string{"source"},
	)
)
