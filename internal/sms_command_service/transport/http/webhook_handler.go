package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/gleeworld/golang_services/internal/sms_command_service/app"
	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

const MaxRequestBodySize = 1 << 20 // 1 MB

// InboundProcessor is the part of app.CommandProcessor the handler drives.
type InboundProcessor interface {
	Process(ctx context.Context, msg domain.InboundMessage) app.Reply
	RecordInvalid(ctx context.Context, msg domain.InboundMessage, cause error) app.Reply
}

type WebhookHandler struct {
	processor   InboundProcessor
	serviceName string
	logger      *slog.Logger
	validate    *validator.Validate
	now         func() time.Time
}

func NewWebhookHandler(processor InboundProcessor, serviceName string, logger *slog.Logger, validate *validator.Validate) *WebhookHandler {
	return &WebhookHandler{
		processor:   processor,
		serviceName: serviceName,
		logger:      logger.With("component", "webhook_handler"),
		validate:    validate,
		now:         time.Now,
	}
}

// RegisterRoutes mounts the webhook at path. verifier may be nil.
func (h *WebhookHandler) RegisterRoutes(r chi.Router, path string, verifier *SignatureVerifier) {
	r.Group(func(r chi.Router) {
		r.Use(corsHeaders)
		if verifier != nil {
			r.Use(verifier.Middleware)
		}
		r.Get(path, h.HandleStatus)
		r.Options(path, h.HandlePreflight)
		r.Post(path, h.HandleInboundSMS)
	})
}

func corsHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type, "+SignatureHeader)
		next.ServeHTTP(w, r)
	})
}

// dropUnusableMedia removes attachments without a valid URL or content type.
// Media fields are optional, so a bad pair never rejects the message.
func (h *WebhookHandler) dropUnusableMedia(ctx context.Context, logger *slog.Logger, media []MediaForm) []MediaForm {
	kept := media[:0]
	for i, m := range media {
		if err := h.validate.VarCtx(ctx, m.URL, "required,url"); err != nil {
			logger.WarnContext(ctx, "Dropping attachment with unusable URL", "index", i, "error", err)
			continue
		}
		if err := h.validate.VarCtx(ctx, m.ContentType, "required"); err != nil {
			logger.WarnContext(ctx, "Dropping attachment without content type", "index", i, "url", m.URL)
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

// HandleStatus is the liveness probe.
func (h *WebhookHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "service": h.serviceName})
}

// HandlePreflight answers CORS preflight requests; headers come from corsHeaders.
func (h *WebhookHandler) HandlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// HandleInboundSMS runs one provider delivery through the processor. The
// reply is always TwiML with HTTP 200.
func (h *WebhookHandler) HandleInboundSMS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	replied := false
	reply := func(text string) {
		replied = true
		if err := writeTwiML(w, text); err != nil {
			logger.WarnContext(ctx, "Failed to write TwiML reply", "error", err)
		}
	}
	defer func() {
		if rec := recover(); rec != nil {
			logger.ErrorContext(ctx, "Panic in inbound SMS handler", "panic", rec)
			if !replied {
				reply(app.ReplyInternalError)
			}
		}
	}()

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	if err := r.ParseForm(); err != nil {
		logger.WarnContext(ctx, "Failed to parse inbound SMS form", "error", err)
		res := h.processor.RecordInvalid(ctx, domain.InboundMessage{ReceivedAt: h.now()}, fmt.Errorf("%w: %w", domain.ErrInvalidMessage, err))
		reply(res.Text)
		return
	}

	form, err := decodeInboundForm(r.PostForm)
	if err == nil {
		err = h.validate.StructCtx(ctx, form)
	}
	form.Media = h.dropUnusableMedia(ctx, logger, form.Media)
	msg := form.ToDomain(h.now())
	logger = logger.With("message_sid", msg.MessageSID)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			logger.WarnContext(ctx, "Inbound SMS failed validation", "error", verrs.Error())
		} else {
			logger.WarnContext(ctx, "Inbound SMS form is malformed", "error", err)
		}
		res := h.processor.RecordInvalid(ctx, msg, fmt.Errorf("%w: %w", domain.ErrInvalidMessage, err))
		reply(res.Text)
		return
	}

	logger.InfoContext(ctx, "Received inbound SMS", "num_media", len(msg.Media), "body_length", len(msg.Body))
	res := h.processor.Process(ctx, msg)
	reply(res.Text)
}
