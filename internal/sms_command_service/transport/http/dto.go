package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gleeworld/golang_services/internal/sms_command_service/domain"
)

// MaxMediaPerMessage is the provider's attachment limit per MMS.
const MaxMediaPerMessage = 10

// InboundSMSForm is the form-encoded webhook delivery.
type InboundSMSForm struct {
	From       string      `validate:"required"`
	To         string      `validate:"required"`
	Body       string      // empty for image-only messages
	MessageSID string      `validate:"required"`
	NumMedia   int         `validate:"gte=0,lte=10"`
	Media      []MediaForm // checked one by one, see dropUnusableMedia
}

// MediaForm is one MediaUrlN / MediaContentTypeN pair.
type MediaForm struct {
	URL         string
	ContentType string
}

// decodeInboundForm reads the provider fields out of a parsed form.
func decodeInboundForm(form url.Values) (InboundSMSForm, error) {
	f := InboundSMSForm{
		From:       form.Get("From"),
		To:         form.Get("To"),
		Body:       form.Get("Body"),
		MessageSID: form.Get("MessageSid"),
	}
	if f.MessageSID == "" {
		f.MessageSID = form.Get("SmsMessageSid")
	}

	if raw := strings.TrimSpace(form.Get("NumMedia")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, fmt.Errorf("NumMedia %q: %w", raw, err)
		}
		f.NumMedia = n
	}
	if f.NumMedia < 0 || f.NumMedia > MaxMediaPerMessage {
		return f, fmt.Errorf("NumMedia %d out of range", f.NumMedia)
	}

	for i := 0; i < f.NumMedia; i++ {
		idx := strconv.Itoa(i)
		f.Media = append(f.Media, MediaForm{
			URL:         form.Get("MediaUrl" + idx),
			ContentType: form.Get("MediaContentType" + idx),
		})
	}
	return f, nil
}

// ToDomain builds the immutable message handed to the processor.
func (f InboundSMSForm) ToDomain(receivedAt time.Time) domain.InboundMessage {
	msg := domain.InboundMessage{
		From:       f.From,
		To:         f.To,
		Body:       f.Body,
		MessageSID: f.MessageSID,
		ReceivedAt: receivedAt,
	}
	for _, m := range f.Media {
		msg.Media = append(msg.Media, domain.MediaRef{URL: m.URL, ContentType: m.ContentType})
	}
	return msg
}
