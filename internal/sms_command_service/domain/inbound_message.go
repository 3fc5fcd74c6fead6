package domain

import (
	"strings"
	"time"
)

// MediaRef is one attachment declared by the provider on an inbound message.
type MediaRef struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

// IsImage reports whether the attachment carries image content.
func (m MediaRef) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(m.ContentType)), "image/")
}

// InboundMessage is one webhook delivery. It is built once by the transport
// layer and never mutated afterwards.
type InboundMessage struct {
	From       string     `json:"from"`
	To         string     `json:"to"`
	Body       string     `json:"body"`
	MessageSID string     `json:"message_sid"` // provider message identifier
	Media      []MediaRef `json:"media,omitempty"`
	ReceivedAt time.Time  `json:"received_at"`
}

// IndexedMedia is an attachment with its position in the delivery.
type IndexedMedia struct {
	Index int
	Ref   MediaRef
}

// ImageMedia returns the image attachments in declaration order, keeping
// their original indexes.
func (m InboundMessage) ImageMedia() []IndexedMedia {
	var images []IndexedMedia
	for i, ref := range m.Media {
		if ref.IsImage() {
			images = append(images, IndexedMedia{Index: i, Ref: ref})
		}
	}
	return images
}

// HasImageMedia is true when at least one attachment is an image.
func (m InboundMessage) HasImageMedia() bool {
	return len(m.ImageMedia()) > 0
}
