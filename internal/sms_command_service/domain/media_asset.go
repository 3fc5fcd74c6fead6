package domain

import (
	"fmt"
	"mime"
	"strings"
	"time"
)

// MediaAsset is one inbound image persisted to object storage.
type MediaAsset struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	Data        []byte `json:"-"`
}

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
	"image/heic": "heic",
	"image/heif": "heif",
	"image/bmp":  "bmp",
}

// ExtensionForContentType derives a file extension from a MIME type,
// falling back to the subtype ("image/x-icon" -> "x-icon").
func ExtensionForContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	if ext, ok := imageExtensions[mediaType]; ok {
		return ext
	}
	if _, sub, found := strings.Cut(mediaType, "/"); found && sub != "" {
		return sub
	}
	return "bin"
}

// MediaFilename is "<unix-millis>_<message sid>_<index>.<ext>". The index
// keeps attachments of one message apart.
func MediaFilename(receivedAt time.Time, messageSID string, index int, contentType string) string {
	return fmt.Sprintf("%d_%s_%d.%s", receivedAt.UnixMilli(), messageSID, index, ExtensionForContentType(contentType))
}
