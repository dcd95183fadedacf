package blob

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
)

// Store is the object storage collaborator: it accepts a binary blob and
// returns a durable fetchable URL.
type Store interface {
	Upload(ctx context.Context, contentType string, data []byte) (string, error)
}

var extByType = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/bmp":     "bmp",
	"image/svg+xml": "svg",
}

// Key derives a content-addressed object key from the blob bytes, so the
// same image pasted twice lands on the same object.
func Key(contentType string, data []byte) string {
	ext, ok := extByType[strings.ToLower(contentType)]
	if !ok {
		ext = "bin"
	}
	return fmt.Sprintf("%016x.%s", xxh3.Hash(data), ext)
}
