package usecase

import (
	"context"

	"github.com/plopper/plopper"
)

// ItemRepository defines storage operations for pasted items. Identifiers
// are assigned by the implementation at create time.
type ItemRepository interface {
	Create(ctx context.Context, ownerID string, content plopper.PastedContent) (plopper.Item, error)
	Get(ctx context.Context, ownerID string, id string) (plopper.Item, error)
	Delete(ctx context.Context, ownerID string, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]plopper.Item, error)
}

// BlobStore encapsulates the object storage collaborator.
type BlobStore interface {
	Upload(ctx context.Context, contentType string, data []byte) (string, error)
}

// MetadataFetcher encapsulates the metadata scraping collaborator.
type MetadataFetcher interface {
	Scrape(ctx context.Context, url string) (plopper.PageMeta, error)
}

// Signal publishes item events to live board sessions.
type Signal interface {
	Publish(ctx context.Context, channel string, event plopper.Event) error
}
