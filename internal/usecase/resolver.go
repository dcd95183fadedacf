package usecase

import (
	"context"

	"github.com/plopper/plopper"
	"github.com/plopper/plopper/internal/domain"
)

// URLResolver classifies a pasted absolute URL as playable media or a
// generic link, enriching the latter with scraped page metadata.
type URLResolver struct {
	meta    MetadataFetcher
	canPlay func(string) bool
}

func NewURLResolver(meta MetadataFetcher, canPlay func(string) bool) *URLResolver {
	if canPlay == nil {
		canPlay = plopper.CanPlay
	}
	return &URLResolver{meta: meta, canPlay: canPlay}
}

// Resolve inspects the URL exactly once. Playable media becomes a Player
// variant without any metadata fetch; anything else is scraped, and a
// failed scrape abandons the paste rather than degrading to plain text.
func (r *URLResolver) Resolve(ctx context.Context, url string) (plopper.PastedContent, error) {
	if r.canPlay(url) {
		return plopper.NewPlayer(url), nil
	}

	meta, err := r.meta.Scrape(ctx, url)
	if err != nil {
		return plopper.PastedContent{}, domain.MetadataFetchError{URL: url, Cause: err}
	}

	return plopper.NewURL(url, meta), nil
}
