package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"
	"go.opentelemetry.io/otel"
	"golang.org/x/net/html"
	"golang.org/x/sync/singleflight"

	"github.com/plopper/plopper"
)

var tracer = otel.Tracer("scraper")

const (
	userAgent   = "plopper-metascraper/1.0"
	maxBodySize = 2 << 20 // don't slurp unbounded pages
)

// Service fetches a target page and extracts Open Graph style metadata.
// Results are cached per-process and, when a memcached client is provided,
// in the shared cache as well. Concurrent scrapes of the same URL are
// collapsed into a single fetch.
type Service struct {
	client *http.Client
	cache  *cache.Cache
	mc     *memcache.Client
	group  singleflight.Group
	ttl    time.Duration
}

func New(timeout time.Duration, ttl time.Duration, mc *memcache.Client) *Service {
	httpClient := &http.Client{
		Timeout: timeout,
	}

	s := &Service{
		client: httpClient,
		cache:  cache.New(ttl, ttl*3/2),
		mc:     mc,
		ttl:    ttl,
	}
	httpClient.Transport = s
	return s
}

func (s *Service) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	return http.DefaultTransport.RoundTrip(req)
}

// Scrape returns page metadata for the given absolute URL. A non-2xx
// response or an unreadable body is an error; missing individual tags are
// not, the corresponding fields are simply left empty.
func (s *Service) Scrape(ctx context.Context, target string) (plopper.PageMeta, error) {
	ctx, span := tracer.Start(ctx, "Scraper.Scrape")
	defer span.End()

	if cached, ok := s.cache.Get(target); ok {
		return cached.(plopper.PageMeta), nil
	}

	if meta, ok := s.fromMemcached(target); ok {
		s.cache.Set(target, meta, cache.DefaultExpiration)
		return meta, nil
	}

	v, err, _ := s.group.Do(target, func() (any, error) {
		return s.fetch(ctx, target)
	})
	if err != nil {
		span.RecordError(err)
		return plopper.PageMeta{}, err
	}

	meta := v.(plopper.PageMeta)
	s.cache.Set(target, meta, cache.DefaultExpiration)
	s.toMemcached(target, meta)
	return meta, nil
}

func (s *Service) fetch(ctx context.Context, target string) (plopper.PageMeta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return plopper.PageMeta{}, errors.Wrap(err, "scraper: building request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return plopper.PageMeta{}, errors.Wrap(err, "scraper: fetching target")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return plopper.PageMeta{}, fmt.Errorf("scraper: unexpected status %d from %s", resp.StatusCode, target)
	}

	base := resp.Request.URL
	meta := extractMeta(io.LimitReader(resp.Body, maxBodySize), base)
	return meta, nil
}

func (s *Service) memcacheKey(target string) string {
	return fmt.Sprintf("plopper:meta:%x", xxh3.HashString(target))
}

func (s *Service) fromMemcached(target string) (plopper.PageMeta, bool) {
	if s.mc == nil {
		return plopper.PageMeta{}, false
	}
	item, err := s.mc.Get(s.memcacheKey(target))
	if err != nil {
		return plopper.PageMeta{}, false
	}
	var meta plopper.PageMeta
	if err := json.Unmarshal(item.Value, &meta); err != nil {
		return plopper.PageMeta{}, false
	}
	return meta, true
}

func (s *Service) toMemcached(target string, meta plopper.PageMeta) {
	if s.mc == nil {
		return
	}
	value, err := json.Marshal(meta)
	if err != nil {
		return
	}
	err = s.mc.Set(&memcache.Item{
		Key:        s.memcacheKey(target),
		Value:      value,
		Expiration: int32(s.ttl.Seconds()),
	})
	if err != nil {
		slog.Debug(
			"memcached set failed",
			slog.String("error", err.Error()),
			slog.String("module", "scraper"),
		)
	}
}

// extractMeta walks the document and collects Open Graph tags, falling
// back to twitter card tags, the meta description and the <title> element.
func extractMeta(r io.Reader, base *url.URL) plopper.PageMeta {
	var og, fallback plopper.PageMeta
	var titleText strings.Builder
	inTitle := false

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return mergeMeta(og, fallback, titleText.String(), base)
		case html.StartTagToken, html.SelfClosingTagToken:
			t := z.Token()
			switch t.Data {
			case "meta":
				var key, content string
				for _, a := range t.Attr {
					switch a.Key {
					case "property", "name":
						key = strings.ToLower(a.Val)
					case "content":
						content = a.Val
					}
				}
				if content == "" {
					continue
				}
				switch key {
				case "og:title":
					og.Title = content
				case "og:description":
					og.Description = content
				case "og:image", "og:image:url", "og:image:secure_url":
					if og.Image == "" {
						og.Image = content
					}
				case "twitter:title":
					if fallback.Title == "" {
						fallback.Title = content
					}
				case "twitter:description", "description":
					if fallback.Description == "" {
						fallback.Description = content
					}
				case "twitter:image":
					if fallback.Image == "" {
						fallback.Image = content
					}
				}
			case "title":
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				titleText.Write(z.Text())
			}
		case html.EndTagToken:
			if t := z.Token(); t.Data == "title" {
				inTitle = false
			}
		}
	}
}

func mergeMeta(og, fallback plopper.PageMeta, title string, base *url.URL) plopper.PageMeta {
	meta := og
	if meta.Title == "" {
		meta.Title = fallback.Title
	}
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(title)
	}
	if meta.Description == "" {
		meta.Description = fallback.Description
	}
	if meta.Image == "" {
		meta.Image = fallback.Image
	}
	meta.Image = absoluteImageURL(meta.Image, base)
	return meta
}

func absoluteImageURL(image string, base *url.URL) string {
	if image == "" || base == nil {
		return image
	}
	ref, err := url.Parse(image)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
