package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/plopper/plopper"
)

const defaultTimeout = 5 * time.Second

// MetascraperGateway resolves page metadata through a remote scraping
// endpoint instead of fetching target pages in-process. Used when several
// board nodes share one scraper deployment.
type MetascraperGateway struct {
	client    *http.Client
	cache     *cache.Cache
	endpoint  string
	userAgent string
}

func NewMetascraperGateway(endpoint string) *MetascraperGateway {
	httpClient := http.Client{
		Timeout: defaultTimeout,
	}

	g := &MetascraperGateway{
		client:    &httpClient,
		cache:     cache.New(10*time.Minute, 15*time.Minute),
		endpoint:  endpoint,
		userAgent: "plopper/1.0",
	}
	httpClient.Transport = g
	return g
}

func (g *MetascraperGateway) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", g.userAgent)
	return http.DefaultTransport.RoundTrip(req)
}

func (g *MetascraperGateway) Scrape(ctx context.Context, target string) (plopper.PageMeta, error) {

	if cached, ok := g.cache.Get(target); ok {
		return cached.(plopper.PageMeta), nil
	}

	requestURL := g.endpoint + "?url=" + url.QueryEscape(target)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return plopper.PageMeta{}, fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return plopper.PageMeta{}, fmt.Errorf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return plopper.PageMeta{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var meta plopper.PageMeta
	err = json.NewDecoder(resp.Body).Decode(&meta)
	if err != nil {
		return plopper.PageMeta{}, fmt.Errorf("failed to decode response: %v", err)
	}

	g.cache.Set(target, meta, cache.DefaultExpiration)

	return meta, nil
}
