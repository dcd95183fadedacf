package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestService() *Service {
	return New(3*time.Second, time.Minute, nil)
}

func TestScrapeOpenGraph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
			<title>Fallback Title</title>
			<meta property="og:title" content="Example"/>
			<meta property="og:description" content="An example article"/>
			<meta property="og:image" content="/cover.png"/>
		</head><body></body></html>`))
	}))
	defer srv.Close()

	meta, err := newTestService().Scrape(context.Background(), srv.URL+"/article")
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	if meta.Title != "Example" {
		t.Fatalf("expected og title, got %q", meta.Title)
	}
	if meta.Description != "An example article" {
		t.Fatalf("unexpected description %q", meta.Description)
	}
	if meta.Image != srv.URL+"/cover.png" {
		t.Fatalf("expected absolute image url, got %q", meta.Image)
	}
}

func TestScrapeTitleFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
			<title> Plain Page </title>
			<meta name="description" content="no open graph here">
		</head><body></body></html>`))
	}))
	defer srv.Close()

	meta, err := newTestService().Scrape(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	if meta.Title != "Plain Page" {
		t.Fatalf("expected title fallback, got %q", meta.Title)
	}
	if meta.Description != "no open graph here" {
		t.Fatalf("expected meta description fallback, got %q", meta.Description)
	}
	if meta.Image != "" {
		t.Fatalf("expected no image, got %q", meta.Image)
	}
}

func TestScrapeNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	if _, err := newTestService().Scrape(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}

func TestScrapeCachesResult(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(`<html><head><meta property="og:title" content="Once"/></head></html>`))
	}))
	defer srv.Close()

	s := newTestService()
	for i := 0; i < 3; i++ {
		if _, err := s.Scrape(context.Background(), srv.URL); err != nil {
			t.Fatalf("scrape %d failed: %v", i, err)
		}
	}
	if atomic.LoadInt64(&hits) != 1 {
		t.Fatalf("expected a single upstream fetch, got %d", hits)
	}
}
