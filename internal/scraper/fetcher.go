package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// CollyFetcher implements the Fetcher interface using the Colly collector.
type CollyFetcher struct {
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// NewCollyFetcher constructs a configured Colly-based Fetcher.
func NewCollyFetcher(timeout time.Duration, logger *zap.Logger) *CollyFetcher {
	base := colly.NewCollector()
	// The same listing URL is fetched on every request for that ASIN.
	base.AllowURLRevisit = true
	base.IgnoreRobotsTxt = true
	base.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        32,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	})
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	base.SetRequestTimeout(timeout)

	return &CollyFetcher{
		baseCollector: base,
		logger:        logger,
	}
}

// Fetch retrieves a single page via a cloned collector. A response with a
// non-success status is returned as a Page, not an error, so callers can
// tell temporary unavailability apart from transport failures.
func (f *CollyFetcher) Fetch(ctx context.Context, url string, headers http.Header) (Page, error) {
	collector := f.baseCollector.Clone()
	collector.AllowURLRevisit = true
	collector.IgnoreRobotsTxt = true

	var (
		page     Page
		gotPage  bool
		fetchErr error
	)

	collector.OnRequest(func(r *colly.Request) {
		for key, values := range headers {
			for _, v := range values {
				r.Headers.Set(key, v)
			}
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		page = Page{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       append([]byte(nil), r.Body...),
		}
		gotPage = true
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode > 0 {
			page = Page{URL: url, StatusCode: r.StatusCode, Body: append([]byte(nil), r.Body...)}
			gotPage = true
			return
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return Page{}, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if gotPage {
			return page, nil
		}
		if fetchErr != nil {
			return Page{}, fmt.Errorf("fetch %s: %w", url, fetchErr)
		}
		if err != nil {
			return Page{}, fmt.Errorf("visit %s: %w", url, err)
		}
		return Page{}, errors.New("fetch produced no response")
	}
}
