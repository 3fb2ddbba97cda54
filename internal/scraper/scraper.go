// Package scraper extracts price observations from product listing pages.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/InflatablePotato/amazon-price-tracker-api/internal/metrics"
	"github.com/InflatablePotato/amazon-price-tracker-api/internal/tracker"
)

// PlaceholderPrice is the fixed price attached to placeholder observations.
const PlaceholderPrice = 99.99

// Page is the raw result of fetching one locator.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Fetcher retrieves a single page with the given client-identity headers.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers http.Header) (Page, error)
}

// HeaderProvider supplies the client-identity headers for one fetch attempt.
type HeaderProvider interface {
	Headers() http.Header
}

// DelayPolicy blocks before a fetch attempt to spread load. It must return
// early when the context is canceled.
type DelayPolicy interface {
	Wait(ctx context.Context)
}

// Scraper implements tracker.Extractor against Amazon listing pages.
type Scraper struct {
	baseURL string
	fetcher Fetcher
	headers HeaderProvider
	delay   DelayPolicy
	logger  *zap.Logger
}

// New constructs a Scraper.
func New(baseURL string, fetcher Fetcher, headers HeaderProvider, delay DelayPolicy, logger *zap.Logger) *Scraper {
	return &Scraper{
		baseURL: baseURL,
		fetcher: fetcher,
		headers: headers,
		delay:   delay,
		logger:  logger,
	}
}

// locators returns the listing-page path variants for asin, in priority order.
func (s *Scraper) locators(asin string) []string {
	return []string{
		fmt.Sprintf("%s/dp/%s", s.baseURL, asin),
		fmt.Sprintf("%s/gp/product/%s", s.baseURL, asin),
	}
}

// Extract tries each locator in order and returns the first observation that
// yields a price. It never fails outward: when every locator is exhausted it
// returns a placeholder observation tagged as such.
func (s *Scraper) Extract(ctx context.Context, asin string) tracker.Observation {
	locators := s.locators(asin)
	for _, locator := range locators {
		s.delay.Wait(ctx)

		page, err := s.fetcher.Fetch(ctx, locator, s.headers.Headers())
		if err != nil {
			metrics.ObserveFetchAttempt("error")
			s.logger.Debug("fetch failed", zap.String("url", locator), zap.Error(err))
			continue
		}
		if page.StatusCode == http.StatusServiceUnavailable {
			metrics.ObserveFetchAttempt("unavailable")
			s.logger.Debug("listing temporarily unavailable", zap.String("url", locator))
			continue
		}
		if page.StatusCode < 200 || page.StatusCode >= 300 {
			metrics.ObserveFetchAttempt("bad_status")
			s.logger.Debug("unexpected status", zap.String("url", locator), zap.Int("status", page.StatusCode))
			continue
		}
		metrics.ObserveFetchAttempt("ok")

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
		if err != nil {
			s.logger.Debug("parse failed", zap.String("url", locator), zap.Error(err))
			continue
		}

		price, found := extractPrice(doc)
		if !found {
			continue
		}
		title, found := extractTitle(doc)
		if !found {
			title = syntheticTitle(asin)
		}

		metrics.ObserveScrape(false)
		return tracker.Observation{
			ASIN:     asin,
			Title:    title,
			Price:    price,
			Currency: tracker.DefaultCurrency,
			URL:      locator,
		}
	}

	s.logger.Warn("all locators exhausted, returning placeholder", zap.String("asin", asin))
	metrics.ObserveScrape(true)
	return tracker.Observation{
		ASIN:        asin,
		Title:       placeholderTitle(asin),
		Price:       PlaceholderPrice,
		Currency:    tracker.DefaultCurrency,
		URL:         locators[0],
		Placeholder: true,
	}
}

func syntheticTitle(asin string) string {
	return fmt.Sprintf("Product %s", asin)
}

func placeholderTitle(asin string) string {
	return fmt.Sprintf("Mock Product %s (scraping blocked)", asin)
}
