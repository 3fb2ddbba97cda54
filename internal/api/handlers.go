package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/InflatablePotato/amazon-price-tracker-api/internal/tracker"
)

// Defaults applied to the deals placeholder endpoint.
const (
	defaultMinDiscount = 20
	defaultDealsLimit  = 10
)

type priceResponse struct {
	ASIN         string    `json:"asin"`
	Title        string    `json:"title"`
	CurrentPrice float64   `json:"current_price"`
	Currency     string    `json:"currency"`
	URL          string    `json:"url"`
	Placeholder  bool      `json:"placeholder"`
	LastUpdated  time.Time `json:"last_updated"`
}

type historyEntry struct {
	Price       float64   `json:"price"`
	Placeholder bool      `json:"placeholder"`
	Timestamp   time.Time `json:"timestamp"`
}

type historyResponse struct {
	ASIN         string         `json:"asin"`
	Title        string         `json:"title"`
	PriceHistory []historyEntry `json:"price_history"`
	LowestPrice  float64        `json:"lowest_price"`
	HighestPrice float64        `json:"highest_price"`
}

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"service": "Amazon Price Tracker API",
		"message": "Track Amazon product prices and get historical data",
	})
}

func (s *Server) currentPrice(w http.ResponseWriter, r *http.Request) {
	asin := chi.URLParam(r, "asin")
	quote, err := s.service.CurrentPrice(r.Context(), asin)
	if err != nil {
		s.logger.Error("current price failed", zap.String("asin", asin), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to record observation")
		return
	}
	s.writeJSON(w, http.StatusOK, priceResponse{
		ASIN:         quote.ASIN,
		Title:        quote.Title,
		CurrentPrice: quote.Price,
		Currency:     quote.Currency,
		URL:          quote.URL,
		Placeholder:  quote.Placeholder,
		LastUpdated:  quote.LastUpdated,
	})
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	asin := chi.URLParam(r, "asin")
	days := intQueryParam(r, "days", tracker.DefaultHistoryDays)

	hist, err := s.service.History(r.Context(), asin, days)
	if err != nil {
		s.logger.Error("history failed", zap.String("asin", asin), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to query history")
		return
	}

	resp := historyResponse{
		ASIN:         hist.ASIN,
		Title:        hist.Title,
		PriceHistory: make([]historyEntry, 0, len(hist.Entries)),
		LowestPrice:  hist.LowestPrice,
		HighestPrice: hist.HighestPrice,
	}
	for _, e := range hist.Entries {
		resp.PriceHistory = append(resp.PriceHistory, historyEntry{
			Price:       e.Price,
			Placeholder: e.Placeholder,
			Timestamp:   e.CapturedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// deals is a placeholder: it acknowledges the request without scraping.
func (s *Server) deals(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	minDiscount := intQueryParam(r, "min_discount", defaultMinDiscount)
	limit := intQueryParam(r, "limit", defaultDealsLimit)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Deals endpoint coming soon!",
		"category":     category,
		"min_discount": fmt.Sprintf("%d%%", minDiscount),
		"limit":        limit,
		"note":         "Requires scraping the deals pages - not implemented yet",
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": s.clock.Now(),
	})
}

func intQueryParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
