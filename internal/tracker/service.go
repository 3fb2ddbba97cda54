package tracker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Service wires the extractor and the store behind the three read operations
// the HTTP layer exposes. Each call is independent; there is no shared
// mutable state between requests.
type Service struct {
	extractor Extractor
	store     Store
	clock     Clock
	logger    *zap.Logger
}

// NewService constructs a Service.
func NewService(extractor Extractor, store Store, clock Clock, logger *zap.Logger) *Service {
	return &Service{
		extractor: extractor,
		store:     store,
		clock:     clock,
		logger:    logger,
	}
}

// CurrentPrice extracts a fresh observation for asin, appends it to the
// store, and returns it stamped with the call time. Extraction cannot fail;
// only storage errors propagate.
func (s *Service) CurrentPrice(ctx context.Context, asin string) (Quote, error) {
	obs := s.extractor.Extract(ctx, asin)
	if err := s.store.Append(ctx, obs); err != nil {
		return Quote{}, fmt.Errorf("append observation: %w", err)
	}
	s.logger.Info("observation recorded",
		zap.String("asin", asin),
		zap.Float64("price", obs.Price),
		zap.Bool("placeholder", obs.Placeholder),
	)
	return Quote{Observation: obs, LastUpdated: s.clock.Now()}, nil
}

// History returns the stored aggregate for asin over the trailing window.
// With no prior observations it falls back to a single fresh
// fetch-and-append and synthesizes a one-entry history from it.
func (s *Service) History(ctx context.Context, asin string, days int) (History, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	window := time.Duration(days) * 24 * time.Hour

	rows, err := s.store.Recent(ctx, asin, window)
	if err != nil {
		return History{}, fmt.Errorf("query observations: %w", err)
	}
	if len(rows) == 0 {
		obs := s.extractor.Extract(ctx, asin)
		if err := s.store.Append(ctx, obs); err != nil {
			return History{}, fmt.Errorf("append observation: %w", err)
		}
		obs.CapturedAt = s.clock.Now()
		return aggregate(asin, []Observation{obs}), nil
	}
	return aggregate(asin, rows), nil
}

// aggregate folds newest-first rows into a History. The title comes from
// the first row, not a consensus across rows.
func aggregate(asin string, rows []Observation) History {
	h := History{
		ASIN:         asin,
		Title:        rows[0].Title,
		Entries:      make([]HistoryEntry, 0, len(rows)),
		LowestPrice:  rows[0].Price,
		HighestPrice: rows[0].Price,
	}
	for _, obs := range rows {
		if obs.Price < h.LowestPrice {
			h.LowestPrice = obs.Price
		}
		if obs.Price > h.HighestPrice {
			h.HighestPrice = obs.Price
		}
		h.Entries = append(h.Entries, HistoryEntry{
			Price:       obs.Price,
			Placeholder: obs.Placeholder,
			CapturedAt:  obs.CapturedAt,
		})
	}
	return h
}
