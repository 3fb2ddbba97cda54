// Package tracker defines core types shared across subsystems.
package tracker

import "time"

// DefaultCurrency is the currency code attached to every observation.
const DefaultCurrency = "USD"

// DefaultHistoryDays is the trailing window applied when a history request
// does not specify one.
const DefaultHistoryDays = 30

// Observation is one captured (price, title, time, source) tuple for an ASIN.
// Placeholder marks rows synthesized after every live fetch attempt failed;
// it is the only reliable way to tell a fabricated price from a real one.
type Observation struct {
	ASIN        string    `json:"asin"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	URL         string    `json:"url"`
	Placeholder bool      `json:"placeholder"`
	CapturedAt  time.Time `json:"captured_at"`
}

// Quote is an observation reshaped for the current-price endpoint.
// LastUpdated is the call time, independent of the stored capture timestamp.
type Quote struct {
	Observation
	LastUpdated time.Time `json:"last_updated"`
}

// HistoryEntry is a single point in a price history.
type HistoryEntry struct {
	Price       float64   `json:"price"`
	Placeholder bool      `json:"placeholder"`
	CapturedAt  time.Time `json:"timestamp"`
}

// History aggregates the observations for one ASIN inside a trailing window,
// newest first. Title is taken from the most recent row.
type History struct {
	ASIN         string         `json:"asin"`
	Title        string         `json:"title"`
	Entries      []HistoryEntry `json:"price_history"`
	LowestPrice  float64        `json:"lowest_price"`
	HighestPrice float64        `json:"highest_price"`
}
