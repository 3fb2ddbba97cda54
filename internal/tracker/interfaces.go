package tracker

import (
	"context"
	"time"
)

// Extractor produces an observation for an ASIN. It never fails outward:
// when every locator is exhausted it returns a placeholder observation.
type Extractor interface {
	Extract(ctx context.Context, asin string) Observation
}

// Store persists observations append-only and scans them back.
type Store interface {
	// Append writes a new row. The store assigns the capture timestamp at
	// write time; rows are never updated or deleted.
	Append(ctx context.Context, obs Observation) error
	// Recent returns the observations for asin captured inside the trailing
	// window, newest first. An empty slice means no data.
	Recent(ctx context.Context, asin string, window time.Duration) ([]Observation, error)
	Close() error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
