package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/InflatablePotato/amazon-price-tracker-api/internal/tracker"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func openTestStore(t *testing.T, clk tracker.Clock) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prices.db"), clk)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestStore_AppendAndRecentNewestFirst(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)}
	s := openTestStore(t, clk)
	ctx := context.Background()

	prices := []float64{19.99, 17.50, 21.00}
	for _, p := range prices {
		err := s.Append(ctx, tracker.Observation{
			ASIN:     "B00TEST01",
			Title:    "Widget",
			Price:    p,
			Currency: "USD",
			URL:      "https://www.amazon.com/dp/B00TEST01",
		})
		require.NoError(t, err)
		clk.now = clk.now.Add(time.Minute)
	}

	rows, err := s.Recent(ctx, "B00TEST01", 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Newest first: the last append comes back first.
	require.InDelta(t, 21.00, rows[0].Price, 1e-9)
	require.InDelta(t, 17.50, rows[1].Price, 1e-9)
	require.InDelta(t, 19.99, rows[2].Price, 1e-9)
	require.True(t, rows[0].CapturedAt.After(rows[2].CapturedAt))
	require.Equal(t, "Widget", rows[0].Title)
	require.Equal(t, "USD", rows[0].Currency)
}

func TestStore_CaptureTimestampAssignedAtWrite(t *testing.T) {
	t.Parallel()

	writeTime := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	clk := &fakeClock{now: writeTime}
	s := openTestStore(t, clk)
	ctx := context.Background()

	// A caller-supplied CapturedAt must be ignored.
	err := s.Append(ctx, tracker.Observation{
		ASIN:       "B00TEST02",
		Price:      9.99,
		Currency:   "USD",
		CapturedAt: writeTime.Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	rows, err := s.Recent(ctx, "B00TEST02", time.Hour)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, writeTime, rows[0].CapturedAt)
}

func TestStore_WindowExcludesOldRows(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)}
	s := openTestStore(t, clk)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, tracker.Observation{ASIN: "B00TEST03", Price: 10, Currency: "USD"}))

	clk.now = clk.now.Add(40 * 24 * time.Hour)
	require.NoError(t, s.Append(ctx, tracker.Observation{ASIN: "B00TEST03", Price: 12, Currency: "USD"}))

	rows, err := s.Recent(ctx, "B00TEST03", 30*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.InDelta(t, 12, rows[0].Price, 1e-9)

	// Widening the window brings the old row back.
	rows, err = s.Recent(ctx, "B00TEST03", 90*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestStore_RowsIsolatedByASIN(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Now().UTC()}
	s := openTestStore(t, clk)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, tracker.Observation{ASIN: "B00AAAAAA", Price: 1, Currency: "USD"}))
	require.NoError(t, s.Append(ctx, tracker.Observation{ASIN: "B00BBBBBB", Price: 2, Currency: "USD"}))

	rows, err := s.Recent(ctx, "B00AAAAAA", time.Hour)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "B00AAAAAA", rows[0].ASIN)
}

func TestStore_PlaceholderFlagRoundTrips(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Now().UTC()}
	s := openTestStore(t, clk)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, tracker.Observation{
		ASIN:        "B00TEST04",
		Title:       "Mock Product B00TEST04 (scraping blocked)",
		Price:       99.99,
		Currency:    "USD",
		Placeholder: true,
	}))

	rows, err := s.Recent(ctx, "B00TEST04", time.Hour)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].Placeholder)
}

func TestStore_EmptyResultIsEmptySlice(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, &fakeClock{now: time.Now().UTC()})

	rows, err := s.Recent(context.Background(), "B00NODATA", time.Hour)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestStore_SameSecondOrderedByInsertion(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Now().UTC()}
	s := openTestStore(t, clk)
	ctx := context.Background()

	// All rows share one timestamp; id order must break the tie.
	for _, p := range []float64{1, 2, 3} {
		require.NoError(t, s.Append(ctx, tracker.Observation{ASIN: "B00TEST05", Price: p, Currency: "USD"}))
	}

	rows, err := s.Recent(ctx, "B00TEST05", time.Hour)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.InDelta(t, 3, rows[0].Price, 1e-9)
	require.InDelta(t, 1, rows[2].Price, 1e-9)
}
