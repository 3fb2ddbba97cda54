package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/InflatablePotato/amazon-price-tracker-api/internal/tracker"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestStore_AppendStampsWriteTime(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	s := NewWithPool(mock, &fakeClock{now: now})

	mock.ExpectExec("INSERT INTO price_history").
		WithArgs("B00TEST01", "Widget", 19.99, "USD", false, "https://www.amazon.com/dp/B00TEST01", now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = s.Append(context.Background(), tracker.Observation{
		ASIN:     "B00TEST01",
		Title:    "Widget",
		Price:    19.99,
		Currency: "USD",
		URL:      "https://www.amazon.com/dp/B00TEST01",
		// Caller-supplied CapturedAt is ignored; the clock wins.
		CapturedAt: now.Add(-time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AppendWrapsExecError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewWithPool(mock, &fakeClock{now: time.Now().UTC()})

	mock.ExpectExec("INSERT INTO price_history").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	err = s.Append(context.Background(), tracker.Observation{ASIN: "B00TEST02", Price: 1, Currency: "USD"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "insert observation")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RecentScansRowsNewestFirst(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	s := NewWithPool(mock, &fakeClock{now: now})

	window := 30 * 24 * time.Hour
	rows := pgxmock.NewRows([]string{"asin", "title", "price", "currency", "placeholder", "url", "captured_at"}).
		AddRow("B00TEST03", "Widget", 21.00, "USD", false, "https://www.amazon.com/dp/B00TEST03", now).
		AddRow("B00TEST03", "Widget", 17.50, "USD", false, "https://www.amazon.com/dp/B00TEST03", now.Add(-time.Hour)).
		AddRow("B00TEST03", "Mock Product B00TEST03 (scraping blocked)", 99.99, "USD", true, "https://www.amazon.com/dp/B00TEST03", now.Add(-2*time.Hour))

	mock.ExpectQuery("SELECT asin, title, price, currency, placeholder, url, captured_at").
		WithArgs("B00TEST03", now.Add(-window)).
		WillReturnRows(rows)

	got, err := s.Recent(context.Background(), "B00TEST03", window)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.InDelta(t, 21.00, got[0].Price, 1e-9)
	require.True(t, got[2].Placeholder)
	require.Equal(t, now, got[0].CapturedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RecentWrapsQueryError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewWithPool(mock, &fakeClock{now: time.Now().UTC()})

	mock.ExpectQuery("SELECT asin, title, price").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("relation does not exist"))

	_, err = s.Recent(context.Background(), "B00TEST04", time.Hour)
	require.Error(t, err)
	require.Contains(t, err.Error(), "query observations")
	require.NoError(t, mock.ExpectationsWereMet())
}
