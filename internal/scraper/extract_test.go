package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestParsePrice_NumericExtraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want float64
		ok   bool
	}{
		{name: "currency symbol with thousands separator", text: "$1,234.56", want: 1234.56, ok: true},
		{name: "number embedded in prose", text: "Price: 19.99 each", want: 19.99, ok: true},
		{name: "whole number", text: "$42", want: 42, ok: true},
		{name: "no digits", text: "Currently unavailable", ok: false},
		{name: "empty", text: "", ok: false},
		{name: "separators only", text: ",,", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := parsePrice(tt.text)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestExtractPrice_SelectorPrecedence(t *testing.T) {
	t.Parallel()

	// Both selectors match; the earlier-listed one must win.
	page := `<html><body>
		<span id="priceblock_dealprice">$25.00</span>
		<span class="a-price"><span class="a-offscreen">$30.00</span></span>
	</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	price, ok := extractPrice(doc)
	require.True(t, ok)
	require.InDelta(t, 25.00, price, 1e-9)
}

func TestExtractPrice_SkipsUnparseableElements(t *testing.T) {
	t.Parallel()

	// The first matching element has no digits; the search must continue to
	// the next element instead of aborting.
	page := `<html><body>
		<span class="a-price"><span class="a-offscreen">See options</span></span>
		<span class="a-price"><span class="a-offscreen">$12.50</span></span>
	</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	price, ok := extractPrice(doc)
	require.True(t, ok)
	require.InDelta(t, 12.50, price, 1e-9)
}

func TestExtractPrice_NoMatch(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><p>nothing here</p></body></html>`))
	require.NoError(t, err)

	_, ok := extractPrice(doc)
	require.False(t, ok)
}

func TestExtractTitle_FirstNonEmptyWins(t *testing.T) {
	t.Parallel()

	page := `<html><body>
		<span id="productTitle">  Widget Deluxe  </span>
		<h1 class="a-size-large">Other Name</h1>
	</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	title, ok := extractTitle(doc)
	require.True(t, ok)
	require.Equal(t, "Widget Deluxe", title)
}

func TestExtractTitle_FallsThroughEmptyElements(t *testing.T) {
	t.Parallel()

	page := `<html><body>
		<span id="productTitle">   </span>
		<h1 id="title">Backup Title</h1>
	</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	title, ok := extractTitle(doc)
	require.True(t, ok)
	require.Equal(t, "Backup Title", title)
}
