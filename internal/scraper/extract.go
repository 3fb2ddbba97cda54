package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// priceSelectors is evaluated in order; the first element across all
// selectors whose text parses as a number wins. Earlier selectors take
// precedence over later ones even if both would match.
var priceSelectors = []string{
	"span.a-price-whole",
	"span.a-price.a-text-price.a-size-medium.apexPriceToPay span.a-offscreen",
	"span#priceblock_dealprice",
	"span#priceblock_ourprice",
	"span.a-price.a-text-price.a-size-medium span.a-offscreen",
	"span.a-price-range",
	".a-price .a-offscreen",
	"span[data-a-color=\"price\"]",
	".a-price-whole",
	"#corePrice_feature_div .a-offscreen",
	"#apex_desktop .a-offscreen",
	"#price_inside_buybox",
}

// titleSelectors is evaluated in order; the first non-empty text wins.
var titleSelectors = []string{
	"#productTitle",
	"h1.a-size-large",
	"h1#title",
	".product-title",
	"h1 span",
}

// priceRe matches an optional currency symbol followed by digit groups with
// an optional decimal part. Only the first capture group is used.
var priceRe = regexp.MustCompile(`\$?([0-9,]+\.?[0-9]*)`)

// extractPrice walks the price selector list and returns the first
// parseable price found.
func extractPrice(doc *goquery.Document) (float64, bool) {
	for _, selector := range priceSelectors {
		var (
			price float64
			found bool
		)
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if v, ok := parsePrice(sel.Text()); ok {
				price = v
				found = true
				return false
			}
			return true
		})
		if found {
			return price, true
		}
	}
	return 0, false
}

// parsePrice extracts a number from price text. Thousands separators are
// ignored; a match that fails to parse as a float is treated as no match.
func parsePrice(text string) (float64, bool) {
	m := priceRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, false
	}
	raw := strings.ReplaceAll(m[1], ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// extractTitle walks the title selector list and returns the first
// non-empty trimmed text.
func extractTitle(doc *goquery.Document) (string, bool) {
	for _, selector := range titleSelectors {
		var title string
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if t := strings.TrimSpace(sel.Text()); t != "" {
				title = t
				return false
			}
			return true
		})
		if title != "" {
			return title, true
		}
	}
	return "", false
}
