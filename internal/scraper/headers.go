package scraper

import (
	"math/rand"
	"net/http"
	"sync"
)

// userAgents is the fixed pool of client identities rotated across fetches.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
}

// RandomHeaders picks a user agent from the pool per call and attaches the
// fixed browser-like headers the listing pages expect.
type RandomHeaders struct {
	mu   sync.Mutex
	rand *rand.Rand
}

// NewRandomHeaders creates a RandomHeaders seeded for reproducibility.
func NewRandomHeaders(seed int64) *RandomHeaders {
	return &RandomHeaders{rand: rand.New(rand.NewSource(seed))}
}

// Headers returns the headers for one fetch attempt.
func (p *RandomHeaders) Headers() http.Header {
	p.mu.Lock()
	ua := userAgents[p.rand.Intn(len(userAgents))]
	p.mu.Unlock()

	h := http.Header{}
	h.Set("User-Agent", ua)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("DNT", "1")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
	return h
}
