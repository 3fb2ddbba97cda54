package scraper

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// UniformDelay waits a random duration drawn uniformly from [min, max]
// before each fetch attempt.
type UniformDelay struct {
	min time.Duration
	max time.Duration

	mu   sync.Mutex
	rand *rand.Rand
}

// NewUniformDelay creates a UniformDelay with the given bounds.
func NewUniformDelay(min, max time.Duration, seed int64) *UniformDelay {
	if max < min {
		max = min
	}
	return &UniformDelay{
		min:  min,
		max:  max,
		rand: rand.New(rand.NewSource(seed)),
	}
}

// Wait blocks for the drawn duration or until ctx is canceled.
func (d *UniformDelay) Wait(ctx context.Context) {
	delay := d.min
	if span := d.max - d.min; span > 0 {
		d.mu.Lock()
		delay += time.Duration(d.rand.Int63n(int64(span) + 1))
		d.mu.Unlock()
	}
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
