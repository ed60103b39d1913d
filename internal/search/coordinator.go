// Package search coordinates type-ahead client searches so that only the latest query of a
// caller produces a result.
package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"physio_records_backend/internal/models"
)

// DefaultWindow is the quiet period a query must survive before it reaches the store.
const DefaultWindow = 300 * time.Millisecond

var (
	// ErrSuperseded means a newer query arrived before this one left the quiet window.
	ErrSuperseded = errors.New("search superseded by a newer query")
	// ErrStale means this query ran, but a newer one started before it finished.
	ErrStale = errors.New("search result is stale")
)

// Func runs one search against the store.
type Func func(ctx context.Context, query string) ([]models.Client, error)

// Coordinator serialises the searches of a single caller by generation number.
type Coordinator struct {
	search Func
	window time.Duration

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewCoordinator returns a coordinator; a negative window is treated as zero.
func NewCoordinator(fn Func, window time.Duration) *Coordinator {
	if window < 0 {
		window = 0
	}
	return &Coordinator{search: fn, window: window}
}

// Submit waits out the quiet window and runs the query unless a newer one arrived meanwhile.
// Starting a query cancels the context of any older query still in flight.
func (c *Coordinator) Submit(ctx context.Context, query string) ([]models.Client, error) {
	c.mu.Lock()
	c.gen++
	mine := c.gen
	c.mu.Unlock()

	if c.window > 0 {
		timer := time.NewTimer(c.window)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.mu.Lock()
	if c.gen != mine {
		c.mu.Unlock()
		return nil, observe(ErrSuperseded)
	}
	if c.cancel != nil {
		c.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	results, err := c.search(runCtx, query)

	if c.generation() != mine {
		return nil, observe(ErrStale)
	}
	if err != nil {
		return nil, observe(err)
	}
	observe(nil)
	return results, nil
}

func (c *Coordinator) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}
