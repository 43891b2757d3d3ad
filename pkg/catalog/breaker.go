package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/planetdyn/shtk/pkg/config"
)

// CircuitBreakerFetcher wraps a Fetcher with circuit breaking so a dead
// catalog host stops consuming retry budgets.
type CircuitBreakerFetcher struct {
	fetcher Fetcher
	cb      *gobreaker.CircuitBreaker
	name    string
}

// NewCircuitBreakerFetcher creates a new circuit breaker wrapper.
func NewCircuitBreakerFetcher(fetcher Fetcher, cfg config.CircuitBreakerConfig, name string) *CircuitBreakerFetcher {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				fmt.Printf("Circuit breaker %q changed from %s to %s; catalog downloads suspended\n",
					name, from, to)
			}
		},
	}

	return &CircuitBreakerFetcher{
		fetcher: fetcher,
		cb:      gobreaker.NewCircuitBreaker(st),
		name:    name,
	}
}

// Fetch implements Fetcher.
func (c *CircuitBreakerFetcher) Fetch(ctx context.Context, entry Entry) (string, error) {
	path, err := c.cb.Execute(func() (interface{}, error) {
		return c.fetcher.Fetch(ctx, entry)
	})
	if err != nil {
		return "", err
	}
	return path.(string), nil
}
