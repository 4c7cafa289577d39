// Package currency converts provider prices into the base currency
// using a soft-failing, TTL-bound exchange rate cache.
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateMap holds rates expressed as "1 base-currency-unit = rate
// foreign-currency-units".
type RateMap map[string]float64

type ratesResponse struct {
	Base  string  `json:"base"`
	Rates RateMap `json:"rates"`
}

type snapshot struct {
	rates     RateMap
	fetchedAt time.Time
}

// Cache fetches exchange rates for a fixed base currency and keeps the
// last successful snapshot. A refresh happens only when the snapshot is
// older than the TTL; refresh failure falls back to the stale snapshot
// and never blocks conversion.
type Cache struct {
	apiURL string
	base   string
	ttl    time.Duration
	client *http.Client
	now    func() time.Time

	mu   sync.RWMutex
	snap snapshot
}

type Option func(*Cache)

// WithClock injects a clock, used by tests to drive TTL expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) {
		c.client = client
	}
}

func NewCache(apiURL, base string, ttl time.Duration, opts ...Option) *Cache {
	cache := &Cache{
		apiURL: apiURL,
		base:   strings.ToUpper(base),
		ttl:    ttl,
		client: http.DefaultClient,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

func (c *Cache) Base() string {
	return c.base
}

// Rates returns the cached mapping when it is fresh, otherwise attempts
// a refresh. The previous snapshot is returned on refresh failure, which
// may be empty on a first-ever failure.
func (c *Cache) Rates(ctx context.Context) RateMap {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	if !snap.fetchedAt.IsZero() && c.now().Sub(snap.fetchedAt) < c.ttl {
		return snap.rates
	}

	rates, err := c.fetch(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to refresh exchange rates, reusing last snapshot",
			slog.String("base", c.base),
			slog.String("error", err.Error()))

		return snap.rates
	}

	// whole-snapshot swap, rates and timestamp together
	c.mu.Lock()
	c.snap = snapshot{rates: rates, fetchedAt: c.now()}
	c.mu.Unlock()

	return rates
}

func (c *Cache) fetch(ctx context.Context) (RateMap, error) {
	url := fmt.Sprintf("%s/%s", c.apiURL, c.base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build rates request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates endpoint returned status %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode rates response: %w", err)
	}

	return body.Rates, nil
}

// Converter converts amounts into the cache's base currency.
type Converter struct {
	cache *Cache
}

func NewConverter(cache *Cache) *Converter {
	return &Converter{cache: cache}
}

func (c *Converter) Base() string {
	return c.cache.Base()
}

// Rates fetches a rate table to be shared across all conversions of a
// single transform invocation.
func (c *Converter) Rates(ctx context.Context) RateMap {
	return c.cache.Rates(ctx)
}

// Convert converts amount from the given currency into the base
// currency. It is the identity when the source currency is the base or
// when the rate is missing or zero, so a missing exchange rate never
// blocks a search result.
func (c *Converter) Convert(amount float64, fromCurrency string, rates RateMap) float64 {
	if amount == 0 || fromCurrency == "" {
		return amount
	}

	code := strings.ToUpper(fromCurrency)
	if code == c.cache.Base() {
		return amount
	}

	rate, ok := rates[code]
	if !ok || rate == 0 {
		return amount
	}

	return math.Round(amount / rate)
}
