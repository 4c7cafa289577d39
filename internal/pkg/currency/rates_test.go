package currency

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Rates_TTL(t *testing.T) {
	var fetches atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		assert.Equal(t, "/INR", r.URL.Path)
		fmt.Fprint(w, `{"base":"INR","rates":{"RUB":0.95,"USD":0.012}}`)
	}))
	defer server.Close()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	cache := NewCache(server.URL, "inr", time.Hour, WithClock(func() time.Time { return now }))

	ctx := context.Background()

	rates := cache.Rates(ctx)
	require.Equal(t, 0.95, rates["RUB"])
	assert.Equal(t, int32(1), fetches.Load())

	// inside the TTL window the snapshot is reused
	now = now.Add(59 * time.Minute)
	cache.Rates(ctx)
	assert.Equal(t, int32(1), fetches.Load())

	// past the TTL a refresh fires
	now = now.Add(2 * time.Minute)
	cache.Rates(ctx)
	assert.Equal(t, int32(2), fetches.Load())
}

func TestCache_Rates_RefreshFailureKeepsSnapshot(t *testing.T) {
	var failing atomic.Bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}
		fmt.Fprint(w, `{"base":"INR","rates":{"RUB":0.95}}`)
	}))
	defer server.Close()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	cache := NewCache(server.URL, "INR", time.Hour, WithClock(func() time.Time { return now }))

	ctx := context.Background()

	require.Equal(t, 0.95, cache.Rates(ctx)["RUB"])

	failing.Store(true)
	now = now.Add(2 * time.Hour)

	// stale snapshot survives the failed refresh
	assert.Equal(t, 0.95, cache.Rates(ctx)["RUB"])
}

func TestCache_Rates_FirstFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cache := NewCache(server.URL, "INR", time.Hour)

	assert.Empty(t, cache.Rates(context.Background()))
}

func TestConverter_Convert(t *testing.T) {
	converter := NewConverter(NewCache("http://unused", "INR", time.Hour))
	rates := RateMap{"RUB": 0.95, "USD": 0.012, "XXX": 0}

	convertRequest := func(amount float64, from string, want float64) func(t *testing.T) {
		return func(t *testing.T) {
			assert.Equal(t, want, converter.Convert(amount, from, rates))
		}
	}

	t.Run("rub_to_inr", convertRequest(9500, "RUB", 10000))
	t.Run("usd_to_inr", convertRequest(120, "USD", 10000))
	t.Run("rounded_to_whole_units", convertRequest(100, "RUB", 105))
	t.Run("base_is_identity", convertRequest(4200, "INR", 4200))
	t.Run("lowercase_base_is_identity", convertRequest(4200, "inr", 4200))
	t.Run("missing_rate_is_identity", convertRequest(4200, "GBP", 4200))
	t.Run("zero_rate_is_identity", convertRequest(4200, "XXX", 4200))
	t.Run("zero_amount", convertRequest(0, "RUB", 0))
	t.Run("empty_currency", convertRequest(4200, "", 4200))
}
