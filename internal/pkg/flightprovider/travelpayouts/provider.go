// Package travelpayouts implements the Travelpayouts v1 async flight
// search protocol: a signed submit call followed by a bounded poll loop,
// with an optional streaming mode that emits partial normalized results.
package travelpayouts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/mytrippers/flight-search-service/internal/app/dto"
)

const (
	ProviderName = "travelpayouts_v1"

	defaultLocale    = "en"
	defaultTripClass = "Y"

	// signing still works when public-IP discovery is down, at the cost
	// of a less precise signature context
	fallbackUserIP = "127.0.0.1"
)

// Config for the Travelpayouts provider.
type Config struct {
	Token               string
	Marker              string
	Host                string
	SearchAPIURL        string
	ResultsAPIURL       string
	IPLookupURL         string
	Locale              string
	TripClass           string
	Timeout             time.Duration
	RateLimitRPS        int
	PollMaxAttempts     int
	PollInterval        time.Duration
	StreamWarmup        time.Duration
	StreamStopThreshold int
	Limiter             *redis_rate.Limiter
}

// ResultTransformer turns raw result groups into normalized flights.
type ResultTransformer interface {
	OneWay(ctx context.Context, results []SearchResult) []dto.Flight
	RoundTrip(ctx context.Context, results []SearchResult) []dto.Flight
}

// DetailsExtractor resolves a (proposal, item) coordinate inside a raw
// payload into the deep per-segment view, nil when absent.
type DetailsExtractor func(results []SearchResult, proposalIndex, itemIndex int) *dto.EnhancedDetails

type Provider struct {
	cfg         Config
	client      *http.Client
	transformer ResultTransformer
	extract     DetailsExtractor
}

func NewProvider(cfg Config, transformer ResultTransformer, extract DetailsExtractor) *Provider {
	if cfg.Locale == "" {
		cfg.Locale = defaultLocale
	}
	if cfg.TripClass == "" {
		cfg.TripClass = defaultTripClass
	}
	if cfg.PollMaxAttempts <= 0 {
		cfg.PollMaxAttempts = 10
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.StreamWarmup <= 0 {
		cfg.StreamWarmup = 3 * time.Second
	}
	if cfg.StreamStopThreshold <= 0 {
		cfg.StreamStopThreshold = 30
	}

	return &Provider{
		cfg:         cfg,
		client:      &http.Client{Timeout: cfg.Timeout},
		transformer: transformer,
		extract:     extract,
	}
}

// Search runs the full submit/poll cycle and returns normalized flights.
func (p *Provider) Search(ctx context.Context, criteria dto.SearchCriteria) ([]dto.Flight, error) {
	results, err := p.RunSearch(ctx, criteria)
	if err != nil {
		return nil, err
	}

	return p.transform(ctx, criteria, results), nil
}

// Details re-runs the search to regenerate the raw payload, then
// extracts one itinerary's deep view. A nil result means the coordinate
// is stale or out of range, which is an expected outcome.
func (p *Provider) Details(ctx context.Context,
	criteria dto.SearchCriteria, proposalIndex, itemIndex int,
) (*dto.EnhancedDetails, error) {
	results, err := p.RunSearch(ctx, criteria)
	if err != nil {
		return nil, err
	}

	return p.extract(results, proposalIndex, itemIndex), nil
}

func (p *Provider) transform(ctx context.Context, criteria dto.SearchCriteria, results []SearchResult) []dto.Flight {
	if criteria.IsRoundTrip() {
		return p.transformer.RoundTrip(ctx, results)
	}

	return p.transformer.OneWay(ctx, results)
}

// buildPayload resolves the requester IP, assembles the segments and
// signs the result. A round trip adds the inbound segment with origin
// and destination swapped.
func (p *Provider) buildPayload(ctx context.Context, criteria dto.SearchCriteria) (SearchPayload, error) {
	payload := SearchPayload{
		Host:      p.cfg.Host,
		Marker:    p.cfg.Marker,
		UserIP:    p.publicIP(ctx),
		Locale:    p.cfg.Locale,
		TripClass: p.cfg.TripClass,
		Passengers: Passengers{
			Adults: criteria.Adults,
		},
		Segments: []SearchSegment{
			{Origin: criteria.Origin, Destination: criteria.Destination, Date: criteria.DepartureDate},
		},
	}

	if criteria.IsRoundTrip() {
		payload.Segments = append(payload.Segments, SearchSegment{
			Origin:      criteria.Destination,
			Destination: criteria.Origin,
			Date:        criteria.ReturnDate,
		})
	}

	signature, err := Sign(payload, p.cfg.Token)
	if err != nil {
		return SearchPayload{}, err
	}
	payload.Signature = signature

	return payload, nil
}

// publicIP queries the public-IP service and falls back to a loopback
// address on any failure, so IP discovery outages never break search.
func (p *Provider) publicIP(ctx context.Context) string {
	if p.cfg.IPLookupURL == "" {
		return fallbackUserIP
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.IPLookupURL, nil)
	if err != nil {
		return fallbackUserIP
	}

	resp, err := p.client.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch public IP, defaulting to loopback",
			slog.String("error", err.Error()))

		return fallbackUserIP
	}
	defer resp.Body.Close()

	var body struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.IP == "" {
		slog.WarnContext(ctx, "unexpected public IP response, defaulting to loopback")

		return fallbackUserIP
	}

	return body.IP
}

// allow enforces the outbound submit quota via the shared limiter.
func (p *Provider) allow(ctx context.Context) error {
	if p.cfg.Limiter == nil || p.cfg.RateLimitRPS <= 0 {
		return nil
	}

	res, err := p.cfg.Limiter.Allow(ctx, fmt.Sprintf("limit:%s", ProviderName),
		redis_rate.PerSecond(p.cfg.RateLimitRPS))
	if err != nil {
		return fmt.Errorf("failed to rate limit: %w", err)
	}

	if res.Allowed == 0 {
		return ErrRateLimitExceeded
	}

	return nil
}

// sleepCtx is a context-aware delay, never a busy wait.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled or timeout: %w", ctx.Err())
	}
}
