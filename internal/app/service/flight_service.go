package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/mytrippers/flight-search-service/internal/app/dto"
	"github.com/mytrippers/flight-search-service/internal/pkg/booking"
	"github.com/mytrippers/flight-search-service/internal/pkg/flightprovider"
	"github.com/mytrippers/flight-search-service/internal/pkg/flightprovider/travelpayouts"
)

// BookingLinker resolves a booking reference into a live agency link.
type BookingLinker interface {
	GenerateLink(ctx context.Context, searchID, termURL string) (booking.Link, error)
}

// FlightService is the boundary between the HTTP layer and the search
// pipeline.
type FlightService struct {
	Providers *flightprovider.Registry
	Booking   BookingLinker
}

func NewFlightService(providers *flightprovider.Registry, bookingClient BookingLinker) *FlightService {
	return &FlightService{
		Providers: providers,
		Booking:   bookingClient,
	}
}

// SearchFlights runs the blocking search against every registered
// provider. Exhausted poll loops are an expected outcome and are
// remapped to a successful empty response; only hard provider failures
// surface as errors.
func (s *FlightService) SearchFlights(
	ctx context.Context,
	criteria dto.SearchCriteria,
) (dto.SearchFlightResponse, error) {
	names := s.Providers.Names()
	if len(names) == 0 {
		return dto.SearchFlightResponse{}, ErrNoProviders
	}

	var (
		flights     []dto.Flight
		failures    []string
		hardFailure error
	)

	for _, name := range names {
		provider := s.Providers.GetProvider(name)

		found, err := provider.Search(ctx, criteria)
		if err != nil {
			if errors.Is(err, travelpayouts.ErrNoResults) {
				slog.InfoContext(ctx, "provider finished without results",
					slog.String("provider", name))

				continue
			}

			slog.WarnContext(ctx, "provider search failed",
				slog.String("provider", name),
				slog.Any("error", err))

			failures = append(failures, err.Error())
			if hardFailure == nil {
				hardFailure = err
			}

			continue
		}

		flights = append(flights, found...)
	}

	if len(flights) == 0 && hardFailure != nil {
		return dto.SearchFlightResponse{}, fmt.Errorf("failed to get flights from providers: %w", hardFailure)
	}

	if flights == nil {
		flights = []dto.Flight{}
	}

	return dto.SearchFlightResponse{
		Success:           true,
		Count:             len(flights),
		Data:              flights,
		ProvidersSearched: names,
		Errors:            failures,
	}, nil
}

// SearchFlightsStream starts a progressive search on the primary
// provider. The returned channel terminates with exactly one complete
// or exactly one error event; cancelling ctx stops the producer.
func (s *FlightService) SearchFlightsStream(
	ctx context.Context,
	criteria dto.SearchCriteria,
) (<-chan dto.StreamEvent, error) {
	name, provider := s.Providers.Primary()
	if provider == nil {
		return nil, ErrNoProviders
	}

	slog.DebugContext(ctx, "starting streaming search", slog.String("provider", name))

	return provider.Stream(ctx, criteria), nil
}

// FlightDetails re-runs the search and extracts the deep view for one
// itinerary coordinate. Both a drained session and a stale coordinate
// answer with a not-found error, mirroring the search that produced the
// indexes no longer being reproducible.
func (s *FlightService) FlightDetails(
	ctx context.Context,
	req dto.FlightDetailsRequest,
) (dto.FlightDetailsResponse, error) {
	_, provider := s.Providers.Primary()
	if provider == nil {
		return dto.FlightDetailsResponse{}, ErrNoProviders
	}

	details, err := provider.Details(ctx, req.SearchParams, *req.ProposalIndex, *req.ItemIndex)
	if err != nil {
		if errors.Is(err, travelpayouts.ErrNoResults) {
			return dto.FlightDetailsResponse{}, ErrDetailsNotFound
		}

		return dto.FlightDetailsResponse{}, fmt.Errorf("failed to get flight details: %w", err)
	}

	if details == nil {
		return dto.FlightDetailsResponse{}, ErrDetailsNotFound
	}

	return dto.FlightDetailsResponse{
		Success: true,
		Details: details,
	}, nil
}

// GenerateBookingLink resolves a booking reference via the clicks API.
func (s *FlightService) GenerateBookingLink(
	ctx context.Context,
	req dto.BookingLinkRequest,
) (dto.BookingLinkResponse, error) {
	link, err := s.Booking.GenerateLink(ctx, req.SearchID, req.TermURL)
	if err != nil {
		return dto.BookingLinkResponse{}, fmt.Errorf("failed to generate booking link: %w", err)
	}

	return dto.BookingLinkResponse{
		Success: true,
		Data: dto.BookingLink{
			Method:  link.Method,
			URL:     link.URL,
			Params:  link.Params,
			ClickID: link.ClickID,
			GateID:  link.GateID,
			RedirectURL: "/api/v1/booking/redirect?" + url.Values{
				"search_id": {req.SearchID},
				"term_url":  {req.TermURL},
			}.Encode(),
		},
	}, nil
}
