package endpoints

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/mytrippers/flight-search-service/internal/app/dto"
)

type FlightService interface {
	SearchFlights(ctx context.Context, criteria dto.SearchCriteria) (dto.SearchFlightResponse, error)
	FlightDetails(ctx context.Context, req dto.FlightDetailsRequest) (dto.FlightDetailsResponse, error)
	GenerateBookingLink(ctx context.Context, req dto.BookingLinkRequest) (dto.BookingLinkResponse, error)
}

type Endpoints struct {
	SearchFlights       endpoint.Endpoint
	FlightDetails       endpoint.Endpoint
	GenerateBookingLink endpoint.Endpoint
}

func MakeEndpoints(service FlightService) Endpoints {
	return Endpoints{
		SearchFlights:       makeSearchFlightsEndpoint(service),
		FlightDetails:       makeFlightDetailsEndpoint(service),
		GenerateBookingLink: makeBookingLinkEndpoint(service),
	}
}

func makeSearchFlightsEndpoint(service FlightService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.SearchCriteria)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		response, err := service.SearchFlights(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("flight service: %w", err)
		}

		return response, nil
	}
}

func makeFlightDetailsEndpoint(service FlightService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.FlightDetailsRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		response, err := service.FlightDetails(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("flight service: %w", err)
		}

		return response, nil
	}
}

func makeBookingLinkEndpoint(service FlightService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.BookingLinkRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		response, err := service.GenerateBookingLink(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("flight service: %w", err)
		}

		return response, nil
	}
}
