package dto

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mytrippers/flight-search-service/internal/pkg/exception"
)

// Flight is a normalized one-way or round-trip itinerary. Prices are
// already converted to the base currency; Onward and Return are only
// populated for round trips and Price then covers both directions.
type Flight struct {
	Airline      string            `json:"airline"`
	Price        Price             `json:"price"`
	FlightNumber string            `json:"flight_number"`
	Origin       string            `json:"origin"`
	Destination  string            `json:"destination"`
	DepartureAt  string            `json:"departure_at"`
	ArrivalAt    string            `json:"arrival_at"`
	IsRoundTrip  bool              `json:"is_round_trip,omitempty"`
	Onward       *FlightLeg        `json:"onward,omitempty"`
	Return       *FlightLeg        `json:"return,omitempty"`
	Booking      *BookingReference `json:"booking_reference,omitempty"`
}

// FlightLeg is one direction of a round trip.
type FlightLeg struct {
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	DepartureAt  string `json:"departure_at"`
	ArrivalAt    string `json:"arrival_at"`
	FlightNumber string `json:"flight_number"`
}

type Price struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
}

// BookingReference points at a live agency offer so a booking link can
// be resolved later without re-running the search.
type BookingReference struct {
	SearchID string `json:"search_id"`
	TermURL  string `json:"term_url"`
}

// SearchCriteria is the public search request. A return date makes the
// request a round trip of exactly two directional segments.
type SearchCriteria struct {
	Origin        string `json:"origin" validate:"required,len=3,alpha"`
	Destination   string `json:"destination" validate:"required,len=3,alpha"`
	DepartureDate string `json:"departure_date" validate:"required,datetime=2006-01-02"`
	ReturnDate    string `json:"return_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Adults        int    `json:"adults" validate:"omitempty,min=1,max=9"`
}

func (s *SearchCriteria) Bind(r *http.Request) error {
	if s.Adults == 0 {
		s.Adults = 1
	}

	if err := s.Validate(); err != nil {
		return fmt.Errorf("error validate request: %w", err)
	}

	return nil
}

func (s *SearchCriteria) Validate() error {
	if err := ValidateSingleError(s); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return nil
}

func (s *SearchCriteria) IsRoundTrip() bool {
	return s.ReturnDate != ""
}

// SearchCriteriaFromQuery builds criteria from URL query values, used by
// the GET search and SSE stream endpoints.
func SearchCriteriaFromQuery(values url.Values) (*SearchCriteria, error) {
	adults := 1
	if raw := values.Get("adults"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, exception.ApplicationError{
				StatusCode: http.StatusBadRequest,
				Message:    "adults must be a number",
			}
		}
		adults = parsed
	}

	criteria := SearchCriteria{
		Origin:        values.Get("origin"),
		Destination:   values.Get("destination"),
		DepartureDate: values.Get("departure_date"),
		ReturnDate:    values.Get("return_date"),
		Adults:        adults,
	}
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	return &criteria, nil
}

// SearchFlightResponse is the response struct for the search flight endpoint.
// A search that genuinely found nothing is still a success with count 0.
type SearchFlightResponse struct {
	Success           bool     `json:"success"`
	Count             int      `json:"count"`
	Data              []Flight `json:"data"`
	ProvidersSearched []string `json:"providers_searched"`
	Errors            []string `json:"errors"`
}

// Stream event types delivered over the SSE endpoint.
const (
	StreamEventConnected = "connected"
	StreamEventProgress  = "progress"
	StreamEventComplete  = "complete"
	StreamEventError     = "error"
)

// StreamEvent is one element of a progressive search. A stream carries
// zero or more progress events followed by exactly one complete or
// exactly one error event.
type StreamEvent struct {
	Type       string   `json:"type"`
	Flights    []Flight `json:"flights,omitempty"`
	TotalFound int      `json:"total_found"`
	IsComplete bool     `json:"is_complete"`
	Error      string   `json:"error,omitempty"`
	Timestamp  string   `json:"timestamp,omitempty"`
}
