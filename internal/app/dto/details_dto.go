package dto

import (
	"fmt"
	"net/http"

	"github.com/mytrippers/flight-search-service/internal/pkg/exception"
)

// FlightDetailsRequest identifies one itinerary inside a fresh search by
// its (item, proposal) coordinate. Indexes are pointers so zero values
// survive the required validation.
type FlightDetailsRequest struct {
	ProposalIndex *int           `json:"proposal_index" validate:"required,min=0"`
	ItemIndex     *int           `json:"item_index" validate:"required,min=0"`
	SearchParams  SearchCriteria `json:"search_params" validate:"required"`
}

func (r *FlightDetailsRequest) Bind(req *http.Request) error {
	if r.SearchParams.Adults == 0 {
		r.SearchParams.Adults = 1
	}

	if err := ValidateSingleError(r); err != nil {
		return fmt.Errorf("error validate request: %w", exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		})
	}

	if err := r.SearchParams.Validate(); err != nil {
		return fmt.Errorf("error validate search params: %w", err)
	}

	return nil
}

type FlightDetailsResponse struct {
	Success bool             `json:"success"`
	Details *EnhancedDetails `json:"enhanced_details"`
}

// EnhancedDetails is the deep per-segment view of a single chosen
// itinerary.
type EnhancedDetails struct {
	Airline           string           `json:"airline"`
	ValidatingCarrier string           `json:"validating_carrier,omitempty"`
	Pricing           *PricingDetails  `json:"pricing"`
	Segments          []SegmentDetails `json:"segments"`
	Baggage           *BaggageDetails  `json:"baggage"`
	Metadata          DetailsMetadata  `json:"metadata"`
}

type PricingDetails struct {
	Price              float64 `json:"price"`
	Currency           string  `json:"currency"`
	UnifiedPrice       float64 `json:"unified_price,omitempty"`
	Multiplier         float64 `json:"multiplier,omitempty"`
	ProposalMultiplier float64 `json:"proposal_multiplier,omitempty"`
	BookingURL         string  `json:"booking_url,omitempty"`
}

type SegmentDetails struct {
	SegmentIndex int             `json:"segment_index"`
	Flights      []FlightDetails `json:"flights"`
}

type FlightDetails struct {
	FlightIndex      int            `json:"flight_index"`
	FlightNumber     string         `json:"flight_number"`
	Departure        FlightEndpoint `json:"departure"`
	Arrival          FlightEndpoint `json:"arrival"`
	Aircraft         string         `json:"aircraft,omitempty"`
	OperatingCarrier string         `json:"operating_carrier,omitempty"`
	FareBasis        string         `json:"fare_basis,omitempty"`
	DurationMinutes  int            `json:"duration_minutes,omitempty"`
	SeatsRemaining   int            `json:"seats_remaining,omitempty"`
	Amenities        []string       `json:"amenities,omitempty"`
}

type FlightEndpoint struct {
	Airport  string `json:"airport"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Terminal string `json:"terminal,omitempty"`
}

type BaggageDetails struct {
	CabinBaggage   []string `json:"cabin_baggage"`
	CheckedBaggage []string `json:"checked_baggage"`
	AdditionalInfo string   `json:"additional_info,omitempty"`
}

type DetailsMetadata struct {
	TotalSegments      int  `json:"total_segments"`
	IsRoundTrip        bool `json:"is_round_trip"`
	HasMultipleFlights bool `json:"has_multiple_flights"`
}

// BookingLinkRequest resolves a booking reference into a live agency
// redirect.
type BookingLinkRequest struct {
	SearchID string `json:"search_id" validate:"required"`
	TermURL  string `json:"term_url" validate:"required"`
}

func (r *BookingLinkRequest) Bind(req *http.Request) error {
	if err := ValidateSingleError(r); err != nil {
		return fmt.Errorf("error validate request: %w", exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		})
	}

	return nil
}

type BookingLinkResponse struct {
	Success bool        `json:"success"`
	Data    BookingLink `json:"data"`
}

type BookingLink struct {
	Method      string         `json:"method"`
	URL         string         `json:"url"`
	Params      map[string]any `json:"params,omitempty"`
	ClickID     int64          `json:"click_id"`
	GateID      int64          `json:"gate_id"`
	RedirectURL string         `json:"redirect_url"`
}
