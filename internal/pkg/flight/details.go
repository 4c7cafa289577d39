package flight

import (
	"github.com/mytrippers/flight-search-service/internal/app/dto"
	"github.com/mytrippers/flight-search-service/internal/pkg/flightprovider/travelpayouts"
)

// Baggage allowances shown when the provider omits baggage data.
const (
	defaultCabinBaggage   = "7 kg per adult"
	defaultCheckedBaggage = "15 kg per adult"
)

// ExtractDetails resolves a (proposal, item) coordinate inside a raw
// payload into the deep per-segment view of that single itinerary. An
// out-of-range coordinate returns nil; stale indexes are a normal
// outcome, not an error.
func ExtractDetails(results []travelpayouts.SearchResult, proposalIndex, itemIndex int) *dto.EnhancedDetails {
	if itemIndex < 0 || itemIndex >= len(results) {
		return nil
	}

	item := results[itemIndex]
	if proposalIndex < 0 || proposalIndex >= len(item.Proposals) {
		return nil
	}

	proposal := item.Proposals[proposalIndex]

	return &dto.EnhancedDetails{
		Airline:           proposal.Airline(),
		ValidatingCarrier: proposal.ValidatingCarrier,
		Pricing:           pricingDetails(proposal),
		Segments:          segmentDetails(proposal.Segment),
		Baggage:           baggageDetails(proposal),
		Metadata: dto.DetailsMetadata{
			TotalSegments:      len(proposal.Segment),
			IsRoundTrip:        len(proposal.Segment) == 2,
			HasMultipleFlights: hasMultipleFlights(proposal.Segment),
		},
	}
}

func pricingDetails(proposal travelpayouts.Proposal) *dto.PricingDetails {
	termKey, term, ok := proposal.FirstTerm()
	if !ok {
		return nil
	}

	pricing := &dto.PricingDetails{
		Price:              term.Price,
		Currency:           term.Currency,
		UnifiedPrice:       term.UnifiedPrice,
		Multiplier:         term.Multiplier,
		ProposalMultiplier: term.ProposalMultiplier,
	}

	if term.URL != 0 {
		pricing.BookingURL = travelpayouts.RedirectBaseURL + term.URLFragment(termKey)
	}

	return pricing
}

func segmentDetails(segments []travelpayouts.Segment) []dto.SegmentDetails {
	details := make([]dto.SegmentDetails, len(segments))

	for segmentIndex, segment := range segments {
		flights := make([]dto.FlightDetails, len(segment.Flight))

		for flightIndex, leg := range segment.Flight {
			flights[flightIndex] = dto.FlightDetails{
				FlightIndex:  flightIndex,
				FlightNumber: flightNumber(leg.Number),
				Departure: dto.FlightEndpoint{
					Airport:  leg.Departure,
					Date:     leg.DepartureDate,
					Time:     leg.DepartureTime,
					Terminal: leg.DepartureTerminal,
				},
				Arrival: dto.FlightEndpoint{
					Airport:  leg.Arrival,
					Date:     leg.ArrivalDate,
					Time:     leg.ArrivalTime,
					Terminal: leg.ArrivalTerminal,
				},
				Aircraft:         leg.Aircraft,
				OperatingCarrier: leg.OperatingCarrier,
				FareBasis:        leg.FareBasis,
				DurationMinutes:  leg.Duration,
				SeatsRemaining:   leg.SeatsRemaining,
				Amenities:        amenities(leg),
			}
		}

		details[segmentIndex] = dto.SegmentDetails{
			SegmentIndex: segmentIndex,
			Flights:      flights,
		}
	}

	return details
}

func baggageDetails(proposal travelpayouts.Proposal) *dto.BaggageDetails {
	_, term, ok := proposal.FirstTerm()
	if !ok {
		return nil
	}

	baggage := &dto.BaggageDetails{
		AdditionalInfo: term.BaggageInfo,
	}

	for _, perSegment := range term.FlightsHandbags {
		cabin, checked := "N/A", "N/A"
		if len(perSegment) > 0 && perSegment[0] != "" {
			cabin = perSegment[0]
		}
		if len(perSegment) > 1 && perSegment[1] != "" {
			checked = perSegment[1]
		}

		baggage.CabinBaggage = append(baggage.CabinBaggage, cabin)
		baggage.CheckedBaggage = append(baggage.CheckedBaggage, checked)
	}

	if len(baggage.CabinBaggage) == 0 {
		baggage.CabinBaggage = []string{defaultCabinBaggage}
		baggage.CheckedBaggage = []string{defaultCheckedBaggage}
	}

	return baggage
}

func amenities(leg travelpayouts.FlightLeg) []string {
	var list []string

	if leg.Meal != "" {
		list = append(list, "meal")
	}
	if leg.Wifi {
		list = append(list, "wifi")
	}
	if leg.Entertainment != "" {
		list = append(list, "entertainment")
	}
	if leg.PowerOutlets {
		list = append(list, "power outlets")
	}

	return list
}

func hasMultipleFlights(segments []travelpayouts.Segment) bool {
	for _, segment := range segments {
		if len(segment.Flight) > 1 {
			return true
		}
	}

	return false
}

func flightNumber(number string) string {
	if number == "" {
		return "N/A"
	}

	return number
}
