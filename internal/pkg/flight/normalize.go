// Package flight turns raw provider result groups into the normalized
// flight records served to clients.
package flight

import (
	"context"
	"fmt"

	"github.com/mytrippers/flight-search-service/internal/app/dto"
	"github.com/mytrippers/flight-search-service/internal/pkg/currency"
	"github.com/mytrippers/flight-search-service/internal/pkg/flightprovider/travelpayouts"
	"github.com/mytrippers/flight-search-service/internal/pkg/utils"
)

type tripShape int

const (
	tripOneWay tripShape = iota
	tripRoundTrip
)

// Transformer normalizes raw proposals and converts their prices into
// the base currency.
type Transformer struct {
	converter *currency.Converter
}

func NewTransformer(converter *currency.Converter) *Transformer {
	return &Transformer{converter: converter}
}

// OneWay normalizes proposals as single-direction itineraries. Only the
// first flight leg of the first segment is represented; a second
// segment is never consulted.
func (t *Transformer) OneWay(ctx context.Context, results []travelpayouts.SearchResult) []dto.Flight {
	return t.transform(ctx, results, tripOneWay)
}

// RoundTrip normalizes only proposals with exactly two segments, so
// every emitted record is a true onward+return pair. The combined fare
// is converted once; per-leg halving is a presentation concern.
func (t *Transformer) RoundTrip(ctx context.Context, results []travelpayouts.SearchResult) []dto.Flight {
	return t.transform(ctx, results, tripRoundTrip)
}

func (t *Transformer) transform(ctx context.Context, results []travelpayouts.SearchResult, shape tripShape) []dto.Flight {
	// one rate table shared across all proposals of this invocation
	rates := t.converter.Rates(ctx)
	sessionID := travelpayouts.SessionID(results)

	flights := make([]dto.Flight, 0, travelpayouts.CountProposals(results))

	for _, item := range results {
		for _, proposal := range item.Proposals {
			termKey, term, ok := proposal.FirstTerm()
			if !ok || term.Price == 0 {
				continue
			}

			if len(proposal.Segment) == 0 {
				continue
			}

			if shape == tripRoundTrip && len(proposal.Segment) != 2 {
				continue
			}

			amount := t.converter.Convert(term.Price, term.Currency, rates)

			flight := dto.Flight{
				Airline: proposal.Airline(),
				Price: dto.Price{
					Amount:    amount,
					Currency:  t.converter.Base(),
					Formatted: formatPrice(amount, t.converter.Base()),
				},
				Booking: &dto.BookingReference{
					SearchID: sessionID,
					TermURL:  term.URLFragment(termKey),
				},
			}

			switch shape {
			case tripOneWay:
				// first leg only: a multi-leg itinerary shows the first
				// hop's origin and that same leg's arrival
				legs := proposal.Segment[0].Flight
				if len(legs) > 1 {
					legs = legs[:1]
				}
				applySpan(&flight, segmentSpan(legs))

			case tripRoundTrip:
				onward := segmentSpan(proposal.Segment[0].Flight)
				inbound := segmentSpan(proposal.Segment[1].Flight)

				applySpan(&flight, onward)
				flight.IsRoundTrip = true
				flight.Onward = onward.leg()
				flight.Return = inbound.leg()
			}

			flights = append(flights, flight)
		}
	}

	return SortByPrice(flights)
}

// span is the displayed journey of one segment: first leg's departure
// through last leg's arrival, displayed under the first leg's number.
type span struct {
	origin       string
	destination  string
	departureAt  string
	arrivalAt    string
	flightNumber string
}

func segmentSpan(legs []travelpayouts.FlightLeg) span {
	if len(legs) == 0 {
		return span{flightNumber: "N/A"}
	}

	first := legs[0]
	last := legs[len(legs)-1]

	number := first.Number
	if number == "" {
		number = "N/A"
	}

	return span{
		origin:       first.Departure,
		destination:  last.Arrival,
		departureAt:  utils.JoinDateTime(first.DepartureDate, first.DepartureTime),
		arrivalAt:    utils.JoinDateTime(last.ArrivalDate, last.ArrivalTime),
		flightNumber: number,
	}
}

func (s span) leg() *dto.FlightLeg {
	return &dto.FlightLeg{
		Origin:       s.origin,
		Destination:  s.destination,
		DepartureAt:  s.departureAt,
		ArrivalAt:    s.arrivalAt,
		FlightNumber: s.flightNumber,
	}
}

func applySpan(flight *dto.Flight, s span) {
	flight.Origin = s.origin
	flight.Destination = s.destination
	flight.DepartureAt = s.departureAt
	flight.ArrivalAt = s.arrivalAt
	flight.FlightNumber = s.flightNumber
}

func formatPrice(amount float64, base string) string {
	if base == "INR" {
		return utils.FormatINR(amount)
	}

	return fmt.Sprintf("%s %.0f", base, amount)
}
