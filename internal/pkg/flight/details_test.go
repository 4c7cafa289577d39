package flight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mytrippers/flight-search-service/internal/pkg/flightprovider/travelpayouts"
)

func detailsFixture() []travelpayouts.SearchResult {
	return []travelpayouts.SearchResult{{
		SearchID: "sess-1",
		Proposals: []travelpayouts.Proposal{{
			Carriers:          []string{"AI"},
			ValidatingCarrier: "AI",
			Segment: []travelpayouts.Segment{
				{Flight: []travelpayouts.FlightLeg{
					{
						Departure:         "DEL",
						Arrival:           "BOM",
						DepartureDate:     "2025-03-10",
						DepartureTime:     "06:45",
						ArrivalDate:       "2025-03-10",
						ArrivalTime:       "08:55",
						Number:            "AI-864",
						DepartureTerminal: "3",
						Aircraft:          "A321",
						OperatingCarrier:  "AI",
						FareBasis:         "UU1YXRBI",
						Duration:          130,
						SeatsRemaining:    4,
						Meal:              "snack",
						Wifi:              true,
					},
					{
						Departure: "BOM",
						Arrival:   "GOI",
						Number:    "AI-662",
					},
				}},
				{Flight: []travelpayouts.FlightLeg{{
					Departure: "GOI",
					Arrival:   "DEL",
					Number:    "AI-881",
				}}},
			},
			Terms: map[string]travelpayouts.Term{"12": {
				Currency:        "RUB",
				Price:           19000,
				UnifiedPrice:    19500,
				URL:             120001,
				FlightsHandbags: [][]string{{"10 kg", "20 kg"}, {"", "20 kg"}},
				BaggageInfo:     "extra fees may apply",
			}},
		}},
	}}
}

func TestExtractDetails(t *testing.T) {
	details := ExtractDetails(detailsFixture(), 0, 0)
	require.NotNil(t, details)

	assert.Equal(t, "AI", details.Airline)
	assert.Equal(t, "AI", details.ValidatingCarrier)

	require.NotNil(t, details.Pricing)
	assert.Equal(t, float64(19000), details.Pricing.Price)
	assert.Equal(t, "RUB", details.Pricing.Currency)
	assert.Equal(t, travelpayouts.RedirectBaseURL+"120001", details.Pricing.BookingURL)

	require.Len(t, details.Segments, 2)
	require.Len(t, details.Segments[0].Flights, 2)

	first := details.Segments[0].Flights[0]
	assert.Equal(t, "AI-864", first.FlightNumber)
	assert.Equal(t, "DEL", first.Departure.Airport)
	assert.Equal(t, "3", first.Departure.Terminal)
	assert.Equal(t, 130, first.DurationMinutes)
	assert.Equal(t, 4, first.SeatsRemaining)
	assert.Equal(t, []string{"meal", "wifi"}, first.Amenities)

	require.NotNil(t, details.Baggage)
	assert.Equal(t, []string{"10 kg", "N/A"}, details.Baggage.CabinBaggage)
	assert.Equal(t, []string{"20 kg", "20 kg"}, details.Baggage.CheckedBaggage)
	assert.Equal(t, "extra fees may apply", details.Baggage.AdditionalInfo)

	assert.Equal(t, 2, details.Metadata.TotalSegments)
	assert.True(t, details.Metadata.IsRoundTrip)
	assert.True(t, details.Metadata.HasMultipleFlights)
}

func TestExtractDetails_OutOfRange(t *testing.T) {
	results := detailsFixture()

	extractRequest := func(proposalIndex, itemIndex int) func(t *testing.T) {
		return func(t *testing.T) {
			assert.Nil(t, ExtractDetails(results, proposalIndex, itemIndex))
		}
	}

	t.Run("item_past_end", extractRequest(0, 1))
	t.Run("negative_item", extractRequest(0, -1))
	t.Run("proposal_past_end", extractRequest(5, 0))
	t.Run("negative_proposal", extractRequest(-1, 0))
}

func TestExtractDetails_BaggageDefaults(t *testing.T) {
	results := []travelpayouts.SearchResult{{
		Proposals: []travelpayouts.Proposal{{
			Segment: []travelpayouts.Segment{{}},
			Terms:   map[string]travelpayouts.Term{"12": {Currency: "RUB", Price: 100}},
		}},
	}}

	details := ExtractDetails(results, 0, 0)
	require.NotNil(t, details)
	require.NotNil(t, details.Baggage)

	assert.Equal(t, []string{defaultCabinBaggage}, details.Baggage.CabinBaggage)
	assert.Equal(t, []string{defaultCheckedBaggage}, details.Baggage.CheckedBaggage)
}

func TestExtractDetails_NoTerms(t *testing.T) {
	results := []travelpayouts.SearchResult{{
		Proposals: []travelpayouts.Proposal{{
			Segment: []travelpayouts.Segment{{}},
		}},
	}}

	details := ExtractDetails(results, 0, 0)
	require.NotNil(t, details)

	assert.Nil(t, details.Pricing)
	assert.Nil(t, details.Baggage)
	assert.Equal(t, "Unknown", details.Airline)
}
