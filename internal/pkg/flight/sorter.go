package flight

import (
	"sort"

	"github.com/mytrippers/flight-search-service/internal/app/dto"
)

// SortByPrice orders flights by converted fare, cheapest first. Keeping
// every transform's output sorted the same way makes successive
// streaming snapshots consistent for the consumer.
func SortByPrice(flights []dto.Flight) []dto.Flight {
	sort.SliceStable(flights, func(i, j int) bool {
		return flights[i].Price.Amount < flights[j].Price.Amount
	})

	return flights
}
