package flightprovider

import (
	"context"

	"github.com/mytrippers/flight-search-service/internal/app/dto"
)

// FlightProvider is the contract an async flight-pricing provider
// integration satisfies. Search blocks until the provider's poll loop
// resolves; Stream delivers partial then final normalized results as a
// channel of typed events and stops producing when ctx is cancelled;
// Details re-runs the search and extracts the deep view of one chosen
// itinerary, returning nil details on a stale coordinate.
type FlightProvider interface {
	Search(ctx context.Context, criteria dto.SearchCriteria) ([]dto.Flight, error)
	Stream(ctx context.Context, criteria dto.SearchCriteria) <-chan dto.StreamEvent
	Details(ctx context.Context, criteria dto.SearchCriteria, proposalIndex, itemIndex int) (*dto.EnhancedDetails, error)
}

// Registry holds the registered providers. A single provider is wired
// today; the registry is the extension point for additional ones.
type Registry struct {
	providers map[string]FlightProvider
	order     []string
}

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]FlightProvider),
	}
}

func (r *Registry) AddProvider(name string, provider FlightProvider) {
	if _, ok := r.providers[name]; !ok {
		r.order = append(r.order, name)
	}

	r.providers[name] = provider
}

func (r *Registry) GetProvider(name string) FlightProvider {
	return r.providers[name]
}

// Primary returns the first registered provider.
func (r *Registry) Primary() (string, FlightProvider) {
	if len(r.order) == 0 {
		return "", nil
	}

	name := r.order[0]

	return name, r.providers[name]
}

// Names returns provider names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)

	return names
}
