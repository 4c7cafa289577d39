package travelpayouts

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mytrippers/flight-search-service/internal/app/dto"
)

// stubTransformer maps every proposal to one flight so tests can count
// outputs without exercising the normalization pipeline.
type stubTransformer struct{}

func (stubTransformer) OneWay(_ context.Context, results []SearchResult) []dto.Flight {
	return stubFlights(results)
}

func (stubTransformer) RoundTrip(_ context.Context, results []SearchResult) []dto.Flight {
	return stubFlights(results)
}

func stubFlights(results []SearchResult) []dto.Flight {
	flights := make([]dto.Flight, 0, CountProposals(results))
	for _, group := range results {
		for _, proposal := range group.Proposals {
			flights = append(flights, dto.Flight{Airline: proposal.Airline()})
		}
	}

	return flights
}

func oneWayCriteria() dto.SearchCriteria {
	return dto.SearchCriteria{
		Origin:        "DEL",
		Destination:   "BOM",
		DepartureDate: "2025-03-10",
		Adults:        1,
	}
}

func newTestProvider(t *testing.T, submitHandler, pollHandler http.HandlerFunc) (*Provider, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/flight_search", submitHandler)
	mux.HandleFunc("/flight_search_results", pollHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	provider := NewProvider(Config{
		Token:           "secret",
		Marker:          "282220",
		Host:            "beta.example.com",
		SearchAPIURL:    server.URL + "/flight_search",
		ResultsAPIURL:   server.URL + "/flight_search_results",
		Timeout:         5 * time.Second,
		PollMaxAttempts: 3,
		PollInterval:    time.Millisecond,
		StreamWarmup:    time.Millisecond,
	}, stubTransformer{}, nil)

	return provider, server
}

func submitOK(sessionID string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"search_id":%q}`, sessionID)
	}
}

func TestRunSearch_ReturnsResults(t *testing.T) {
	var polls atomic.Int32

	provider, _ := newTestProvider(t, submitOK("sess-1"),
		func(w http.ResponseWriter, r *http.Request) {
			polls.Add(1)
			assert.Equal(t, "sess-1", r.URL.Query().Get("uuid"))
			fmt.Fprint(w, `[{"search_id":"sess-1","proposals":[{"carriers":["AI"]},{"carriers":["6E"]}]}]`)
		})

	results, err := provider.RunSearch(context.Background(), oneWayCriteria())
	require.NoError(t, err)

	assert.Equal(t, int32(1), polls.Load())
	assert.Equal(t, "sess-1", SessionID(results))
	assert.Equal(t, 2, CountProposals(results))
}

func TestRunSearch_ExhaustsAttempts(t *testing.T) {
	var polls atomic.Int32

	provider, _ := newTestProvider(t, submitOK("sess-2"),
		func(w http.ResponseWriter, _ *http.Request) {
			polls.Add(1)
			fmt.Fprint(w, `[]`)
		})

	_, err := provider.RunSearch(context.Background(), oneWayCriteria())

	assert.ErrorIs(t, err, ErrNoResults)
	assert.Equal(t, int32(3), polls.Load())
}

func TestRunSearch_SessionOnlyStopsEarly(t *testing.T) {
	var polls atomic.Int32

	provider, _ := newTestProvider(t, submitOK("sess-3"),
		func(w http.ResponseWriter, _ *http.Request) {
			polls.Add(1)
			fmt.Fprint(w, `{"search_id":"sess-3"}`)
		})

	_, err := provider.RunSearch(context.Background(), oneWayCriteria())

	assert.ErrorIs(t, err, ErrNoResults)
	assert.Equal(t, int32(1), polls.Load())
}

func TestRunSearch_ProviderErrorField(t *testing.T) {
	provider, _ := newTestProvider(t, submitOK("sess-4"),
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"error":"signature mismatch"}`)
		})

	_, err := provider.RunSearch(context.Background(), oneWayCriteria())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature mismatch")
}

func TestRunSearch_SubmitWithoutSessionID(t *testing.T) {
	provider, _ := newTestProvider(t,
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{}`)
		},
		func(w http.ResponseWriter, _ *http.Request) {
			t.Error("poll must not run when submit fails")
		})

	_, err := provider.RunSearch(context.Background(), oneWayCriteria())

	assert.ErrorIs(t, err, ErrInitFailure)
}

func TestRunSearch_SubmitRejected(t *testing.T) {
	provider, _ := newTestProvider(t,
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		},
		func(w http.ResponseWriter, _ *http.Request) {
			t.Error("poll must not run when submit fails")
		})

	_, err := provider.RunSearch(context.Background(), oneWayCriteria())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestRunSearch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	provider, _ := newTestProvider(t, submitOK("sess-5"),
		func(w http.ResponseWriter, _ *http.Request) {
			cancel()
			fmt.Fprint(w, `[]`)
		})

	_, err := provider.RunSearch(ctx, oneWayCriteria())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifyPollBody(t *testing.T) {
	classifyRequest := func(body string, wantOutcome pollOutcome, wantErr bool) func(t *testing.T) {
		return func(t *testing.T) {
			outcome, _, err := classifyPollBody([]byte(body))
			if wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, wantOutcome, outcome)
		}
	}

	t.Run("empty_array", classifyRequest(`[]`, pollEmpty, false))
	t.Run("results_array", classifyRequest(`[{"proposals":[{}]}]`, pollResults, false))
	t.Run("session_only_search_id", classifyRequest(`{"search_id":"abc"}`, pollSessionOnly, false))
	t.Run("session_only_uuid", classifyRequest(`{"uuid":"abc"}`, pollSessionOnly, false))
	t.Run("session_id_with_extra_keys", classifyRequest(`{"search_id":"abc","meta":1}`, pollEmpty, false))
	t.Run("error_object", classifyRequest(`{"error":"boom"}`, pollEmpty, true))
	t.Run("malformed", classifyRequest(`{"search_id"`, pollEmpty, true))
}
