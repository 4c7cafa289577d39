package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mytrippers/flight-search-service/internal/app/dto"
	"github.com/mytrippers/flight-search-service/internal/app/endpoints"
	"github.com/mytrippers/flight-search-service/internal/app/service"
	"github.com/mytrippers/flight-search-service/internal/pkg/booking"
	httptransport "github.com/mytrippers/flight-search-service/internal/pkg/transport/http"
)

// MakeHTTPRouter builds the HTTP router with all the service endpoints.
func MakeHTTPRouter(
	endpts endpoints.Endpoints,
	svc *service.FlightService,
) *chi.Mux {
	// Initialize Router
	router := chi.NewRouter()

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1/flights", func(router chi.Router) {
		router.Use(
			httptransport.RequestID(),
			httptransport.CORSMiddleware(),
			httptransport.Recoverer(slog.Default()),
			render.SetContentType(render.ContentTypeJSON),
		)

		router.Post("/search", httptransport.MakeHandlerFunc(
			endpts.SearchFlights,
			httptransport.DecodeRequest[dto.SearchCriteria],
			httptransport.ResponseWithBody,
		))

		router.Get("/search", httptransport.MakeHandlerFunc(
			endpts.SearchFlights,
			decodeSearchQuery,
			httptransport.ResponseWithBody,
		))

		router.Get("/search/stream", streamSearchHandler(svc))

		router.Post("/details", httptransport.MakeHandlerFunc(
			endpts.FlightDetails,
			httptransport.DecodeRequest[dto.FlightDetailsRequest],
			httptransport.ResponseWithBody,
		))
	})

	router.Route("/api/v1/booking", func(router chi.Router) {
		router.Use(
			httptransport.RequestID(),
			httptransport.CORSMiddleware(),
			httptransport.Recoverer(slog.Default()),
		)

		router.Post("/generate-url", httptransport.MakeHandlerFunc(
			endpts.GenerateBookingLink,
			httptransport.DecodeRequest[dto.BookingLinkRequest],
			httptransport.ResponseWithBody,
		))

		router.Get("/redirect", redirectHandler(svc))
	})

	return router
}

func decodeSearchQuery(_ context.Context, r *http.Request) (interface{}, error) {
	return dto.SearchCriteriaFromQuery(r.URL.Query())
}

// streamSearchHandler delivers search progress as server-sent events.
// The connection is held open until the terminal complete or error
// event, or until the client goes away.
func streamSearchHandler(svc *service.FlightService) http.HandlerFunc {
	return func(respWriter http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		criteria, err := dto.SearchCriteriaFromQuery(req.URL.Query())
		if err != nil {
			httptransport.ErrorResponse(ctx, err, respWriter)

			return
		}

		events, err := svc.SearchFlightsStream(ctx, *criteria)
		if err != nil {
			httptransport.ErrorResponse(ctx, err, respWriter)

			return
		}

		writer, err := httptransport.NewSSEWriter(respWriter)
		if err != nil {
			httptransport.ErrorResponse(ctx, err, respWriter)

			return
		}

		if err := writer.Send(dto.StreamEvent{
			Type:      dto.StreamEventConnected,
			Timestamp: time.Now().Format(time.RFC3339),
		}); err != nil {
			slog.WarnContext(ctx, "client dropped before first event", slog.Any("error", err))

			return
		}

		for event := range events {
			event.Timestamp = time.Now().Format(time.RFC3339)

			if err := writer.Send(event); err != nil {
				slog.WarnContext(ctx, "client dropped mid stream", slog.Any("error", err))

				return
			}

			if event.Type == dto.StreamEventComplete || event.Type == dto.StreamEventError {
				return
			}
		}
	}
}

// redirectHandler serves the interstitial page that forwards the user
// to the agency, firing the click tracking pixel on the way out.
func redirectHandler(svc *service.FlightService) http.HandlerFunc {
	return func(respWriter http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		searchID := req.URL.Query().Get("search_id")
		termURL := req.URL.Query().Get("term_url")

		request := dto.BookingLinkRequest{SearchID: searchID, TermURL: termURL}
		if err := request.Bind(req); err != nil {
			httptransport.ErrorResponse(ctx, err, respWriter)

			return
		}

		link, err := svc.Booking.GenerateLink(ctx, searchID, termURL)
		if err != nil {
			httptransport.ErrorResponse(ctx, err, respWriter)

			return
		}

		respWriter.Header().Set("Content-Type", "text/html; charset=utf-8")

		if err := booking.WriteRedirectPage(respWriter, link); err != nil {
			slog.ErrorContext(ctx, "failed to render redirect page", slog.Any("error", err))
		}
	}
}
