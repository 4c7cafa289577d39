package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-kit/kit/endpoint"
)

// DecodeRequestFunc extracts a typed request from the incoming HTTP request.
type DecodeRequestFunc func(ctx context.Context, r *http.Request) (interface{}, error)

// EncodeResponseFunc writes the endpoint response to the client.
type EncodeResponseFunc func(ctx context.Context, w http.ResponseWriter, response interface{}) error

// DecodeRequest binds and validates the request body into a fresh T.
// T must implement render.Binder.
func DecodeRequest[T any](_ context.Context, r *http.Request) (interface{}, error) {
	request := new(T)

	binder, ok := any(request).(render.Binder)
	if !ok {
		return nil, fmt.Errorf("request type %T does not implement render.Binder", request)
	}

	if err := render.Bind(r, binder); err != nil {
		return nil, fmt.Errorf("bind request: %w", err)
	}

	return request, nil
}

// MakeHandlerFunc glues a decoder, an endpoint and an encoder into a plain http.HandlerFunc.
func MakeHandlerFunc(
	endpt endpoint.Endpoint,
	decoder DecodeRequestFunc,
	encoder EncodeResponseFunc,
) http.HandlerFunc {
	return func(respWriter http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		request, err := decoder(ctx, req)
		if err != nil {
			ErrorResponse(ctx, err, respWriter)

			return
		}

		response, err := endpt(ctx, request)
		if err != nil {
			ErrorResponse(ctx, err, respWriter)

			return
		}

		if err := encoder(ctx, respWriter, response); err != nil {
			ErrorResponse(ctx, err, respWriter)
		}
	}
}
