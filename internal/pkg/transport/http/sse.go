package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mytrippers/flight-search-service/internal/pkg/exception"
)

// SSEWriter streams server-sent events over a flushable response writer.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// ErrStreamingUnsupported is returned when the response writer cannot flush.
var ErrStreamingUnsupported = exception.ApplicationError{
	Message:    "streaming unsupported",
	StatusCode: http.StatusInternalServerError,
}

// NewSSEWriter prepares the response for server-sent events and returns a writer for them.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// Send marshals the event payload and flushes it to the client immediately.
func (s *SSEWriter) Send(event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	s.flusher.Flush()

	return nil
}
