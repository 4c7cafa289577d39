// Package booking resolves booking references into live agency redirect
// links via the provider's clicks API.
package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mytrippers/flight-search-service/internal/pkg/exception"
)

// Link is the clicks-API answer for one agency offer. GET links redirect
// by location change; POST links require replaying Params as a form.
type Link struct {
	URL     string         `json:"url"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
	ClickID int64          `json:"click_id"`
	GateID  int64          `json:"gate_id"`
}

var ErrLinkUnavailable = exception.ApplicationError{
	StatusCode: http.StatusNotFound,
	Message:    "booking link not available",
}

type Client struct {
	baseURL string
	marker  string
	client  *http.Client
}

func NewClient(baseURL, marker string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		marker:  marker,
		client:  &http.Client{Timeout: timeout},
	}
}

// GenerateLink asks the clicks API for the live redirect belonging to a
// search session and term url fragment. Links expire together with the
// provider session, so callers should resolve them close to redirect
// time.
func (c *Client) GenerateLink(ctx context.Context, searchID, termURL string) (Link, error) {
	endpoint := fmt.Sprintf("%s/%s/clicks/%s.json?marker=%s",
		c.baseURL, url.PathEscape(searchID), url.PathEscape(termURL), url.QueryEscape(c.marker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Link{}, fmt.Errorf("build clicks request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Link{}, fmt.Errorf("request booking link: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Link{}, exception.ApplicationError{
			StatusCode: http.StatusBadGateway,
			Message:    fmt.Sprintf("clicks endpoint returned status %d", resp.StatusCode),
		}
	}

	var link Link
	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return Link{}, fmt.Errorf("decode booking link: %w", err)
	}

	if link.URL == "" {
		return Link{}, ErrLinkUnavailable
	}

	return link, nil
}
